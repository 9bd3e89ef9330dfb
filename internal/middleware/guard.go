package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bistro_back_end/internal/metrics"
)

const (
	msgUnauthorized = "unauthorized access"
	msgForbidden    = "forbidden access"
	msgInternal     = "internal server error"
)

// Decision est le résultat d'une vérification : Allow, ou un refus avec statut et raison.
// La raison est journalisée, jamais renvoyée au client.
type Decision struct {
	Allow  bool
	Status int
	Reason string
}

func Allow() Decision {
	return Decision{Allow: true}
}

func Unauthorized(reason string) Decision {
	return Decision{Status: http.StatusUnauthorized, Reason: reason}
}

func Forbidden(reason string) Decision {
	return Decision{Status: http.StatusForbidden, Reason: reason}
}

func Failed(reason string) Decision {
	return Decision{Status: http.StatusInternalServerError, Reason: reason}
}

// Check est une vérification de capacité appliquée avant le handler.
type Check func(c *gin.Context) Decision

// Guard exécute les vérifications dans l'ordre ; le premier refus interrompt la requête.
func Guard(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, check := range checks {
			d := check(c)
			if d.Allow {
				continue
			}
			status := d.Status
			if status == 0 {
				status = http.StatusForbidden
			}
			ev := zerolog.Ctx(c.Request.Context()).Debug()
			if status >= http.StatusInternalServerError {
				ev = zerolog.Ctx(c.Request.Context()).Error()
			}
			ev.Int("status", status).Str("reason", d.Reason).Str("path", c.FullPath()).Msg("request denied")
			metrics.AccessDenied.WithLabelValues(strconv.Itoa(status)).Inc()

			c.AbortWithStatusJSON(status, gin.H{"error": denyMessage(status)})
			return
		}
		c.Next()
	}
}

func denyMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return msgUnauthorized
	case http.StatusForbidden:
		return msgForbidden
	default:
		return msgInternal
	}
}
