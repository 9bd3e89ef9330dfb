package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bistro_back_end/internal/audit"
)

type AuditLogger interface {
	Log(e audit.Entry)
}

// AuditAction enregistre l'action après traitement, succès ou échec.
func AuditAction(recorder AuditLogger, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		entry := audit.Entry{
			UserEmail:  CallerEmail(c),
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID(c),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			RequestID:  c.Writer.Header().Get(requestIDHeader),
			Status:     status,
			Success:    status >= http.StatusOK && status < http.StatusMultipleChoices,
		}
		if !entry.Success && len(c.Errors) > 0 {
			entry.ErrorMsg = c.Errors.Last().Error()
		}
		recorder.Log(entry)
	}
}

// resourceID : paramètre de chemin, sinon id posé par le handler (création).
func resourceID(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return c.GetString(AuditResourceIDKey)
}

// AuditResourceIDKey permet au handler de transmettre l'id créé.
const AuditResourceIDKey = "audit_resource_id"
