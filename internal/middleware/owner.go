package middleware

import "github.com/gin-gonic/gin"

// EmailSource extrait l'email propriétaire de la ressource demandée.
type EmailSource func(c *gin.Context) string

func QueryEmail(name string) EmailSource {
	return func(c *gin.Context) string { return c.Query(name) }
}

func PathEmail(name string) EmailSource {
	return func(c *gin.Context) string { return c.Param(name) }
}

// OwnsEmail refuse (403) quand l'email de la ressource est absent ou différent de celui du token.
// Aucun filtrage silencieux.
func OwnsEmail(source EmailSource) Check {
	return func(c *gin.Context) Decision {
		caller := CallerEmail(c)
		if caller == "" {
			return Unauthorized("ownership check without authenticated identity")
		}
		owner := source(c)
		if owner == "" {
			return Forbidden("resource email missing")
		}
		if owner != caller {
			return Forbidden("resource email does not match token")
		}
		return Allow()
	}
}
