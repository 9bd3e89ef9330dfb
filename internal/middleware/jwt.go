package middleware

import (
	"github.com/gin-gonic/gin"

	"bistro_back_end/internal/auth"
)

const identityKey = "identity"

type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// Authenticated exige un header "Authorization: Bearer <token>" valide.
// En cas de succès l'identité est placée dans le contexte gin.
func Authenticated(tokens TokenVerifier) Check {
	return func(c *gin.Context) Decision {
		raw, err := auth.TokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			return Unauthorized("missing or malformed authorization header")
		}
		identity, err := tokens.Verify(raw)
		if err != nil {
			return Unauthorized(err.Error())
		}
		c.Set(identityKey, identity)
		return Allow()
	}
}

// IdentityFrom renvoie l'identité posée par Authenticated.
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok && identity != nil
}

// CallerEmail renvoie l'email authentifié, vide si la route n'est pas protégée.
func CallerEmail(c *gin.Context) string {
	identity, ok := IdentityFrom(c)
	if !ok {
		return ""
	}
	return identity.Email
}
