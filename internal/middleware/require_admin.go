package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"bistro_back_end/internal/database"
	"bistro_back_end/internal/models"
)

type UserLookup interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AdminRole vérifie en base que l'utilisateur authentifié a le rôle "admin".
// Doit être placé après Authenticated.
func AdminRole(users UserLookup) Check {
	return func(c *gin.Context) Decision {
		email := CallerEmail(c)
		if email == "" {
			return Unauthorized("admin check without authenticated identity")
		}
		user, err := users.FindUserByEmail(c.Request.Context(), email)
		if errors.Is(err, database.ErrNotFound) {
			return Forbidden("no user record for " + email)
		}
		if err != nil {
			return Failed("admin lookup: " + err.Error())
		}
		if !user.IsAdmin() {
			return Forbidden("user is not admin")
		}
		return Allow()
	}
}
