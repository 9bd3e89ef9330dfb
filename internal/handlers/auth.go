package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bistro_back_end/internal/validation"
)

// IssueToken : POST /jwt, tous les champs du corps deviennent des claims.
func (h *Handler) IssueToken(c *gin.Context) {
	var claims map[string]any
	if err := c.ShouldBindJSON(&claims); err != nil {
		h.fail(c, validation.Field("body", "json"))
		return
	}
	email, _ := claims["email"].(string)
	if err := validation.Email("email", email); err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.Tokens.Issue(claims)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
