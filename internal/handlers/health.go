package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Bistro Boss is Sitting")
}

// Ready vérifie la connexion à la base.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
