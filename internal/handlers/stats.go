package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bistro_back_end/internal/models"
)

// AdminStats : compteurs globaux, revenue vaut 0 sans paiement.
func (h *Handler) AdminStats(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	var (
		stats models.AdminStats
		err   error
	)
	if stats.Users, err = h.Users.CountUsers(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.MenuItems, err = h.Menu.CountMenuItems(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.Orders, err = h.Payments.CountPayments(ctx); err != nil {
		h.fail(c, err)
		return
	}
	if stats.Revenue, err = h.Payments.TotalRevenue(ctx); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) OrderStats(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	stats, err := h.Payments.OrderStats(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
