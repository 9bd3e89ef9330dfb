package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bistro_back_end/internal/models"
	"bistro_back_end/internal/validation"
)

// ListCartItems : l'égalité email/token est vérifiée par le guard OwnsEmail.
func (h *Handler) ListCartItems(c *gin.Context) {
	email := c.Query("email")

	ctx, cancel := h.callContext(c)
	defer cancel()

	items, err := h.Carts.ListCartItems(ctx, email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateCartItem(c *gin.Context) {
	var item models.CartItem
	if err := bind(c, &item); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.Carts.CreateCartItem(ctx, item)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteCartItem : un id inconnu répond deletedCount 0.
func (h *Handler) DeleteCartItem(c *gin.Context) {
	id, err := validation.ObjectID("id", c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.Carts.DeleteCartItem(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
