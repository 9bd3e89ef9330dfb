package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bistro_back_end/internal/models"
)

func (h *Handler) ListReviews(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	reviews, err := h.Reviews.ListReviews(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// CreateReview : avis en ajout seul, non lié à l'identité du token.
func (h *Handler) CreateReview(c *gin.Context) {
	var review models.Review
	if err := bind(c, &review); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.Reviews.CreateReview(ctx, review)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
