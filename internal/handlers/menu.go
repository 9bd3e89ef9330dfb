package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_back_end/internal/middleware"
	"bistro_back_end/internal/models"
	"bistro_back_end/internal/validation"
)

func (h *Handler) ListMenu(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	items, err := h.Menu.ListMenu(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetMenuItem(c *gin.Context) {
	id, err := validation.ObjectID("id", c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	item, err := h.Menu.GetMenuItem(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) SearchMenu(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" || len(q) > 100 {
		h.fail(c, validation.Field("q", "required,max=100"))
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	items, err := h.Search.Search(ctx, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := bind(c, &item); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.Menu.CreateMenuItem(ctx, item)
	if err != nil {
		h.fail(c, err)
		return
	}
	item.ID = *res.InsertedID
	h.reindex(ctx, item)

	c.Set(middleware.AuditResourceIDKey, item.ID.Hex())
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, err := validation.ObjectID("id", c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	var patch models.MenuItemPatch
	if err := bind(c, &patch); err != nil {
		h.fail(c, err)
		return
	}
	if patch.Empty() {
		h.fail(c, validation.Field("body", "min=1"))
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.Menu.UpdateMenuItem(ctx, id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	if res.ModifiedCount > 0 {
		if item, err := h.Menu.GetMenuItem(ctx, id); err == nil {
			h.reindex(ctx, *item)
		}
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, err := validation.ObjectID("id", c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.Menu.DeleteMenuItem(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if res.DeletedCount > 0 {
		h.unindex(ctx, id)
	}
	c.JSON(http.StatusOK, res)
}

// L'index de recherche est secondaire : un échec est journalisé, pas renvoyé.
func (h *Handler) reindex(ctx context.Context, item models.MenuItem) {
	if err := h.Index.Index(ctx, item); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("menu_id", item.ID.Hex()).Msg("⚠️ menu indexing failed")
	}
}

func (h *Handler) unindex(ctx context.Context, id primitive.ObjectID) {
	if err := h.Index.Remove(ctx, id); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("menu_id", id.Hex()).Msg("⚠️ menu index removal failed")
	}
}
