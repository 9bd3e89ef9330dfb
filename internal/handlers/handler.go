package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bistro_back_end/internal/auth"
	"bistro_back_end/internal/database"
	"bistro_back_end/internal/services"
	"bistro_back_end/internal/validation"
)

type TokenIssuer interface {
	Issue(claims map[string]any) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps regroupe les dépendances injectées dans les handlers.
// Gateway, Images et Receipts sont optionnels (nil = non configuré).
type Deps struct {
	Users    database.UserStore
	Menu     database.MenuStore
	Reviews  database.ReviewStore
	Carts    database.CartStore
	Payments database.PaymentStore
	DB       Pinger

	Tokens   TokenIssuer
	Gateway  services.PaymentGateway
	Search   services.MenuSearcher
	Index    services.MenuIndexer
	Images   services.ImageStore
	Receipts services.ReceiptSender

	Currency      string
	WebhookSecret string
	CallTimeout   time.Duration
}

type Handler struct {
	Deps
}

func New(d Deps) *Handler {
	if d.Currency == "" {
		d.Currency = "usd"
	}
	if d.CallTimeout <= 0 {
		d.CallTimeout = 10 * time.Second
	}
	if d.Index == nil {
		d.Index = services.NopIndexer{}
	}
	if d.Search == nil && d.Menu != nil {
		d.Search = services.NewStoreSearch(d.Menu)
	}
	return &Handler{Deps: d}
}

// callContext borne chaque appel externe par CallTimeout.
func (h *Handler) callContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.CallTimeout)
}

// bind décode le corps JSON puis applique les tags `validate`.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return validation.Field("body", "json")
	}
	return validation.Struct(dst)
}

// fail traduit une erreur en réponse JSON ; seules les 5xx sont journalisées en erreur.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
	case auth.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("❌ request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
