package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"

	"bistro_back_end/internal/services"
)

const maxWebhookBody = 65536

// StripeWebhook vérifie la signature Stripe-Signature puis journalise les événements payment_intent.*.
func (h *Handler) StripeWebhook(c *gin.Context) {
	if h.WebhookSecret == "" {
		h.fail(c, services.ErrNotConfigured)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("⚠️ invalid stripe webhook signature")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	logger := zerolog.Ctx(c.Request.Context()).With().Str("event_id", event.ID).Str("event_type", string(event.Type)).Logger()

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			logger.Error().Err(err).Msg("❌ stripe payment intent decode failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		logger.Info().
			Str("payment_intent", pi.ID).
			Int64("amount", pi.Amount).
			Str("email", pi.Metadata["email"]).
			Msg("💳 payment intent event")
	default:
		logger.Debug().Msg("stripe event ignored")
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
