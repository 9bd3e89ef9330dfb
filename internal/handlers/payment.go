package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bistro_back_end/internal/metrics"
	"bistro_back_end/internal/middleware"
	"bistro_back_end/internal/models"
	"bistro_back_end/internal/services"
	"bistro_back_end/internal/validation"
)

type intentRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

type recordPaymentResponse struct {
	PaymentResult models.InsertResult `json:"paymentResult"`
	DeleteResult  models.DeleteResult `json:"deleteResult"`
}

// CreatePaymentIntent : POST /create-payment-intent, montant = round(price × 100).
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req intentRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	amount, err := services.AmountInMinorUnits(req.Price)
	if err != nil {
		h.fail(c, validation.Field("price", "gt=0"))
		return
	}
	if h.Gateway == nil {
		h.fail(c, services.ErrNotConfigured)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	intent, err := h.Gateway.CreatePaymentIntent(ctx, amount, h.Currency, map[string]string{
		"email": middleware.CallerEmail(c),
	})
	if err != nil {
		metrics.PaymentIntentsCreated.WithLabelValues("error").Inc()
		h.fail(c, err)
		return
	}
	metrics.PaymentIntentsCreated.WithLabelValues("created").Inc()
	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

// RecordPayment enregistre le paiement puis vide les lignes de panier payées.
// Un échec du nettoyage n'annule pas le paiement : il est signalé dans deleteResult.
func (h *Handler) RecordPayment(c *gin.Context) {
	var payment models.Payment
	if err := bind(c, &payment); err != nil {
		h.fail(c, err)
		return
	}
	if payment.Status == "" {
		payment.Status = models.PaymentSucceeded
	}
	// le reçu lit la date sur cette copie, pas sur celle de la base
	payment.Date = time.Now().UTC()

	ctx, cancel := h.callContext(c)
	defer cancel()

	inserted, err := h.Payments.CreatePayment(ctx, payment)
	if err != nil {
		h.fail(c, err)
		return
	}
	metrics.PaymentsRecorded.Inc()
	payment.ID = *inserted.InsertedID
	c.Set(middleware.AuditResourceIDKey, payment.ID.Hex())

	deleted, err := h.Carts.DeleteCartItems(ctx, payment.CartItemIDs)
	if err != nil {
		metrics.CartCleanupFailures.Inc()
		zerolog.Ctx(ctx).Error().Err(err).Str("payment_id", payment.ID.Hex()).Msg("❌ cart cleanup failed")
		deleted = models.DeleteResult{Error: "cart cleanup failed"}
	}

	h.sendReceipt(c.Request.Context(), payment)

	c.JSON(http.StatusOK, recordPaymentResponse{PaymentResult: inserted, DeleteResult: deleted})
}

// ListPayments : historique de l'appelant, du plus récent au plus ancien.
func (h *Handler) ListPayments(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	payments, err := h.Payments.ListPaymentsByEmail(ctx, c.Param("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *Handler) sendReceipt(ctx context.Context, payment models.Payment) {
	if h.Receipts == nil {
		return
	}
	logger := zerolog.Ctx(ctx)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	go func() {
		defer cancel()
		if err := h.Receipts.SendPaymentReceipt(ctx, payment); err != nil {
			logger.Warn().Err(err).Str("email", payment.Email).Msg("⚠️ receipt email failed")
			return
		}
		logger.Info().Str("email", payment.Email).Msg("📧 receipt sent")
	}()
}
