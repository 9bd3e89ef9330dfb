package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"bistro_back_end/internal/audit"
	"bistro_back_end/internal/cache"
	"bistro_back_end/internal/handlers"
	"bistro_back_end/internal/metrics"
	mw "bistro_back_end/internal/middleware"
)

// Options : tout ce que le routeur consomme en plus des handlers.
type Options struct {
	Logger      zerolog.Logger
	Tokens      mw.TokenVerifier
	Users       mw.UserLookup
	Limiter     cache.Limiter
	Audit       mw.AuditLogger
	CORSOrigins []string
}

func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(mw.RequestLogger(opts.Logger), mw.Recovery(), mw.Metrics())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	if opts.Limiter != nil {
		r.Use(mw.APIRateLimit(opts.Limiter))
	}
	RegisterRoutes(r, h, opts)
	return r
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	authed := mw.Guard(mw.Authenticated(opts.Tokens))
	admin := mw.Guard(mw.Authenticated(opts.Tokens), mw.AdminRole(opts.Users))
	audited := func(action, resource string) gin.HandlerFunc {
		if opts.Audit == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return mw.AuditAction(opts.Audit, action, resource)
	}

	r.GET("/", h.Root)
	r.GET("/readyz", h.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	r.POST("/jwt", h.IssueToken)

	// Users
	r.GET("/users", admin, h.ListUsers)
	r.POST("/users", audited(audit.ActionUserCreate, audit.ResourceUser), h.CreateUser)
	r.GET("/users/admin/:id", authed, h.CheckAdmin)
	r.PATCH("/users/admin/:id", admin, audited(audit.ActionRoleAssign, audit.ResourceUser), h.PromoteToAdmin)
	r.DELETE("/users/:id", admin, audited(audit.ActionUserDelete, audit.ResourceUser), h.DeleteUser)

	// Menu
	r.GET("/menu", h.ListMenu)
	r.GET("/menu/search", h.SearchMenu)
	r.GET("/menu/:id", h.GetMenuItem)
	r.POST("/menu", admin, audited(audit.ActionMenuCreate, audit.ResourceMenu), h.CreateMenuItem)
	r.POST("/menu/images", admin, audited(audit.ActionMenuImage, audit.ResourceMenu), h.UploadMenuImage)
	r.PATCH("/menu/:id", admin, audited(audit.ActionMenuUpdate, audit.ResourceMenu), h.UpdateMenuItem)
	r.DELETE("/menu/:id", admin, audited(audit.ActionMenuDelete, audit.ResourceMenu), h.DeleteMenuItem)

	// Reviews
	r.GET("/reviews", h.ListReviews)
	r.POST("/reviews", authed, h.CreateReview)

	// Carts
	r.GET("/carts", mw.Guard(mw.Authenticated(opts.Tokens), mw.OwnsEmail(mw.QueryEmail("email"))), h.ListCartItems)
	r.POST("/carts", h.CreateCartItem)
	r.DELETE("/carts/:id", h.DeleteCartItem)

	// Paiements
	r.POST("/create-payment-intent", authed, h.CreatePaymentIntent)
	r.POST("/payments", audited(audit.ActionPaymentRecord, audit.ResourcePayment), h.RecordPayment)
	r.GET("/payments/:email", mw.Guard(mw.Authenticated(opts.Tokens), mw.OwnsEmail(mw.PathEmail("email"))), h.ListPayments)
	r.POST("/webhooks/stripe", h.StripeWebhook)

	// Stats
	r.GET("/admin-stats", admin, h.AdminStats)
	r.GET("/order-stats", h.OrderStats)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "Stripe-Signature"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
