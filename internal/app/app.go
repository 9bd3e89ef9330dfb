// Package app assemble la configuration, la base, les services optionnels et le routeur.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"bistro_back_end/internal/audit"
	"bistro_back_end/internal/auth"
	"bistro_back_end/internal/cache"
	"bistro_back_end/internal/config"
	"bistro_back_end/internal/database"
	"bistro_back_end/internal/database/memstore"
	"bistro_back_end/internal/handlers"
	"bistro_back_end/internal/models"
	"bistro_back_end/internal/routes"
	"bistro_back_end/internal/services"
)

type App struct {
	Config  config.Config
	Logger  zerolog.Logger
	Store   database.Gateway
	Tokens  *auth.TokenService
	Handler http.Handler

	closers []func(context.Context) error
}

// OpenStore ouvre la base choisie par STORE_DRIVER.
func OpenStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (database.Gateway, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn().Msg("⚠️ using in-memory store, data is lost on restart")
		return memstore.New(), nil
	case config.StoreMongo:
		return database.OpenMongo(ctx, cfg.Mongo, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store)
	}
}

// Build connecte la base et chaque service configuré. Un service optionnel
// injoignable est journalisé puis remplacé par son repli.
func Build(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Tokens: auth.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL),
	}
	a.onClose(store.Close)

	if cfg.Auth.AdminEmail != "" {
		if err := BootstrapAdmin(ctx, store, cfg.Auth.AdminEmail); err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
		logger.Info().Str("email", cfg.Auth.AdminEmail).Msg("👑 admin bootstrapped")
	}

	deps := handlers.Deps{
		Users:         store,
		Menu:          store,
		Reviews:       store,
		Carts:         store,
		Payments:      store,
		DB:            store,
		Tokens:        a.Tokens,
		Currency:      cfg.Stripe.Currency,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		CallTimeout:   cfg.Server.CallTimeout,
	}

	// Stripe
	gateway, err := PaymentGateway(cfg)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	if gateway != nil {
		deps.Gateway = gateway
		logger.Info().Msg("✅ Stripe initialised")
	} else {
		logger.Warn().Msg("⚠️ PAYMENT_SECRET_KEY missing, payment intents disabled (memory store)")
	}

	// Redis : cache du menu + limiteur partagé
	var limiter cache.Limiter
	if cfg.Redis.Addr != "" {
		client, err := database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("⚠️ Redis unavailable, using in-memory rate limiter")
		} else {
			a.onClose(func(context.Context) error { return client.Close() })
			rc := cache.NewRedis(client)
			deps.Menu = cache.NewMenuCache(store, rc, cfg.Redis.MenuTTL, logger)
			limiter = cache.NewRedisLimiter(rc, cfg.RateLimit.PerMinute)
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("✅ Redis connected")
		}
	}
	if limiter == nil {
		mem := cache.NewMemoryLimiter(cfg.RateLimit.PerMinute)
		a.onClose(func(context.Context) error { mem.Stop(); return nil })
		limiter = mem
	}

	// Elasticsearch
	if cfg.Elastic.URL != "" {
		client, err := database.ConnectElastic(cfg.Elastic)
		if err != nil {
			logger.Warn().Err(err).Msg("⚠️ Elasticsearch unavailable, menu search uses the database")
		} else {
			index := services.NewElasticMenuIndex(client, cfg.Elastic.Index)
			deps.Search = index
			deps.Index = index
			if items, err := store.ListMenu(ctx); err == nil {
				if err := index.Reindex(ctx, items); err != nil {
					logger.Warn().Err(err).Msg("⚠️ menu reindex failed")
				} else {
					logger.Info().Int("items", len(items)).Msg("🔎 menu indexed")
				}
			}
		}
	}

	// MinIO
	if cfg.MinIO.Endpoint != "" {
		client, err := database.ConnectMinIO(ctx, cfg.MinIO)
		if err != nil {
			logger.Warn().Err(err).Msg("⚠️ MinIO unavailable, image upload disabled")
		} else {
			deps.Images = services.NewMinIOImages(client, cfg.MinIO.Endpoint, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
			logger.Info().Str("bucket", cfg.MinIO.Bucket).Msg("✅ MinIO connected")
		}
	}

	// SMTP
	if mailer, err := services.NewSMTPMailer(cfg.SMTP); err == nil {
		deps.Receipts = mailer
	}

	// Audit : Scylla si configuré, sinon journal applicatif
	var sink audit.Sink = audit.NewLogSink(logger)
	if len(cfg.Scylla.Hosts) > 0 && cfg.Scylla.Keyspace != "" {
		session, err := database.ConnectScylla(cfg.Scylla)
		if err != nil {
			logger.Warn().Err(err).Msg("⚠️ Scylla unavailable, audit goes to logs")
		} else {
			scylla := audit.NewScyllaSink(session)
			a.onClose(func(context.Context) error { scylla.Close(); return nil })
			sink = scylla
		}
	}
	recorder := audit.NewRecorder(sink, logger)
	a.onClose(func(context.Context) error { recorder.Wait(); return nil })

	a.Handler = routes.NewRouter(handlers.New(deps), routes.Options{
		Logger:      logger,
		Tokens:      a.Tokens,
		Users:       store,
		Limiter:     limiter,
		Audit:       recorder,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	return a, nil
}

// PaymentGateway : Stripe est obligatoire avec Mongo, optionnel seulement en mode mémoire.
func PaymentGateway(cfg config.Config) (services.PaymentGateway, error) {
	gw, err := services.NewStripeGateway(cfg.Stripe.SecretKey)
	switch {
	case err == nil:
		return gw, nil
	case errors.Is(err, services.ErrNotConfigured) && cfg.Store == config.StoreMemory:
		return nil, nil
	default:
		return nil, fmt.Errorf("stripe: PAYMENT_SECRET_KEY is required: %w", err)
	}
}

// BootstrapAdmin crée l'utilisateur si besoin puis lui donne le rôle admin.
func BootstrapAdmin(ctx context.Context, users database.UserStore, email string) error {
	if _, _, err := users.CreateUserIfAbsent(ctx, models.User{Email: email}); err != nil {
		return fmt.Errorf("bootstrap admin %s: %w", email, err)
	}
	if _, err := users.PromoteByEmail(ctx, email); err != nil {
		return fmt.Errorf("bootstrap admin %s: %w", email, err)
	}
	return nil
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close libère les ressources dans l'ordre inverse de leur ouverture.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
