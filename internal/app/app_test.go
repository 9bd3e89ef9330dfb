package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro_back_end/internal/config"
)

func memoryConfig() config.Config {
	return config.Config{
		Store:     config.StoreMemory,
		Server:    config.ServerConfig{Port: 5000, CORSOrigins: []string{"*"}, CallTimeout: time.Second},
		Auth:      config.AuthConfig{TokenSecret: "secret", TokenTTL: time.Hour, AdminEmail: "boss@x.com"},
		Stripe:    config.StripeConfig{Currency: "usd"},
		RateLimit: config.RateLimitConfig{PerMinute: 100},
	}
}

func TestBuildMemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	a, err := Build(ctx, memoryConfig(), zerolog.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	boss, err := a.Store.FindUserByEmail(ctx, "boss@x.com")
	require.NoError(t, err)
	assert.True(t, boss.IsAdmin())

	tok, err := a.Tokens.Issue(map[string]any{"email": "boss@x.com"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin-stats", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestBuildWithoutStripeKeyDisablesIntents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := Build(context.Background(), memoryConfig(), zerolog.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	tok, err := a.Tokens.Issue(map[string]any{"email": "a@x.com"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", strings.NewReader(`{"price":42}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPaymentGatewayOptionalOnlyInMemoryMode(t *testing.T) {
	cfg := memoryConfig()
	gw, err := PaymentGateway(cfg)
	require.NoError(t, err)
	assert.Nil(t, gw)

	cfg.Store = config.StoreMongo
	_, err = PaymentGateway(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYMENT_SECRET_KEY")

	cfg.Stripe.SecretKey = "sk_test_123"
	gw, err = PaymentGateway(cfg)
	require.NoError(t, err)
	assert.NotNil(t, gw)
}

func TestBootstrapAdminIsIdempotent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Auth.AdminEmail = ""
	a, err := Build(ctx, cfg, zerolog.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	require.NoError(t, BootstrapAdmin(ctx, a.Store, "boss@x.com"))
	require.NoError(t, BootstrapAdmin(ctx, a.Store, "boss@x.com"))

	users, err := a.Store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].IsAdmin())
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store = "sqlite"
	_, err := OpenStore(context.Background(), cfg, zerolog.New(io.Discard))
	assert.Error(t, err)
}
