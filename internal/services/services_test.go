package services

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_back_end/internal/config"
	"bistro_back_end/internal/database/memstore"
	"bistro_back_end/internal/models"
)

func TestAmountInMinorUnits(t *testing.T) {
	cases := map[float64]int64{
		42:    4200,
		19.99: 1999,
		12.5:  1250,
		0.01:  1,
	}
	for price, want := range cases {
		got, err := AmountInMinorUnits(price)
		require.NoError(t, err, "price %v", price)
		assert.Equal(t, want, got, "price %v", price)
	}

	for _, bad := range []float64{0, -5, math.NaN(), math.Inf(1), 0.001} {
		_, err := AmountInMinorUnits(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, "price %v", bad)
	}
}

func TestNewStripeGatewayRequiresKey(t *testing.T) {
	_, err := NewStripeGateway("  ")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewSMTPMailerRequiresHost(t *testing.T) {
	_, err := NewSMTPMailer(config.SMTPConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRenderReceiptEscapesAndFormats(t *testing.T) {
	body, err := RenderReceipt(models.Payment{
		Email:         "a@x.com",
		Price:         42,
		TransactionID: "<pi_123>",
		Date:          time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC),
		CartItemIDs:   []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "$42.00")
	assert.Contains(t, body, "&lt;pi_123&gt;")
	assert.Contains(t, body, "2026-01-02 15:04 UTC")
}

func TestImageExtension(t *testing.T) {
	ext, ok := ImageExtension("image/PNG")
	assert.True(t, ok)
	assert.Equal(t, ".png", ext)

	_, ok = ImageExtension("application/pdf")
	assert.False(t, ok)
}

func TestStoreSearch(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	_, _ = store.CreateMenuItem(ctx, models.MenuItem{Name: "Caesar Salad", Category: "salad", Price: 10})
	_, _ = store.CreateMenuItem(ctx, models.MenuItem{Name: "Onion Soup", Category: "soup", Price: 7})

	items, err := NewStoreSearch(store).Search(ctx, "soup")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Onion Soup", items[0].Name)
}

func newElasticStub(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestElasticSearchDecodesHits(t *testing.T) {
	id := primitive.NewObjectID()
	var gotQuery map[string]any
	client := newElasticStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/menu/_search", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotQuery)
		_, _ = io.WriteString(w, `{"hits":{"hits":[
			{"_id":"`+id.Hex()+`","_source":{"name":"Caesar Salad","category":"salad","price":10}},
			{"_id":"not-an-object-id","_source":{"name":"Ghost","category":"x","price":1}}
		]}}`)
	})

	items, err := NewElasticMenuIndex(client, "menu").Search(context.Background(), "caesar")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "Caesar Salad", items[0].Name)

	mm := gotQuery["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "caesar", mm["query"])
}

func TestElasticIndexAndRemove(t *testing.T) {
	id := primitive.NewObjectID()
	var paths []string
	client := newElasticStub(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		assert.False(t, strings.Contains(string(body), `"_id"`))
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	idx := NewElasticMenuIndex(client, "menu")
	require.NoError(t, idx.Index(context.Background(), models.MenuItem{ID: id, Name: "Pho", Category: "soup", Price: 9}))
	require.NoError(t, idx.Remove(context.Background(), id))

	assert.Equal(t, []string{
		"PUT /menu/_doc/" + id.Hex(),
		"DELETE /menu/_doc/" + id.Hex(),
	}, paths)
}
