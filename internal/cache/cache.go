package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_back_end/internal/database"
	"bistro_back_end/internal/models"
)

const (
	menuListKey    = "menu:all"
	DefaultMenuTTL = 10 * time.Minute
)

type jsonCache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// MenuCache met en cache la liste du menu devant un database.MenuStore.
// Toute écriture invalide la liste ; une panne Redis retombe sur la base.
// generation empêche une lecture lente de réécrire une liste invalidée entre-temps
// (au sein du processus ; entre instances la fenêtre reste bornée par le TTL).
type MenuCache struct {
	database.MenuStore
	cache      jsonCache
	ttl        time.Duration
	logger     zerolog.Logger
	generation atomic.Uint64
}

func NewMenuCache(store database.MenuStore, cache jsonCache, ttl time.Duration, logger zerolog.Logger) *MenuCache {
	if ttl <= 0 {
		ttl = DefaultMenuTTL
	}
	return &MenuCache{MenuStore: store, cache: cache, ttl: ttl, logger: logger}
}

func (m *MenuCache) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := m.cache.GetJSON(ctx, menuListKey, &items)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, ErrMiss) {
		m.logger.Warn().Err(err).Msg("⚠️ menu cache read failed")
	}

	gen := m.generation.Load()
	items, err = m.MenuStore.ListMenu(ctx)
	if err != nil {
		return nil, err
	}
	if m.generation.Load() != gen {
		return items, nil
	}
	if err := m.cache.SetJSON(ctx, menuListKey, items, m.ttl); err != nil {
		m.logger.Warn().Err(err).Msg("⚠️ menu cache write failed")
	}
	return items, nil
}

func (m *MenuCache) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.InsertResult, error) {
	res, err := m.MenuStore.CreateMenuItem(ctx, item)
	m.invalidate(ctx)
	return res, err
}

func (m *MenuCache) UpdateMenuItem(ctx context.Context, id primitive.ObjectID, patch models.MenuItemPatch) (models.UpdateResult, error) {
	res, err := m.MenuStore.UpdateMenuItem(ctx, id, patch)
	m.invalidate(ctx)
	return res, err
}

func (m *MenuCache) DeleteMenuItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	res, err := m.MenuStore.DeleteMenuItem(ctx, id)
	m.invalidate(ctx)
	return res, err
}

func (m *MenuCache) invalidate(ctx context.Context) {
	m.generation.Add(1)
	if err := m.cache.Delete(ctx, menuListKey); err != nil {
		m.logger.Warn().Err(err).Msg("⚠️ menu cache invalidation failed")
	}
}
