// Package memstore est une implémentation en mémoire de database.Gateway
// utilisée par les tests et le mode de développement --store memory.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_back_end/internal/database"
	"bistro_back_end/internal/models"
)

type Store struct {
	mu       sync.RWMutex
	users    []models.User
	menu     []models.MenuItem
	reviews  []models.Review
	carts    []models.CartItem
	payments []models.Payment
	now      func() time.Time
}

var _ database.Gateway = (*Store)(nil)

func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

// ---- users ----

func (s *Store) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.users), nil
}

func (s *Store) CreateUserIfAbsent(_ context.Context, user models.User) (primitive.ObjectID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, false, nil
		}
	}
	user.ID = primitive.NewObjectID()
	user.Role = ""
	user.CreatedAt = s.now()
	s.users = append(s.users, user)
	return user.ID, true, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *Store) PromoteToAdmin(_ context.Context, id primitive.ObjectID) (models.UpdateResult, error) {
	return s.promote(func(u models.User) bool { return u.ID == id }), nil
}

func (s *Store) PromoteByEmail(_ context.Context, email string) (models.UpdateResult, error) {
	return s.promote(func(u models.User) bool { return u.Email == email }), nil
}

func (s *Store) promote(match func(models.User) bool) models.UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	for i := range s.users {
		if !match(s.users[i]) {
			continue
		}
		res.MatchedCount++
		if s.users[i].Role != models.RoleAdmin {
			s.users[i].Role = models.RoleAdmin
			res.ModifiedCount++
		}
		break
	}
	return res
}

func (s *Store) DeleteUser(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	s.users, n = removeWhere(s.users, func(u models.User) bool { return u.ID == id })
	return models.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

func (s *Store) CountUsers(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

// ---- menu ----

func (s *Store) ListMenu(context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.menu), nil
}

func (s *Store) GetMenuItem(_ context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.menu {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *Store) SearchMenu(_ context.Context, query string) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	out := make([]models.MenuItem, 0)
	for _, item := range s.menu {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Recipe), q) ||
			strings.Contains(strings.ToLower(item.Category), q) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Store) CreateMenuItem(_ context.Context, item models.MenuItem) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = primitive.NewObjectID()
	s.menu = append(s.menu, item)
	return models.Inserted(item.ID), nil
}

func (s *Store) UpdateMenuItem(_ context.Context, id primitive.ObjectID, patch models.MenuItemPatch) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	for i := range s.menu {
		if s.menu[i].ID != id {
			continue
		}
		res.MatchedCount = 1
		before := s.menu[i]
		patch.Apply(&s.menu[i])
		if s.menu[i] != before {
			res.ModifiedCount = 1
		}
		break
	}
	return res, nil
}

func (s *Store) DeleteMenuItem(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	s.menu, n = removeWhere(s.menu, func(m models.MenuItem) bool { return m.ID == id })
	return models.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

func (s *Store) CountMenuItems(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.menu)), nil
}

// ---- reviews ----

func (s *Store) ListReviews(context.Context) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.reviews), nil
}

func (s *Store) CreateReview(_ context.Context, review models.Review) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review.ID = primitive.NewObjectID()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.now()
	}
	s.reviews = append(s.reviews, review)
	return models.Inserted(review.ID), nil
}

// ---- carts ----

func (s *Store) ListCartItems(_ context.Context, email string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartItem, 0)
	for _, item := range s.carts {
		if item.Email == email {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Store) CreateCartItem(_ context.Context, item models.CartItem) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = primitive.NewObjectID()
	s.carts = append(s.carts, item)
	return models.Inserted(item.ID), nil
}

func (s *Store) DeleteCartItem(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return s.DeleteCartItems(context.Background(), []primitive.ObjectID{id})
}

func (s *Store) DeleteCartItems(_ context.Context, ids []primitive.ObjectID) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	var n int64
	s.carts, n = removeWhere(s.carts, func(c models.CartItem) bool {
		_, ok := set[c.ID]
		return ok
	})
	return models.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

// ---- payments ----

func (s *Store) CreatePayment(_ context.Context, payment models.Payment) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment.ID = primitive.NewObjectID()
	if payment.Date.IsZero() {
		payment.Date = s.now()
	}
	s.payments = append(s.payments, payment)
	return models.Inserted(payment.ID), nil
}

func (s *Store) ListPaymentsByEmail(_ context.Context, email string) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Payment, 0)
	for _, p := range s.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) CountPayments(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.payments)), nil
}

func (s *Store) TotalRevenue(context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, p := range s.payments {
		total += p.Price
	}
	return total, nil
}

// OrderStats reproduit l'agrégation Mongo : unwind menuItemIds, jointure sur menu, groupe par catégorie.
func (s *Store) OrderStats(context.Context) ([]models.CategoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	menu := make(map[primitive.ObjectID]models.MenuItem, len(s.menu))
	for _, item := range s.menu {
		menu[item.ID] = item
	}

	byCategory := make(map[string]*models.CategoryStats)
	for _, p := range s.payments {
		for _, id := range p.MenuItemIDs {
			item, ok := menu[id]
			if !ok {
				continue
			}
			st, ok := byCategory[item.Category]
			if !ok {
				st = &models.CategoryStats{Category: item.Category}
				byCategory[item.Category] = st
			}
			st.Quantity++
			st.Revenue += item.Price
		}
	}

	out := make([]models.CategoryStats, 0, len(byCategory))
	for _, st := range byCategory {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func removeWhere[T any](in []T, match func(T) bool) ([]T, int64) {
	out := in[:0]
	var n int64
	for _, v := range in {
		if match(v) {
			n++
			continue
		}
		out = append(out, v)
	}
	return out, n
}
