package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_back_end/internal/database"
	"bistro_back_end/internal/models"
)

func TestCreateUserIfAbsentKeepsOneDocumentPerEmail(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, created, err := s.CreateUserIfAbsent(ctx, models.User{Email: "a@x.com", Name: "Ann"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, id.IsZero())

	_, created, err = s.CreateUserIfAbsent(ctx, models.User{Email: "a@x.com", Name: "Other", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.False(t, created)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ann", users[0].Name)
	assert.False(t, users[0].IsAdmin())
}

func TestPromoteToAdmin(t *testing.T) {
	ctx := context.Background()
	s := New()
	id, _, err := s.CreateUserIfAbsent(ctx, models.User{Email: "a@x.com"})
	require.NoError(t, err)

	res, err := s.PromoteToAdmin(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(1), res.ModifiedCount)

	res, err = s.PromoteToAdmin(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(0), res.ModifiedCount)

	u, err := s.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	res, err = s.PromoteToAdmin(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.MatchedCount)
}

func TestFindUserByEmailNotFound(t *testing.T) {
	_, err := New().FindUserByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteCartItems(t *testing.T) {
	ctx := context.Background()
	s := New()
	menuID := primitive.NewObjectID()
	r1, _ := s.CreateCartItem(ctx, models.CartItem{MenuItemID: menuID, Email: "a@x.com", Price: 10})
	r2, _ := s.CreateCartItem(ctx, models.CartItem{MenuItemID: menuID, Email: "a@x.com", Price: 12})
	_, _ = s.CreateCartItem(ctx, models.CartItem{MenuItemID: menuID, Email: "b@x.com", Price: 9})

	res, err := s.DeleteCartItem(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.DeletedCount)

	res, err = s.DeleteCartItems(ctx, []primitive.ObjectID{*r1.InsertedID, *r2.InsertedID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.DeletedCount)

	left, _ := s.ListCartItems(ctx, "a@x.com")
	assert.Empty(t, left)
	other, _ := s.ListCartItems(ctx, "b@x.com")
	assert.Len(t, other, 1)
}

func TestOrderStatsGroupsByCategory(t *testing.T) {
	ctx := context.Background()
	s := New()
	salad, _ := s.CreateMenuItem(ctx, models.MenuItem{Name: "Caesar", Category: "salad", Price: 10})
	soup, _ := s.CreateMenuItem(ctx, models.MenuItem{Name: "Onion", Category: "soup", Price: 7.5})

	_, _ = s.CreatePayment(ctx, models.Payment{
		Email: "a@x.com", Price: 27.5,
		CartItemIDs: []primitive.ObjectID{primitive.NewObjectID()},
		MenuItemIDs: []primitive.ObjectID{*salad.InsertedID, *salad.InsertedID, *soup.InsertedID},
	})
	_, _ = s.CreatePayment(ctx, models.Payment{
		Email: "b@x.com", Price: 7.5,
		CartItemIDs: []primitive.ObjectID{primitive.NewObjectID()},
		MenuItemIDs: []primitive.ObjectID{*soup.InsertedID, primitive.NewObjectID()},
	})

	stats, err := s.OrderStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryStats{
		{Category: "salad", Quantity: 2, Revenue: 20},
		{Category: "soup", Quantity: 2, Revenue: 15},
	}, stats)

	revenue, err := s.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 35.0, revenue, 0.0001)
}

func TestTotalRevenueWithoutPayments(t *testing.T) {
	revenue, err := New().TotalRevenue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, revenue)
}

func TestPaymentsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ids := []primitive.ObjectID{primitive.NewObjectID()}
	_, _ = s.CreatePayment(ctx, models.Payment{Email: "a@x.com", Price: 1, Date: base, CartItemIDs: ids})
	_, _ = s.CreatePayment(ctx, models.Payment{Email: "a@x.com", Price: 2, Date: base.Add(time.Hour), CartItemIDs: ids})

	payments, err := s.ListPaymentsByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, 2.0, payments[0].Price)
}

func TestUpdateMenuItem(t *testing.T) {
	ctx := context.Background()
	s := New()
	r, _ := s.CreateMenuItem(ctx, models.MenuItem{Name: "Caesar", Category: "salad", Price: 10})
	price := 11.0

	res, err := s.UpdateMenuItem(ctx, *r.InsertedID, models.MenuItemPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	item, err := s.GetMenuItem(ctx, *r.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, 11.0, item.Price)
	assert.Equal(t, "Caesar", item.Name)

	found, _ := s.SearchMenu(ctx, "SAL")
	assert.Len(t, found, 1)
}
