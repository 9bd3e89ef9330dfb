package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_back_end/internal/models"
)

// ErrNotFound est renvoyée quand aucun document ne correspond.
var ErrNotFound = errors.New("database: document not found")

type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	// CreateUserIfAbsent insère l'utilisateur seulement si son email est inconnu.
	// created vaut false quand un document existait déjà.
	CreateUserIfAbsent(ctx context.Context, user models.User) (id primitive.ObjectID, created bool, err error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	PromoteToAdmin(ctx context.Context, id primitive.ObjectID) (models.UpdateResult, error)
	PromoteByEmail(ctx context.Context, email string) (models.UpdateResult, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
	CountUsers(ctx context.Context) (int64, error)
}

type MenuStore interface {
	ListMenu(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error)
	SearchMenu(ctx context.Context, query string) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item models.MenuItem) (models.InsertResult, error)
	UpdateMenuItem(ctx context.Context, id primitive.ObjectID, patch models.MenuItemPatch) (models.UpdateResult, error)
	DeleteMenuItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
	CountMenuItems(ctx context.Context) (int64, error)
}

type ReviewStore interface {
	ListReviews(ctx context.Context) ([]models.Review, error)
	CreateReview(ctx context.Context, review models.Review) (models.InsertResult, error)
}

type CartStore interface {
	ListCartItems(ctx context.Context, email string) ([]models.CartItem, error)
	CreateCartItem(ctx context.Context, item models.CartItem) (models.InsertResult, error)
	DeleteCartItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
	DeleteCartItems(ctx context.Context, ids []primitive.ObjectID) (models.DeleteResult, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, payment models.Payment) (models.InsertResult, error)
	ListPaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error)
	CountPayments(ctx context.Context) (int64, error)
	// TotalRevenue vaut 0 quand aucun paiement n'existe.
	TotalRevenue(ctx context.Context) (float64, error)
	OrderStats(ctx context.Context) ([]models.CategoryStats, error)
}

// Gateway regroupe toutes les collections et le cycle de vie de la connexion.
type Gateway interface {
	UserStore
	MenuStore
	ReviewStore
	CartStore
	PaymentStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
