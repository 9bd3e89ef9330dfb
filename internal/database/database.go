package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bistro_back_end/internal/config"
	"bistro_back_end/internal/models"
)

const (
	usersCollection    = "users"
	menuCollection     = "menu"
	reviewsCollection  = "reviews"
	cartsCollection    = "carts"
	paymentsCollection = "payments"
)

// Mongo implémente Gateway sur un client MongoDB unique, partagé par toutes les requêtes.
type Mongo struct {
	client   *mongo.Client
	db       *mongo.Database
	users    *mongo.Collection
	menu     *mongo.Collection
	reviews  *mongo.Collection
	carts    *mongo.Collection
	payments *mongo.Collection
	logger   zerolog.Logger
}

var _ Gateway = (*Mongo)(nil)

// =============================================
// INITIALISATION
// =============================================

// OpenMongo ouvre la connexion, vérifie le ping et crée les index.
func OpenMongo(ctx context.Context, cfg config.MongoConfig, logger zerolog.Logger) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(cfg.MongoURI()).
		SetServerAPIOptions(serverAPI).
		SetAppName("bistro")

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	m := NewMongo(client, cfg.Database, logger)
	if err := m.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info().Str("database", cfg.Database).Msg("✅ connected to MongoDB")
	return m, nil
}

// NewMongo enveloppe un client déjà connecté.
func NewMongo(client *mongo.Client, database string, logger zerolog.Logger) *Mongo {
	db := client.Database(database)
	return &Mongo{
		client:   client,
		db:       db,
		users:    db.Collection(usersCollection),
		menu:     db.Collection(menuCollection),
		reviews:  db.Collection(reviewsCollection),
		carts:    db.Collection(cartsCollection),
		payments: db.Collection(paymentsCollection),
		logger:   logger,
	}
}

// EnsureIndexes : l'index unique sur users.email garantit un document par email.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}

	_, err = m.carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email"),
	})
	if err != nil {
		return fmt.Errorf("create carts.email index: %w", err)
	}

	_, err = m.payments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index().SetName("email_date"),
	})
	if err != nil {
		return fmt.Errorf("create payments.email index: %w", err)
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	m.logger.Info().Msg("🔌 MongoDB connection closed")
	return nil
}

// =============================================
// HELPERS
// =============================================

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}
}

func deleteResult(res *mongo.DeleteResult) models.DeleteResult {
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}
