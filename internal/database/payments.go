package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bistro_back_end/internal/models"
)

func (m *Mongo) CreatePayment(ctx context.Context, payment models.Payment) (models.InsertResult, error) {
	payment.ID = primitive.NewObjectID()
	if payment.Date.IsZero() {
		payment.Date = time.Now().UTC()
	}
	if _, err := m.payments.InsertOne(ctx, payment); err != nil {
		return models.InsertResult{}, fmt.Errorf("insert payment: %w", err)
	}
	return models.Inserted(payment.ID), nil
}

func (m *Mongo) ListPaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return findAll[models.Payment](ctx, m.payments, bson.D{{Key: "email", Value: email}}, opts)
}

func (m *Mongo) CountPayments(ctx context.Context) (int64, error) {
	n, err := m.payments.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return n, nil
}

// TotalRevenue : une agrégation vide (aucun paiement) donne 0.
func (m *Mongo) TotalRevenue(ctx context.Context) (float64, error) {
	pipeline := bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$price"}}},
		}}},
	}
	cursor, err := m.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate revenue: %w", err)
	}
	var rows []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode revenue: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Revenue, nil
}

// OrderStats joint payments.menuItemIds avec menu._id et regroupe par catégorie.
func (m *Mongo) OrderStats(ctx context.Context) ([]models.CategoryStats, error) {
	pipeline := bson.A{
		bson.D{{Key: "$unwind", Value: "$menuItemIds"}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: menuCollection},
			{Key: "localField", Value: "menuItemIds"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "menuItems"},
		}}},
		bson.D{{Key: "$unwind", Value: "$menuItems"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$menuItems.category"},
			{Key: "quantity", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$menuItems.price"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id"},
			{Key: "quantity", Value: 1},
			{Key: "revenue", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "category", Value: 1}}}},
	}

	cursor, err := m.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate order stats: %w", err)
	}
	stats := make([]models.CategoryStats, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode order stats: %w", err)
	}
	return stats, nil
}
