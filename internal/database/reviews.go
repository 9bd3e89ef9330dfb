package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_back_end/internal/models"
)

func (m *Mongo) ListReviews(ctx context.Context) ([]models.Review, error) {
	return findAll[models.Review](ctx, m.reviews, bson.D{})
}

func (m *Mongo) CreateReview(ctx context.Context, review models.Review) (models.InsertResult, error) {
	review.ID = primitive.NewObjectID()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	if _, err := m.reviews.InsertOne(ctx, review); err != nil {
		return models.InsertResult{}, fmt.Errorf("insert review: %w", err)
	}
	return models.Inserted(review.ID), nil
}
