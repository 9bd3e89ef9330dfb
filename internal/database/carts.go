package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bistro_back_end/internal/models"
)

func (m *Mongo) ListCartItems(ctx context.Context, email string) ([]models.CartItem, error) {
	return findAll[models.CartItem](ctx, m.carts, bson.D{{Key: "email", Value: email}})
}

func (m *Mongo) CreateCartItem(ctx context.Context, item models.CartItem) (models.InsertResult, error) {
	item.ID = primitive.NewObjectID()
	if _, err := m.carts.InsertOne(ctx, item); err != nil {
		return models.InsertResult{}, fmt.Errorf("insert cart item: %w", err)
	}
	return models.Inserted(item.ID), nil
}

// DeleteCartItem : un id inconnu renvoie DeletedCount 0 sans erreur.
func (m *Mongo) DeleteCartItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	res, err := m.carts.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete cart item: %w", err)
	}
	return deleteResult(res), nil
}

func (m *Mongo) DeleteCartItems(ctx context.Context, ids []primitive.ObjectID) (models.DeleteResult, error) {
	if len(ids) == 0 {
		return models.DeleteResult{Acknowledged: true}, nil
	}
	res, err := m.carts.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete cart items: %w", err)
	}
	return deleteResult(res), nil
}
