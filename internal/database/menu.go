package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bistro_back_end/internal/models"
)

func (m *Mongo) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return findAll[models.MenuItem](ctx, m.menu, bson.D{})
}

func (m *Mongo) GetMenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := m.menu.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find menu item: %w", err)
	}
	return &item, nil
}

// SearchMenu : recherche insensible à la casse sur le nom, la recette et la catégorie.
func (m *Mongo) SearchMenu(ctx context.Context, query string) ([]models.MenuItem, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "name", Value: pattern}},
		bson.D{{Key: "recipe", Value: pattern}},
		bson.D{{Key: "category", Value: pattern}},
	}}}
	return findAll[models.MenuItem](ctx, m.menu, filter)
}

func (m *Mongo) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.InsertResult, error) {
	item.ID = primitive.NewObjectID()
	if _, err := m.menu.InsertOne(ctx, item); err != nil {
		return models.InsertResult{}, fmt.Errorf("insert menu item: %w", err)
	}
	return models.Inserted(item.ID), nil
}

func (m *Mongo) UpdateMenuItem(ctx context.Context, id primitive.ObjectID, patch models.MenuItemPatch) (models.UpdateResult, error) {
	set := bson.D{}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Recipe != nil {
		set = append(set, bson.E{Key: "recipe", Value: *patch.Recipe})
	}
	if patch.Image != nil {
		set = append(set, bson.E{Key: "image", Value: *patch.Image})
	}
	if patch.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *patch.Category})
	}
	if patch.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *patch.Price})
	}
	if len(set) == 0 {
		return models.UpdateResult{Acknowledged: true}, nil
	}

	res, err := m.menu.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update menu item: %w", err)
	}
	return updateResult(res), nil
}

func (m *Mongo) DeleteMenuItem(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	res, err := m.menu.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete menu item: %w", err)
	}
	return deleteResult(res), nil
}

func (m *Mongo) CountMenuItems(ctx context.Context) (int64, error) {
	n, err := m.menu.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count menu: %w", err)
	}
	return n, nil
}
