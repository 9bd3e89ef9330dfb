package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bistro_back_end/internal/models"
)

func (m *Mongo) ListUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, m.users, bson.D{})
}

// CreateUserIfAbsent : upsert atomique avec $setOnInsert, jamais de check-then-insert.
func (m *Mongo) CreateUserIfAbsent(ctx context.Context, user models.User) (primitive.ObjectID, bool, error) {
	onInsert := bson.D{
		{Key: "email", Value: user.Email},
		{Key: "createdAt", Value: time.Now().UTC()},
	}
	if user.Name != "" {
		onInsert = append(onInsert, bson.E{Key: "name", Value: user.Name})
	}
	if user.PhotoURL != "" {
		onInsert = append(onInsert, bson.E{Key: "photoURL", Value: user.PhotoURL})
	}

	res, err := m.users.UpdateOne(ctx,
		bson.D{{Key: "email", Value: user.Email}},
		bson.D{{Key: "$setOnInsert", Value: onInsert}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// Deux upserts concurrents : l'index unique fait échouer le second.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, false, nil
		}
		return primitive.NilObjectID, false, fmt.Errorf("upsert user: %w", err)
	}
	if res.UpsertedID == nil {
		return primitive.NilObjectID, false, nil
	}
	id, ok := res.UpsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, false, fmt.Errorf("upsert user: unexpected id type %T", res.UpsertedID)
	}
	return id, true, nil
}

func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (m *Mongo) PromoteToAdmin(ctx context.Context, id primitive.ObjectID) (models.UpdateResult, error) {
	return m.promote(ctx, bson.D{{Key: "_id", Value: id}})
}

func (m *Mongo) PromoteByEmail(ctx context.Context, email string) (models.UpdateResult, error) {
	return m.promote(ctx, bson.D{{Key: "email", Value: email}})
}

func (m *Mongo) promote(ctx context.Context, filter bson.D) (models.UpdateResult, error) {
	res, err := m.users.UpdateOne(ctx, filter,
		bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: models.RoleAdmin}}}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("promote user: %w", err)
	}
	return updateResult(res), nil
}

func (m *Mongo) DeleteUser(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	res, err := m.users.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete user: %w", err)
	}
	return deleteResult(res), nil
}

func (m *Mongo) CountUsers(ctx context.Context) (int64, error) {
	n, err := m.users.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
