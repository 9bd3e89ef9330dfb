package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Résumés d'opérations renvoyés tels quels au client.

type InsertResult struct {
	Acknowledged bool                `json:"acknowledged"`
	InsertedID   *primitive.ObjectID `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteResult struct {
	Acknowledged bool   `json:"acknowledged"`
	DeletedCount int64  `json:"deletedCount"`
	Error        string `json:"error,omitempty"`
}

// CreateUserResult : InsertedID nil quand l'email existait déjà.
type CreateUserResult struct {
	Acknowledged bool                `json:"acknowledged"`
	InsertedID   *primitive.ObjectID `json:"insertedId"`
	Message      string              `json:"message,omitempty"`
}

func Inserted(id primitive.ObjectID) InsertResult {
	return InsertResult{Acknowledged: true, InsertedID: &id}
}
