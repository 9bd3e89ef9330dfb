package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
)

// Payment est écrit une seule fois, jamais modifié ni supprimé.
type Payment struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Email         string               `bson:"email" json:"email" validate:"required,email"`
	Price         float64              `bson:"price" json:"price" validate:"required,gt=0"`
	TransactionID string               `bson:"transactionId,omitempty" json:"transactionId,omitempty" validate:"max=255"`
	Date          time.Time            `bson:"date" json:"date"`
	CartItemIDs   []primitive.ObjectID `bson:"cartItemIds" json:"cartItemIds" validate:"required,min=1,dive,required"`
	MenuItemIDs   []primitive.ObjectID `bson:"menuItemIds,omitempty" json:"menuItemIds,omitempty" validate:"dive,required"`
	Status        string               `bson:"status,omitempty" json:"status,omitempty" validate:"omitempty,oneof=pending succeeded"`
}
