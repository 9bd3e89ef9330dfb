package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type CartItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	MenuItemID primitive.ObjectID `bson:"menuItemId" json:"menuItemId" validate:"required"`
	Email      string             `bson:"email" json:"email" validate:"required,email"`
	Name       string             `bson:"name,omitempty" json:"name,omitempty" validate:"max=200"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	Price      float64            `bson:"price" json:"price" validate:"required,gt=0"`
}
