package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RoleAdmin = "admin"

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty" validate:"omitempty,max=120"`
	Email     string             `bson:"email" json:"email" validate:"required,email,max=254"`
	PhotoURL  string             `bson:"photoURL,omitempty" json:"photoURL,omitempty" validate:"omitempty,url"`
	Role      string             `bson:"role,omitempty" json:"role,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// IsAdmin : un rôle absent vaut utilisateur standard.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
