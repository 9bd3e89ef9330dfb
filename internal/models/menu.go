package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type MenuItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name" validate:"required,max=200"`
	Recipe   string             `bson:"recipe,omitempty" json:"recipe,omitempty" validate:"max=2000"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty" validate:"omitempty,url"`
	Category string             `bson:"category" json:"category" validate:"required,max=60"`
	Price    float64            `bson:"price" json:"price" validate:"required,gt=0"`
}

// MenuItemPatch ne contient que les champs modifiables ; nil = inchangé.
type MenuItemPatch struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Recipe   *string  `json:"recipe,omitempty" validate:"omitempty,max=2000"`
	Image    *string  `json:"image,omitempty" validate:"omitempty,url"`
	Category *string  `json:"category,omitempty" validate:"omitempty,min=1,max=60"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}

func (p MenuItemPatch) Empty() bool {
	return p.Name == nil && p.Recipe == nil && p.Image == nil && p.Category == nil && p.Price == nil
}

// Apply recopie les champs renseignés sur item.
func (p MenuItemPatch) Apply(item *MenuItem) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Recipe != nil {
		item.Recipe = *p.Recipe
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
}
