package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is an address book entry owned by a user
type Contact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Favorite  bool               `bson:"favorite" json:"favorite"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ContactUpdate carries the fields of a partial contact update; nil means unchanged
type ContactUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Favorite *bool   `json:"favorite"`
}

// Empty reports whether the update changes nothing
func (u ContactUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Favorite == nil
}

// ContactFilter narrows and pages a contact listing
type ContactFilter struct {
	Page     int
	Limit    int
	Favorite *bool
}
