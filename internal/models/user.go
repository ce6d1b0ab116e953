package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription is a user's plan tag
type Subscription string

const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

// Valid reports whether s is a known plan
func (s Subscription) Valid() bool {
	switch s {
	case SubscriptionStarter, SubscriptionPro, SubscriptionBusiness:
		return true
	}
	return false
}

// User represents a user in the system
type User struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email                 string             `bson:"email" json:"email"`
	Password              string             `bson:"password" json:"-"` // bcrypt hash
	Subscription          Subscription       `bson:"subscription" json:"subscription"`
	Verify                bool               `bson:"verify" json:"-"`
	VerificationCode      string             `bson:"verificationCode" json:"-"`
	VerificationEmailSent bool               `bson:"verificationEmailSent" json:"-"`
	VerificationAttemptAt time.Time          `bson:"verificationAttemptAt" json:"-"`
	Token                 string             `bson:"token" json:"-"` // empty when signed out
	AvatarURL             string             `bson:"avatarURL" json:"avatarURL"`
	CreatedAt             time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"-"`
}

// PublicUser is the part of a user that may be returned to clients
type PublicUser struct {
	Email        string       `json:"email"`
	Subscription Subscription `json:"subscription"`
	AvatarURL    string       `json:"avatarURL,omitempty"`
}

// Public returns the client-safe projection of u
func (u *User) Public() PublicUser {
	return PublicUser{
		Email:        u.Email,
		Subscription: u.Subscription,
		AvatarURL:    u.AvatarURL,
	}
}
