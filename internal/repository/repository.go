package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

const (
	usersCollection    = "users"
	contactsCollection = "contacts"
)

// Connect opens a MongoDB client and checks it is reachable
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the store relies on for consistency.
// The unique email index is what makes concurrent signups safe.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "verificationCode", Value: 1}}},
		{Keys: bson.D{{Key: "verify", Value: 1}, {Key: "verificationEmailSent", Value: 1}, {Key: "verificationAttemptAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	_, err = db.Collection(contactsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create contact indexes: %w", err)
	}
	return nil
}

// pageOffset is the number of documents before page. It saturates at
// math.MaxInt64 instead of overflowing.
func pageOffset(page, limit int) int64 {
	if page < 1 || limit < 1 {
		return 0
	}
	skipped := int64(page - 1)
	if skipped > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return skipped * int64(limit)
}
