package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/contacts-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository stores users in MongoDB
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository initializes a new user repository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection(usersCollection)}
}

// Create inserts a new user and fills in its id
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	res, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID retrieves a user by id
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// VerifyByCode marks the unverified owner of code as verified and clears the
// code in a single conditional update
func (r *UserRepository) VerifyByCode(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, ErrNotFound
	}
	return r.findOneAndSet(ctx,
		bson.M{"verificationCode": code, "verify": false},
		bson.M{"verify": true, "verificationCode": ""},
	)
}

// SetToken stores the current session token; an empty token signs the user out
func (r *UserRepository) SetToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.updateByID(ctx, id, bson.M{"token": token})
}

// UpdateAvatar replaces the avatar reference
func (r *UserRepository) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error {
	return r.updateByID(ctx, id, bson.M{"avatarURL": avatarURL})
}

// UpdateSubscription changes the plan and returns the updated user
func (r *UserRepository) UpdateSubscription(ctx context.Context, id primitive.ObjectID, sub models.Subscription) (*models.User, error) {
	return r.findOneAndSet(ctx, bson.M{"_id": id}, bson.M{"subscription": sub})
}

// MarkVerificationSent records that the verification email went out
func (r *UserRepository) MarkVerificationSent(ctx context.Context, id primitive.ObjectID) error {
	return r.updateByID(ctx, id, bson.M{"verificationEmailSent": true})
}

// MarkVerificationAttempt records when delivery of the verification email was last tried
func (r *UserRepository) MarkVerificationAttempt(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.updateByID(ctx, id, bson.M{"verificationAttemptAt": at.UTC()})
}

// FindPendingVerification lists unverified users whose verification email was never
// delivered and was last attempted no later than attemptedBefore, least recently attempted first
func (r *UserRepository) FindPendingVerification(ctx context.Context, attemptedBefore time.Time, limit int) ([]models.User, error) {
	filter := bson.M{
		"verify":                false,
		"verificationEmailSent": false,
		"verificationAttemptAt": bson.M{"$lte": attemptedBefore.UTC()},
	}
	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "verificationAttemptAt", Value: 1}, {Key: "createdAt", Value: 1}})
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending users: %w", err)
	}

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode pending users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	user := &models.User{}
	err := r.collection.FindOne(ctx, filter).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) findOneAndSet(ctx context.Context, filter, set bson.M) (*models.User, error) {
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	user := &models.User{}
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) updateByID(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now().UTC()
	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
