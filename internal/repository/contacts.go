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

// ContactRepository stores contacts in MongoDB
type ContactRepository struct {
	collection *mongo.Collection
}

// NewContactRepository initializes a new contact repository
func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{collection: db.Collection(contactsCollection)}
}

// List returns one page of the owner's contacts
func (r *ContactRepository) List(ctx context.Context, owner primitive.ObjectID, f models.ContactFilter) ([]models.Contact, error) {
	filter := bson.M{"owner": owner}
	if f.Favorite != nil {
		filter["favorite"] = *f.Favorite
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(pageOffset(f.Page, f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := []models.Contact{}
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}
	return contacts, nil
}

// Get retrieves a single contact belonging to owner
func (r *ContactRepository) Get(ctx context.Context, owner, id primitive.ObjectID) (*models.Contact, error) {
	contact := &models.Contact{}
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return contact, nil
}

// Create inserts a new contact and fills in its id
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	now := time.Now().UTC()
	contact.CreatedAt, contact.UpdatedAt = now, now

	res, err := r.collection.InsertOne(ctx, contact)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		contact.ID = id
	}
	return nil
}

// Update applies the non-nil fields of u and returns the updated contact
func (r *ContactRepository) Update(ctx context.Context, owner, id primitive.ObjectID, u models.ContactUpdate) (*models.Contact, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Favorite != nil {
		set["favorite"] = *u.Favorite
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	contact := &models.Contact{}
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner": owner}, bson.M{"$set": set}, opts).Decode(contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

// Delete removes a contact belonging to owner
func (r *ContactRepository) Delete(ctx context.Context, owner, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
