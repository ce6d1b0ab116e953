package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/contacts-service/internal/httpx"
	"github.com/Dan9191/contacts-service/internal/models"
	"github.com/Dan9191/contacts-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultContactsLimit = 20
	maxContactsLimit     = 100
	maxContactsPage      = 1_000_000
)

func contactNotFound(id string) error {
	return httpx.NotFound(fmt.Sprintf("Contact with id=%s not found", id))
}

func parseContactID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, httpx.BadRequest(fmt.Sprintf("%s is not valid id", id))
	}
	return oid, nil
}

// ListContacts returns one page of the user's contacts
func (s *Service) ListContacts(ctx context.Context, user *models.User, f models.ContactFilter) ([]models.Contact, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > maxContactsPage {
		return nil, httpx.BadRequest(fmt.Sprintf(`"page" must be less than or equal to %d`, maxContactsPage))
	}
	if f.Limit < 1 {
		f.Limit = defaultContactsLimit
	}
	if f.Limit > maxContactsLimit {
		f.Limit = maxContactsLimit
	}
	return s.contacts.List(ctx, user.ID, f)
}

// GetContact returns a single contact of the user
func (s *Service) GetContact(ctx context.Context, user *models.User, id string) (*models.Contact, error) {
	oid, err := parseContactID(id)
	if err != nil {
		return nil, err
	}

	contact, err := s.contacts.Get(ctx, user.ID, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, contactNotFound(id)
	}
	return contact, err
}

// CreateContact adds a contact owned by the user
func (s *Service) CreateContact(ctx context.Context, user *models.User, c models.Contact) (*models.Contact, error) {
	c.ID = primitive.NilObjectID
	c.Owner = user.ID
	if err := s.contacts.Create(ctx, &c); err != nil {
		return nil, err
	}

	s.log.Infof("Contact %s created for %s", c.ID.Hex(), user.Email)
	return &c, nil
}

// UpdateContact applies a partial update; an empty update is rejected
func (s *Service) UpdateContact(ctx context.Context, user *models.User, id string, u models.ContactUpdate) (*models.Contact, error) {
	oid, err := parseContactID(id)
	if err != nil {
		return nil, err
	}
	if u.Empty() {
		return nil, httpx.BadRequest("Body must have at least one field")
	}

	contact, err := s.contacts.Update(ctx, user.ID, oid, u)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, contactNotFound(id)
	}
	return contact, err
}

// UpdateFavorite sets the favorite flag of a contact
func (s *Service) UpdateFavorite(ctx context.Context, user *models.User, id string, favorite bool) (*models.Contact, error) {
	return s.UpdateContact(ctx, user, id, models.ContactUpdate{Favorite: &favorite})
}

// DeleteContact removes a contact of the user
func (s *Service) DeleteContact(ctx context.Context, user *models.User, id string) error {
	oid, err := parseContactID(id)
	if err != nil {
		return err
	}

	err = s.contacts.Delete(ctx, user.ID, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return contactNotFound(id)
	}
	if err != nil {
		return err
	}

	s.log.Infof("Contact %s deleted for %s", id, user.Email)
	return nil
}
