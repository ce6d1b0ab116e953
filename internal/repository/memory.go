package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/contacts-service/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository keeps users in process memory. It backs local runs
// without MONGO_URI and the test suites. Each method is atomic.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

// NewMemoryUserRepository returns an empty in-memory user store
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) VerifyByCode(_ context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if u.VerificationCode == code && !u.Verify {
			u.Verify = true
			u.VerificationCode = ""
			u.UpdatedAt = time.Now().UTC()
			r.users[id] = u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) SetToken(_ context.Context, id primitive.ObjectID, token string) error {
	return r.update(id, func(u *models.User) { u.Token = token })
}

func (r *MemoryUserRepository) UpdateAvatar(_ context.Context, id primitive.ObjectID, avatarURL string) error {
	return r.update(id, func(u *models.User) { u.AvatarURL = avatarURL })
}

func (r *MemoryUserRepository) UpdateSubscription(_ context.Context, id primitive.ObjectID, sub models.Subscription) (*models.User, error) {
	if err := r.update(id, func(u *models.User) { u.Subscription = sub }); err != nil {
		return nil, err
	}
	return r.FindByID(context.Background(), id)
}

func (r *MemoryUserRepository) MarkVerificationSent(_ context.Context, id primitive.ObjectID) error {
	return r.update(id, func(u *models.User) { u.VerificationEmailSent = true })
}

func (r *MemoryUserRepository) MarkVerificationAttempt(_ context.Context, id primitive.ObjectID, at time.Time) error {
	return r.update(id, func(u *models.User) { u.VerificationAttemptAt = at.UTC() })
}

func (r *MemoryUserRepository) FindPendingVerification(_ context.Context, attemptedBefore time.Time, limit int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []models.User
	for _, u := range r.users {
		if !u.Verify && !u.VerificationEmailSent && !u.VerificationAttemptAt.After(attemptedBefore) {
			pending = append(pending, u)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		a, b := pending[i], pending[j]
		if !a.VerificationAttemptAt.Equal(b.VerificationAttemptAt) {
			return a.VerificationAttemptAt.Before(b.VerificationAttemptAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *MemoryUserRepository) update(id primitive.ObjectID, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

// MemoryContactRepository keeps contacts in process memory
type MemoryContactRepository struct {
	mu       sync.Mutex
	contacts []models.Contact
}

// NewMemoryContactRepository returns an empty in-memory contact store
func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{}
}

func (r *MemoryContactRepository) List(_ context.Context, owner primitive.ObjectID, f models.ContactFilter) ([]models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []models.Contact{}
	for _, c := range r.contacts {
		if c.Owner != owner {
			continue
		}
		if f.Favorite != nil && c.Favorite != *f.Favorite {
			continue
		}
		matched = append(matched, c)
	}

	offset := pageOffset(f.Page, f.Limit)
	if offset >= int64(len(matched)) {
		return []models.Contact{}, nil
	}
	start := int(offset)
	end := len(matched)
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}
	return matched[start:end], nil
}

func (r *MemoryContactRepository) Get(_ context.Context, owner, id primitive.ObjectID) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(owner, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	c := r.contacts[i]
	return &c, nil
}

func (r *MemoryContactRepository) Create(_ context.Context, contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt, contact.UpdatedAt = now, now
	r.contacts = append(r.contacts, *contact)
	return nil
}

func (r *MemoryContactRepository) Update(_ context.Context, owner, id primitive.ObjectID, u models.ContactUpdate) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(owner, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	c := &r.contacts[i]
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.Favorite != nil {
		c.Favorite = *u.Favorite
	}
	c.UpdatedAt = time.Now().UTC()
	out := *c
	return &out, nil
}

func (r *MemoryContactRepository) Delete(_ context.Context, owner, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(owner, id)
	if i < 0 {
		return ErrNotFound
	}
	r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
	return nil
}

func (r *MemoryContactRepository) index(owner, id primitive.ObjectID) int {
	for i, c := range r.contacts {
		if c.ID == id && c.Owner == owner {
			return i
		}
	}
	return -1
}
