package service

import (
	"context"
	"time"

	"github.com/Dan9191/contacts-service/internal/config"
	"github.com/Dan9191/contacts-service/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is the user-record store. Consistency (unique email, atomic
// verification) is enforced by its implementations, not by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	VerifyByCode(ctx context.Context, code string) (*models.User, error)
	SetToken(ctx context.Context, id primitive.ObjectID, token string) error
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error
	UpdateSubscription(ctx context.Context, id primitive.ObjectID, sub models.Subscription) (*models.User, error)
	MarkVerificationSent(ctx context.Context, id primitive.ObjectID) error
	MarkVerificationAttempt(ctx context.Context, id primitive.ObjectID, at time.Time) error
	FindPendingVerification(ctx context.Context, attemptedBefore time.Time, limit int) ([]models.User, error)
}

// ContactRepository is the contact store
type ContactRepository interface {
	List(ctx context.Context, owner primitive.ObjectID, f models.ContactFilter) ([]models.Contact, error)
	Get(ctx context.Context, owner, id primitive.ObjectID) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, owner, id primitive.ObjectID, u models.ContactUpdate) (*models.Contact, error)
	Delete(ctx context.Context, owner, id primitive.ObjectID) error
}

// Mailer delivers verification emails
type Mailer interface {
	SendVerification(ctx context.Context, to, code string) error
}

// AvatarStorage persists processed avatar images and returns their reference
type AvatarStorage interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// ResendLimiter throttles verification email resends
type ResendLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}

// Deps groups the collaborators of Service
type Deps struct {
	Users    UserRepository
	Contacts ContactRepository
	Mailer   Mailer
	Avatars  AvatarStorage
	Limiter  ResendLimiter
}

// Service handles business logic
type Service struct {
	users    UserRepository
	contacts ContactRepository
	mailer   Mailer
	avatars  AvatarStorage
	limiter  ResendLimiter
	log      *logrus.Logger
	config   *config.Config
	now      func() time.Time
}

// NewService initializes a new service
func NewService(deps Deps, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		users:    deps.Users,
		contacts: deps.Contacts,
		mailer:   deps.Mailer,
		avatars:  deps.Avatars,
		limiter:  deps.Limiter,
		log:      log,
		config:   cfg,
		now:      time.Now,
	}
}
