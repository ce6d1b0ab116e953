package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/Dan9191/contacts-service/internal/auth"
	"github.com/Dan9191/contacts-service/internal/httpx"
	"github.com/Dan9191/contacts-service/internal/models"
	"github.com/Dan9191/contacts-service/internal/repository"
	"github.com/Dan9191/contacts-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgCredentialsInvalid = "Email or password invalid"
	msgNotVerified        = "Email not verified"
	msgNotAuthorized      = "Not authorized"
	msgUserNotFound       = "User not found"

	pendingBatchSize = 50
)

// SigninResult is returned on successful signin
type SigninResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers an unverified user and sends the verification email.
// A delivery failure is returned after the user is stored; the pending email
// is retried by ResendPendingVerifications.
func (s *Service) Signup(ctx context.Context, email, password string) (*models.PublicUser, error) {
	email = normalizeEmail(email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, httpx.Conflict("Email already in use")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:            email,
		Password:         string(hashedPassword),
		Subscription:     models.SubscriptionStarter,
		VerificationCode: utils.NewVerificationCode(),
		AvatarURL:        utils.GravatarURL(email),
	}
	// This request owns the first delivery; the outbox waits out the retry delay.
	user.VerificationAttemptAt = s.now()
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, httpx.Conflict("Email already in use")
		}
		return nil, err
	}
	s.log.Infof("User registered: %s", user.Email)

	if err := s.sendVerification(ctx, user); err != nil {
		return nil, err
	}

	public := user.Public()
	return &public, nil
}

// Verify consumes a verification code
func (s *Service) Verify(ctx context.Context, code string) error {
	user, err := s.users.VerifyByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return httpx.NotFound(msgUserNotFound)
	}
	if err != nil {
		return err
	}

	s.log.Infof("User verified: %s", user.Email)
	return nil
}

// ResendVerifyEmail sends the stored verification code again
func (s *Service) ResendVerifyEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		return err
	}
	if !allowed {
		return httpx.TooManyRequests("Too many requests")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return httpx.NotFound(msgUserNotFound)
	}
	if err != nil {
		return err
	}
	if user.Verify {
		return httpx.BadRequest("Verification has already been passed")
	}

	return s.sendVerification(ctx, user)
}

// Signin checks credentials and issues a session token, replacing any previous one.
// Verification status is only reported once the password matched.
func (s *Service) Signin(ctx context.Context, email, password string) (*SigninResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, httpx.Unauthorized(msgCredentialsInvalid)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, httpx.Unauthorized(msgCredentialsInvalid)
	}
	if !user.Verify {
		return nil, httpx.Unauthorized(msgNotVerified)
	}

	token, err := auth.GenerateToken(user.ID.Hex(), []byte(s.config.JWTSecret), s.config.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.users.SetToken(ctx, user.ID, token); err != nil {
		return nil, err
	}

	s.log.Infof("User signed in: %s", user.Email)
	return &SigninResult{Token: token, User: user.Public()}, nil
}

// Authenticate resolves a bearer token to its user. Only the token most
// recently issued to the user is accepted.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.ParseToken(token, []byte(s.config.JWTSecret))
	if err != nil {
		return nil, httpx.Unauthorized(msgNotAuthorized)
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, httpx.Unauthorized(msgNotAuthorized)
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, httpx.Unauthorized(msgNotAuthorized)
	}
	if err != nil {
		return nil, err
	}
	if user.Token == "" || user.Token != token {
		return nil, httpx.Unauthorized(msgNotAuthorized)
	}
	return user, nil
}

// GetCurrent returns the email and plan of an authenticated user
func (s *Service) GetCurrent(user *models.User) models.PublicUser {
	return models.PublicUser{Email: user.Email, Subscription: user.Subscription}
}

// Signout clears the stored session token. Repeated calls are harmless.
func (s *Service) Signout(ctx context.Context, user *models.User) error {
	err := s.users.SetToken(ctx, user.ID, "")
	if errors.Is(err, repository.ErrNotFound) {
		return httpx.Unauthorized(msgNotAuthorized)
	}
	if err != nil {
		return err
	}

	s.log.Infof("User signed out: %s", user.Email)
	return nil
}

// UpdateAvatar resizes an uploaded image, stores it and points the user's avatar at it
func (s *Service) UpdateAvatar(ctx context.Context, user *models.User, file io.Reader, filename string) (string, error) {
	data, err := utils.ResizeAvatar(file, filename)
	if err != nil {
		return "", httpx.BadRequest("Invalid image file")
	}

	name := utils.AvatarFileName(user.ID.Hex(), filename)
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	avatarURL, err := s.avatars.Save(ctx, name, data, contentType)
	if err != nil {
		return "", err
	}

	err = s.users.UpdateAvatar(ctx, user.ID, avatarURL)
	if errors.Is(err, repository.ErrNotFound) {
		return "", httpx.Unauthorized(msgNotAuthorized)
	}
	if err != nil {
		return "", err
	}

	s.log.Infof("Avatar updated for %s", user.Email)
	return avatarURL, nil
}

// UpdateSubscription switches the user's plan
func (s *Service) UpdateSubscription(ctx context.Context, user *models.User, sub models.Subscription) (*models.PublicUser, error) {
	if !sub.Valid() {
		return nil, httpx.BadRequest(fmt.Sprintf("Subscription must be one of %s, %s, %s",
			models.SubscriptionStarter, models.SubscriptionPro, models.SubscriptionBusiness))
	}

	updated, err := s.users.UpdateSubscription(ctx, user.ID, sub)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, httpx.Unauthorized(msgNotAuthorized)
	}
	if err != nil {
		return nil, err
	}

	s.log.Infof("Subscription of %s changed to %s", updated.Email, updated.Subscription)
	public := s.GetCurrent(updated)
	return &public, nil
}

// ResendPendingVerifications delivers verification emails that failed at signup.
// Every attempt is recorded before sending, so undeliverable addresses rotate to
// the back of the queue instead of filling each batch. It returns how many were sent.
func (s *Service) ResendPendingVerifications(ctx context.Context) (int, error) {
	now := s.now()
	users, err := s.users.FindPendingVerification(ctx, now.Add(-s.config.PendingEmailRetryAfter), pendingBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range users {
		if err := s.users.MarkVerificationAttempt(ctx, users[i].ID, now); err != nil {
			return sent, err
		}
		if err := s.sendVerification(ctx, &users[i]); err != nil {
			if ctx.Err() != nil {
				return sent, ctx.Err()
			}
			continue
		}
		sent++
	}
	if len(users) > 0 {
		s.log.Infof("Pending verification emails sent: %d of %d", sent, len(users))
	}
	return sent, nil
}

func (s *Service) sendVerification(ctx context.Context, user *models.User) error {
	if err := s.mailer.SendVerification(ctx, user.Email, user.VerificationCode); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	if err := s.users.MarkVerificationSent(ctx, user.ID); err != nil {
		s.log.Warnf("Failed to mark verification email sent for %s: %v", user.Email, err)
	}
	return nil
}
