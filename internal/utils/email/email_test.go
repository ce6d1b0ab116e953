package email

import (
	"context"
	"errors"
	"io"
	"net/smtp"
	"testing"

	"github.com/Dan9191/contacts-service/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender(t *testing.T, send sendFunc) *Sender {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewSender(&config.Config{
		BaseURL:      "http://localhost:3000/",
		SMTPHost:     "smtp.test",
		SMTPPort:     "465",
		SMTPUsername: "mailer",
		SMTPPassword: "pw",
		SenderEmail:  "noreply@test",
	}, log)
	s.send = send
	return s
}

func TestVerificationLink(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "http://h/auth/verify/abc", VerificationLink("http://h/", "abc"))
	assert.Equal(t, "http://h/auth/verify/abc", VerificationLink("http://h", "abc"))
}

func TestSendVerification(t *testing.T) {
	t.Parallel()

	var (
		sent     *email.Email
		sentAddr string
		sentAuth smtp.Auth
	)
	s := newTestSender(t, func(e *email.Email, addr string, auth smtp.Auth) error {
		sent, sentAddr, sentAuth = e, addr, auth
		return nil
	})

	require.NoError(t, s.SendVerification(context.Background(), "a@x.com", "code123"))

	require.NotNil(t, sent)
	assert.Equal(t, "smtp.test:465", sentAddr)
	assert.NotNil(t, sentAuth)
	assert.Equal(t, []string{"a@x.com"}, sent.To)
	assert.Equal(t, "noreply@test", sent.From)
	assert.Equal(t, "Verify email", sent.Subject)
	assert.Contains(t, string(sent.HTML), `href="http://localhost:3000/auth/verify/code123"`)
}

func TestSendVerification_TransportError(t *testing.T) {
	t.Parallel()

	s := newTestSender(t, func(*email.Email, string, smtp.Auth) error {
		return errors.New("connection refused")
	})

	err := s.SendVerification(context.Background(), "a@x.com", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSendVerification_CanceledContext(t *testing.T) {
	t.Parallel()

	called := false
	s := newTestSender(t, func(*email.Email, string, smtp.Auth) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SendVerification(ctx, "a@x.com", "c")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
