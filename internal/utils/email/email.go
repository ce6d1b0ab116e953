package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/contacts-service/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   sendFunc
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// VerificationLink builds the link a user follows to confirm their email
func VerificationLink(baseURL, code string) string {
	return fmt.Sprintf("%s/auth/verify/%s", strings.TrimRight(baseURL, "/"), code)
}

// SendVerification sends the email verification link for code to the given address
func (s *Sender) SendVerification(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Verify email"
	e.HTML = []byte(fmt.Sprintf(
		`<a target="_blank" href="%s">Click to verify email</a>`,
		VerificationLink(s.cfg.BaseURL, code),
	))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send verification email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
