package handler

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/Dan9191/contacts-service/internal/httpx"
)

const minPasswordLength = 6

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return httpx.BadRequest(`"email" is required`)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return httpx.BadRequest(`"email" must be a valid email`)
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return httpx.BadRequest(`"password" is required`)
	}
	if len(password) < minPasswordLength {
		return httpx.BadRequest(fmt.Sprintf(`"password" length must be at least %d characters long`, minPasswordLength))
	}
	return nil
}

func validateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return httpx.BadRequest(`"` + field + `" is required`)
	}
	return nil
}
