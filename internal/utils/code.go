package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewVerificationCode returns an opaque random email verification code
func NewVerificationCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
