package user

import (
	"regexp"
	"strings"

	"bookstore-backoffice/internal/pkg/errs"
)

var (
	ErrInvalidEmail    = errs.Validation("invalid email format")
	ErrInvalidRole     = errs.Validation("invalid role")
	ErrPasswordTooWeak = errs.Validation("password must be at least 8 characters long")
	ErrEmailTaken      = errs.Validation("email already registered")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email struct {
	value string
}

// NewEmail trims and lower-cases s; addresses compare case-insensitively.
func NewEmail(s string) (Email, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

type Password struct {
	value string
}

func NewPassword(s string) (Password, error) {
	if len(s) < 8 {
		return Password{}, ErrPasswordTooWeak
	}
	return Password{value: s}, nil
}

func (p Password) Value() string {
	return p.value
}
