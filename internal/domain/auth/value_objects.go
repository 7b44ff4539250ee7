package auth

import (
	"strings"

	"bookstore-backoffice/internal/domain/user"
	"bookstore-backoffice/internal/pkg/errs"
)

var (
	ErrPasswordRequired = errs.Validation("password is required")
	ErrFullNameRequired = errs.Validation("full name is required")
	ErrPasswordTooLong  = errs.Validation("password must be at most 72 bytes long")
)

// MaxPasswordBytes is the most bcrypt will hash.
const MaxPasswordBytes = 72

// Credentials is a login attempt. The password is not checked for strength
// here; a weak password simply fails to match.
type Credentials struct {
	email    user.Email
	password string
}

func NewCredentials(emailStr, password string) (Credentials, error) {
	email, err := user.NewEmail(emailStr)
	if err != nil {
		return Credentials{}, err
	}
	if password == "" {
		return Credentials{}, ErrPasswordRequired
	}

	return Credentials{
		email:    email,
		password: password,
	}, nil
}

func (c Credentials) Email() user.Email {
	return c.email
}

func (c Credentials) Password() string {
	return c.password
}

// Identifier is the key repeated attempts are counted under.
func (c Credentials) Identifier() string {
	return "login:" + c.email.Value()
}

// Registration is a self sign-up request. Unlike a login, the password must
// meet the strength rules.
type Registration struct {
	email    user.Email
	password user.Password
	fullName string
}

func NewRegistration(emailStr, password, fullName string) (Registration, error) {
	email, err := user.NewEmail(emailStr)
	if err != nil {
		return Registration{}, err
	}
	pw, err := user.NewPassword(password)
	if err != nil {
		return Registration{}, err
	}
	if len(password) > MaxPasswordBytes {
		return Registration{}, ErrPasswordTooLong
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return Registration{}, ErrFullNameRequired
	}
	return Registration{email: email, password: pw, fullName: fullName}, nil
}

func (r Registration) Email() user.Email       { return r.email }
func (r Registration) Password() user.Password { return r.password }
func (r Registration) FullName() string        { return r.fullName }

// Identifier keys sign-ups apart from logins for the same address.
func (r Registration) Identifier() string {
	return "register:" + r.email.Value()
}
