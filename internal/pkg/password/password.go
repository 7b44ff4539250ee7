package password

import (
	"bookstore-backoffice/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed   = errs.New("password hashing failed")
	ErrMismatch        = errs.New("password mismatch")
	ErrInvalidPassword = errs.New("invalid password")
)

const DefaultCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	return hashWithCost(password, DefaultCost)
}

// HashPasswordMinCost is for fixtures only.
func HashPasswordMinCost(password string) (string, error) {
	return hashWithCost(password, bcrypt.MinCost)
}

func hashWithCost(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrInvalidPassword
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errs.Mark(errs.Wrap(err, "bcrypt"), ErrHashingFailed)
	}

	return string(hashedBytes), nil
}

func ComparePassword(hashedPassword, password string) error {
	if hashedPassword == "" || password == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		if errs.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return errs.Wrap(err, "compare password")
	}

	return nil
}
