package response

import (
	"time"

	"bookstore-backoffice/internal/domain/user"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
}

type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Capabilities []string   `json:"capabilities,omitempty"`
}

func FromUserView(v *queries.AuthorizedUserView) (*UserResponse, error) {
	var out UserResponse
	if err := copyView(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}

// FromUser renders an account that was just created and has no read model yet.
func FromUser(u *user.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID(),
		Email:     u.Email().Value(),
		FullName:  u.FullName(),
		Role:      u.Role().String(),
		IsActive:  u.IsActive(),
		LastLogin: u.LastLogin(),
	}
}
