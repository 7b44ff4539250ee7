//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"bookstore-backoffice/internal/domain/user"
	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, h.cfg.Duration)
	token, _, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, time.Millisecond)
	token, _, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	return token
}
