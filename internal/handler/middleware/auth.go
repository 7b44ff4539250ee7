package middleware

import (
	"log/slog"
	"strings"

	"bookstore-backoffice/internal/domain/authz"
	"bookstore-backoffice/internal/domain/user"
	"bookstore-backoffice/internal/handler/httperr"
	"bookstore-backoffice/internal/pkg/cookie"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var ErrTokenRequired = errs.Mark(errs.New("access token required"), errs.ErrUnauthorized)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
	gate           *authz.Gate
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator, gate *authz.Gate) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
		gate:           gate,
	}
}

// RequireAuth accepts the access token from its cookie first, then from a
// Bearer Authorization header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.GetAccessToken(c)
		if token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}
		if token == "" {
			httperr.AbortWithKind(c, ErrTokenRequired)
			return
		}

		userID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "token rejected", slog.String("error", err.Error()))
			httperr.AbortWithKind(c, err)
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxUserRoleKey, role)
		c.Next()
	}
}

// RequireCapability asks the gate before the handler runs. It must follow
// RequireAuth.
func (m *AuthMiddleware) RequireCapability(capability authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.gate.Check(GetActor(c), capability, nil); err != nil {
			httperr.AbortWithKind(c, err)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	v, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(user.Role)
	return role, ok
}

// GetActor returns the zero Actor for unauthenticated requests.
func GetActor(c *gin.Context) authz.Actor {
	id, ok := GetUserID(c)
	if !ok {
		return authz.Actor{}
	}
	role, _ := GetUserRole(c)
	return authz.Actor{ID: id, Elevated: role.IsElevated()}
}
