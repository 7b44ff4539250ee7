//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"bookstore-backoffice/internal/domain/user"
	"bookstore-backoffice/internal/handler/dto/request"
	"bookstore-backoffice/internal/handler/dto/response"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/tests/common/authtest"
	"bookstore-backoffice/tests/common/dbtest"
	"bookstore-backoffice/tests/common/httptest"
	"bookstore-backoffice/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL    = "/api/auth/login"
	registerURL = "/api/auth/register"
	logoutURL   = "/api/auth/logout"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper

	adminID    uuid.UUID
	staffID    uuid.UUID
	inactiveID uuid.UUID
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	t := s.T()
	s.adminID = dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
	s.staffID = dbtest.CreateTestUser(t, s.DB, "clerk@example.com", string(user.RoleStaff))
	s.inactiveID = dbtest.CreateTestUser(t, s.DB, "inactive@example.com", string(user.RoleStaff))
	dbtest.DeactivateUser(t, s.DB, s.inactiveID)
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
		expectedKind   errs.Kind
	}{
		{name: "admin logs in", email: "admin@example.com", password: dbtest.DefaultPassword, expectedStatus: http.StatusOK},
		{name: "staff logs in", email: "clerk@example.com", password: dbtest.DefaultPassword, expectedStatus: http.StatusOK},
		{name: "email is matched case-insensitively", email: "Clerk@Example.com", password: dbtest.DefaultPassword, expectedStatus: http.StatusOK},
		{name: "unknown email", email: "nobody@example.com", password: dbtest.DefaultPassword, expectedStatus: http.StatusUnauthorized, expectedKind: errs.KindUnauthorized},
		{name: "wrong password", email: "clerk@example.com", password: "wrong-password", expectedStatus: http.StatusUnauthorized, expectedKind: errs.KindUnauthorized},
		{name: "inactive account", email: "inactive@example.com", password: dbtest.DefaultPassword, expectedStatus: http.StatusForbidden, expectedKind: errs.KindForbidden},
		{name: "malformed email", email: "not-an-email", password: dbtest.DefaultPassword, expectedStatus: http.StatusBadRequest, expectedKind: errs.KindValidation},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")

			if tt.expectedStatus != http.StatusOK {
				httptest.AssertErrorKind(t, w, tt.expectedStatus, tt.expectedKind)
				assert.Nil(t, httptest.ExtractCookie(w, "access_token"))
				return
			}

			var resp response.LoginResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &resp)
			assert.NotEmpty(t, resp.AccessToken)
			assert.Equal(t, "Bearer", resp.TokenType)

			cookie := httptest.ExtractCookie(w, "access_token")
			require.NotNil(t, cookie)
			assert.Equal(t, resp.AccessToken, cookie.Value)
			assert.True(t, cookie.HttpOnly)
		})
	}
}

func (s *authSuite) TestLoginRecordsLastLogin() {
	s.Run("last_login is set after a successful login", func() {
		t := s.T()
		authtest.LoginUser(t, s.Router, "clerk@example.com", dbtest.DefaultPassword)

		var set bool
		err := s.DB.QueryRow(t.Context(),
			"SELECT last_login IS NOT NULL FROM users WHERE id = $1", s.staffID).Scan(&set)
		require.NoError(t, err)
		assert.True(t, set)
	})
}

func (s *authSuite) TestLoginRateLimit() {
	s.Run("repeated failures block the email", func() {
		t := s.T()
		// the limiter outlives subtests, so this email is used nowhere else
		email := "throttled@example.com"
		dbtest.CreateTestUser(t, s.DB, email, string(user.RoleStaff))

		for i := 0; i < s.Config.Limiter.LoginMax; i++ {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: email, Password: "wrong-password"}, "")
			httptest.AssertErrorKind(t, w, http.StatusUnauthorized, errs.KindUnauthorized)
		}

		// correct password is refused while blocked
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: email, Password: dbtest.DefaultPassword}, "")
		httptest.AssertErrorKind(t, w, http.StatusTooManyRequests, errs.KindRateLimited)

		// other identities are unaffected
		authtest.LoginUser(t, s.Router, "admin@example.com", dbtest.DefaultPassword)
	})
}

func (s *authSuite) TestRegister() {
	s.Run("new account can log in as staff", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "Signup@Example.com", Password: "password123", FullName: "Sign Up"}, "")

		var resp response.UserResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &resp)
		assert.Equal(t, "signup@example.com", resp.Email)
		assert.Equal(t, string(user.RoleStaff), resp.Role)

		authtest.LoginUser(t, s.Router, "signup@example.com", "password123")
	})

	s.Run("registered email is rejected", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "admin@example.com", Password: "password123", FullName: "Impostor"}, "")
		httptest.AssertErrorKind(s.T(), w, http.StatusBadRequest, errs.KindValidation)
	})

	s.Run("attempts per email are throttled", func() {
		t := s.T()
		// the limiter outlives subtests, so this email is used nowhere else
		body := request.RegisterRequest{Email: "clerk@example.com", Password: "password123", FullName: "Again"}

		for i := 0; i < s.Config.Limiter.RegisterMax; i++ {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, body, "")
			httptest.AssertErrorKind(t, w, http.StatusBadRequest, errs.KindValidation)
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, body, "")
		httptest.AssertErrorKind(t, w, http.StatusTooManyRequests, errs.KindRateLimited)
	})
}

func (s *authSuite) TestMe() {
	s.Run("cookie session", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "clerk@example.com", Password: dbtest.DefaultPassword}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		cookies := w.Result().Cookies()

		me := httptest.PerformRequestWithCookies(t, s.Router, http.MethodGet, meURL, nil, cookies, "")
		var resp response.UserResponse
		httptest.AssertSuccessResponse(t, me, http.StatusOK, &resp)
		assert.Equal(t, s.staffID, resp.ID)
		assert.Equal(t, "clerk@example.com", resp.Email)
		assert.Equal(t, string(user.RoleStaff), resp.Role)
		assert.NotNil(t, resp.LastLogin)
		assert.Equal(t, []string{"create_sale"}, resp.Capabilities)
	})

	s.Run("bearer token", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "admin@example.com", dbtest.DefaultPassword)

		me := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		var resp response.UserResponse
		httptest.AssertSuccessResponse(t, me, http.StatusOK, &resp)
		assert.Equal(t, s.adminID, resp.ID)
		assert.Contains(t, resp.Capabilities, "view_reports")
	})

	s.Run("no credentials", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "")
		httptest.AssertErrorKind(s.T(), w, http.StatusUnauthorized, errs.KindUnauthorized)
	})

	s.Run("token signed with another secret", func() {
		t := s.T()
		other := s.Config.JWT
		other.Secret = "some-other-secret"
		token := authtest.NewJWTHelper(other).GenerateToken(t, s.staffID, user.RoleStaff)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		httptest.AssertErrorKind(t, w, http.StatusUnauthorized, errs.KindUnauthorized)
	})

	s.Run("expired token", func() {
		t := s.T()
		token := s.jwt.CreateExpiredToken(t, s.staffID, user.RoleStaff)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		httptest.AssertErrorKind(t, w, http.StatusUnauthorized, errs.KindUnauthorized)
	})

	s.Run("token of a deactivated user", func() {
		t := s.T()
		token := s.jwt.GenerateToken(t, s.inactiveID, user.RoleStaff)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		httptest.AssertErrorKind(t, w, http.StatusForbidden, errs.KindForbidden)
	})
}

func (s *authSuite) TestLogout() {
	s.Run("logout clears the cookie", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "clerk@example.com", Password: dbtest.DefaultPassword}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		out := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, logoutURL, nil, w.Result().Cookies(), "")
		assert.Equal(t, http.StatusNoContent, out.Code)

		cleared := httptest.ExtractCookie(out, "access_token")
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
		assert.Less(t, cleared.MaxAge, 0)
	})

	s.Run("logout requires a session", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, logoutURL, nil, "")
		httptest.AssertErrorKind(s.T(), w, http.StatusUnauthorized, errs.KindUnauthorized)
	})
}
