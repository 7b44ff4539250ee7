//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"bookstore-backoffice/internal/domain/authz"
	"bookstore-backoffice/internal/domain/user"
	"bookstore-backoffice/internal/handler/api"
	reqdto "bookstore-backoffice/internal/handler/dto/request"
	resdto "bookstore-backoffice/internal/handler/dto/response"
	"bookstore-backoffice/internal/pkg/attempt"
	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/usecase/commands"
	"bookstore-backoffice/internal/usecase/queries"
	"bookstore-backoffice/tests/common/builder"
	"bookstore-backoffice/tests/common/httptest"
	"bookstore-backoffice/tests/common/testutil"
	commandsmock "bookstore-backoffice/tests/mock/commands"
	queriesmock "bookstore-backoffice/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockQueries  *queriesmock.MockUserQueries
	handler      *api.AuthHandler
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockUserQueries(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries, authz.NewGate(), config.NewTestConfig())

	s.router.POST("/auth/login", s.handler.Login)
	s.router.POST("/auth/register", s.handler.Register)
	s.router.POST("/auth/logout", s.handler.Logout)
	s.router.GET("/auth/me", func(c *gin.Context) {
		// stands in for RequireAuth
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", uuid.New())
			c.Set("user_role", user.RoleAdmin)
		}
		s.handler.Me(c)
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

type testCaseAuth struct {
	name       string
	mutate     testutil.Mutation
	expectCode int
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"

	reqBody := builder.NewAuthBuilder().BuildDTO()
	returnUser := builder.NewUserBuilder().BuildReadModel()
	result := &commands.LoginResult{
		UserID:      returnUser.ID,
		Role:        user.RoleStaff,
		AccessToken: "test-jwt-token",
		ExpiresAt:   time.Now().Add(30 * time.Minute),
	}

	s.Run("success: returns 200 with token and sets cookie", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), reqBody.ToInput()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(result.AccessToken, response.AccessToken)
		s.Equal("Bearer", response.TokenType)
		s.Equal(returnUser.ID, response.UserID)
		s.Equal("staff", response.Role)

		cookie := httptest.ExtractCookie(rec, "access_token")
		s.Require().NotNil(cookie)
		s.Equal(result.AccessToken, cookie.Value)
		s.True(cookie.HttpOnly)
	})

	s.Run("error: 400 Bad Request when binding fails", func() {
		missing := []testCaseAuth{
			{name: "missing field: email", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: password", mutate: testutil.Field("password", nil), expectCode: http.StatusBadRequest},
		}
		empty := []testCaseAuth{
			{name: "empty email", mutate: testutil.Field("email", ""), expectCode: http.StatusBadRequest},
			{name: "empty password", mutate: testutil.Field("password", ""), expectCode: http.StatusBadRequest},
		}

		for _, group := range [][]testCaseAuth{missing, empty} {
			for _, tc := range group {
				s.Run(tc.name, func() {
					requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
					rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
					httptest.AssertErrorKind(s.T(), rec, tc.expectCode, errs.KindValidation)
				})
			}
		}
	})

	s.Run("error: maps command errors to statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedKind   errs.Kind
			expectedMsg    string
		}{
			{
				name:           "malformed email",
				commandsError:  user.ErrInvalidEmail,
				expectedStatus: http.StatusBadRequest,
				expectedKind:   errs.KindValidation,
				expectedMsg:    "invalid email format",
			},
			{
				name:           "invalid credentials",
				commandsError:  commands.ErrInvalidCredentials,
				expectedStatus: http.StatusUnauthorized,
				expectedKind:   errs.KindUnauthorized,
				expectedMsg:    "invalid email or password",
			},
			{
				name:           "user inactive",
				commandsError:  queries.ErrUserInactive,
				expectedStatus: http.StatusForbidden,
				expectedKind:   errs.KindForbidden,
				expectedMsg:    "user inactive",
			},
			{
				name:           "too many attempts",
				commandsError:  attempt.ErrBlocked,
				expectedStatus: http.StatusTooManyRequests,
				expectedKind:   errs.KindRateLimited,
				expectedMsg:    "too many failed attempts",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedKind:   errs.KindInternal,
				expectedMsg:    "internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Login(gomock.Any(), reqBody.ToInput()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorKind(s.T(), rec, tc.expectedStatus, tc.expectedKind)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
				s.Nil(httptest.ExtractCookie(rec, "access_token"))
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestRegister() {
	url := "/auth/register"
	reqBody := reqdto.RegisterRequest{Email: "new.clerk@example.com", Password: "password123", FullName: "New Clerk"}

	s.Run("success: returns 201 with the new account", func() {
		email, err := user.NewEmail(reqBody.Email)
		s.Require().NoError(err)
		created := user.NewUser(email, "hash", reqBody.FullName, user.RoleStaff)
		s.mockCommands.EXPECT().Register(gomock.Any(), reqBody.ToInput()).Return(created, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.UserResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(created.ID(), response.ID)
		s.Equal("new.clerk@example.com", response.Email)
		s.Equal("staff", response.Role)
		s.True(response.IsActive)
		s.NotContains(rec.Body.String(), "hash")
		s.Nil(httptest.ExtractCookie(rec, "access_token"))
	})

	s.Run("error: 400 when binding fails", func() {
		testCases := []testCaseAuth{
			{name: "missing email", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
			{name: "short password", mutate: testutil.Field("password", "short"), expectCode: http.StatusBadRequest},
			{name: "password past the bcrypt limit", mutate: testutil.Field("password", strings.Repeat("x", 73)), expectCode: http.StatusBadRequest},
			{name: "missing full name", mutate: testutil.Field("full_name", nil), expectCode: http.StatusBadRequest},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), reqBody, tc.mutate), "")
				httptest.AssertErrorKind(s.T(), rec, tc.expectCode, errs.KindValidation)
			})
		}
	})

	s.Run("error: maps command errors to statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
			expectedKind   errs.Kind
			expectedMsg    string
		}{
			{name: "email taken", err: user.ErrEmailTaken, expectedStatus: http.StatusBadRequest, expectedKind: errs.KindValidation, expectedMsg: "email already registered"},
			{name: "too many attempts", err: attempt.ErrBlocked, expectedStatus: http.StatusTooManyRequests, expectedKind: errs.KindRateLimited},
			{name: "storage failure", err: errs.Mark(errs.New("conn reset"), errs.ErrStorage), expectedStatus: http.StatusServiceUnavailable, expectedKind: errs.KindStorage},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Register(gomock.Any(), reqBody.ToInput()).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorKind(s.T(), rec, tc.expectedStatus, tc.expectedKind)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestLogout() {
	s.Run("success: returns 204 and expires the cookie", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)

		cookie := httptest.ExtractCookie(rec, "access_token")
		s.Require().NotNil(cookie)
		s.Empty(cookie.Value)
		s.Negative(cookie.MaxAge)
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"
	returnUser := builder.NewUserBuilder().AsAdmin().BuildReadModel()

	s.Run("success: returns current user with capabilities", func() {
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), gomock.Any()).
			Return(returnUser, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.UserResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(returnUser.Email, response.Email)
		s.ElementsMatch([]string{
			string(authz.CreateSale),
			string(authz.ManageInventory),
			string(authz.ViewAllSales),
			string(authz.ViewReports),
		}, response.Capabilities)
	})

	s.Run("error: returns 500 when user_id missing in context", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorKind(s.T(), rec, http.StatusInternalServerError, errs.KindInternal)
	})

	s.Run("error: maps query errors to statuses", func() {
		testCases := []struct {
			name           string
			queryError     error
			expectedStatus int
		}{
			{name: "user not found", queryError: queries.ErrUserNotFound, expectedStatus: http.StatusNotFound},
			{name: "user inactive", queryError: queries.ErrUserInactive, expectedStatus: http.StatusForbidden},
			{name: "storage failure", queryError: errs.Mark(errs.New("connection refused"), errs.ErrStorage), expectedStatus: http.StatusServiceUnavailable},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), gomock.Any()).
					Return(nil, tc.queryError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}
