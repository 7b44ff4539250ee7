package api

import (
	"net/http"

	"bookstore-backoffice/internal/domain/authz"
	reqdto "bookstore-backoffice/internal/handler/dto/request"
	resdto "bookstore-backoffice/internal/handler/dto/response"
	"bookstore-backoffice/internal/handler/httperr"
	"bookstore-backoffice/internal/handler/middleware"
	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/cookie"
	"bookstore-backoffice/internal/usecase/commands"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cmds commands.AuthCommands
	q    queries.UserQueries
	gate *authz.Gate
	cfg  config.Config
}

func NewAuthHandler(cmds commands.AuthCommands, q queries.UserQueries, gate *authz.Gate, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		cmds: cmds,
		q:    q,
		gate: gate,
		cfg:  cfg,
	}
}

// @Summary Log in
// @Description Exchange email and password for an access token. Repeated failures for one email are throttled.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Credentials"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req.ToInput())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	cookie.SetAccessToken(c, h.cfg.Cookie, result.AccessToken, h.cfg.JWT.Duration)
	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		UserID:      result.UserID,
		Role:        result.Role.String(),
	})
}

// @Summary Register
// @Description Create an active staff account. Attempts per email are throttled.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "New account"
// @Success 201 {object} resdto.UserResponse
// @Failure 400 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.cmds.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromUser(u))
}

// @Summary Log out
// @Description Clear the access token cookie. Bearer tokens expire on their own.
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearAccessToken(c, h.cfg.Cookie)
	c.Status(http.StatusNoContent)
}

// @Summary Current user
// @Description Account of the authenticated user and the capabilities it holds
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.UserResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := h.q.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	res, err := resdto.FromUserView(view)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	for _, capability := range h.gate.Capabilities(middleware.GetActor(c)) {
		res.Capabilities = append(res.Capabilities, string(capability))
	}
	c.JSON(http.StatusOK, res)
}
