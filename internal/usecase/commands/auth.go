package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bookstore-backoffice/internal/domain/auth"
	"bookstore-backoffice/internal/domain/user"
	"bookstore-backoffice/internal/infra"
	"bookstore-backoffice/internal/pkg/attempt"
	"bookstore-backoffice/internal/pkg/clock"
	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/pkg/jwt"
	"bookstore-backoffice/internal/pkg/password"
	"bookstore-backoffice/internal/pkg/tracing"
	"bookstore-backoffice/internal/usecase/queries"
	"bookstore-backoffice/internal/usecase/shared"
)

var (
	ErrInvalidCredentials = errs.Mark(errs.New("invalid email or password"), errs.ErrUnauthorized)
	ErrTokenGeneration    = errs.New("token generation failed")
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	UserID      uuid.UUID
	Role        user.Role
	AccessToken string
	ExpiresAt   time.Time
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type AuthCommands interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) (*user.User, error)
}

type authCommandsImpl struct {
	uow            shared.UnitOfWork
	readStore      queries.UserReadStore
	jwtService     *jwt.Service
	limiter        attempt.Limiter
	policy         attempt.Policy
	registerPolicy attempt.Policy
	clock          clock.Clock
}

func NewAuthCommands(
	uow shared.UnitOfWork,
	readStore queries.UserReadStore,
	jwtService *jwt.Service,
	limiter attempt.Limiter,
	clk clock.Clock,
	cfg config.Config,
) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
		limiter:    limiter,
		policy: attempt.Policy{
			MaxAttempts: cfg.Limiter.LoginMax,
			Window:      cfg.Limiter.LoginWindow,
		},
		registerPolicy: attempt.Policy{
			MaxAttempts: cfg.Limiter.RegisterMax,
			Window:      cfg.Limiter.RegisterWindow,
		},
		clock: clk,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, in LoginInput) (_ *LoginResult, err error) {
	ctx, span := tracing.Start(ctx, "AuthCommands.Login")
	defer func() { tracing.End(span, err) }()

	credentials, err := auth.NewCredentials(in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	allowed, err := a.limiter.Allow(ctx, credentials.Identifier(), a.policy)
	if err != nil {
		return nil, err
	}
	if !allowed {
		slog.WarnContext(ctx, "login blocked", slog.String("identifier", credentials.Identifier()))
		return nil, attempt.ErrBlocked
	}

	view, err := a.verify(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := a.jwtService.GenerateToken(view.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, view.ID, a.clock.Now())
	})
	if err != nil {
		// Login already succeeded; a stale last_login is tolerated.
		slog.WarnContext(ctx, "failed to update last login",
			slog.String("user_id", view.ID.String()),
			slog.String("error", err.Error()))
	}

	return &LoginResult{
		UserID:      view.ID,
		Role:        role,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// verify checks the password. Unknown email and wrong password are reported
// the same way and both count as a failure.
func (a *authCommandsImpl) verify(ctx context.Context, credentials auth.Credentials) (*queries.AuthorizedUserView, error) {
	view, hash, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return nil, err
		}
		return nil, a.fail(ctx, credentials)
	}

	if err := password.ComparePassword(hash, credentials.Password()); err != nil {
		if errs.Is(err, password.ErrMismatch) || errs.Is(err, password.ErrInvalidPassword) {
			return nil, a.fail(ctx, credentials)
		}
		return nil, err
	}

	if !view.IsActive {
		return nil, queries.ErrUserInactive
	}
	return view, nil
}

func (a *authCommandsImpl) fail(ctx context.Context, credentials auth.Credentials) error {
	if err := a.limiter.RecordFailure(ctx, credentials.Identifier(), a.policy); err != nil {
		slog.WarnContext(ctx, "failed to record login failure",
			slog.String("identifier", credentials.Identifier()),
			slog.String("error", err.Error()))
	}
	return ErrInvalidCredentials
}

// Register creates an active staff account. Every attempt counts against the
// email, successful or not.
func (a *authCommandsImpl) Register(ctx context.Context, in RegisterInput) (_ *user.User, err error) {
	ctx, span := tracing.Start(ctx, "AuthCommands.Register")
	defer func() { tracing.End(span, err) }()

	reg, err := auth.NewRegistration(in.Email, in.Password, in.FullName)
	if err != nil {
		return nil, err
	}

	allowed, err := a.limiter.Allow(ctx, reg.Identifier(), a.registerPolicy)
	if err != nil {
		return nil, err
	}
	if !allowed {
		slog.WarnContext(ctx, "registration blocked", slog.String("identifier", reg.Identifier()))
		return nil, attempt.ErrBlocked
	}
	if err := a.limiter.RecordFailure(ctx, reg.Identifier(), a.registerPolicy); err != nil {
		slog.WarnContext(ctx, "failed to record registration attempt",
			slog.String("identifier", reg.Identifier()),
			slog.String("error", err.Error()))
	}

	_, _, err = a.readStore.FindByEmail(ctx, reg.Email().Value())
	switch {
	case err == nil:
		return nil, user.ErrEmailTaken
	case !infra.IsKind(err, infra.KindNotFound):
		return nil, err
	}

	hash, err := password.HashPassword(reg.Password().Value())
	if err != nil {
		return nil, err
	}
	u := user.NewUser(reg.Email(), hash, reg.FullName(), user.RoleStaff)

	// the unique index still decides a race between two sign-ups
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", slog.String("user_id", u.ID().String()))
	return u, nil
}
