package repository

import (
	"context"
	"time"

	"bookstore-backoffice/internal/domain/user"
	"bookstore-backoffice/internal/infra"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type UserWriteQueries interface {
	CreateUser(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateUserParams) error
	UpdateUserLastLogin(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateUserLastLoginParams) error
}

type UserRepository struct {
	queries UserWriteQueries
	db      sqlc.DBTX
}

func NewUserRepository(queries UserWriteQueries, db sqlc.DBTX) *UserRepository {
	return &UserRepository{
		queries: queries,
		db:      db,
	}
}

// Create inserts u. A second account for the same email is ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := r.queries.CreateUser(ctx, r.db, sqlc.CreateUserParams{
		ID:           u.ID(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		FullName:     u.FullName(),
		Role:         u.Role().String(),
		IsActive:     u.IsActive(),
	})
	if err == nil {
		return nil
	}
	if pgconv.PgErrorCode(err) == pgconv.CodeUniqueViolation {
		return errs.Wrapf(user.ErrEmailTaken, "%s", u.Email().Value())
	}
	return infra.WrapRepoErr("failed to create user", err)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	err := r.queries.UpdateUserLastLogin(ctx, r.db, sqlc.UpdateUserLastLoginParams{
		ID:        userID,
		LastLogin: pgconv.TimeToPgtype(at),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}
