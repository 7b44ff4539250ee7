package queries

import (
	"context"

	"github.com/google/uuid"

	"bookstore-backoffice/internal/infra"
	"bookstore-backoffice/internal/pkg/errs"
)

var (
	ErrUserNotFound = errs.Mark(errs.New("user not found"), errs.ErrNotFound)
	ErrUserInactive = errs.Mark(errs.New("user inactive"), errs.ErrForbidden)
)

type UserQueries interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
	// FindByEmail also returns the password hash for credential checks.
	FindByEmail(ctx context.Context, email string) (*AuthorizedUserView, string, error)
}

type userQueriesImpl struct {
	readStore UserReadStore
}

func NewUserQueries(readStore UserReadStore) UserQueries {
	return &userQueriesImpl{
		readStore: readStore,
	}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error) {
	u, err := q.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !u.IsActive {
		return nil, ErrUserInactive
	}

	return u, nil
}

func (q *userQueriesImpl) GetByID(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error) {
	u, err := q.readStore.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
