package readstore

import (
	"context"

	"bookstore-backoffice/internal/infra"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/pgconv"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/google/uuid"
)

type CustomerViewQueries interface {
	GetCustomerByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Customers, error)
}

type CustomerReadStore struct {
	queries CustomerViewQueries
	db      sqlc.DBTX
}

func NewCustomerReadStore(queries CustomerViewQueries, db sqlc.DBTX) *CustomerReadStore {
	return &CustomerReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *CustomerReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CustomerView, error) {
	row, err := r.queries.GetCustomerByID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get customer by id", err)
	}
	return &queries.CustomerView{
		ID:    row.ID,
		Name:  row.Name,
		Email: pgconv.StringPtrFromPgtype(row.Email),
		Phone: pgconv.StringPtrFromPgtype(row.Phone),
	}, nil
}
