package readstore

import (
	"context"

	"bookstore-backoffice/internal/infra"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/pgconv"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SaleViewQueries interface {
	GetSaleView(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.GetSaleViewRow, error)
	ListSales(ctx context.Context, db sqlc.DBTX, arg sqlc.ListSalesParams) ([]sqlc.ListSalesRow, error)
	ListSaleItemViews(ctx context.Context, db sqlc.DBTX, saleIds []uuid.UUID) ([]sqlc.ListSaleItemViewsRow, error)
}

type SaleReadStore struct {
	queries SaleViewQueries
	db      sqlc.DBTX
}

func NewSaleReadStore(queries SaleViewQueries, db sqlc.DBTX) *SaleReadStore {
	return &SaleReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *SaleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SaleView, error) {
	row, err := r.queries.GetSaleView(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get sale view by id", err)
	}

	view := &queries.SaleView{
		ID:           row.ID,
		CustomerID:   pgconv.UUIDPtrFromPgtype(row.CustomerID),
		CustomerName: pgconv.StringPtrFromPgtype(row.CustomerName),
		TotalAmount:  row.TotalAmount,
		CreatedAt:    pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:    pgconv.TimeFromPgtype(row.UpdatedAt),
	}
	if err := r.attachItems(ctx, []*queries.SaleView{view}); err != nil {
		return nil, err
	}
	return view, nil
}

func (r *SaleReadStore) List(ctx context.Context, filter queries.SaleFilter, after *queries.Keyset, limit int32) ([]*queries.SaleView, error) {
	params := sqlc.ListSalesParams{
		CustomerID: pgconv.UUIDPtrToPgtype(filter.CustomerID),
		BookID:     pgconv.UUIDPtrToPgtype(filter.BookID),
		RowLimit:   limit,
	}
	if after != nil {
		params.AfterCreatedAt = pgconv.TimeToPgtype(after.CreatedAt)
		params.AfterID = pgtype.UUID{Bytes: after.ID, Valid: true}
	}

	rows, err := r.queries.ListSales(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list sales", err)
	}

	views := make([]*queries.SaleView, len(rows))
	for i, row := range rows {
		views[i] = &queries.SaleView{
			ID:           row.ID,
			CustomerID:   pgconv.UUIDPtrFromPgtype(row.CustomerID),
			CustomerName: pgconv.StringPtrFromPgtype(row.CustomerName),
			TotalAmount:  row.TotalAmount,
			CreatedAt:    pgconv.TimeFromPgtype(row.CreatedAt),
			UpdatedAt:    pgconv.TimeFromPgtype(row.UpdatedAt),
		}
	}
	if err := r.attachItems(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

// attachItems loads line items for all views in one query.
func (r *SaleReadStore) attachItems(ctx context.Context, views []*queries.SaleView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(views))
	byID := make(map[uuid.UUID]*queries.SaleView, len(views))
	for i, v := range views {
		ids[i] = v.ID
		v.Items = []queries.SaleItemView{}
		byID[v.ID] = v
	}

	rows, err := r.queries.ListSaleItemViews(ctx, r.db, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to list sale items", err)
	}
	for _, row := range rows {
		v, ok := byID[row.SaleID]
		if !ok {
			continue
		}
		v.Items = append(v.Items, queries.SaleItemView{
			BookID:    row.BookID,
			BookTitle: row.BookTitle,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
			Subtotal:  row.Subtotal,
		})
	}
	return nil
}
