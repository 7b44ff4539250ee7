package repository

import (
	"context"

	"bookstore-backoffice/internal/domain/sale"
	"bookstore-backoffice/internal/infra"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SaleWriteQueries interface {
	CreateSale(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateSaleParams) error
	CreateSaleItem(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateSaleItemParams) error
	GetSaleForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Sales, error)
	ListSaleItemsBySale(ctx context.Context, db sqlc.DBTX, saleID uuid.UUID) ([]sqlc.SaleItems, error)
	UpdateSale(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateSaleParams) error
	DeleteSaleItemsBySale(ctx context.Context, db sqlc.DBTX, saleID uuid.UUID) error
	DeleteSale(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (int64, error)
}

type SaleRepository struct {
	queries SaleWriteQueries
	db      sqlc.DBTX
}

func NewSaleRepository(queries SaleWriteQueries, db sqlc.DBTX) *SaleRepository {
	return &SaleRepository{
		queries: queries,
		db:      db,
	}
}

func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	err := r.queries.CreateSale(ctx, r.db, sqlc.CreateSaleParams{
		ID:          s.ID(),
		CustomerID:  pgconv.UUIDPtrToPgtype(s.CustomerID()),
		TotalAmount: s.Total(),
		CreatedAt:   pgconv.TimeToPgtype(s.CreatedAt()),
		UpdatedAt:   pgconv.TimeToPgtype(s.UpdatedAt()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to create sale", err)
	}
	return r.insertItems(ctx, s)
}

// GetForUpdate loads a sale with its items and locks the sale row.
func (r *SaleRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	row, err := r.queries.GetSaleForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Wrapf(sale.ErrSaleNotFound, "sale %s", id)
		}
		return nil, infra.WrapRepoErr("failed to get sale", err)
	}

	itemRows, err := r.queries.ListSaleItemsBySale(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list sale items", err)
	}

	items := make([]sale.LineItem, len(itemRows))
	for i, it := range itemRows {
		items[i] = sale.ReconstructLineItem(it.BookID, it.Quantity, it.UnitPrice, it.Subtotal)
	}

	return sale.ReconstructSale(
		row.ID,
		pgconv.UUIDPtrFromPgtype(row.CustomerID),
		items,
		row.TotalAmount,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

// Update rewrites the header and replaces the line items.
func (r *SaleRepository) Update(ctx context.Context, s *sale.Sale) error {
	err := r.queries.UpdateSale(ctx, r.db, sqlc.UpdateSaleParams{
		ID:          s.ID(),
		CustomerID:  pgconv.UUIDPtrToPgtype(s.CustomerID()),
		TotalAmount: s.Total(),
		UpdatedAt:   pgconv.TimeToPgtype(s.UpdatedAt()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update sale", err)
	}

	if err := r.queries.DeleteSaleItemsBySale(ctx, r.db, s.ID()); err != nil {
		return infra.WrapRepoErr("failed to clear sale items", err)
	}
	return r.insertItems(ctx, s)
}

func (r *SaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.DeleteSale(ctx, r.db, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete sale", err)
	}
	if n == 0 {
		return errs.Wrapf(sale.ErrSaleNotFound, "sale %s", id)
	}
	return nil
}

func (r *SaleRepository) insertItems(ctx context.Context, s *sale.Sale) error {
	for i, it := range s.Items() {
		err := r.queries.CreateSaleItem(ctx, r.db, sqlc.CreateSaleItemParams{
			SaleID:    s.ID(),
			BookID:    it.BookID(),
			Position:  int32(i),
			Quantity:  it.Quantity(),
			UnitPrice: it.UnitPrice(),
			Subtotal:  it.Subtotal(),
		})
		if err != nil {
			return infra.WrapRepoErr("failed to create sale item", err)
		}
	}
	return nil
}
