package commands

import (
	"context"

	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/pkg/tracing"
	"bookstore-backoffice/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var ErrZeroStockChange = errs.Validation("stock change must not be zero")

type InventoryCommands interface {
	// AdjustStock applies change through the ledger and returns the new stock.
	AdjustStock(ctx context.Context, bookID uuid.UUID, change int32) (int32, error)
}

type inventoryCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher shared.StockAlertPublisher
	threshold int32
}

func NewInventoryCommands(uow shared.UnitOfWork, publisher shared.StockAlertPublisher, cfg config.Config) InventoryCommands {
	return &inventoryCommandsImpl{
		uow:       uow,
		publisher: publisher,
		threshold: cfg.Broker.LowStockThreshold,
	}
}

func (c *inventoryCommandsImpl) AdjustStock(ctx context.Context, bookID uuid.UUID, change int32) (_ int32, err error) {
	ctx, span := tracing.Start(ctx, "InventoryCommands.AdjustStock",
		attribute.String("book.id", bookID.String()),
		attribute.Int("stock.change", int(change)))
	defer func() { tracing.End(span, err) }()

	if change == 0 {
		return 0, ErrZeroStockChange
	}

	var next int32
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		next, err = tx.Stock().Adjust(ctx, bookID, change)
		return err
	})
	if err != nil {
		return 0, err
	}

	alerts := newAlertSet(c.threshold, shared.AlertSourceAdjustment)
	alerts.observe(bookID, next)
	alerts.publish(ctx, c.publisher, uuid.Nil)
	return next, nil
}
