package commands

import (
	"context"
	"log/slog"

	"bookstore-backoffice/internal/usecase/shared"

	"github.com/google/uuid"
)

// alertSet collects books that ended a unit of work at or below threshold.
// The last observed stock per book wins.
type alertSet struct {
	threshold int32
	source    string
	stock     map[uuid.UUID]int32
	order     []uuid.UUID
}

func newAlertSet(threshold int32, source string) *alertSet {
	return &alertSet{
		threshold: threshold,
		source:    source,
		stock:     make(map[uuid.UUID]int32),
	}
}

func (a *alertSet) observe(bookID uuid.UUID, stock int32) {
	if _, seen := a.stock[bookID]; !seen {
		a.order = append(a.order, bookID)
	}
	a.stock[bookID] = stock
}

func (a *alertSet) alerts(saleID *uuid.UUID) []shared.LowStockAlert {
	var out []shared.LowStockAlert
	for _, id := range a.order {
		if a.stock[id] > a.threshold {
			continue
		}
		out = append(out, shared.LowStockAlert{
			BookID:    id,
			Stock:     a.stock[id],
			Threshold: a.threshold,
			Source:    a.source,
			SaleID:    saleID,
		})
	}
	return out
}

// publish runs after commit. A failure is logged and otherwise ignored.
func (a *alertSet) publish(ctx context.Context, p shared.StockAlertPublisher, saleID uuid.UUID) {
	var ref *uuid.UUID
	if saleID != uuid.Nil {
		ref = &saleID
	}
	alerts := a.alerts(ref)
	if len(alerts) == 0 || p == nil {
		return
	}
	if err := p.PublishLowStock(ctx, alerts); err != nil {
		slog.WarnContext(ctx, "failed to publish low stock alerts",
			slog.Int("count", len(alerts)),
			slog.String("error", err.Error()))
	}
}
