package shared

import (
	"context"

	"github.com/google/uuid"
)

// CustomerSnapshot is the write side's view of a customer.
type CustomerSnapshot struct {
	ID   uuid.UUID
	Name string
}

const (
	AlertSourceSale       = "sale"
	AlertSourceAdjustment = "adjustment"
)

// LowStockAlert reports a book whose committed stock is at or below threshold.
type LowStockAlert struct {
	BookID    uuid.UUID
	Stock     int32
	Threshold int32
	Source    string
	SaleID    *uuid.UUID
}

// StockAlertPublisher is called after commit. Failures never undo the write.
type StockAlertPublisher interface {
	PublishLowStock(ctx context.Context, alerts []LowStockAlert) error
}
