package queries

import (
	"context"
	"time"

	"bookstore-backoffice/internal/pkg/clock"
	"bookstore-backoffice/internal/pkg/errs"
)

const (
	DefaultDailyDays    = 7
	MaxReportDays       = 365
	DefaultTopBooksDays = 30
	DefaultTopBooks     = 10
	MaxTopBooks         = 100
)

var (
	ErrInvalidPeriod = errs.Validation("start date must not be after end date")
	ErrInvalidDays   = errs.Validation("days must be between 1 and 365")
)

type ReportReadStore interface {
	// Summary aggregates sales created on days in [start, end]; nil bounds are open.
	Summary(ctx context.Context, start, end *time.Time) (*SalesSummary, error)
	// Daily aggregates per calendar day for days in [from, to].
	Daily(ctx context.Context, from, to time.Time) ([]*DailySales, error)
	// TopBooks ranks books by quantity sold on or after since.
	TopBooks(ctx context.Context, since time.Time, limit int32) ([]*TopBook, error)
}

type ReportQueries interface {
	Summary(ctx context.Context, start, end *time.Time) (*SalesSummary, error)
	Daily(ctx context.Context, days int) ([]*DailySales, error)
	TopBooks(ctx context.Context, days, limit int) ([]*TopBook, error)
	Today(ctx context.Context) (*SalesSummary, error)
}

type reportQueriesImpl struct {
	repo  ReportReadStore
	clock clock.Clock
}

func NewReportQueries(repo ReportReadStore, clk clock.Clock) ReportQueries {
	return &reportQueriesImpl{repo: repo, clock: clk}
}

func (q *reportQueriesImpl) Summary(ctx context.Context, start, end *time.Time) (*SalesSummary, error) {
	if start != nil && end != nil && start.After(*end) {
		return nil, ErrInvalidPeriod
	}
	return q.repo.Summary(ctx, start, end)
}

func (q *reportQueriesImpl) Daily(ctx context.Context, days int) ([]*DailySales, error) {
	if days == 0 {
		days = DefaultDailyDays
	}
	if days < 1 || days > MaxReportDays {
		return nil, ErrInvalidDays
	}
	today := truncateDay(q.clock.Now())
	return q.repo.Daily(ctx, today.AddDate(0, 0, -days), today)
}

func (q *reportQueriesImpl) TopBooks(ctx context.Context, days, limit int) ([]*TopBook, error) {
	if days == 0 {
		days = DefaultTopBooksDays
	}
	if days < 1 || days > MaxReportDays {
		return nil, ErrInvalidDays
	}
	limit = ValidateLimit(limit, DefaultTopBooks, MaxTopBooks)
	since := truncateDay(q.clock.Now()).AddDate(0, 0, -days)
	return q.repo.TopBooks(ctx, since, int32(limit))
}

func (q *reportQueriesImpl) Today(ctx context.Context) (*SalesSummary, error) {
	today := truncateDay(q.clock.Now())
	return q.repo.Summary(ctx, &today, &today)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
