package readstore

import (
	"context"
	"time"

	"bookstore-backoffice/internal/infra"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const dialectPostgres = "postgres"

var (
	saleDay     = goqu.L(`(s.created_at AT TIME ZONE 'UTC')::date`)
	errBuildSQL = errs.New("failed to build report query")
)

// ReportReadStore builds report SQL at runtime since the filters vary per call.
// db must be safe for concurrent use; Summary issues its queries in parallel.
type ReportReadStore struct {
	db      sqlc.DBTX
	builder goqu.DialectWrapper
}

func NewReportReadStore(db sqlc.DBTX) *ReportReadStore {
	return &ReportReadStore{
		db:      db,
		builder: goqu.Dialect(dialectPostgres),
	}
}

func (r *ReportReadStore) Summary(ctx context.Context, start, end *time.Time) (*queries.SalesSummary, error) {
	where := periodFilter(start, end)

	salesStmt := r.builder.
		From(goqu.T("sales").As("s")).
		Select(
			goqu.L("COUNT(s.id)"),
			goqu.L("COALESCE(SUM(s.total_amount), 0)"),
			goqu.L("COALESCE(AVG(s.total_amount), 0)"),
		).
		Where(where...)

	booksStmt := r.builder.
		From(goqu.T("sale_items").As("si")).
		Join(goqu.T("sales").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("si.sale_id")))).
		Select(goqu.L("COALESCE(SUM(si.quantity), 0)::bigint")).
		Where(where...)

	summary := &queries.SalesSummary{PeriodStart: start, PeriodEnd: end}
	var average decimal.Decimal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query, args, err := salesStmt.Prepared(true).ToSQL()
		if err != nil {
			return errs.Mark(err, errBuildSQL)
		}
		err = r.db.QueryRow(gctx, query, args...).Scan(&summary.TotalSales, &summary.TotalRevenue, &average)
		if err != nil {
			return infra.WrapRepoErr("failed to aggregate sales", err, infra.KindDBFailure)
		}
		return nil
	})
	g.Go(func() error {
		query, args, err := booksStmt.Prepared(true).ToSQL()
		if err != nil {
			return errs.Mark(err, errBuildSQL)
		}
		err = r.db.QueryRow(gctx, query, args...).Scan(&summary.TotalBooksSold)
		if err != nil {
			return infra.WrapRepoErr("failed to aggregate books sold", err, infra.KindDBFailure)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.AverageSale = average.Round(2)
	return summary, nil
}

func (r *ReportReadStore) Daily(ctx context.Context, from, to time.Time) ([]*queries.DailySales, error) {
	itemTotals := r.builder.
		From("sale_items").
		Select(goqu.C("sale_id"), goqu.SUM("quantity").As("qty")).
		GroupBy("sale_id")

	stmt := r.builder.
		From(goqu.T("sales").As("s")).
		LeftJoin(itemTotals.As("q"), goqu.On(goqu.I("q.sale_id").Eq(goqu.I("s.id")))).
		Select(
			saleDay,
			goqu.L("COUNT(s.id)"),
			goqu.L("COALESCE(SUM(s.total_amount), 0)"),
			goqu.L("COALESCE(SUM(q.qty), 0)::bigint"),
		).
		Where(periodFilter(&from, &to)...).
		GroupBy(saleDay).
		Order(saleDay.Asc())

	query, args, err := stmt.Prepared(true).ToSQL()
	if err != nil {
		return nil, errs.Mark(err, errBuildSQL)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query daily sales", err)
	}
	defer rows.Close()

	result := []*queries.DailySales{}
	for rows.Next() {
		d := &queries.DailySales{}
		if err := rows.Scan(&d.Date, &d.TotalSales, &d.TotalRevenue, &d.TotalBooksSold); err != nil {
			return nil, infra.WrapRepoErr("failed to scan daily sales", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read daily sales", err)
	}
	return result, nil
}

func (r *ReportReadStore) TopBooks(ctx context.Context, since time.Time, limit int32) ([]*queries.TopBook, error) {
	quantity := goqu.L("SUM(si.quantity)")

	stmt := r.builder.
		From(goqu.T("sale_items").As("si")).
		Join(goqu.T("sales").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("si.sale_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("si.book_id")))).
		Select(
			goqu.I("b.id"),
			goqu.I("b.title"),
			goqu.I("b.author"),
			goqu.L("SUM(si.quantity)::bigint"),
			goqu.L("SUM(si.subtotal)"),
		).
		Where(goqu.I("s.created_at").Gte(since)).
		GroupBy(goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author")).
		Order(quantity.Desc(), goqu.I("b.title").Asc()).
		Limit(uint(limit))

	query, args, err := stmt.Prepared(true).ToSQL()
	if err != nil {
		return nil, errs.Mark(err, errBuildSQL)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query top books", err)
	}
	defer rows.Close()

	result := []*queries.TopBook{}
	for rows.Next() {
		b := &queries.TopBook{}
		if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &b.QuantitySold, &b.Revenue); err != nil {
			return nil, infra.WrapRepoErr("failed to scan top books", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read top books", err)
	}
	return result, nil
}

// periodFilter bounds s.created_at to whole UTC days [start, end].
func periodFilter(start, end *time.Time) []exp.Expression {
	var where []exp.Expression
	if start != nil {
		where = append(where, goqu.I("s.created_at").Gte(dayStart(*start)))
	}
	if end != nil {
		where = append(where, goqu.I("s.created_at").Lt(dayStart(*end).AddDate(0, 0, 1)))
	}
	return where
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
