package request

import (
	"time"

	"bookstore-backoffice/internal/pkg/errs"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errs.Validation("dates must use the YYYY-MM-DD format")

type SummaryQuery struct {
	Start string `form:"start"`
	End   string `form:"end"`
}

// Period parses the optional bounds as UTC calendar days.
func (q SummaryQuery) Period() (start, end *time.Time, err error) {
	if start, err = parseDate(q.Start); err != nil {
		return nil, nil, err
	}
	if end, err = parseDate(q.End); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, errs.Wrap(ErrInvalidDate, s)
	}
	return &t, nil
}

type DailyQuery struct {
	Days int `form:"days"`
}

type TopBooksQuery struct {
	Days  int `form:"days"`
	Limit int `form:"limit"`
}
