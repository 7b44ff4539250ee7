package queries

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"bookstore-backoffice/internal/pkg/errs"

	"github.com/google/uuid"
)

const CursorVersionV1 = "v1"

var ErrInvalidCursor = errs.Validation("invalid cursor")

type Cursor struct {
	After string `json:"after,omitempty"`
}

// Keyset is the (created_at, id) position a page continues after.
type Keyset struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Microsecond precision matches Postgres timestamptz.
func EncodeAfterCursor(t time.Time, id uuid.UUID) string {
	data := CursorVersionV1 + ":" + strconv.FormatInt(t.UnixMicro(), 10) + "-" + id.String()
	return base64.URLEncoding.EncodeToString([]byte(data))
}

func DecodeAfterCursor(cursor string) (Keyset, error) {
	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return Keyset{}, errs.Mark(errs.Wrap(err, "decode cursor"), ErrInvalidCursor)
	}

	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return Keyset{}, ErrInvalidCursor
	}

	micros, rawID, ok := strings.Cut(payload, "-")
	if !ok {
		return Keyset{}, ErrInvalidCursor
	}

	ts, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return Keyset{}, errs.Mark(errs.Wrap(err, "cursor timestamp"), ErrInvalidCursor)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return Keyset{}, errs.Mark(errs.Wrap(err, "cursor id"), ErrInvalidCursor)
	}

	return Keyset{CreatedAt: time.UnixMicro(ts).UTC(), ID: id}, nil
}

// ValidateLimit clamps a requested page size into (0, maxLimit]; non-positive
// requests get defaultLimit.
func ValidateLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
