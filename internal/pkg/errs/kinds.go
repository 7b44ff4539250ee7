package errs

// Kind is the tag an error carries across the HTTP boundary.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindUnauthorized      Kind = "unauthorized"
	KindInsufficientStock Kind = "insufficient_stock"
	KindRateLimited       Kind = "rate_limited"
	KindStorage           Kind = "storage_error"
	KindInternal          Kind = "internal_error"
)

// Kind sentinels. Specific errors are marked with one of these so callers can
// classify without knowing every concrete error.
var (
	ErrValidation        = New("validation error")
	ErrNotFound          = New("not found")
	ErrForbidden         = New("forbidden")
	ErrUnauthorized      = New("unauthorized")
	ErrInsufficientStock = New("insufficient stock")
	ErrRateLimited       = New("too many attempts")
	ErrStorage           = New("storage error")
)

// Order matters: storage is checked last so a marked not-found coming out of a
// repository is still reported as not found.
var kindTable = []struct {
	sentinel error
	kind     Kind
}{
	{ErrValidation, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrForbidden, KindForbidden},
	{ErrUnauthorized, KindUnauthorized},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrRateLimited, KindRateLimited},
	{ErrStorage, KindStorage},
}

// KindOf classifies err. Unclassified errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kindTable {
		if Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}

// Validation builds a validation error with a caller-facing message.
func Validation(msg string) error {
	return Mark(New(msg), ErrValidation)
}
