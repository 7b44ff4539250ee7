package infra

import (
	"log/slog"

	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/pkg/pgconv"
)

type RepositoryErrorKind string

const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindCheckViolated      RepositoryErrorKind = "CHECK_VIOLATED"
)

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr classifies a storage error and logs it once. Without an explicit
// kind the Postgres error code decides; anything unrecognised is a DB failure.
// The result is also marked with the matching errs kind so it classifies
// correctly above the infra layer.
func WrapRepoErr(msg string, err error, kind ...RepositoryErrorKind) error {
	k := classify(err)
	if len(kind) > 0 {
		k = kind[0]
	}

	if k == KindNotFound {
		slog.Debug("repository: "+msg, slog.String("kind", string(k)))
	} else {
		attrs := []any{slog.String("kind", string(k))}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		slog.Error("repository: "+msg, attrs...)
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}
	return errs.Mark(RepositoryError{Kind: k, msg: msg, err: err}, sentinelFor(k))
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errs.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func classify(err error) RepositoryErrorKind {
	if pgconv.IsNoRows(err) {
		return KindNotFound
	}
	switch pgconv.PgErrorCode(err) {
	case pgconv.CodeUniqueViolation:
		return KindDuplicateKey
	case pgconv.CodeForeignKeyViolation:
		return KindForeignKeyViolated
	case pgconv.CodeCheckViolation:
		return KindCheckViolated
	default:
		return KindDBFailure
	}
}

// sentinelFor only knows storage outcomes. A constraint violation that is the
// caller's fault is translated by the repository that expects it.
func sentinelFor(k RepositoryErrorKind) error {
	if k == KindNotFound {
		return errs.ErrNotFound
	}
	return errs.ErrStorage
}
