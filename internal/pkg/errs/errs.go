package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

func New(msg string) error {
	return cr.New(msg)
}

func Newf(format string, args ...any) error {
	return cr.Newf(format, args...)
}

// Mark tags err with markErr. Kind sentinels carried by markErr are copied
// onto the result, since cockroach marks do not chain.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	out := cr.Mark(err, markErr)
	for _, k := range kindTable {
		if k.sentinel != markErr && cr.Is(markErr, k.sentinel) {
			out = cr.Mark(out, k.sentinel)
		}
	}
	return out
}

// Is understands both wrapping chains and marks.
func Is(err, reference error) bool {
	return cr.Is(err, reference)
}

func As(err error, target any) bool {
	return cr.As(err, target)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
