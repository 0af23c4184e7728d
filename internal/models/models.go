// Package models defines the contact and note records and the validation rules
// applied to their fields.
package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// ErrValidation is wrapped by every field validation failure.
var ErrValidation = errors.New("validation error")

// Now is the clock used for record timestamps and birthday checks.
// Tests replace it to pin "today".
var Now = func() time.Time { return time.Now().UTC() }

// Fold returns s case-folded for case-insensitive comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// containsFold reports whether substr occurs in s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// ValidationError describes one rejected field value. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ---------------------------------------------------------------------------
// ordered string sets
// ---------------------------------------------------------------------------

// removeValue deletes v from ss, returning nil instead of an empty slice so
// that a record round-trips through storage unchanged.
func removeValue(ss []string, v string) ([]string, bool) {
	i := slices.Index(ss, v)
	if i < 0 {
		return ss, false
	}
	ss = slices.Delete(ss, i, i+1)
	if len(ss) == 0 {
		return nil, true
	}
	return ss, true
}
