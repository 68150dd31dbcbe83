package core

// errors.go defines the pipeline's error taxonomy. Every error is tagged
// with its category at the point where it occurs; nothing downstream
// re-derives a category from message text.

import (
	"fmt"
	"strings"
)

// ErrorCategory classifies why a row (or batch) failed.
type ErrorCategory int

const (
	CategoryNone ErrorCategory = iota
	CategoryValidation
	CategoryDuplicate
	CategorySoftResolution
	CategoryDownstream
)

// PreflightError aborts a whole batch before any row is processed: the
// base account could not be resolved, required headers are missing, or the
// existing-record prefetch failed. It is the only error kind that
// surfaces to the caller instead of a per-row outcome.
type PreflightError struct {
	Status  int // HTTP-like status from the collaborator, 0 if local
	Message string
	Err     error
}

func (e *PreflightError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("preflight failed (HTTP %d): %s", e.Status, e.Message)
	}
	return "preflight failed: " + e.Message
}

func (e *PreflightError) Unwrap() error { return e.Err }

// ValidationError reports missing required fields and format problems for
// one row. Line is 1-indexed against the original upload, counting the
// header row.
type ValidationError struct {
	Line    int
	Missing []string // display names of absent required fields
	Format  []string // complete human-readable format messages
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf(
			"Missing required field(s): %s on line %d",
			strings.Join(e.Missing, ", "), e.Line))
	}
	parts = append(parts, e.Format...)
	return strings.Join(parts, "; ")
}

// Empty reports whether validation found nothing wrong.
func (e *ValidationError) Empty() bool {
	return len(e.Missing) == 0 && len(e.Format) == 0
}

// DuplicateError marks a row whose identity key collides with a record
// that already exists on the remote service.
type DuplicateError struct {
	Line     int
	Key      string
	Existing ExistingUser
}

func (e *DuplicateError) Error() string {
	owner := ""
	if e.Existing.Name != "" {
		owner = fmt.Sprintf(" (belongs to %s", e.Existing.Name)
		if e.Existing.ID != 0 {
			owner += fmt.Sprintf(" #%d", e.Existing.ID)
		}
		owner += ")"
	}
	return fmt.Sprintf("Duplicate email: %q already exists in the system%s. Skipped row %d.",
		e.Key, owner, e.Line)
}

// statusError is implemented by transport errors that carry an HTTP
// status. The crew client's APIError satisfies it.
type statusError interface {
	error
	HTTPStatus() int
}

// duplicateEntryError is implemented by transport errors that were
// identified as unique-constraint violations at the transport boundary.
type duplicateEntryError interface {
	error
	DuplicateEntry() bool
}
