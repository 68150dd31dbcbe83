package core

import (
	"context"
	"encoding/json"
)

// Row is one logical record from an upload, keyed by the original header
// text exactly as it appeared in the file. Header casing and whitespace
// vary between uploads; FieldSpec aliases absorb that. A Row is read-only
// once built.
type Row map[string]string

// FieldSpec maps a logical field name to the header spellings that may
// carry it. Aliases are tried in order; the first one holding a non-empty
// value wins, so earlier aliases take precedence when a row contains
// several plausible headers.
type FieldSpec struct {
	Name    string   // logical field name, e.g. "email"
	Aliases []string // acceptable header spellings, highest priority first
}

// ResolvedFields is the fixed record shape produced by ResolveFields.
// Downstream stages only ever read from this, never from the raw Row.
type ResolvedFields map[string]string

// MatchMode controls how header text is canonicalized before comparison.
type MatchMode int

const (
	// MatchLoose lowercases and trims surrounding whitespace.
	MatchLoose MatchMode = iota
	// MatchAlnum additionally strips every non-alphanumeric character,
	// so "Cell Phone", "cell_phone" and "Cell-Phone " all collide.
	MatchAlnum
)

// NormalizedPhone is the canonical form produced by NormalizePhone.
// E164 is always set when a raw value was present; CountryCode is empty
// when it could not be determined.
type NormalizedPhone struct {
	E164        string `json:"e164"`
	CountryCode string `json:"countryCode"`
}

// OutcomeKind labels the terminal state of one processed row.
type OutcomeKind string

const (
	OutcomeSubmitted        OutcomeKind = "submitted"
	OutcomeRejected         OutcomeKind = "rejected"
	OutcomeSkippedDuplicate OutcomeKind = "skipped_duplicate"
)

// RowOutcome is the terminal result for a single input row. Exactly one
// outcome exists per row, and Results[i].Index == i always holds.
type RowOutcome struct {
	Kind          OutcomeKind     `json:"outcomeKind"`
	Index         int             `json:"index"`
	Row           Row             `json:"row,omitempty"`
	Payload       any             `json:"payload,omitempty"`
	Error         string          `json:"error,omitempty"`
	SkippedReason string          `json:"skippedReason,omitempty"`
	Response      json.RawMessage `json:"response,omitempty"`

	// Note carries a soft failure (company resolution) that did not stop
	// the row from being submitted.
	Note string `json:"note,omitempty"`

	// Category tags why a rejected row failed. It is assigned at the point
	// of failure so the aggregator never has to parse message text.
	Category ErrorCategory `json:"-"`
}

// BatchSummary tallies the outcomes of one batch.
type BatchSummary struct {
	Total             int   `json:"total"`
	OK                int   `json:"ok"`
	Failed            int   `json:"failed"`
	ValidationErrors  int   `json:"validationErrors"`
	SkippedDuplicates int   `json:"skippedDuplicates"`
	BaseAccountIDUsed int64 `json:"baseAccountIdUsed"`
}

// BatchResult is the full response envelope for one batch run.
type BatchResult struct {
	BatchID string       `json:"batchId"`
	Summary BatchSummary `json:"summary"`
	Results []RowOutcome `json:"results"`
}

// ExistingUser is one record returned by the remote service's user
// listing, used for the staff cross-batch duplicate check.
type ExistingUser struct {
	ID    int64
	Email string
	Name  string
}

// RecordService is the remote Crew record-management API as consumed by
// the pipeline. Satisfied by *crew.Client; tests supply fakes.
type RecordService interface {
	// ResolveCompanyID resolves the owning account id shared by every
	// record created in a batch.
	ResolveCompanyID(ctx context.Context) (int64, error)

	// FindOrCreateCompanyByName resolves a customer-company by name,
	// creating it when absent.
	FindOrCreateCompanyByName(ctx context.Context, name string, companyID int64) (int64, error)

	// ListUsers returns the existing remote users (staff prefetch).
	ListUsers(ctx context.Context) ([]ExistingUser, error)

	// Submit posts one record payload and returns the raw response.
	Submit(ctx context.Context, path string, payload any) (json.RawMessage, error)
}

// KindInfo identifies a record kind.
type KindInfo struct {
	Key        string // registry key: "customers", "employees", "staff"
	Label      string // display name
	SubmitPath string // remote endpoint the payload is posted to
}

// PayloadInput is everything a kind's payload builder may need beyond the
// resolved fields themselves.
type PayloadInput struct {
	Fields            ResolvedFields
	BaseCompanyID     int64
	CustomerCompanyID *int64 // nil unless the kind resolves companies
}

// KindDefinition declares how one record kind is processed. The batch
// processor stays generic; everything kind-specific hangs off func fields,
// in the same spirit as a table registry with pluggable build/insert hooks.
type KindDefinition struct {
	Info   KindInfo
	Fields []FieldSpec
	Match  MatchMode

	// RequiredHeaders, when set, must all be present on the first row or
	// the whole batch is rejected before any row is processed.
	RequiredHeaders []string

	// Validate enforces required-field and format rules. line is the
	// 1-indexed position in the original upload (header row accounted).
	Validate func(fields ResolvedFields, line int) *ValidationError

	// DedupeKey derives the intra-batch identity key. nil disables
	// deduplication for the kind; an empty return disables it per row.
	DedupeKey func(fields ResolvedFields) string

	// DuplicateReason is the skippedReason text for intra-batch repeats.
	DuplicateReason string

	// IdentityKey derives the key checked against records that already
	// exist remotely. nil disables the check.
	IdentityKey func(fields ResolvedFields) string

	// PrefetchExisting loads the remote user listing during pre-flight.
	PrefetchExisting bool

	// ResolvesCompany enables per-row customer-company resolution.
	ResolvesCompany bool

	// BuildPayload produces the submission payload for a valid row.
	BuildPayload func(in PayloadInput) any
}
