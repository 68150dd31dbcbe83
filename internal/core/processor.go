package core

// processor.go orchestrates one batch: pre-flight, then a strictly
// sequential walk over the rows. Each row reaches a terminal outcome
// (submitted, rejected, or skipped) before the next row begins, so the
// duplicate set and company cache always reflect every prior row.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// lineOffset converts a zero-based row index into the 1-indexed line
// number users see in error messages (the header row occupies line 1).
const lineOffset = 2

// BatchProcessor runs uploads of one record kind against the remote
// service. It is cheap to construct; construct one per batch.
type BatchProcessor struct {
	svc RecordService
	def KindDefinition
	log *slog.Logger
}

func NewBatchProcessor(svc RecordService, def KindDefinition, logger *slog.Logger) *BatchProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{svc: svc, def: def, log: logger}
}

// BatchContext holds the mutable state of one batch run. It is created by
// Run, owned by it exclusively, and discarded when the batch ends.
type BatchContext struct {
	BaseCompanyID int64

	dedupe    *Deduplicator
	companies *CompanyResolver
	existing  map[string]ExistingUser
}

// Run processes rows in input order and returns one outcome per row plus
// a summary. The only error it can return is a *PreflightError; every
// row-level failure is recorded in the result instead.
func (p *BatchProcessor) Run(ctx context.Context, rows []Row) (*BatchResult, error) {
	batchID := uuid.New().String()
	log := p.log.With("batch_id", batchID, "kind", p.def.Info.Key)

	bc, err := p.preflight(ctx, rows)
	if err != nil {
		log.Warn("preflight failed", "error", err)
		return nil, err
	}

	log.Info("batch started", "rows", len(rows), "company_id", bc.BaseCompanyID)

	results := make([]RowOutcome, 0, len(rows))
	for i, row := range rows {
		outcome := p.processRow(ctx, bc, i, row)
		results = append(results, outcome)
	}

	summary := Summarize(results, bc.BaseCompanyID)
	log.Info("batch finished",
		"total", summary.Total,
		"ok", summary.OK,
		"failed", summary.Failed,
		"validation_errors", summary.ValidationErrors,
		"skipped_duplicates", summary.SkippedDuplicates,
	)

	return &BatchResult{
		BatchID: batchID,
		Summary: summary,
		Results: results,
	}, nil
}

// preflight resolves the base account and, for kinds that need it,
// prefetches the existing remote records. Any failure here aborts the
// whole batch with no partial results.
func (p *BatchProcessor) preflight(ctx context.Context, rows []Row) (*BatchContext, error) {
	if len(p.def.RequiredHeaders) > 0 && len(rows) > 0 {
		for _, h := range p.def.RequiredHeaders {
			if !HasHeader(rows[0], h, p.def.Match) {
				return nil, &PreflightError{
					Status:  400,
					Message: fmt.Sprintf("upload must include a column named %q", h),
				}
			}
		}
	}

	companyID, err := p.svc.ResolveCompanyID(ctx)
	if err != nil {
		return nil, &PreflightError{
			Status:  httpStatus(err),
			Message: "unable to resolve company id: " + err.Error(),
			Err:     err,
		}
	}

	bc := &BatchContext{
		BaseCompanyID: companyID,
		dedupe:        NewDeduplicator(),
		companies:     NewCompanyResolver(p.svc),
	}

	if p.def.PrefetchExisting {
		users, err := p.svc.ListUsers(ctx)
		if err != nil {
			return nil, &PreflightError{
				Status:  httpStatus(err),
				Message: "unable to list existing records: " + err.Error(),
				Err:     err,
			}
		}
		bc.existing = make(map[string]ExistingUser, len(users))
		for _, u := range users {
			key := strings.ToLower(strings.TrimSpace(u.Email))
			if key != "" {
				bc.existing[key] = u
			}
		}
	}

	return bc, nil
}

// processRow walks a single row through the per-row state machine:
// validate, intra-batch dedupe, existing-record check, company
// resolution, submit. The first terminal state wins.
func (p *BatchProcessor) processRow(ctx context.Context, bc *BatchContext, index int, row Row) RowOutcome {
	line := index + lineOffset
	fields := ResolveFields(row, p.def.Fields, p.def.Match)

	if p.def.Validate != nil {
		if verr := p.def.Validate(fields, line); verr != nil && !verr.Empty() {
			return RowOutcome{
				Kind:     OutcomeRejected,
				Index:    index,
				Row:      row,
				Error:    verr.Error(),
				Category: CategoryValidation,
			}
		}
	}

	if p.def.DedupeKey != nil {
		if key := p.def.DedupeKey(fields); bc.dedupe.CheckAndRegister(key) {
			return RowOutcome{
				Kind:          OutcomeSkippedDuplicate,
				Index:         index,
				Row:           row,
				SkippedReason: p.def.DuplicateReason,
				Category:      CategoryDuplicate,
			}
		}
	}

	if p.def.IdentityKey != nil && bc.existing != nil {
		key := strings.ToLower(strings.TrimSpace(p.def.IdentityKey(fields)))
		if existing, ok := bc.existing[key]; ok {
			derr := &DuplicateError{Line: line, Key: p.def.IdentityKey(fields), Existing: existing}
			return RowOutcome{
				Kind:     OutcomeRejected,
				Index:    index,
				Row:      row,
				Error:    derr.Error(),
				Category: CategoryDuplicate,
			}
		}
	}

	// Soft failure point: a company we cannot resolve downgrades the row
	// (nil reference plus a note) instead of rejecting it.
	var companyID *int64
	var note string
	if p.def.ResolvesCompany {
		name := fields[FieldCompany]
		if name != "" {
			id, err := bc.companies.Resolve(ctx, name, bc.BaseCompanyID)
			companyID = id
			if err != nil {
				note = fmt.Sprintf(
					"Row %d: could not resolve or create customer company %q, proceeding without one: %v",
					line, name, err)
				p.log.Warn("company resolution failed", "line", line, "company", name, "error", err)
			}
		}
	}

	payload := p.def.BuildPayload(PayloadInput{
		Fields:            fields,
		BaseCompanyID:     bc.BaseCompanyID,
		CustomerCompanyID: companyID,
	})

	resp, err := p.svc.Submit(ctx, p.def.Info.SubmitPath, payload)
	if err != nil {
		return RowOutcome{
			Kind:     OutcomeRejected,
			Index:    index,
			Row:      row,
			Payload:  payload,
			Error:    p.submitError(err, fields, line),
			Note:     note,
			Category: CategoryDownstream,
		}
	}

	// Newly created records join the existing-record map so a later batch
	// row with the same identity is rejected instead of double-created.
	if p.def.IdentityKey != nil && bc.existing != nil {
		key := strings.ToLower(strings.TrimSpace(p.def.IdentityKey(fields)))
		if key != "" {
			bc.existing[key] = ExistingUser{
				ID:    responseID(resp),
				Email: p.def.IdentityKey(fields),
				Name:  fields[FieldName],
			}
		}
	}

	return RowOutcome{
		Kind:     OutcomeSubmitted,
		Index:    index,
		Response: resp,
		Note:     note,
	}
}

// submitError renders a downstream failure for the caller. A transport
// error flagged as a unique-constraint violation gets the friendlier
// duplicate message; the flag comes from the crew client, core never
// inspects message text.
func (p *BatchProcessor) submitError(err error, fields ResolvedFields, line int) string {
	var dup duplicateEntryError
	if errors.As(err, &dup) && dup.DuplicateEntry() && p.def.IdentityKey != nil {
		return fmt.Sprintf("Duplicate email: %q already exists in the system. Skipped row %d.",
			p.def.IdentityKey(fields), line)
	}

	if status := httpStatus(err); status != 0 {
		return fmt.Sprintf("Row %d: [%d] %s", line, status, errMessage(err))
	}
	return fmt.Sprintf("Row %d: %s", line, errMessage(err))
}

func httpStatus(err error) int {
	var se statusError
	if errors.As(err, &se) {
		return se.HTTPStatus()
	}
	return 0
}

func errMessage(err error) string {
	if err == nil {
		return "request failed"
	}
	return err.Error()
}

// responseID best-effort extracts the created record's id from the raw
// submit response, accepting both {"id": …} and {"data": {"id": …}}.
func responseID(resp json.RawMessage) int64 {
	if len(resp) == 0 {
		return 0
	}
	var direct struct {
		ID   int64 `json:"id"`
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp, &direct); err != nil {
		return 0
	}
	if direct.ID != 0 {
		return direct.ID
	}
	return direct.Data.ID
}
