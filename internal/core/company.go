package core

import (
	"context"
	"strings"
)

// CompanyResolver resolves customer-company names to remote ids, memoized
// for the life of one batch. Cache entries are write-once: a name is
// looked up against the collaborator exactly once per batch, and a failed
// resolution is cached as nil so later rows with the same name skip the
// lookup.
type CompanyResolver struct {
	svc   RecordService
	cache map[string]*int64 // lower-cased name → id, nil when resolution failed
}

func NewCompanyResolver(svc RecordService) *CompanyResolver {
	return &CompanyResolver{
		svc:   svc,
		cache: make(map[string]*int64),
	}
}

// Resolve returns the id for name, consulting the per-batch cache first.
// On a cache miss it delegates to the collaborator's find-or-create
// operation. A non-nil error is returned only for the row that actually
// experienced the failure; later rows hit the cached nil silently.
func (r *CompanyResolver) Resolve(ctx context.Context, name string, baseCompanyID int64) (*int64, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, nil
	}

	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	id, err := r.svc.FindOrCreateCompanyByName(ctx, name, baseCompanyID)
	if err != nil {
		r.cache[key] = nil
		return nil, err
	}

	r.cache[key] = &id
	return &id, nil
}

// CacheLen reports how many names have been resolved this batch.
func (r *CompanyResolver) CacheLen() int {
	return len(r.cache)
}
