package faqrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/faq-system/internal/domain/faq"
)

// MemoryRepository is an in-memory faq.Repository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]faq.FAQ
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:  1,
		records: make(map[int64]faq.FAQ),
	}
}

// List implements faq.Repository.
func (r *MemoryRepository) List(_ context.Context) ([]faq.FAQ, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(faq.FAQ) bool { return true }), nil
}

// Search implements faq.Repository.
func (r *MemoryRepository) Search(_ context.Context, term string) ([]faq.FAQ, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(item faq.FAQ) bool { return faq.Matches(item, term) }), nil
}

// Get implements faq.Repository.
func (r *MemoryRepository) Get(_ context.Context, id int64) (faq.FAQ, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	return rec, ok, nil
}

// Create implements faq.Repository.
func (r *MemoryRepository) Create(_ context.Context, draft faq.Draft) (faq.FAQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(draft), nil
}

// CreateBatch implements faq.Repository.
func (r *MemoryRepository) CreateBatch(_ context.Context, drafts []faq.Draft) ([]faq.FAQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]faq.FAQ, 0, len(drafts))
	for _, draft := range drafts {
		out = append(out, r.insert(draft))
	}
	return out, nil
}

// Update implements faq.Repository.
func (r *MemoryRepository) Update(_ context.Context, id int64, patch faq.Patch) (faq.FAQ, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return faq.FAQ{}, false, nil
	}
	if patch.Question != nil {
		rec.Question = *patch.Question
	}
	if patch.Answer != nil {
		rec.Answer = *patch.Answer
	}
	rec.UpdatedAt = patch.UpdatedAt
	r.records[id] = rec
	return rec, true, nil
}

// Delete implements faq.Repository.
func (r *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

func (r *MemoryRepository) insert(draft faq.Draft) faq.FAQ {
	rec := faq.FAQ{
		ID:        r.nextID,
		Question:  draft.Question,
		Answer:    draft.Answer,
		CreatedAt: draft.CreatedAt,
		UpdatedAt: draft.CreatedAt,
	}
	r.records[rec.ID] = rec
	r.nextID++
	return rec
}

func (r *MemoryRepository) sorted(keep func(faq.FAQ) bool) []faq.FAQ {
	out := make([]faq.FAQ, 0, len(r.records))
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var _ faq.Repository = (*MemoryRepository)(nil)
