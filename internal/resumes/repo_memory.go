package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps snapshots in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []Record
	byID    map[string]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]int)}
}

func (r *MemoryRepo) Insert(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		return ErrInvalidInput
	}
	rec.Data = rec.Data.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.byID[rec.ID]; ok {
		r.records[idx] = rec
		return nil
	}
	r.byID[rec.ID] = len(r.records)
	r.records = append(r.records, rec)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec := r.records[idx]
	rec.Data = rec.Data.Clone()
	return rec, nil
}

func (r *MemoryRepo) Query(ctx context.Context, filter Filter, order Order, limit, offset int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)

	r.mu.RLock()
	matched := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		if filter.UserID != "" && rec.UserID != filter.UserID {
			continue
		}
		if filter.TemplateID != "" && rec.TemplateID != filter.TemplateID {
			continue
		}
		matched = append(matched, rec)
	}
	r.mu.RUnlock()

	less := func(a, b Record) bool { return a.CreatedAt.Before(b.CreatedAt) }
	if order.column() == OrderTemplateID {
		less = func(a, b Record) bool { return a.TemplateID < b.TemplateID }
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if order.Desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	if offset >= len(matched) {
		return []Record{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]Record, 0, end-offset)
	for _, rec := range matched[offset:end] {
		rec.Data = rec.Data.Clone()
		out = append(out, rec)
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
