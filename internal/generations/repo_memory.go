package generations

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Generation
	byUser map[string][]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Generation),
		byUser: make(map[string][]string),
	}
}

func (r *MemoryRepo) Insert(ctx context.Context, gen Generation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if gen.ID == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[gen.ID]; !ok {
		r.byUser[gen.UserID] = append(r.byUser[gen.UserID], gen.ID)
	}
	r.byID[gen.ID] = gen
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Generation, error) {
	if err := ctx.Err(); err != nil {
		return Generation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.byID[id]
	if !ok {
		return Generation{}, ErrNotFound
	}
	return gen, nil
}

// ListByUser returns the user's generations newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	out := make([]Generation, 0, len(r.byUser[userID]))
	for _, id := range r.byUser[userID] {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Generation{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
