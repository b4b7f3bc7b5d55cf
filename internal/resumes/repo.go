package resumes

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repo persists resume snapshots.
type Repo interface {
	Insert(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	Query(ctx context.Context, filter Filter, order Order, limit, offset int) ([]Record, error)
}
