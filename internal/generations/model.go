// Package generations records AI text generations and serves the /generate endpoint.
package generations

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Generation is one prompt and the text returned for it.
type Generation struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Prompt        string    `json:"prompt"`
	Model         string    `json:"model"`
	MaxTokens     int       `json:"maxTokens"`
	GeneratedText string    `json:"generatedText"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Repo persists generations.
type Repo interface {
	Insert(ctx context.Context, gen Generation) error
	GetByID(ctx context.Context, id string) (Generation, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Generation, error)
}
