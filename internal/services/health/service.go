package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a health service. db may be nil when running on memory repos.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status reports overall health and the database state ("up", "down" or "memory").
func (s *Service) Status(ctx context.Context) (bool, map[string]string) {
	checks := map[string]string{"database": "memory"}
	if s == nil || s.DB == nil {
		return true, checks
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		checks["database"] = "down"
		return false, checks
	}
	checks["database"] = "up"
	return true, checks
}
