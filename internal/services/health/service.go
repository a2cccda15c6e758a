package health

import (
	"context"
	"database/sql"
	"time"
)

// Service reports process and database health.
type Service struct {
	DB      *sql.DB
	Timeout time.Duration
}

// NewService builds a Service. db may be nil when running on memory repos.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db, Timeout: 2 * time.Second}
}

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// Check pings the database when one is configured.
func (s *Service) Check(ctx context.Context) Status {
	if s == nil || s.DB == nil {
		return Status{OK: true, Database: "memory"}
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return Status{OK: false, Database: "unreachable"}
	}
	return Status{OK: true, Database: "ok"}
}
