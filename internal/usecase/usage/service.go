package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// Reader is the persistence interface for usage counters.
type Reader interface {
	Used(ctx context.Context, identityID string) (int64, error)
	ResetsAt() time.Time
}

// Report is the caller's current quota standing.
type Report struct {
	Identity  string
	Limit     int64
	Used      int64
	Remaining int64
	ResetsAt  time.Time
}

// Service reports per-identity daily search usage.
type Service struct {
	reader Reader
}

// New creates a usage service.
func New(reader Reader) *Service {
	return &Service{reader: reader}
}

// Report returns the identity's consumption against its daily limit.
// Anonymous callers have no quota standing to report.
func (s *Service) Report(ctx context.Context, identity *domain.Identity) (Report, error) {
	if identity == nil {
		return Report{}, domain.ErrAuthRequired
	}

	used, err := s.reader.Used(ctx, identity.ID)
	if err != nil {
		return Report{}, fmt.Errorf("usage report: %w", err)
	}

	remaining := identity.SearchLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return Report{
		Identity:  identity.ID,
		Limit:     identity.SearchLimit,
		Used:      used,
		Remaining: remaining,
		ResetsAt:  s.reader.ResetsAt(),
	}, nil
}
