package quota

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glyphdex/glyphdex/internal/domain"
	"github.com/glyphdex/glyphdex/internal/metrics"
)

// Counter is the persistence interface for daily usage counters.
type Counter interface {
	Consume(ctx context.Context, identityID string, limit int64) (int64, bool, error)
	ResetsAt() time.Time
}

// Guard enforces the per-identity daily search quota. The counter consume
// is a single atomic operation, so a burst of concurrent requests cannot
// overspend the last slot.
type Guard struct {
	counter Counter
	logger  *zap.Logger
}

// New creates a quota guard.
func New(counter Counter, logger *zap.Logger) *Guard {
	return &Guard{counter: counter, logger: logger}
}

// Allow admits one search for the identity or fails with a rate-limit
// error carrying the reset time. A nil identity means anonymous access is
// enabled; anonymous requests are not metered.
func (g *Guard) Allow(ctx context.Context, identity *domain.Identity) error {
	if identity == nil {
		return nil
	}
	if identity.SearchLimit <= 0 {
		return domain.ErrAuthInvalid
	}

	used, ok, err := g.counter.Consume(ctx, identity.ID, identity.SearchLimit)
	if err != nil {
		return fmt.Errorf("quota guard: %w", err)
	}
	if !ok {
		metrics.SearchQuotaRejectedTotal.Inc()
		g.logger.Info("Daily search quota exhausted",
			zap.String("identity", identity.ID),
			zap.Int64("limit", identity.SearchLimit),
		)
		return domain.NewRateLimit(identity.SearchLimit, g.counter.ResetsAt())
	}

	g.logger.Debug("Search quota consumed",
		zap.String("identity", identity.ID),
		zap.Int64("used", used),
		zap.Int64("limit", identity.SearchLimit),
	)
	return nil
}
