package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/glyphdex/glyphdex/internal/db"
	"github.com/glyphdex/glyphdex/internal/domain"
)

// counterTTL keeps finished-day counters around long enough for usage
// reports that straddle midnight, then lets them expire on their own.
const counterTTL = 48 * time.Hour

const dayFormat = "2006-01-02"

// store is the consumer interface for usage counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrIfBelow(ctx context.Context, key string, limit int64, ttl time.Duration) (int64, bool, error)
}

// Repo tracks per-identity daily search counters. Days roll over at UTC
// midnight: the counter key embeds the UTC calendar date, so a new day
// starts from zero without any explicit reset.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a usage repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (r *Repo) WithClock(now func() time.Time) *Repo {
	r.now = now
	return r
}

// Consume atomically takes one search slot for the identity if its daily
// counter is below limit. It returns the counter value after the call and
// whether the slot was granted.
func (r *Repo) Consume(ctx context.Context, identityID string, limit int64) (int64, bool, error) {
	used, ok, err := r.store.IncrIfBelow(ctx, r.key(identityID), limit, counterTTL)
	if err != nil {
		return 0, false, fmt.Errorf("consume quota for %s: %w", identityID, err)
	}
	return used, ok, nil
}

// Used returns how many searches the identity has performed today.
func (r *Repo) Used(ctx context.Context, identityID string) (int64, error) {
	raw, err := r.store.Get(ctx, r.key(identityID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("read usage for %s: %w", identityID, err)
	}
	used, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, &db.Error{Op: db.OpGet, Err: fmt.Errorf("usage counter for %s is not numeric: %q", identityID, raw)}
	}
	return used, nil
}

// ResetsAt returns the next UTC midnight, when the current counter stops
// applying.
func (r *Repo) ResetsAt() time.Time {
	day := r.now().UTC().Truncate(24 * time.Hour)
	return day.Add(24 * time.Hour)
}

func (r *Repo) key(identityID string) string {
	return domain.KeyPrefix + "usage:" + identityID + ":" + r.now().UTC().Format(dayFormat)
}
