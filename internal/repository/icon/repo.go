package icon

import (
	"context"
	"fmt"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// store is the consumer interface for icon documents (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo reads icon documents from the store.
type Repo struct {
	store store
}

// New creates an icon repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get loads a full icon by its "<prefix>:<name>" identifier.
func (r *Repo) Get(ctx context.Context, fullName string) (domain.Icon, error) {
	fields, err := r.store.HGetAll(ctx, Key(fullName))
	if err != nil {
		return domain.Icon{}, fmt.Errorf("get icon %s: %w", fullName, err)
	}
	if len(fields) == 0 {
		return domain.Icon{}, fmt.Errorf("icon %s: %w", fullName, domain.ErrNotFound)
	}
	return iconFromFields(fields), nil
}

// Summaries hydrates the given store keys into display projections,
// preserving the input order exactly. Keys that no longer resolve to a
// document are skipped rather than producing holes.
func (r *Repo) Summaries(ctx context.Context, keys []string) ([]domain.IconSummary, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hydrate icons: %w", err)
	}

	out := make([]domain.IconSummary, 0, len(maps))
	for _, fields := range maps {
		if len(fields) == 0 {
			continue
		}
		out = append(out, summaryFromFields(fields))
	}
	return out, nil
}
