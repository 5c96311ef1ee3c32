package collection

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// store is the consumer interface for collection documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo reads and writes collection metadata documents.
type Repo struct {
	store store
}

// New creates a collection repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put stores collection metadata under its prefix, used by the ingest path.
func (r *Repo) Put(ctx context.Context, col domain.Collection) error {
	fields, err := collectionToHash(col)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", col.Prefix, err)
	}
	if err := r.store.HSet(ctx, Key(col.Prefix), fields); err != nil {
		return fmt.Errorf("hset collection %s: %w", col.Prefix, err)
	}
	return nil
}

// Get retrieves a collection by prefix.
func (r *Repo) Get(ctx context.Context, prefix string) (domain.Collection, error) {
	m, err := r.store.HGetAll(ctx, Key(prefix))
	if err != nil {
		return domain.Collection{}, fmt.Errorf("hgetall collection %s: %w", prefix, err)
	}
	if len(m) == 0 {
		return domain.Collection{}, fmt.Errorf("collection %s: %w", prefix, domain.ErrNotFound)
	}
	return collectionFromHash(prefix, m), nil
}

// Exists reports whether a collection is registered under the prefix.
func (r *Repo) Exists(ctx context.Context, prefix string) (bool, error) {
	ok, err := r.store.Exists(ctx, Key(prefix))
	if err != nil {
		return false, fmt.Errorf("exists collection %s: %w", prefix, err)
	}
	return ok, nil
}

// List returns all collections sorted by prefix.
func (r *Repo) List(ctx context.Context) ([]domain.Collection, error) {
	keys, err := r.store.Scan(ctx, Key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan collections: %w", err)
	}
	if len(keys) == 0 {
		return []domain.Collection{}, nil
	}
	sort.Strings(keys)

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}

	out := make([]domain.Collection, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		prefix := strings.TrimPrefix(keys[i], Key(""))
		out = append(out, collectionFromHash(prefix, m))
	}
	return out, nil
}
