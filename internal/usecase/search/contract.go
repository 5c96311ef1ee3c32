package search

import (
	"context"

	"github.com/glyphdex/glyphdex/internal/domain"
	"github.com/glyphdex/glyphdex/internal/domain/search/filter"
	"github.com/glyphdex/glyphdex/internal/domain/search/rank"
)

// Ranker produces filtered, rank-ordered candidate lists.
type Ranker interface {
	Lexical(ctx context.Context, query string, filters filter.Expression, k int) ([]rank.Candidate, error)
	Semantic(ctx context.Context, vector []float32, filters filter.Expression, k int) ([]rank.Candidate, error)
	Browse(ctx context.Context, filters filter.Expression, offset, limit int) ([]rank.Candidate, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CollectionChecker verifies collection prefixes before ranking.
type CollectionChecker interface {
	Exists(ctx context.Context, prefix string) (bool, error)
}

// Hydrator loads display projections for ranked store keys.
type Hydrator interface {
	Summaries(ctx context.Context, keys []string) ([]domain.IconSummary, error)
}

// Guard admits or rejects a request against the caller's daily quota.
type Guard interface {
	Allow(ctx context.Context, identity *domain.Identity) error
}
