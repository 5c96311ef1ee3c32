package search

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/glyphdex/glyphdex/internal/db"
	"github.com/glyphdex/glyphdex/internal/domain/search/filter"
	"github.com/glyphdex/glyphdex/internal/domain/search/rank"
	iconrepo "github.com/glyphdex/glyphdex/internal/repository/icon"
)

// store is the consumer interface for ranking queries (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// rankReturnFields is the minimum needed to build candidates: the numeric
// id carries the deterministic tie-break key.
var rankReturnFields = []string{"id"}

// Repo produces rank-ordered candidate lists for the fusion step.
// Filters are applied inside each query, so every candidate pool is drawn
// from the already-filtered universe.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Lexical runs a BM25 relevance query and returns the top k candidates
// ordered by descending score, ties broken by ascending icon id. The query
// must already be sanitized; an empty query is the caller's responsibility.
func (r *Repo) Lexical(
	ctx context.Context, query string, filters filter.Expression, k int,
) ([]rank.Candidate, error) {
	sr, err := r.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    iconrepo.IndexName,
		Query:        query,
		Filters:      filters,
		TopK:         k,
		ReturnFields: rankReturnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	return toCandidates(sr), nil
}

// Semantic runs a KNN similarity query and returns the top k candidates
// ordered by descending similarity, same tie-break discipline as Lexical.
func (r *Repo) Semantic(
	ctx context.Context, vector []float32, filters filter.Expression, k int,
) ([]rank.Candidate, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    iconrepo.IndexName,
		Filters:      filters,
		Vector:       vector,
		K:            k,
		ReturnFields: rankReturnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	return toCandidates(sr), nil
}

// Browse lists filtered icons ordered by full name (collection prefix,
// then icon name), for query-less requests.
func (r *Repo) Browse(
	ctx context.Context, filters filter.Expression, offset, limit int,
) ([]rank.Candidate, error) {
	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    iconrepo.IndexName,
		Filters:      filters,
		SortBy:       "full_name",
		Offset:       offset,
		Limit:        limit,
		ReturnFields: rankReturnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("browse icons: %w", err)
	}

	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}
	out := make([]rank.Candidate, 0, len(sr.Entries))
	for i, e := range sr.Entries {
		out = append(out, rank.Candidate{
			ID:   parseID(e.Fields),
			Key:  e.Key,
			Rank: i + 1,
		})
	}
	return out, nil
}

// toCandidates re-sorts entries by (score desc, id asc) and assigns 1-based
// ranks. The engine's own ordering of equal scores is not guaranteed to be
// stable, so the tie-break runs here to keep repeated calls reproducible.
func toCandidates(sr *db.SearchResult) []rank.Candidate {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	type scored struct {
		id    int64
		key   string
		score float64
	}
	items := make([]scored, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		items = append(items, scored{id: parseID(e.Fields), key: e.Key, score: e.Score})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].id < items[j].id
	})

	out := make([]rank.Candidate, len(items))
	for i, it := range items {
		out[i] = rank.Candidate{ID: it.id, Key: it.key, Rank: i + 1}
	}
	return out
}

func parseID(fields map[string]string) int64 {
	id, _ := strconv.ParseInt(fields["id"], 10, 64)
	return id
}
