package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/glyphdex/glyphdex/internal/domain"
	"github.com/glyphdex/glyphdex/internal/domain/search/query"
	"github.com/glyphdex/glyphdex/internal/domain/search/rank"
	"github.com/glyphdex/glyphdex/internal/domain/search/result"
	"github.com/glyphdex/glyphdex/internal/metrics"
)

// Config tunes the ranking pipeline.
type Config struct {
	// RRFK is the fusion constant; larger values flatten rank differences.
	RRFK int
	// PoolHeadroom is added on top of limit+offset when sizing the
	// candidate pool, so fusion has enough overlap to reorder across the
	// page boundary.
	PoolHeadroom int
	// PoolFloor is the minimum candidate pool size.
	PoolFloor int
	// PoolCeiling caps the candidate pool regardless of pagination depth.
	PoolCeiling int
	// EmbedTimeout bounds the embedding call; on expiry the request
	// degrades to lexical-only ranking instead of failing.
	EmbedTimeout time.Duration
}

// Response is a hydrated search result window.
type Response struct {
	Results []result.Result
	Page    result.Page
}

// Service runs hybrid icon search: a lexical and a semantic ranking fused
// via Reciprocal Rank Fusion, with graceful fallback to lexical-only when
// the embedding provider is unavailable.
type Service struct {
	ranker Ranker
	embed  Embedder
	colls  CollectionChecker
	hydro  Hydrator
	guard  Guard
	cfg    Config
	logger *zap.Logger
}

// New creates a search service. embed may be nil when no embedding provider
// is configured; every query then ranks lexically.
func New(
	ranker Ranker, embed Embedder, colls CollectionChecker,
	hydro Hydrator, guard Guard, cfg Config, logger *zap.Logger,
) *Service {
	if cfg.RRFK <= 0 {
		cfg.RRFK = DefaultRRFK
	}
	return &Service{
		ranker: ranker,
		embed:  embed,
		colls:  colls,
		hydro:  hydro,
		guard:  guard,
		cfg:    cfg,
		logger: logger,
	}
}

// Search executes a validated request: filter checks, quota guard, then
// either a browse listing (no query) or the fused two-signal ranking.
func (s *Service) Search(ctx context.Context, req query.Request) (*Response, error) {
	if req.Collection() != "" {
		ok, err := s.colls.Exists(ctx, req.Collection())
		if err != nil {
			return nil, fmt.Errorf("check collection: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("collection %s: %w", req.Collection(), domain.ErrNotFound)
		}
	}

	if err := s.guard.Allow(ctx, req.Identity()); err != nil {
		return nil, err
	}

	if req.Query() == "" {
		return s.browse(ctx, req)
	}
	return s.ranked(ctx, req)
}

// browse lists filtered icons in full-name order for query-less requests.
func (s *Service) browse(ctx context.Context, req query.Request) (*Response, error) {
	metrics.SearchRequestsTotal.WithLabelValues("browse").Inc()

	window, err := s.ranker.Browse(ctx, req.Filters(), req.Offset(), req.Limit()+1)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, window, req.Limit(), req.Offset())
}

// ranked runs both rankers in parallel over a shared candidate pool and
// fuses their orderings.
func (s *Service) ranked(ctx context.Context, req query.Request) (*Response, error) {
	sanitized := sanitizeQuery(req.Query())
	k := s.poolSize(req.Limit(), req.Offset())

	var (
		lexical, semantic []rank.Candidate
		semanticOK        bool
	)
	g, gctx := errgroup.WithContext(ctx)

	if sanitized != "" {
		g.Go(func() error {
			var err error
			lexical, err = s.ranker.Lexical(gctx, sanitized, req.Filters(), k)
			if err != nil {
				return fmt.Errorf("lexical ranking: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		vector, ok := s.embedQuery(gctx, req.Query())
		if !ok {
			return nil
		}
		cands, err := s.ranker.Semantic(gctx, vector, req.Filters(), k)
		if err != nil {
			// A broken vector index is a missing signal, not a failed
			// request: fusion treats it as an empty semantic list.
			metrics.SearchDegradedTotal.WithLabelValues("index_error").Inc()
			s.logger.Warn("Semantic ranking failed, continuing lexical-only",
				zap.Error(err),
			)
			return nil
		}
		semantic = cands
		semanticOK = true
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if sanitized == "" && !semanticOK {
		// Nothing searchable remained after sanitization and the semantic
		// signal is gone too. This is a request problem, not an empty page.
		return nil, fmt.Errorf("%w: query %q", domain.ErrNoSearchableTerms, req.Query())
	}

	s.countMode(sanitized != "", semanticOK)

	fused := fuseRRF(lexical, semantic, s.cfg.RRFK)
	window := pageWindow(fused, req.Offset(), req.Limit()+1)
	return s.hydrate(ctx, window, req.Limit(), req.Offset())
}

// embedQuery vectorizes the raw query under the embedding deadline.
// Any failure is absorbed: the request continues lexical-only and the
// reason is only visible in logs and metrics.
func (s *Service) embedQuery(ctx context.Context, text string) ([]float32, bool) {
	if s.embed == nil {
		return nil, false
	}

	if s.cfg.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.EmbedTimeout)
		defer cancel()
	}

	res, err := s.embed.Embed(ctx, text)
	if err != nil {
		reason := degradeReason(err)
		metrics.SearchDegradedTotal.WithLabelValues(reason).Inc()
		s.logger.Warn("Semantic signal unavailable, ranking lexical-only",
			zap.String("reason", reason),
			zap.Error(err),
		)
		return nil, false
	}
	return res.Embedding, true
}

func degradeReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, domain.ErrEmbeddingQuotaExceeded):
		return "budget"
	default:
		return "provider_error"
	}
}

func (s *Service) countMode(hasLexical, hasSemantic bool) {
	mode := "hybrid"
	switch {
	case hasLexical && !hasSemantic:
		mode = "lexical"
	case !hasLexical && hasSemantic:
		mode = "semantic"
	}
	metrics.SearchRequestsTotal.WithLabelValues(mode).Inc()
}

// poolSize computes how many candidates each ranker must return so that
// the requested window is stable after fusion.
func (s *Service) poolSize(limit, offset int) int {
	k := limit + offset + s.cfg.PoolHeadroom
	if k < s.cfg.PoolFloor {
		k = s.cfg.PoolFloor
	}
	if s.cfg.PoolCeiling > 0 && k > s.cfg.PoolCeiling {
		k = s.cfg.PoolCeiling
	}
	return k
}

// pageWindow slices [offset, offset+size) out of the fused ordering.
func pageWindow(fused []rank.Candidate, offset, size int) []rank.Candidate {
	if offset >= len(fused) {
		return nil
	}
	end := offset + size
	if end > len(fused) {
		end = len(fused)
	}
	return fused[offset:end]
}

// hydrate resolves the limit+1 window into display results and pagination.
func (s *Service) hydrate(
	ctx context.Context, window []rank.Candidate, limit, offset int,
) (*Response, error) {
	page := result.NewPage(len(window), limit, offset)
	if page.Count < len(window) {
		window = window[:page.Count]
	}

	keys := make([]string, len(window))
	for i, c := range window {
		keys[i] = c.Key
	}

	summaries, err := s.hydro.Summaries(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}

	results := make([]result.Result, 0, len(summaries))
	for _, sum := range summaries {
		results = append(results, result.New(
			sum.FullName, sum.Name, sum.Prefix,
			sum.Collection, sum.Category, sum.Tags,
		))
	}
	// Hydration can drop icons deleted between ranking and lookup.
	page.Count = len(results)

	return &Response{Results: results, Page: page}, nil
}
