package query

import (
	"fmt"
	"strings"

	"github.com/glyphdex/glyphdex/internal/domain"
	"github.com/glyphdex/glyphdex/internal/domain/search/filter"
)

// Request bounds. MaxOffset caps how deep pagination can reach; beyond it
// the candidate pool ceiling would make result windows unreliable anyway.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 20
	MaxOffset    = 1000
)

// Params is the raw, unvalidated input of a search request as the
// transport layer received it.
type Params struct {
	Query         string
	QuerySupplied bool
	Collection    string
	Category      string
	License       string
	Limit         *int
	Offset        *int
	Identity      *domain.Identity
}

// Request is a validated search request.
type Request struct {
	query      string
	collection string
	category   string
	license    string
	limit      int
	offset     int
	identity   *domain.Identity
}

// New validates Params into a Request. Violations wrap domain.ErrInvalidParams.
func New(p Params) (Request, error) {
	q := strings.TrimSpace(p.Query)

	if p.QuerySupplied && q == "" {
		return Request{}, fmt.Errorf("%w: query must not be blank", domain.ErrInvalidParams)
	}
	if q == "" && p.Collection == "" && p.License == "" {
		return Request{}, fmt.Errorf(
			"%w: at least one of query, collection or license is required", domain.ErrInvalidParams)
	}

	limit := DefaultLimit
	if p.Limit != nil {
		limit = *p.Limit
		if limit < MinLimit || limit > MaxLimit {
			return Request{}, fmt.Errorf(
				"%w: limit must be between %d and %d", domain.ErrInvalidParams, MinLimit, MaxLimit)
		}
	}

	offset := 0
	if p.Offset != nil {
		offset = *p.Offset
		if offset < 0 || offset > MaxOffset {
			return Request{}, fmt.Errorf(
				"%w: offset must be between 0 and %d", domain.ErrInvalidParams, MaxOffset)
		}
	}

	return Request{
		query:      q,
		collection: p.Collection,
		category:   p.Category,
		license:    p.License,
		limit:      limit,
		offset:     offset,
		identity:   p.Identity,
	}, nil
}

// Query returns the trimmed free-text query ("" when browsing).
func (r *Request) Query() string { return r.query }

// Collection returns the collection prefix filter.
func (r *Request) Collection() string { return r.collection }

// Category returns the category filter.
func (r *Request) Category() string { return r.category }

// License returns the license title filter.
func (r *Request) License() string { return r.license }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the page offset.
func (r *Request) Offset() int { return r.offset }

// Identity returns the resolved caller, nil for anonymous requests.
func (r *Request) Identity() *domain.Identity { return r.identity }

// Filters builds the tag filter expression shared by both rankers.
func (r *Request) Filters() filter.Expression {
	var conds []filter.Condition
	add := func(key, value string) {
		if value == "" {
			return
		}
		if c, err := filter.NewMatch(key, value); err == nil {
			conds = append(conds, c)
		}
	}
	add(filter.KeyCollection, r.collection)
	add(filter.KeyCategory, r.category)
	add(filter.KeyLicense, r.license)
	return filter.NewExpression(conds...)
}
