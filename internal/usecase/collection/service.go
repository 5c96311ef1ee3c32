package collection

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// LicenseCount aggregates icon totals under one license.
type LicenseCount struct {
	License     domain.License
	Collections int
	Icons       int
}

// Service answers catalog questions about collections, licenses, and
// categories.
type Service struct {
	repo Repository
}

// New creates a collection service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one collection by prefix.
func (s *Service) Get(ctx context.Context, prefix string) (domain.Collection, error) {
	return s.repo.Get(ctx, prefix)
}

// List returns collections, optionally narrowed by category and by a
// case-insensitive substring match on the display name or prefix.
func (s *Service) List(ctx context.Context, category, search string) ([]domain.Collection, error) {
	cols, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	if category == "" && search == "" {
		return cols, nil
	}

	needle := strings.ToLower(search)
	out := cols[:0]
	for _, c := range cols {
		if category != "" && c.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Prefix), needle) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Licenses aggregates collections by license title, ordered by icon count
// descending, ties by title ascending.
func (s *Service) Licenses(ctx context.Context) ([]LicenseCount, error) {
	cols, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	byTitle := make(map[string]*LicenseCount)
	for _, c := range cols {
		title := c.License.Title
		if title == "" {
			continue
		}
		lc, ok := byTitle[title]
		if !ok {
			lc = &LicenseCount{License: c.License}
			byTitle[title] = lc
		}
		lc.Collections++
		lc.Icons += c.Total
	}

	out := make([]LicenseCount, 0, len(byTitle))
	for _, lc := range byTitle {
		out = append(out, *lc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Icons != out[j].Icons {
			return out[i].Icons > out[j].Icons
		}
		return out[i].License.Title < out[j].License.Title
	})
	return out, nil
}

// Categories returns the distinct category names, sorted. With a prefix it
// returns the categories inside that single collection instead.
func (s *Service) Categories(ctx context.Context, prefix string) ([]string, error) {
	if prefix != "" {
		col, err := s.repo.Get(ctx, prefix)
		if err != nil {
			return nil, err
		}
		cats := append([]string(nil), col.Categories...)
		sort.Strings(cats)
		return cats, nil
	}

	cols, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	seen := make(map[string]struct{})
	var cats []string
	for _, c := range cols {
		if c.Category == "" {
			continue
		}
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		cats = append(cats, c.Category)
	}
	sort.Strings(cats)
	return cats, nil
}
