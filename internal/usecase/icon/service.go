package icon

import (
	"context"
	"errors"
	"fmt"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// MaxBatchSize caps one batch lookup request.
const MaxBatchSize = 20

// Size bounds for rendered SVGs.
const (
	MinRenderSize = 1
	MaxRenderSize = 512
)

// Repository defines the storage contract for icon documents.
type Repository interface {
	Get(ctx context.Context, fullName string) (domain.Icon, error)
}

// Rendered is an icon together with its SVG document at the requested size.
type Rendered struct {
	Icon domain.Icon
	SVG  string
}

// BatchItem is one entry of a batch lookup: either an icon or the reason
// it could not be returned.
type BatchItem struct {
	FullName string
	Icon     *domain.Icon
	Err      error
}

// Service serves icon lookups.
type Service struct {
	repo Repository
}

// New creates an icon service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one icon rendered at the given size; size 0 keeps the
// icon's native dimensions.
func (s *Service) Get(ctx context.Context, fullName string, size int) (Rendered, error) {
	if err := domain.ValidateFullName(fullName); err != nil {
		return Rendered{}, err
	}
	if size != 0 && (size < MinRenderSize || size > MaxRenderSize) {
		return Rendered{}, fmt.Errorf(
			"%w: size must be between %d and %d", domain.ErrInvalidParams, MinRenderSize, MaxRenderSize)
	}

	ic, err := s.repo.Get(ctx, fullName)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Icon: ic, SVG: ic.RenderSVG(size)}, nil
}

// Batch looks up several icons at once. Lookups are partitioned per name:
// a missing or malformed name marks only its own slot, the rest of the
// batch still resolves.
func (s *Service) Batch(ctx context.Context, fullNames []string) ([]BatchItem, error) {
	if len(fullNames) == 0 {
		return nil, fmt.Errorf("%w: names must not be empty", domain.ErrInvalidParams)
	}
	if len(fullNames) > MaxBatchSize {
		return nil, fmt.Errorf(
			"%w: at most %d names per batch", domain.ErrInvalidParams, MaxBatchSize)
	}

	items := make([]BatchItem, len(fullNames))
	for i, name := range fullNames {
		items[i] = BatchItem{FullName: name}

		if err := domain.ValidateFullName(name); err != nil {
			items[i].Err = err
			continue
		}

		ic, err := s.repo.Get(ctx, name)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				items[i].Err = err
				continue
			}
			return nil, err
		}
		items[i].Icon = &ic
	}
	return items, nil
}
