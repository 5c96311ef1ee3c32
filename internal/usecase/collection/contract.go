package collection

import (
	"context"

	"github.com/glyphdex/glyphdex/internal/domain"
)

// Repository defines the storage contract for collection metadata.
type Repository interface {
	Get(ctx context.Context, prefix string) (domain.Collection, error)
	List(ctx context.Context) ([]domain.Collection, error)
}
