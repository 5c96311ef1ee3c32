package icon

import (
	"context"
	"errors"
	"fmt"

	"github.com/glyphdex/glyphdex/internal/db"
	"github.com/glyphdex/glyphdex/internal/domain"
)

// IndexName is the FT index over all icon documents.
var IndexName = domain.KeyPrefix + "icons:idx"

// HNSWConfig tunes the vector index build.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// IndexDefinition describes the icon search index schema:
// one TEXT field for BM25, TAG fields for the ranker pre-filters,
// a sortable TAG for browse ordering, and the embedding vector.
func IndexDefinition(dimensions int, hnsw HNSWConfig) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     IndexName,
		Prefixes: []string{domain.KeyPrefix + "icon:"},
		Fields: []db.IndexField{
			{Name: fieldSearch, Type: db.IndexFieldText},
			{Name: fieldPrefix, Type: db.IndexFieldTag},
			{Name: fieldCategory, Type: db.IndexFieldTag},
			{Name: fieldLicense, Type: db.IndexFieldTag},
			{Name: fieldFullName, Type: db.IndexFieldTag, Sortable: true},
			{Name: fieldID, Type: db.IndexFieldNumeric},
			{
				Name:              fieldVector,
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         dimensions,
				VectorDistance:    db.DistanceCosine,
				VectorM:           hnsw.M,
				VectorEFConstruct: hnsw.EFConstruct,
			},
		},
	}
}

// EnsureIndex creates the icon index if it does not exist yet.
func EnsureIndex(ctx context.Context, m db.IndexManager, dimensions int, hnsw HNSWConfig) error {
	def := IndexDefinition(dimensions, hnsw)
	if err := def.Validate(); err != nil {
		return fmt.Errorf("icon index definition: %w", err)
	}
	if err := m.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create icon index: %w", err)
	}
	return nil
}
