package repositories

import (
	"context"

	"github.com/roadies/roadies-backend/internal/domain/entities"
)

// ProductRepository provides read access to the gear catalog. Results must
// be deterministic within a process run; ranking relies on iteration order
// for stable tie-breaks.
type ProductRepository interface {
	// GetProducts returns catalog entries, optionally filtered by category.
	// An empty category returns the full catalog.
	GetProducts(ctx context.Context, category string) ([]*entities.Product, error)

	// GetByID returns a single catalog entry.
	GetByID(ctx context.Context, id int) (*entities.Product, error)
}

// ProductSearchRepository indexes and searches products in an external
// search engine.
type ProductSearchRepository interface {
	InitSchema(ctx context.Context) error
	Index(ctx context.Context, product *entities.Product) error
	Search(ctx context.Context, category string, maxPrice float64, limit int) ([]*entities.Product, error)
}
