package catalog

import (
	"context"

	"github.com/roadies/roadies-backend/internal/domain/entities"
	"github.com/roadies/roadies-backend/internal/domain/repositories"
	"github.com/roadies/roadies-backend/internal/infrastructure/observability"
)

const searchPageSize = 50

// SearchAdapter serves catalog reads from the search index, falling back to
// the local catalog when the index errors or comes back empty.
type SearchAdapter struct {
	search repositories.ProductSearchRepository
	local  repositories.ProductRepository
}

// NewSearchAdapter creates a search-backed catalog with a local fallback.
func NewSearchAdapter(search repositories.ProductSearchRepository, local repositories.ProductRepository) *SearchAdapter {
	return &SearchAdapter{search: search, local: local}
}

// GetProducts lists products for a category via the search index.
func (a *SearchAdapter) GetProducts(ctx context.Context, category string) ([]*entities.Product, error) {
	products, err := a.search.Search(ctx, category, 0, searchPageSize)
	if err != nil {
		logger := observability.LoggerFromContext(ctx)
		logger.Warn().Err(err).Str("category", category).Msg("search index lookup failed, using local catalog")
		return a.local.GetProducts(ctx, category)
	}
	if len(products) == 0 {
		return a.local.GetProducts(ctx, category)
	}
	return products, nil
}

// GetByID resolves a product by id from the local catalog. The index stores
// a projection, so id lookups stay on the source of truth.
func (a *SearchAdapter) GetByID(ctx context.Context, id int) (*entities.Product, error) {
	return a.local.GetByID(ctx, id)
}
