package catalog

import (
	"context"

	"github.com/roadies/roadies-backend/internal/domain/entities"
	"github.com/roadies/roadies-backend/internal/domain/providers"
	"github.com/roadies/roadies-backend/internal/domain/repositories"
	"github.com/roadies/roadies-backend/internal/infrastructure/observability"
)

// FallbackAdapter asks the external storefront catalog first and falls back
// to the local catalog when the storefront is unavailable or returns
// nothing. Failures are logged, never surfaced.
type FallbackAdapter struct {
	commerce providers.CommerceCatalogProvider
	local    repositories.ProductRepository
}

// Ensure FallbackAdapter implements ProductRepository
var _ repositories.ProductRepository = (*FallbackAdapter)(nil)

// NewFallbackAdapter creates a catalog adapter backed by the storefront with
// a local fallback.
func NewFallbackAdapter(commerce providers.CommerceCatalogProvider, local repositories.ProductRepository) *FallbackAdapter {
	return &FallbackAdapter{commerce: commerce, local: local}
}

// GetProducts returns storefront products for the category, or the local
// catalog when the storefront cannot serve the lookup.
func (a *FallbackAdapter) GetProducts(ctx context.Context, category string) ([]*entities.Product, error) {
	if a.commerce != nil {
		products, err := a.commerce.SearchProducts(ctx, category, 0)
		if err == nil && len(products) > 0 {
			return products, nil
		}
		if err != nil {
			logger := observability.LoggerFromContext(ctx)
			logger.Warn().Err(err).Str("category", category).Msg("storefront catalog unavailable, using local catalog")
		}
	}
	return a.local.GetProducts(ctx, category)
}

// GetByID resolves ids against the local catalog; storefront ids that are
// not mirrored locally report not found.
func (a *FallbackAdapter) GetByID(ctx context.Context, id int) (*entities.Product, error) {
	return a.local.GetByID(ctx, id)
}
