package providers

import (
	"context"

	"github.com/roadies/roadies-backend/internal/domain/entities"
)

// CommerceCatalogProvider defines an external storefront catalog. A failed
// or empty lookup signals unavailability; callers fall back to the local
// mock catalog.
type CommerceCatalogProvider interface {
	// SearchProducts returns up to five normalized products matching the
	// keyword, optionally capped at maxPrice (0 means no cap).
	SearchProducts(ctx context.Context, keyword string, maxPrice float64) ([]*entities.Product, error)
}
