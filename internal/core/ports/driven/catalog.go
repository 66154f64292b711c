package driven

import (
	"context"

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
)

// AssetCatalog provides read-only access to the local asset store.
type AssetCatalog interface {
	// ListAssets returns every asset ordered by ascending play order.
	// Implementations must release their connection before returning.
	ListAssets(ctx context.Context) ([]domain.Asset, error)
}
