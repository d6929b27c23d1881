// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application
// layer to depend on abstractions rather than concrete implementations.
//
// Port design principles:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use the domain error taxonomy
package ports

import (
	"context"

	"github.com/printops/gelato-mcp/internal/domain"
)

// GelatoAPI is the contract for the Gelato print-on-demand provider.
// One implementation instance is constructed at process startup and
// shared read-only by every tool and resource invocation; it must be
// safe for concurrent use.
//
// Every method maps provider failures into the domain error taxonomy:
// 404 on a resource-specific lookup becomes a NotFoundError for that
// entity kind, any other non-2xx or transport failure becomes an
// APIError, and a response that fails schema validation becomes a
// ValidationError.
type GelatoAPI interface {
	// TestConnection issues a lightweight probe against the provider.
	// Returns an AuthenticationError if the probe is rejected with
	// 401/403, an APIError for any other failure.
	TestConnection(ctx context.Context) error

	// ListCatalogs returns all available product catalogs. The provider
	// returns the full set; there is no pagination.
	ListCatalogs(ctx context.Context) ([]domain.Catalog, error)

	// GetCatalog returns a catalog's full attribute schema.
	GetCatalog(ctx context.Context, catalogUID string) (*domain.CatalogDetail, error)

	// SearchOrders runs an order search with the given filters.
	SearchOrders(ctx context.Context, params domain.SearchOrdersParams) (*domain.SearchOrdersResponse, error)

	// GetOrder returns the full order record.
	GetOrder(ctx context.Context, orderID string) (*domain.OrderDetail, error)

	// SearchProducts searches products within one catalog.
	SearchProducts(ctx context.Context, catalogUID string, req domain.SearchProductsRequest) (*domain.SearchProductsResponse, error)

	// GetProduct returns the full product record.
	GetProduct(ctx context.Context, productUID string) (*domain.ProductDetail, error)

	// Close releases the underlying transport. Idempotent.
	Close() error
}
