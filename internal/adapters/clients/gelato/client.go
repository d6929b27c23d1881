// Package gelato implements the typed client for the Gelato
// print-on-demand API. It translates raw HTTP responses into validated
// domain objects and classifies provider failures into the domain
// error taxonomy, protecting the rest of the service from the
// provider's schema irregularities.
package gelato

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/printops/gelato-mcp/internal/adapters/clients"
	"github.com/printops/gelato-mcp/internal/domain"
	"github.com/printops/gelato-mcp/internal/platform/logging"
)

// apiKeyHeader is the credential header the provider expects.
const apiKeyHeader = "X-API-KEY"

// Provider endpoint paths.
const (
	pathCatalogs       = "/v3/catalogs"
	pathCatalog        = "/v3/catalogs/%s"
	pathProductsSearch = "/v3/catalogs/%s/products:search"
	pathProduct        = "/v3/products/%s"
	pathOrdersSearch   = "/v4/orders:search"
	pathOrder          = "/v4/orders/%s"
)

// APIKeyAuth returns an auth injector that sets the provider's API key
// header on every outbound request.
func APIKeyAuth(apiKey string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set(apiKeyHeader, apiKey)
	}
}

// Config contains configuration for the Gelato client.
type Config struct {
	// Orders is the transport for the order API host.
	Orders *clients.Client

	// Products is the transport for the product API host.
	Products *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Client is the single point of contact with the Gelato provider.
// It is constructed once at process startup and shared read-only by
// every tool and resource invocation; it holds no mutable state beyond
// the transport pools and implements ports.GelatoAPI.
type Client struct {
	orders   *clients.Client
	products *clients.Client
	logger   *slog.Logger
}

// New creates a new Gelato client.
// Panics if either transport is nil. Defaults logger to slog.Default().
func New(cfg Config) *Client {
	if cfg.Orders == nil || cfg.Products == nil {
		panic("gelato.Client: Orders and Products transports are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		orders:   cfg.Orders,
		products: cfg.Products,
		logger:   logger,
	}
}

// TestConnection probes the provider by listing catalogs. A 401/403
// here means the credential is bad and startup must abort.
func (c *Client) TestConnection(ctx context.Context) error {
	resp, err := c.products.Get(ctx, pathCatalogs)
	if err != nil {
		return domain.NewTransportError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.NewAuthenticationError(fmt.Sprintf("provider rejected API key (status %d)", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		return c.apiError(resp)
	}

	return nil
}

// ListCatalogs returns all available product catalogs. The provider
// returns the full set; there is no pagination.
func (c *Client) ListCatalogs(ctx context.Context) ([]domain.Catalog, error) {
	c.logger.Log(ctx, logging.LevelTrace, "listing catalogs")

	resp, err := c.products.Get(ctx, pathCatalogs)
	if err != nil {
		return nil, domain.NewTransportError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.apiError(resp)
	}

	var catalogs []domain.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalogs); err != nil {
		return nil, domain.NewValidationError("catalogs", "decoding response: "+err.Error())
	}

	for i := range catalogs {
		if err := domain.Validate(&catalogs[i]); err != nil {
			return nil, err
		}
	}

	return catalogs, nil
}

// GetCatalog returns a catalog's full attribute schema by UID.
func (c *Client) GetCatalog(ctx context.Context, catalogUID string) (*domain.CatalogDetail, error) {
	if catalogUID == "" {
		return nil, domain.NewValidationError("catalog_uid", "is required")
	}

	c.logger.Log(ctx, logging.LevelTrace, "fetching catalog", slog.String("catalog_uid", catalogUID))

	resp, err := c.products.Get(ctx, fmt.Sprintf(pathCatalog, url.PathEscape(catalogUID)))
	if err != nil {
		return nil, domain.NewTransportError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewCatalogNotFoundError(catalogUID)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.apiError(resp)
	}

	return decode[domain.CatalogDetail](resp.Body, "catalog")
}

// SearchOrders runs an order search with the given filters. Date
// fields in params serialize with an explicit UTC offset.
func (c *Client) SearchOrders(ctx context.Context, params domain.SearchOrdersParams) (*domain.SearchOrdersResponse, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	c.logger.Log(ctx, logging.LevelTrace, "searching orders",
		slog.Int("limit", params.Limit),
		slog.Int("offset", params.Offset),
	)

	resp, err := c.orders.PostJSON(ctx, pathOrdersSearch, params)
	if err != nil {
		return nil, domain.NewTransportError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.apiError(resp)
	}

	return decode[domain.SearchOrdersResponse](resp.Body, "orders")
}

// GetOrder returns the full order record by ID.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*domain.OrderDetail, error) {
	if orderID == "" {
		return nil, domain.NewValidationError("order_id", "is required")
	}

	c.logger.Log(ctx, logging.LevelTrace, "fetching order", slog.String("order_id", orderID))

	resp, err := c.orders.Get(ctx, fmt.Sprintf(pathOrder, url.PathEscape(orderID)))
	if err != nil {
		return nil, domain.NewTransportError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewOrderNotFoundError(orderID)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.apiError(resp)
	}

	return decode[domain.OrderDetail](resp.Body, "order")
}

// SearchProducts searches products within one catalog.
func (c *Client) SearchProducts(ctx context.Context, catalogUID string, req domain.SearchProductsRequest) (*domain.SearchProductsResponse, error) {
	if catalogUID == "" {
		return nil, domain.NewValidationError("catalog_uid", "is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.logger.Log(ctx, logging.LevelTrace, "searching products",
		slog.String("catalog_uid", catalogUID),
		slog.Int("limit", req.Limit),
		slog.Int("offset", req.Offset),
	)

	resp, err := c.products.PostJSON(ctx, fmt.Sprintf(pathProductsSearch, url.PathEscape(catalogUID)), req)
	if err != nil {
		return nil, domain.NewTransportError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewCatalogNotFoundError(catalogUID)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.apiError(resp)
	}

	return decode[domain.SearchProductsResponse](resp.Body, "products")
}

// GetProduct returns the full product record by UID.
func (c *Client) GetProduct(ctx context.Context, productUID string) (*domain.ProductDetail, error) {
	if productUID == "" {
		return nil, domain.NewValidationError("product_uid", "is required")
	}

	c.logger.Log(ctx, logging.LevelTrace, "fetching product", slog.String("product_uid", productUID))

	resp, err := c.products.Get(ctx, fmt.Sprintf(pathProduct, url.PathEscape(productUID)))
	if err != nil {
		return nil, domain.NewTransportError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewProductNotFoundError(productUID)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.apiError(resp)
	}

	return decode[domain.ProductDetail](resp.Body, "product")
}

// Close releases both transports. Idempotent; safe to call multiple times.
func (c *Client) Close() error {
	c.orders.Close()
	c.products.Close()

	return nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *Client) Name() string {
	return "gelato-api"
}

// Check performs a health check via the connection probe.
// Implements ports.HealthChecker.
func (c *Client) Check(ctx context.Context) error {
	return c.TestConnection(ctx)
}

// apiError builds an APIError from a non-2xx response, carrying the
// status code and the parsed body (empty mapping if unparsable).
func (c *Client) apiError(resp *http.Response) error {
	responseData := parseBody(resp.Body)

	message := fmt.Sprintf("provider returned status %d", resp.StatusCode)
	if m, ok := responseData["message"].(string); ok && m != "" {
		message = m
	}

	c.logger.Warn("gelato api error",
		slog.Int("status_code", resp.StatusCode),
		slog.String("message", message),
	)

	return domain.NewAPIError(message, resp.StatusCode, responseData)
}

// parseBody reads and parses a provider error body, returning an empty
// mapping when the body is empty or not a JSON object.
func parseBody(body io.Reader) map[string]any {
	raw, err := io.ReadAll(body)
	if err != nil || len(raw) == 0 {
		return map[string]any{}
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return map[string]any{}
	}

	return parsed
}

// decode reads a JSON response into the target type and validates the
// constructed value. A schema mismatch on a required field propagates
// as a validation failure so provider schema drift stays visible
// instead of producing a half-populated object.
func decode[T any](body io.Reader, what string) (*T, error) {
	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, domain.NewValidationError(what, "decoding response: "+err.Error())
	}

	if err := domain.Validate(&result); err != nil {
		return nil, err
	}

	return &result, nil
}
