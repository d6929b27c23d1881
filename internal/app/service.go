package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/printops/gelato-mcp/internal/domain"
	"github.com/printops/gelato-mcp/internal/ports"
)

// Operation names carried in failure envelopes.
const (
	opSearchOrders    = "search_orders"
	opGetOrderSummary = "get_order_summary"
	opSearchProducts  = "search_products"
	opGetProduct      = "get_product"
)

// Service orchestrates provider operations and assembles their
// outcomes into response envelopes. It depends on the GelatoAPI port,
// not the concrete client.
type Service struct {
	api    ports.GelatoAPI
	logger *slog.Logger
}

// ServiceConfig holds optional configuration for the service.
type ServiceConfig struct {
	Logger *slog.Logger
}

// NewService creates a new application service with the given provider port.
func NewService(api ports.GelatoAPI, cfg *ServiceConfig) *Service {
	logger := slog.Default()
	if cfg != nil && cfg.Logger != nil {
		logger = cfg.Logger
	}

	return &Service{
		api:    api,
		logger: logger.With(slog.String("component", "app.Service")),
	}
}

// SearchOrdersInput carries the caller-facing order search filters.
// StartDate and EndDate are raw ISO 8601 strings; they are parsed here
// so a malformed date fails before any network call.
type SearchOrdersInput struct {
	OrderTypes          []string
	Countries           []string
	Currencies          []string
	FinancialStatuses   []string
	FulfillmentStatuses []string
	SearchText          string
	StartDate           string
	EndDate             string
	Limit               int
	Offset              int
	OrderReferenceIDs   []string
	StoreIDs            []string
	Channels            []string
}

// SearchOrders searches orders with the given filters and assembles
// the page into a response envelope.
func (s *Service) SearchOrders(ctx context.Context, input SearchOrdersInput) Envelope {
	params := domain.NewSearchOrdersParams()
	params.OrderTypes = input.OrderTypes
	params.Countries = input.Countries
	params.Currencies = input.Currencies
	params.FinancialStatuses = input.FinancialStatuses
	params.FulfillmentStatuses = input.FulfillmentStatuses
	params.Search = input.SearchText
	params.OrderReferenceIDs = input.OrderReferenceIDs
	params.StoreIDs = input.StoreIDs
	params.Channels = input.Channels
	params.Offset = input.Offset

	if input.Limit != 0 {
		params.Limit = input.Limit
	}

	if input.StartDate != "" {
		parsed, err := domain.ParseAPITime(input.StartDate)
		if err != nil {
			return failureMessage(opSearchOrders, fmt.Sprintf(
				"Invalid start_date format: %s. Use ISO 8601 format like '2024-01-01T00:00:00Z'",
				input.StartDate,
			))
		}

		params.StartDate = &parsed
	}

	if input.EndDate != "" {
		parsed, err := domain.ParseAPITime(input.EndDate)
		if err != nil {
			return failureMessage(opSearchOrders, fmt.Sprintf(
				"Invalid end_date format: %s. Use ISO 8601 format like '2024-12-31T23:59:59Z'",
				input.EndDate,
			))
		}

		params.EndDate = &parsed
	}

	s.logger.InfoContext(ctx, "searching orders",
		slog.Int("limit", params.Limit),
		slog.Int("offset", params.Offset),
	)

	result, err := s.api.SearchOrders(ctx, params)
	if err != nil {
		s.logger.ErrorContext(ctx, "order search failed", slog.Any("error", err))

		return Failure(opSearchOrders, err)
	}

	count := len(result.Orders)
	pagination := NewPagination(count, params.Offset, params.Limit)

	var message string
	switch {
	case count == 0:
		message = "No orders found matching the search criteria"
	case pagination.HasMore:
		message = fmt.Sprintf(
			"Found %d orders (may have more results, use offset=%d to get next page)",
			count, params.Offset+params.Limit,
		)
	default:
		message = fmt.Sprintf("Found %d orders matching the search criteria", count)
	}

	return Success(map[string]any{
		"orders":        result.Orders,
		"pagination":    pagination,
		"search_params": asMap(params),
	}, message)
}

// GetOrderSummary retrieves one order by ID and assembles it into a
// response envelope.
func (s *Service) GetOrderSummary(ctx context.Context, orderID string) Envelope {
	operation := fmt.Sprintf("%s for order %s", opGetOrderSummary, orderID)

	s.logger.InfoContext(ctx, "retrieving order", slog.String("order_id", orderID))

	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		s.logger.ErrorContext(ctx, "order retrieval failed",
			slog.String("order_id", orderID),
			slog.Any("error", err),
		)

		return Failure(operation, err, WithOrderID(orderID))
	}

	return Success(asMap(order), fmt.Sprintf("Retrieved order %s successfully", orderID))
}

// SearchProducts searches one catalog with attribute filters and
// assembles the page into a response envelope. Out-of-range pagination
// fails locally before any network call.
func (s *Service) SearchProducts(ctx context.Context, catalogUID string, attributeFilters map[string][]string, limit, offset int) Envelope {
	if limit == 0 {
		limit = domain.DefaultSearchLimit
	}

	if limit < 1 || limit > domain.MaxSearchLimit {
		return failureMessage(opSearchProducts,
			fmt.Sprintf("Invalid limit: %d. Must be between 1 and 100.", limit),
			WithCatalogUID(catalogUID),
		)
	}

	if offset < 0 {
		return failureMessage(opSearchProducts,
			fmt.Sprintf("Invalid offset: %d. Must be 0 or greater.", offset),
			WithCatalogUID(catalogUID),
		)
	}

	s.logger.InfoContext(ctx, "searching products",
		slog.String("catalog_uid", catalogUID),
		slog.Int("limit", limit),
		slog.Int("offset", offset),
	)

	req := domain.NewSearchProductsRequest()
	req.AttributeFilters = attributeFilters
	req.Limit = limit
	req.Offset = offset

	result, err := s.api.SearchProducts(ctx, catalogUID, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "product search failed",
			slog.String("catalog_uid", catalogUID),
			slog.Any("error", err),
		)

		return Failure(opSearchProducts, err, WithCatalogUID(catalogUID))
	}

	count := len(result.Products)
	pagination := NewPagination(count, offset, limit)

	var message string
	switch {
	case count == 0 && len(attributeFilters) > 0:
		message = fmt.Sprintf("No products found in catalog '%s' matching the specified filters", catalogUID)
	case count == 0:
		message = fmt.Sprintf("No products found in catalog '%s'", catalogUID)
	case pagination.HasMore:
		message = fmt.Sprintf(
			"Found %d products in catalog '%s' (may have more results, use offset=%d to get next page)",
			count, catalogUID, offset+limit,
		)
	default:
		message = fmt.Sprintf("Found %d products in catalog '%s'", count, catalogUID)
	}

	return Success(map[string]any{
		"products":   result.Products,
		"hits":       result.Hits,
		"pagination": pagination,
		"search_params": map[string]any{
			"catalog_uid":       catalogUID,
			"attribute_filters": attributeFilters,
			"limit":             limit,
			"offset":            offset,
		},
	}, message)
}

// GetProduct retrieves one product by UID and assembles it into a
// response envelope.
func (s *Service) GetProduct(ctx context.Context, productUID string) Envelope {
	s.logger.InfoContext(ctx, "retrieving product", slog.String("product_uid", productUID))

	product, err := s.api.GetProduct(ctx, productUID)
	if err != nil {
		s.logger.ErrorContext(ctx, "product retrieval failed",
			slog.String("product_uid", productUID),
			slog.Any("error", err),
		)

		return Failure(opGetProduct, err, WithProductUID(productUID))
	}

	return Success(asMap(product), fmt.Sprintf("Successfully retrieved product '%s'", productUID))
}

// asMap round-trips a typed value through JSON so envelopes carry the
// wire field names and unset optional fields are absent.
func asMap(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return map[string]any{}
	}

	return result
}
