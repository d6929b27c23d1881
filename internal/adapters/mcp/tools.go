package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/printops/gelato-mcp/internal/app"
	"github.com/printops/gelato-mcp/internal/domain"
)

// Tool names.
const (
	toolSearchOrders    = "search_orders"
	toolGetOrderSummary = "get_order_summary"
	toolSearchProducts  = "search_products"
	toolGetProduct      = "get_product"
)

func stringListSchema(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

func toolDefinitions() []toolDefinition {
	return []toolDefinition{
		{
			Name: toolSearchOrders,
			Description: "Search and filter Gelato orders with advanced criteria: " +
				"order type, country, currency, financial and fulfillment status, " +
				"free-text search, date range, and pagination.",
			InputSchema: jsonSchema{
				Type: "object",
				Properties: map[string]any{
					"order_types":          stringListSchema(`Filter by order type ("order" or "draft")`),
					"countries":            stringListSchema(`Filter by shipping country (2-letter ISO codes like "US", "DE")`),
					"currencies":           stringListSchema(`Filter by order currency (ISO codes like "USD", "EUR")`),
					"financial_statuses":   stringListSchema(`Filter by payment status ("draft", "pending", "paid", "canceled", ...)`),
					"fulfillment_statuses": stringListSchema(`Filter by fulfillment status ("created", "printed", "shipped", ...)`),
					"search_text": map[string]any{
						"type":        "string",
						"description": "Search in customer names and order reference IDs",
					},
					"start_date": map[string]any{
						"type":        "string",
						"description": "Show orders created after this date (ISO 8601 format: 2024-01-01T00:00:00Z)",
					},
					"end_date": map[string]any{
						"type":        "string",
						"description": "Show orders created before this date (ISO 8601 format: 2024-12-31T23:59:59Z)",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum results per page (default 50, max 100)",
					},
					"offset": map[string]any{
						"type":        "integer",
						"description": "Offset for pagination",
					},
					"order_reference_ids": stringListSchema("Filter by your internal order IDs"),
					"store_ids":           stringListSchema("Filter by e-commerce store IDs"),
					"channels":            stringListSchema(`Filter by order channel ("api", "shopify", "etsy", "ui")`),
				},
			},
		},
		{
			Name: toolGetOrderSummary,
			Description: "Get a quick summary of an order as a tool result " +
				"(alternative to the orders:// resource).",
			InputSchema: jsonSchema{
				Type: "object",
				Properties: map[string]any{
					"order_id": map[string]any{
						"type":        "string",
						"description": "The Gelato order ID to retrieve",
					},
				},
				Required: []string{"order_id"},
			},
		},
		{
			Name: toolSearchProducts,
			Description: "Search products in a Gelato catalog with attribute filters " +
				"and pagination. The response includes attribute hit counts to help " +
				"refine the search.",
			InputSchema: jsonSchema{
				Type: "object",
				Properties: map[string]any{
					"catalog_uid": map[string]any{
						"type":        "string",
						"description": `Catalog unique identifier (e.g., "posters", "apparel", "mugs")`,
					},
					"attribute_filters": map[string]any{
						"type": "object",
						"additionalProperties": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"description": `Attribute name to accepted values, e.g. {"Orientation": ["hor", "ver"]}`,
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of products to return (default 50, max 100)",
					},
					"offset": map[string]any{
						"type":        "integer",
						"description": "Number of results to skip for pagination (default 0)",
					},
				},
				Required: []string{"catalog_uid"},
			},
		},
		{
			Name: toolGetProduct,
			Description: "Get detailed information about a single product: attributes, " +
				"weight, dimensions, supported countries, and availability.",
			InputSchema: jsonSchema{
				Type: "object",
				Properties: map[string]any{
					"product_uid": map[string]any{
						"type":        "string",
						"description": "Product unique identifier, as returned by search_products",
					},
				},
				Required: []string{"product_uid"},
			},
		},
	}
}

// invokeTool runs one tool call and always yields an envelope for a
// known tool: argument problems and panics become failure envelopes,
// so a single bad request never kills the host process.
func (s *Server) invokeTool(ctx context.Context, name string, args map[string]any) (env app.Envelope, known bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "tool call panicked",
				slog.String("tool", name),
				slog.Any("panic", r),
			)
			recordToolCall(name, outcomeUnexpected)

			env = app.Envelope{
				Success: false,
				Error: &app.ErrorInfo{
					Message:   fmt.Sprintf("Unexpected error: %v", r),
					Operation: name,
				},
			}
			known = true
		}
	}()

	var handler func(context.Context, *arguments) app.Envelope

	switch name {
	case toolSearchOrders:
		handler = s.searchOrders
	case toolGetOrderSummary:
		handler = s.getOrderSummary
	case toolSearchProducts:
		handler = s.searchProducts
	case toolGetProduct:
		handler = s.getProduct
	default:
		return app.Envelope{}, false
	}

	parsed := &arguments{raw: args, operation: name}

	env = handler(ctx, parsed)
	if parsed.err != nil {
		recordToolCall(name, outcomeFailure)

		return *parsed.err, true
	}

	if env.Success {
		recordToolCall(name, outcomeSuccess)
	} else {
		recordToolCall(name, outcomeFailure)
	}

	return env, true
}

func (s *Server) searchOrders(ctx context.Context, args *arguments) app.Envelope {
	input := app.SearchOrdersInput{
		OrderTypes:          args.stringList("order_types"),
		Countries:           args.stringList("countries"),
		Currencies:          args.stringList("currencies"),
		FinancialStatuses:   args.stringList("financial_statuses"),
		FulfillmentStatuses: args.stringList("fulfillment_statuses"),
		SearchText:          args.str("search_text"),
		StartDate:           args.str("start_date"),
		EndDate:             args.str("end_date"),
		Limit:               args.integer("limit", domain.DefaultSearchLimit),
		Offset:              args.integer("offset", 0),
		OrderReferenceIDs:   args.stringList("order_reference_ids"),
		StoreIDs:            args.stringList("store_ids"),
		Channels:            args.stringList("channels"),
	}
	if args.err != nil {
		return app.Envelope{}
	}

	return s.svc.SearchOrders(ctx, input)
}

func (s *Server) getOrderSummary(ctx context.Context, args *arguments) app.Envelope {
	orderID := args.required("order_id")
	if args.err != nil {
		return app.Envelope{}
	}

	return s.svc.GetOrderSummary(ctx, orderID)
}

func (s *Server) searchProducts(ctx context.Context, args *arguments) app.Envelope {
	catalogUID := args.required("catalog_uid")
	filters := args.filters("attribute_filters")
	limit := args.integer("limit", domain.DefaultSearchLimit)
	offset := args.integer("offset", 0)
	if args.err != nil {
		return app.Envelope{}
	}

	return s.svc.SearchProducts(ctx, catalogUID, filters, limit, offset)
}

func (s *Server) getProduct(ctx context.Context, args *arguments) app.Envelope {
	productUID := args.required("product_uid")
	if args.err != nil {
		return app.Envelope{}
	}

	return s.svc.GetProduct(ctx, productUID)
}
