package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printops/gelato-mcp/internal/app"
	"github.com/printops/gelato-mcp/internal/domain"
)

// fakeAPI is a hand-rolled GelatoAPI stub. Unset functions fail the
// operation so a test that reaches an unexpected call is visible.
type fakeAPI struct {
	searchOrdersFn   func(ctx context.Context, params domain.SearchOrdersParams) (*domain.SearchOrdersResponse, error)
	getOrderFn       func(ctx context.Context, orderID string) (*domain.OrderDetail, error)
	searchProductsFn func(ctx context.Context, catalogUID string, req domain.SearchProductsRequest) (*domain.SearchProductsResponse, error)
	getProductFn     func(ctx context.Context, productUID string) (*domain.ProductDetail, error)
	listCatalogsFn   func(ctx context.Context) ([]domain.Catalog, error)
	getCatalogFn     func(ctx context.Context, catalogUID string) (*domain.CatalogDetail, error)

	calls int
}

func (f *fakeAPI) TestConnection(context.Context) error { return nil }
func (f *fakeAPI) Close() error                         { return nil }

func (f *fakeAPI) SearchOrders(ctx context.Context, params domain.SearchOrdersParams) (*domain.SearchOrdersResponse, error) {
	f.calls++

	return f.searchOrdersFn(ctx, params)
}

func (f *fakeAPI) GetOrder(ctx context.Context, orderID string) (*domain.OrderDetail, error) {
	f.calls++

	return f.getOrderFn(ctx, orderID)
}

func (f *fakeAPI) SearchProducts(ctx context.Context, catalogUID string, req domain.SearchProductsRequest) (*domain.SearchProductsResponse, error) {
	f.calls++

	return f.searchProductsFn(ctx, catalogUID, req)
}

func (f *fakeAPI) GetProduct(ctx context.Context, productUID string) (*domain.ProductDetail, error) {
	f.calls++

	return f.getProductFn(ctx, productUID)
}

func (f *fakeAPI) ListCatalogs(ctx context.Context) ([]domain.Catalog, error) {
	f.calls++

	return f.listCatalogsFn(ctx)
}

func (f *fakeAPI) GetCatalog(ctx context.Context, catalogUID string) (*domain.CatalogDetail, error) {
	f.calls++

	return f.getCatalogFn(ctx, catalogUID)
}

func orderSummary(id string) domain.OrderSummary {
	created, _ := domain.ParseAPITime("2024-03-01T10:00:00Z")

	return domain.OrderSummary{
		ID:                  id,
		OrderType:           "order",
		OrderReferenceID:    "ref-" + id,
		CustomerReferenceID: "cust-" + id,
		FulfillmentStatus:   "shipped",
		FinancialStatus:     "paid",
		CreatedAt:           created.Time,
		UpdatedAt:           created.Time,
	}
}

func summaries(n int) []domain.OrderSummary {
	orders := make([]domain.OrderSummary, 0, n)
	for i := range n {
		orders = append(orders, orderSummary(string(rune('a'+i))))
	}

	return orders
}

func TestSearchOrders_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		returned    int
		limit       int
		offset      int
		wantMessage string
		wantHasMore bool
	}{
		{
			name:        "empty result",
			returned:    0,
			limit:       50,
			wantMessage: "No orders found matching the search criteria",
		},
		{
			name:        "full page hints at next offset",
			returned:    10,
			limit:       10,
			offset:      20,
			wantMessage: "Found 10 orders (may have more results, use offset=30 to get next page)",
			wantHasMore: true,
		},
		{
			name:        "partial page",
			returned:    3,
			limit:       50,
			wantMessage: "Found 3 orders matching the search criteria",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{
				searchOrdersFn: func(_ context.Context, _ domain.SearchOrdersParams) (*domain.SearchOrdersResponse, error) {
					return &domain.SearchOrdersResponse{Orders: summaries(tt.returned)}, nil
				},
			}
			svc := app.NewService(api, nil)

			env := svc.SearchOrders(context.Background(), app.SearchOrdersInput{
				Limit:  tt.limit,
				Offset: tt.offset,
			})

			require.True(t, env.Success)
			assert.Equal(t, tt.wantMessage, env.Message)

			pagination, ok := env.Data["pagination"].(app.Pagination)
			require.True(t, ok)
			assert.Equal(t, tt.returned, pagination.Count)
			assert.Equal(t, tt.wantHasMore, pagination.HasMore)
		})
	}
}

func TestSearchOrders_InvalidDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       app.SearchOrdersInput
		wantMessage string
	}{
		{
			name:        "bad start date",
			input:       app.SearchOrdersInput{StartDate: "01/01/2024"},
			wantMessage: "Invalid start_date format: 01/01/2024. Use ISO 8601 format like '2024-01-01T00:00:00Z'",
		},
		{
			name:        "bad end date",
			input:       app.SearchOrdersInput{EndDate: "yesterday"},
			wantMessage: "Invalid end_date format: yesterday. Use ISO 8601 format like '2024-12-31T23:59:59Z'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{}
			svc := app.NewService(api, nil)

			env := svc.SearchOrders(context.Background(), tt.input)

			require.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantMessage, env.Error.Message)
			assert.Equal(t, "search_orders", env.Error.Operation)
			assert.Zero(t, api.calls, "malformed input must not reach the provider")
		})
	}
}

func TestSearchOrders_DateOffsetsNormalize(t *testing.T) {
	t.Parallel()

	outbound := make([]string, 0, 2)
	api := &fakeAPI{
		searchOrdersFn: func(_ context.Context, params domain.SearchOrdersParams) (*domain.SearchOrdersResponse, error) {
			raw, err := json.Marshal(params.StartDate)
			require.NoError(t, err)
			outbound = append(outbound, string(raw))

			return &domain.SearchOrdersResponse{}, nil
		},
	}
	svc := app.NewService(api, nil)

	for _, startDate := range []string{"2024-01-01T00:00:00Z", "2024-01-01T00:00:00+00:00"} {
		env := svc.SearchOrders(context.Background(), app.SearchOrdersInput{StartDate: startDate})
		require.True(t, env.Success)
	}

	require.Len(t, outbound, 2)
	assert.Equal(t, outbound[0], outbound[1], "equivalent dates must serialize identically")
}

func TestSearchOrders_ParamsEcho(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		searchOrdersFn: func(_ context.Context, _ domain.SearchOrdersParams) (*domain.SearchOrdersResponse, error) {
			return &domain.SearchOrdersResponse{}, nil
		},
	}
	svc := app.NewService(api, nil)

	env := svc.SearchOrders(context.Background(), app.SearchOrdersInput{
		Countries: []string{"US"},
		Limit:     25,
	})

	require.True(t, env.Success)

	echo, ok := env.Data["search_params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"US"}, echo["countries"])
	assert.Equal(t, float64(25), echo["limit"])
	assert.NotContains(t, echo, "currencies", "unset filters are absent from the echo")
	assert.NotContains(t, echo, "startDate")
}

func TestSearchOrders_ProviderError(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		searchOrdersFn: func(_ context.Context, _ domain.SearchOrdersParams) (*domain.SearchOrdersResponse, error) {
			return nil, domain.NewAPIError("bad filter", http.StatusBadRequest, map[string]any{"code": "invalid"})
		},
	}
	svc := app.NewService(api, nil)

	env := svc.SearchOrders(context.Background(), app.SearchOrdersInput{})

	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "search_orders", env.Error.Operation)
	require.NotNil(t, env.Error.StatusCode)
	assert.Equal(t, http.StatusBadRequest, *env.Error.StatusCode)
	assert.Equal(t, "invalid", env.Error.ResponseData["code"])
}

func TestGetOrderSummary(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		getOrderFn: func(_ context.Context, orderID string) (*domain.OrderDetail, error) {
			return &domain.OrderDetail{OrderSummary: orderSummary(orderID)}, nil
		},
	}
	svc := app.NewService(api, nil)

	env := svc.GetOrderSummary(context.Background(), "ord-1")

	require.True(t, env.Success)
	assert.Equal(t, "Retrieved order ord-1 successfully", env.Message)
	assert.Equal(t, "ord-1", env.Data["id"])
}

func TestGetOrderSummary_NotFound(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		getOrderFn: func(_ context.Context, orderID string) (*domain.OrderDetail, error) {
			return nil, domain.NewOrderNotFoundError(orderID)
		},
	}
	svc := app.NewService(api, nil)

	env := svc.GetOrderSummary(context.Background(), "missing-order")

	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "get_order_summary for order missing-order", env.Error.Operation)
	assert.Equal(t, "missing-order", env.Error.OrderID)
	require.NotNil(t, env.Error.StatusCode)
	assert.Equal(t, http.StatusNotFound, *env.Error.StatusCode)
}

func TestSearchProducts_LocalValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		limit       int
		offset      int
		wantMessage string
	}{
		{
			name:        "limit too large",
			limit:       101,
			wantMessage: "Invalid limit: 101. Must be between 1 and 100.",
		},
		{
			name:        "negative limit",
			limit:       -1,
			wantMessage: "Invalid limit: -1. Must be between 1 and 100.",
		},
		{
			name:        "negative offset",
			limit:       50,
			offset:      -1,
			wantMessage: "Invalid offset: -1. Must be 0 or greater.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{}
			svc := app.NewService(api, nil)

			env := svc.SearchProducts(context.Background(), "posters", nil, tt.limit, tt.offset)

			require.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantMessage, env.Error.Message)
			assert.Equal(t, "search_products", env.Error.Operation)
			assert.Equal(t, "posters", env.Error.CatalogUID)
			assert.Zero(t, api.calls, "invalid pagination must not reach the provider")
		})
	}
}

func TestSearchProducts(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		searchProductsFn: func(_ context.Context, catalogUID string, req domain.SearchProductsRequest) (*domain.SearchProductsResponse, error) {
			assert.Equal(t, "posters", catalogUID)
			assert.Equal(t, []string{"ver"}, req.AttributeFilters["Orientation"])

			return &domain.SearchProductsResponse{
				Products: []domain.Product{{ProductUID: "poster_pf_a1"}},
				Hits: domain.FilterHits{
					AttributeHits: map[string]map[string]int{
						"CoatingType": {"none": 2137, "glossy-coating": 12},
					},
				},
			}, nil
		},
	}
	svc := app.NewService(api, nil)

	filters := map[string][]string{"Orientation": {"ver"}, "CoatingType": {"none"}}
	env := svc.SearchProducts(context.Background(), "posters", filters, 50, 0)

	require.True(t, env.Success)
	assert.Equal(t, "Found 1 products in catalog 'posters'", env.Message)

	products, ok := env.Data["products"].([]domain.Product)
	require.True(t, ok)
	require.Len(t, products, 1)

	hits, ok := env.Data["hits"].(domain.FilterHits)
	require.True(t, ok)
	assert.Equal(t, 2137, hits.AttributeHits["CoatingType"]["none"])

	echo, ok := env.Data["search_params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "posters", echo["catalog_uid"])
	assert.Equal(t, 50, echo["limit"])
}

func TestSearchProducts_EmptyMessages(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		searchProductsFn: func(_ context.Context, _ string, _ domain.SearchProductsRequest) (*domain.SearchProductsResponse, error) {
			return &domain.SearchProductsResponse{}, nil
		},
	}
	svc := app.NewService(api, nil)

	env := svc.SearchProducts(context.Background(), "mugs", nil, 50, 0)
	require.True(t, env.Success)
	assert.Equal(t, "No products found in catalog 'mugs'", env.Message)

	env = svc.SearchProducts(context.Background(), "mugs", map[string][]string{"ColorType": {"4-4"}}, 50, 0)
	require.True(t, env.Success)
	assert.Equal(t, "No products found in catalog 'mugs' matching the specified filters", env.Message)
}

func TestSearchProducts_FullPage(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		searchProductsFn: func(_ context.Context, _ string, _ domain.SearchProductsRequest) (*domain.SearchProductsResponse, error) {
			products := make([]domain.Product, 5)
			for i := range products {
				products[i] = domain.Product{ProductUID: "p"}
			}

			return &domain.SearchProductsResponse{Products: products}, nil
		},
	}
	svc := app.NewService(api, nil)

	env := svc.SearchProducts(context.Background(), "cards", nil, 5, 10)

	require.True(t, env.Success)
	assert.Equal(t, "Found 5 products in catalog 'cards' (may have more results, use offset=15 to get next page)", env.Message)
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		getProductFn: func(_ context.Context, productUID string) (*domain.ProductDetail, error) {
			return &domain.ProductDetail{
				Product: domain.Product{
					ProductUID: productUID,
					Weight:     domain.NewFlexible("lightweight"),
				},
			}, nil
		},
	}
	svc := app.NewService(api, nil)

	env := svc.GetProduct(context.Background(), "poster_pf_a1")

	require.True(t, env.Success)
	assert.Equal(t, "Successfully retrieved product 'poster_pf_a1'", env.Message)
	assert.Equal(t, "poster_pf_a1", env.Data["productUid"])
	assert.Equal(t, "lightweight", env.Data["weight"], "irregular provider field survives verbatim")
}

func TestGetProduct_NotFound(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		getProductFn: func(_ context.Context, productUID string) (*domain.ProductDetail, error) {
			return nil, domain.NewProductNotFoundError(productUID)
		},
	}
	svc := app.NewService(api, nil)

	env := svc.GetProduct(context.Background(), "missing")

	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "get_product", env.Error.Operation)
	assert.Equal(t, "missing", env.Error.ProductUID)
}

func TestNewPagination(t *testing.T) {
	t.Parallel()

	assert.True(t, app.NewPagination(50, 0, 50).HasMore)
	assert.False(t, app.NewPagination(49, 0, 50).HasMore)
	assert.False(t, app.NewPagination(0, 0, 50).HasMore)
}

func TestCatalogsDocument(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		listCatalogsFn: func(context.Context) ([]domain.Catalog, error) {
			return []domain.Catalog{
				{CatalogUID: "posters", Title: "Posters"},
			}, nil
		},
	}
	svc := app.NewService(api, nil)

	doc := svc.CatalogsDocument(context.Background())

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, float64(1), parsed["count"])
	assert.Equal(t, "Available product catalogs", parsed["description"])
}

func TestCatalogDocument_NotFound(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		getCatalogFn: func(_ context.Context, catalogUID string) (*domain.CatalogDetail, error) {
			return nil, domain.NewCatalogNotFoundError(catalogUID)
		},
	}
	svc := app.NewService(api, nil)

	doc := svc.CatalogDocument(context.Background(), "missing")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "Catalog not found: missing", parsed["error"])
	assert.Equal(t, "missing", parsed["catalog_uid"])
}

func TestOrderDocument(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		getOrderFn: func(_ context.Context, orderID string) (*domain.OrderDetail, error) {
			return &domain.OrderDetail{OrderSummary: orderSummary(orderID)}, nil
		},
	}
	svc := app.NewService(api, nil)

	doc := svc.OrderDocument(context.Background(), "ord-9")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "ord-9", parsed["id"])
}

func TestOrderDocument_ProviderError(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		getOrderFn: func(_ context.Context, _ string) (*domain.OrderDetail, error) {
			return nil, domain.NewAPIError("upstream down", http.StatusBadGateway, nil)
		},
	}
	svc := app.NewService(api, nil)

	doc := svc.OrderDocument(context.Background(), "ord-9")

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "Failed to fetch order details", parsed["error"])
	assert.Equal(t, float64(http.StatusBadGateway), parsed["status_code"])
}
