package benchmark

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printops/gelato-mcp/internal/adapters/ops"
	"github.com/printops/gelato-mcp/internal/app"
	"github.com/printops/gelato-mcp/internal/domain"
	"github.com/printops/gelato-mcp/internal/platform/config"
	"github.com/printops/gelato-mcp/internal/ports"
)

func init() {
	// Release mode keeps Gin's debug logging out of the measurements.
	gin.SetMode(gin.ReleaseMode)
}

// newOpsServer builds the sidecar with the given health checkers
// registered.
func newOpsServer(b *testing.B, checkers ...ports.HealthChecker) *ops.Server {
	b.Helper()

	registry := ports.NewHealthRegistry()
	for _, checker := range checkers {
		if err := registry.Register(checker); err != nil {
			b.Fatalf("registering checker: %v", err)
		}
	}

	cfg := &config.OpsConfig{Host: "127.0.0.1", Port: 0}
	buildInfo := ops.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")

	return ops.New(cfg, registry, buildInfo, slog.New(slog.DiscardHandler))
}

// BenchmarkOpsLiveness measures the liveness endpoint. This is the
// orchestrator probe hot path and should stay allocation-light.
func BenchmarkOpsLiveness(b *testing.B) {
	server := newOpsServer(b)
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		server.Engine().ServeHTTP(w, req)
	}
}

// BenchmarkOpsReadiness measures readiness with registered checks,
// which is what a deployment actually probes.
func BenchmarkOpsReadiness(b *testing.B) {
	server := newOpsServer(b,
		&staticChecker{name: "gelato-api"},
		&staticChecker{name: "cache"},
	)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		server.Engine().ServeHTTP(w, req)
	}
}

// BenchmarkOpsBuildInfo measures the build info endpoint.
func BenchmarkOpsBuildInfo(b *testing.B) {
	server := newOpsServer(b)
	req := httptest.NewRequest(http.MethodGet, "/-/build", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		server.Engine().ServeHTTP(w, req)
	}
}

// BenchmarkSearchOrdersEnvelope measures envelope assembly for an
// order search page, the most data-heavy tool response.
func BenchmarkSearchOrdersEnvelope(b *testing.B) {
	svc := app.NewService(&stubAPI{}, &app.ServiceConfig{Logger: slog.New(slog.DiscardHandler)})
	ctx := context.Background()
	input := app.SearchOrdersInput{Countries: []string{"US"}, Limit: 50}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		env := svc.SearchOrders(ctx, input)
		if !env.Success {
			b.Fatalf("unexpected failure: %+v", env.Error)
		}
	}
}

// BenchmarkFailureEnvelope measures failure classification for a
// provider not-found error.
func BenchmarkFailureEnvelope(b *testing.B) {
	err := domain.NewOrderNotFoundError("ord-404")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		env := app.Failure("get_order_summary for order ord-404", err, app.WithOrderID("ord-404"))
		if env.Success {
			b.Fatal("failure envelope reported success")
		}
	}
}

// BenchmarkCatalogsDocument measures resource document rendering.
func BenchmarkCatalogsDocument(b *testing.B) {
	svc := app.NewService(&stubAPI{}, &app.ServiceConfig{Logger: slog.New(slog.DiscardHandler)})
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if doc := svc.CatalogsDocument(ctx); doc == "" {
			b.Fatal("empty document")
		}
	}
}

// staticChecker is a minimal always-healthy checker.
type staticChecker struct {
	name string
}

func (s *staticChecker) Name() string {
	return s.name
}

func (s *staticChecker) Check(_ context.Context) error {
	return nil
}

// stubAPI serves fixed in-memory data so the benchmarks measure
// envelope assembly rather than network time.
type stubAPI struct{}

func (s *stubAPI) TestConnection(_ context.Context) error {
	return nil
}

func (s *stubAPI) ListCatalogs(_ context.Context) ([]domain.Catalog, error) {
	return []domain.Catalog{
		{CatalogUID: "posters", Title: "Posters"},
		{CatalogUID: "mugs", Title: "Mugs"},
	}, nil
}

func (s *stubAPI) GetCatalog(_ context.Context, catalogUID string) (*domain.CatalogDetail, error) {
	return &domain.CatalogDetail{
		Catalog: domain.Catalog{CatalogUID: catalogUID, Title: "Posters"},
	}, nil
}

func (s *stubAPI) SearchOrders(_ context.Context, _ domain.SearchOrdersParams) (*domain.SearchOrdersResponse, error) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	orders := make([]domain.OrderSummary, 25)
	for i := range orders {
		orders[i] = domain.OrderSummary{
			ID:                  "ord-1",
			OrderType:           "order",
			OrderReferenceID:    "ref-1",
			CustomerReferenceID: "cust-1",
			FulfillmentStatus:   "shipped",
			FinancialStatus:     "paid",
			Currency:            "USD",
			Country:             "US",
			CreatedAt:           now,
			UpdatedAt:           now,
		}
	}

	return &domain.SearchOrdersResponse{Orders: orders}, nil
}

func (s *stubAPI) GetOrder(_ context.Context, orderID string) (*domain.OrderDetail, error) {
	return nil, domain.NewOrderNotFoundError(orderID)
}

func (s *stubAPI) SearchProducts(_ context.Context, _ string, _ domain.SearchProductsRequest) (*domain.SearchProductsResponse, error) {
	return &domain.SearchProductsResponse{}, nil
}

func (s *stubAPI) GetProduct(_ context.Context, productUID string) (*domain.ProductDetail, error) {
	return &domain.ProductDetail{
		Product: domain.Product{ProductUID: productUID},
	}, nil
}

func (s *stubAPI) Close() error {
	return nil
}
