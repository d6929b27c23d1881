//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/printops/gelato-mcp/internal/adapters/clients"
	"github.com/printops/gelato-mcp/internal/adapters/clients/gelato"
	"github.com/printops/gelato-mcp/internal/app"
)

// testAPIKey is the credential the fake provider accepts.
const testAPIKey = "integration-test-key"

// fakeProvider serves a canned subset of the provider API. Both the
// order and product hosts answer on the same listener, which works
// because their route namespaces do not overlap.
type fakeProvider struct {
	srv   *httptest.Server
	calls int32
}

// newFakeProvider starts a provider stub with two catalogs, one
// searchable order, and one product.
func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	p := startFakeProvider()
	t.Cleanup(p.Close)

	return p
}

// startFakeProvider starts the stub without a testing.T, for use from
// scenario hooks. The caller owns shutdown.
func startFakeProvider() *fakeProvider {
	p := &fakeProvider{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v3/catalogs", p.auth(p.listCatalogs))
	mux.HandleFunc("GET /v3/catalogs/{uid}", p.auth(p.getCatalog))
	mux.HandleFunc("POST /v3/catalogs/{uid}/products:search", p.auth(p.searchProducts))
	mux.HandleFunc("GET /v3/products/{uid}", p.auth(p.getProduct))
	mux.HandleFunc("POST /v4/orders:search", p.auth(p.searchOrders))
	mux.HandleFunc("GET /v4/orders/{id}", p.auth(p.getOrder))

	p.srv = httptest.NewServer(mux)

	return p
}

// Close shuts the stub down.
func (p *fakeProvider) Close() {
	p.srv.Close()
}

// URL returns the stub's base URL, used for both provider hosts.
func (p *fakeProvider) URL() string {
	return p.srv.URL
}

// Calls returns how many authenticated requests the stub has served.
func (p *fakeProvider) Calls() int32 {
	return atomic.LoadInt32(&p.calls)
}

func (p *fakeProvider) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != testAPIKey {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))

			return
		}

		atomic.AddInt32(&p.calls, 1)
		next(w, r)
	}
}

func (p *fakeProvider) listCatalogs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, `[
		{"catalogUid":"posters","title":"Posters"},
		{"catalogUid":"mugs","title":"Mugs"}
	]`)
}

func (p *fakeProvider) getCatalog(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("uid") != "posters" {
		writeJSON(w, http.StatusNotFound, `{"message":"Catalog not found"}`)

		return
	}

	writeJSON(w, http.StatusOK, `{
		"catalogUid":"posters",
		"title":"Posters",
		"productAttributes":[
			{
				"productAttributeUid":"Orientation",
				"title":"Orientation",
				"values":[
					{"productAttributeValueUid":"hor","title":"Landscape"},
					{"productAttributeValueUid":"ver","title":"Portrait"}
				]
			}
		]
	}`)
}

func (p *fakeProvider) searchProducts(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("uid") != "posters" {
		writeJSON(w, http.StatusNotFound, `{"message":"Catalog not found"}`)

		return
	}

	writeJSON(w, http.StatusOK, `{
		"products":[
			{
				"productUid":"posters_pf_a1",
				"attributes":{"Orientation":"hor","PaperFormat":"A1"},
				"weight":{"value":120.5,"measureUnit":"grams"},
				"dimensions":{"Width":{"value":841,"measureUnit":"mm"}},
				"supportedCountries":["US","DE"]
			}
		],
		"hits":{"attributeHits":{"Orientation":{"hor":12,"ver":9}}}
	}`)
}

func (p *fakeProvider) getProduct(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("uid") != "posters_pf_a1" {
		writeJSON(w, http.StatusNotFound, `{"message":"Product not found"}`)

		return
	}

	writeJSON(w, http.StatusOK, `{
		"productUid":"posters_pf_a1",
		"attributes":{"Orientation":"hor","PaperFormat":"A1"},
		"weight":"lightweight",
		"supportedCountries":["US","DE"],
		"notSupportedCountries":["KP"]
	}`)
}

func (p *fakeProvider) searchOrders(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Search string `json:"search"`
	}
	// An unreadable body is a test bug, not provider behavior.
	_ = json.NewDecoder(r.Body).Decode(&body)

	if body.Search == "no-such-order" {
		writeJSON(w, http.StatusOK, `{"orders":[]}`)

		return
	}

	writeJSON(w, http.StatusOK, `{"orders":[
		{
			"id":"ord-1","orderType":"order",
			"orderReferenceId":"ref-1","customerReferenceId":"cust-1",
			"fulfillmentStatus":"shipped","financialStatus":"paid",
			"currency":"USD","country":"US",
			"createdAt":"2024-03-01T10:00:00Z","updatedAt":"2024-03-02T10:00:00Z"
		},
		{
			"id":"ord-2","orderType":"draft",
			"orderReferenceId":"ref-2","customerReferenceId":"cust-2",
			"fulfillmentStatus":"created","financialStatus":"draft",
			"createdAt":"2024-03-03T10:00:00Z","updatedAt":"2024-03-03T10:00:00Z"
		}
	]}`)
}

func (p *fakeProvider) getOrder(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("id") != "ord-1" {
		writeJSON(w, http.StatusNotFound, `{"message":"Order not found"}`)

		return
	}

	writeJSON(w, http.StatusOK, `{
		"id":"ord-1","orderType":"order",
		"orderReferenceId":"ref-1","customerReferenceId":"cust-1",
		"fulfillmentStatus":"shipped","financialStatus":"paid",
		"currency":"USD","country":"US",
		"createdAt":"2024-03-01T10:00:00Z","updatedAt":"2024-03-02T10:00:00Z",
		"items":[
			{
				"id":"item-uid-1",
				"itemReferenceId":"item-1",
				"productUid":"posters_pf_a1",
				"quantity":2,
				"fulfillmentStatus":"shipped",
				"files":[{"url":"https://cdn.example.com/art.pdf"}]
			}
		],
		"shippingAddress":{
			"firstName":"Ada","lastName":"Lovelace",
			"addressLine1":"12 Example St","city":"Austin",
			"postCode":"73301","country":"US",
			"email":"ada@example.com"
		}
	}`)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// newGelatoClient builds a typed client pointed at the stub, using the
// given credential for both transports.
func newGelatoClient(t *testing.T, p *fakeProvider, apiKey string) *gelato.Client {
	t.Helper()

	client, err := buildGelatoClient(p, apiKey)
	if err != nil {
		t.Fatalf("building gelato client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return client
}

// buildGelatoClient is the testing.T-free constructor shared with the
// scenario hooks.
func buildGelatoClient(p *fakeProvider, apiKey string) (*gelato.Client, error) {
	auth := gelato.APIKeyAuth(apiKey)

	orders, err := clients.New(&clients.Config{
		BaseURL:     p.URL(),
		ServiceName: "gelato-orders",
		Timeout:     5 * time.Second,
		AuthFunc:    auth,
	})
	if err != nil {
		return nil, err
	}

	products, err := clients.New(&clients.Config{
		BaseURL:     p.URL(),
		ServiceName: "gelato-products",
		Timeout:     5 * time.Second,
		AuthFunc:    auth,
	})
	if err != nil {
		return nil, err
	}

	return gelato.New(gelato.Config{Orders: orders, Products: products}), nil
}

// newService builds the full application service over the stub.
func newService(t *testing.T, p *fakeProvider) *app.Service {
	t.Helper()

	return app.NewService(newGelatoClient(t, p, testAPIKey), nil)
}
