package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	products []entity.Product
	err      error
}

func (s *staticSource) FetchProducts(context.Context) ([]entity.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

type memoryRepo struct {
	mu      sync.Mutex
	items   []entity.CartItem
	saveErr error
}

func (r *memoryRepo) Load(context.Context, string) ([]entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items == nil {
		return nil, repository.ErrNotFound
	}
	return r.items, nil
}

func (r *memoryRepo) Save(_ context.Context, _ string, items []entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.items = items
	return nil
}

type linkHandOff struct {
	err error
}

func (l linkHandOff) HandOff(_ context.Context, s *entity.OrderSummary) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	return "https://wa.me/1?ref=" + s.Reference, nil
}

func testCatalog() []entity.Product {
	return []entity.Product{
		{ID: "product-1", Name: "Linen Shirt", Description: "Summer wear", Price: 800, Category: "Shirts", Stock: 4, ImageURL: "/placeholder.svg"},
		{ID: "product-2", Name: "Oxford Shirt", Description: "Office", Price: 1200, Category: "Shirts", Stock: 2, ImageURL: "/placeholder.svg"},
		{ID: "product-3", Name: "Denim Shirt", Description: "Rugged", Price: 900, Category: "Shirts", Stock: 0, ImageURL: "/placeholder.svg"},
		{ID: "product-4", Name: "Silk Saree", Description: "Handwoven", Price: 2500, Category: "Sarees", Stock: 1, ImageURL: "/placeholder.svg"},
	}
}

type testEnv struct {
	server *httptest.Server
	repo   *memoryRepo
	cart   *service.CartStore
}

func newTestEnv(t *testing.T, source service.ProductSource, handOff service.HandOff) *testEnv {
	t.Helper()
	log := logger.NewNopLogger()
	m := metrics.NewMetricsManager("storefront_test")
	repo := &memoryRepo{}

	catalog := service.NewCatalogService(source, nil, log, m, service.CatalogServiceConfig{FeaturedCount: 2})
	cart := service.NewCartStore(context.Background(), repo, log, m, service.CartStoreConfig{})
	checkout := service.NewCheckoutService(cart, handOff, log, m, service.CheckoutServiceConfig{Currency: "₹"})

	h := NewHandler(catalog, cart, checkout, "₹", log)
	srv := httptest.NewServer(NewRouter(h, m, log, RouterConfig{}))
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, repo: repo, cart: cart}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func productIDs(t *testing.T, body map[string]interface{}) []string {
	t.Helper()
	list, ok := body["products"].([]interface{})
	require.True(t, ok)
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.(map[string]interface{})["id"].(string))
	}
	return ids
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})
	resp, body := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get(headerRequestID))
}

func TestListProducts_Filters(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	resp, body := env.do(t, http.MethodGet, "/api/products?q=shirt&category=Shirts&min_price=0&max_price=1000&in_stock=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"product-1"}, productIDs(t, body))
	assert.Equal(t, 1.0, body["shown"])
	assert.Equal(t, 4.0, body["total"])
	assert.Equal(t, 50000.0, body["price_ceiling"])
	assert.Nil(t, body["notice"])
}

func TestListProducts_DefaultsShowEverything(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	_, body := env.do(t, http.MethodGet, "/api/products", "")
	assert.Equal(t, []string{"product-1", "product-2", "product-3", "product-4"}, productIDs(t, body))
	filters := body["filters"].(map[string]interface{})
	assert.Equal(t, 2500.0, filters["price_max"])
}

func TestListProducts_BadQuery(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	resp, body := env.do(t, http.MethodGet, "/api/products?min_price=cheap", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, codeBadRequest, body["code"])
}

func TestListProducts_CatalogFailure(t *testing.T) {
	env := newTestEnv(t, &staticSource{err: errors.New("sheet down")}, linkHandOff{})

	resp, body := env.do(t, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, productIDs(t, body))
	notice := body["notice"].(map[string]interface{})
	assert.Equal(t, "error", notice["level"])
	assert.Equal(t, "Failed to load products", notice["message"])
}

func TestFeaturedAndCategories(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	_, body := env.do(t, http.MethodGet, "/api/products/featured", "")
	assert.Equal(t, []string{"product-1", "product-2"}, productIDs(t, body))

	_, body = env.do(t, http.MethodGet, "/api/categories", "")
	assert.Equal(t, []interface{}{"Shirts", "Sarees"}, body["categories"])
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	resp, body := env.do(t, http.MethodGet, "/api/products/product-4", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Silk Saree", body["name"])
	assert.Equal(t, "/placeholder.svg", body["imageUrl"])

	resp, body = env.do(t, http.MethodGet, "/api/products/product-99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, codeNotFound, body["code"])
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	resp, body := env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Linen Shirt added to cart!", body["notice"].(map[string]interface{})["message"])

	_, body = env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-1","quantity":2}`)
	assert.Equal(t, "2x Linen Shirt added to cart!", body["notice"].(map[string]interface{})["message"])

	_, body = env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-4","quantity":1}`)
	cart := body["cart"].(map[string]interface{})
	assert.Equal(t, 4.0, cart["items_count"])
	assert.Equal(t, 4900.0, cart["total"])
	assert.Equal(t, "Free", cart["shipping"])
	items := cart["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "product-1", first["id"])
	assert.Equal(t, 3.0, first["quantity"])
	assert.Equal(t, 2400.0, first["subtotal"])

	_, body = env.do(t, http.MethodPatch, "/api/cart/items/product-1", `{"quantity":1}`)
	cart = body["cart"].(map[string]interface{})
	assert.Equal(t, 3300.0, cart["total"])

	_, body = env.do(t, http.MethodPatch, "/api/cart/items/product-1", `{"quantity":0}`)
	cart = body["cart"].(map[string]interface{})
	assert.Len(t, cart["items"], 1)

	_, body = env.do(t, http.MethodDelete, "/api/cart/items/product-4", "")
	cart = body["cart"].(map[string]interface{})
	assert.Empty(t, cart["items"])
	assert.Equal(t, 0.0, cart["total"])

	assert.Empty(t, env.repo.items)
	assert.NotNil(t, env.repo.items)
}

func TestAddItem_Errors(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	resp, body := env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-99"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Failed to add to cart", body["error"])

	resp, _ = env.do(t, http.MethodPost, "/api/cart/items", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/cart/items", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddItem_CatalogUnavailable(t *testing.T) {
	env := newTestEnv(t, &staticSource{err: errors.New("down")}, linkHandOff{})

	resp, body := env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-1"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Failed to add to cart", body["error"])
}

func TestAddItem_PersistFailureIsWarning(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})
	env.repo.saveErr = errors.New("disk full")

	resp, body := env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notice := body["notice"].(map[string]interface{})
	assert.Equal(t, "warning", notice["level"])
	assert.Equal(t, 1.0, body["cart"].(map[string]interface{})["items_count"])
}

func TestCartItems_QuantityBounded(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	resp, body := env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-1","quantity":9223372036854775807}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, codeBadRequest, body["code"])
	assert.Zero(t, env.cart.ItemsCount())

	resp, _ = env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-1","quantity":1000000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPatch, "/api/cart/items/product-1", `{"quantity":1000001}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1000000, env.cart.ItemsCount())
}

func TestListProducts_Refresh(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	resp, body := env.do(t, http.MethodGet, "/api/products?refresh=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, productIDs(t, body), 4)

	resp, body = env.do(t, http.MethodGet, "/api/products?refresh=soon", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, codeBadRequest, body["code"])
}

func TestUpdateItem_RequiresQuantity(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	resp, body := env.do(t, http.MethodPatch, "/api/cart/items/product-1", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "quantity is required", body["error"])
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})
	env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-2","quantity":3}`)

	resp, body := env.do(t, http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, body["cart"].(map[string]interface{})["items_count"])
	assert.Equal(t, 0, env.cart.ItemsCount())
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})

	resp, body := env.do(t, http.MethodPost, "/api/checkout", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, codeEmptyCart, body["code"])

	env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-4","quantity":2}`)
	resp, body = env.do(t, http.MethodPost, "/api/checkout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body["redirect_url"].(string), "https://wa.me/1?ref="))
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, 5000.0, summary["total_amount"])
	assert.Contains(t, summary["message"], "1. Silk Saree * 2\n")
	assert.Equal(t, 0, env.cart.ItemsCount())
}

func TestCheckout_HandOffFailure(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{err: errors.New("no route")})
	env.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"product-1"}`)

	resp, body := env.do(t, http.MethodPost, "/api/checkout", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, codeHandOffFailed, body["code"])
	assert.Equal(t, 0, env.cart.ItemsCount())
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, &staticSource{products: testCatalog()}, linkHandOff{})
	env.do(t, http.MethodGet, "/api/products", "")

	resp, err := http.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "storefront_test_http_requests_total")
	assert.Contains(t, string(raw), "storefront_test_catalog_fetches_total")
}
