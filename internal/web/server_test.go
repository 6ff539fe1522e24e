package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/web"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	products map[int64]domain.Product
	users    map[string]domain.User
	revenue  []domain.RevenueStat
	top      []domain.TopProduct

	lastOrderQuery port.OrderQuery
	orderPage      domain.Page[domain.OrderSummary]
	createdOrders  []domain.CreateOrderRequest
	order          domain.Order
	invoicePDF     []byte

	productsErr error
}

func (f *fakeBackend) Products(_ context.Context, q port.ProductQuery) (domain.Page[domain.Product], error) {
	if f.productsErr != nil {
		return domain.Page[domain.Product]{}, f.productsErr
	}

	var content []domain.Product
	for _, p := range f.products {
		content = append(content, p)
	}
	totalPages := 1
	if len(content) == 0 {
		totalPages = 0
	}
	if q.Page > 0 {
		// single page of data: anything past it comes back empty
		content = nil
	}
	return domain.Page[domain.Product]{
		Content:       content,
		Page:          q.Page,
		Size:          q.Size,
		TotalElements: int64(len(f.products)),
		TotalPages:    totalPages,
		Last:          true,
	}, nil
}

func (f *fakeBackend) Product(_ context.Context, id int64) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, &api.Error{Status: http.StatusNotFound, Body: "no such product"}
	}
	return p, nil
}

func (f *fakeBackend) SearchOrders(_ context.Context, q port.OrderQuery) (domain.Page[domain.OrderSummary], error) {
	f.lastOrderQuery = q
	return f.orderPage, nil
}

func (f *fakeBackend) CreateOrder(_ context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	f.createdOrders = append(f.createdOrders, req)
	return domain.Order{ID: 42, Code: "ORD-42"}, nil
}

func (f *fakeBackend) Order(_ context.Context, id int64) (domain.Order, error) {
	if f.order.ID != id {
		return domain.Order{}, &api.Error{Status: http.StatusNotFound, Body: "no such order"}
	}
	return f.order, nil
}

func (f *fakeBackend) InitiateVnpayPayment(_ context.Context, orderID int64, _ string) (string, error) {
	return fmt.Sprintf("https://pay.example/%d", orderID), nil
}

func (f *fakeBackend) FindByPhone(_ context.Context, phone string) (domain.User, error) {
	user, ok := f.users[phone]
	if !ok {
		return domain.User{}, &api.Error{Status: http.StatusNotFound, Body: "user not found"}
	}
	return user, nil
}

func (f *fakeBackend) Revenue(_ context.Context, _, _ string) ([]domain.RevenueStat, error) {
	return f.revenue, nil
}

func (f *fakeBackend) TopProducts(_ context.Context, _, _ string, limit int) ([]domain.TopProduct, error) {
	if limit < len(f.top) {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func (f *fakeBackend) InvoicePDF(_ context.Context, _ int64) ([]byte, error) {
	return f.invoicePDF, nil
}

func (f *fakeBackend) ProductsPDF(_ context.Context) ([]byte, error) {
	return []byte("%PDF-products"), nil
}

func newTestServer(t *testing.T, backend *fakeBackend) (*httptest.Server, *cart.Store) {
	t.Helper()

	store, err := cart.New(t.Context(), "web-test-cart", repository.NewSnapshotMemory(), nil)
	require.NoError(t, err)

	lister, err := catalog.NewLister(backend)
	require.NoError(t, err)

	orch, err := checkout.New(store, backend, backend, nil)
	require.NoError(t, err)

	server, err := web.NewServer(web.ServerConfig{
		Cart:     store,
		Lister:   lister,
		Checkout: orch,
		Catalog:  backend,
		Orders:   backend,
		Stats:    backend,
		Reports:  backend,
		Now:      func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local) },
	})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	return ts, store
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		products: map[int64]domain.Product{
			7: {
				ID:           7,
				Code:         "SKU-7",
				Name:         "Instant noodles",
				CategoryID:   2,
				CategoryName: "Food",
				Price:        decimal.NewFromInt(12_000),
				StockQty:     3,
				Status:       domain.ProductActive,
			},
		},
		users: map[string]domain.User{
			"0901234567": {ID: 1, Name: "Nguyen Van A", Phone: "0901234567", Address: "1 Le Loi", Point: 12},
		},
	}
}

func getJSON(t *testing.T, url string, dst interface{}) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func postJSON(t *testing.T, url string, payload interface{}, dst interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, newBackend())

	resp := getJSON(t, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestListProducts(t *testing.T) {
	ts, _ := newTestServer(t, newBackend())

	var listing struct {
		Products []struct {
			ID           int64  `json:"id"`
			PriceDisplay string `json:"priceDisplay"`
		} `json:"products"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
	}
	resp := getJSON(t, ts.URL+"/api/products", &listing)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listing.Products, 1)
	assert.Equal(t, "12.000 d", listing.Products[0].PriceDisplay)
	require.Len(t, listing.Categories, 1)
	assert.Equal(t, "Food", listing.Categories[0].Name)
}

func TestListProducts_StalePageClampsToLast(t *testing.T) {
	backend := newBackend()
	ts, _ := newTestServer(t, backend)

	var listing struct {
		Page     int `json:"page"`
		Products []struct {
			ID int64 `json:"id"`
		} `json:"products"`
	}
	resp := getJSON(t, ts.URL+"/api/products?page=7", &listing)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, listing.Page)
	assert.Len(t, listing.Products, 1)
}

func TestListProducts_BackendDown(t *testing.T) {
	backend := newBackend()
	backend.productsErr = fmt.Errorf("connection refused")
	ts, _ := newTestServer(t, backend)

	resp := getJSON(t, ts.URL+"/api/products", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	ts, _ := newTestServer(t, newBackend())

	var cartVM struct {
		ItemCount int    `json:"itemCount"`
		Total     string `json:"total"`
		Lines     []struct {
			Quantity int `json:"quantity"`
		} `json:"lines"`
	}

	// add the same product beyond its stock of 3
	for range 5 {
		resp := postJSON(t, ts.URL+"/api/cart/items", map[string]int64{"productId": 7}, &cartVM)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 3, cartVM.ItemCount)
	assert.Equal(t, "36.000 d", cartVM.Total)

	// explicit quantity update clamps the same way
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/cart/items/7", bytes.NewReader([]byte(`{"quantity":99}`)))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cartVM))
	resp.Body.Close()
	require.Len(t, cartVM.Lines, 1)
	assert.Equal(t, 3, cartVM.Lines[0].Quantity)

	// remove empties the cart
	req, err = http.NewRequest(http.MethodDelete, ts.URL+"/api/cart/items/7", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cartVM))
	resp.Body.Close()
	assert.Zero(t, cartVM.ItemCount)
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	ts, _ := newTestServer(t, newBackend())

	resp := postJSON(t, ts.URL+"/api/cart/items", map[string]int64{"productId": 999}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddToCart_OutOfStock(t *testing.T) {
	backend := newBackend()
	backend.products[8] = domain.Product{ID: 8, Name: "Sold out", Status: domain.ProductOutOfStock}
	ts, _ := newTestServer(t, backend)

	resp := postJSON(t, ts.URL+"/api/cart/items", map[string]int64{"productId": 8}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSidebarToggle(t *testing.T) {
	ts, _ := newTestServer(t, newBackend())

	var cartVM struct {
		SidebarOpen bool `json:"sidebarOpen"`
	}

	postJSON(t, ts.URL+"/api/cart/sidebar", map[string]interface{}{}, &cartVM)
	assert.True(t, cartVM.SidebarOpen, "toggle from the initial closed state")

	postJSON(t, ts.URL+"/api/cart/sidebar", map[string]bool{"open": false}, &cartVM)
	assert.False(t, cartVM.SidebarOpen)
}

func TestCheckoutFlow_CashForNewCustomer(t *testing.T) {
	backend := newBackend()
	ts, store := newTestServer(t, backend)

	resp := getJSON(t, ts.URL+"/api/checkout", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "empty cart cannot enter checkout")

	postJSON(t, ts.URL+"/api/cart/items", map[string]int64{"productId": 7}, nil)
	resp = getJSON(t, ts.URL+"/api/checkout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var lookup struct {
		Mode              string `json:"mode"`
		NeedsConfirmation bool   `json:"needsConfirmation"`
	}
	resp = postJSON(t, ts.URL+"/api/checkout/lookup", map[string]string{"phone": "0999999999"}, &lookup)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, lookup.NeedsConfirmation)

	resp = postJSON(t, ts.URL+"/api/checkout/confirm-new", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// a new customer with a phone needs name and address
	resp = postJSON(t, ts.URL+"/api/checkout/submit", map[string]string{"paymentMethod": "CASH"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var submitted struct {
		InvoicePath string `json:"invoicePath"`
		RedirectURL string `json:"redirectUrl"`
	}
	resp = postJSON(t, ts.URL+"/api/checkout/submit", map[string]string{
		"paymentMethod":   "CASH",
		"customerName":    "Binh",
		"customerAddress": "2 Hai Ba Trung",
	}, &submitted)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/invoice/42", submitted.InvoicePath)
	assert.Empty(t, submitted.RedirectURL)

	require.Len(t, backend.createdOrders, 1)
	assert.Equal(t, "0999999999", backend.createdOrders[0].CustomerPhone)

	snapshot := store.Snapshot()
	assert.True(t, snapshot.Empty())
	assert.Equal(t, int64(42), snapshot.LastOrderID)

	var cartVM struct {
		LastOrderID int64 `json:"lastOrderId"`
	}
	resp = postJSON(t, ts.URL+"/api/checkout/acknowledge", nil, &cartVM)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, cartVM.LastOrderID)
}

func TestCheckoutLookup_ExistingCustomerCarriesPoints(t *testing.T) {
	ts, _ := newTestServer(t, newBackend())
	postJSON(t, ts.URL+"/api/cart/items", map[string]int64{"productId": 7}, nil)

	var lookup struct {
		Mode     string `json:"mode"`
		Customer struct {
			Name  string `json:"name"`
			Point int    `json:"point"`
		} `json:"customer"`
	}
	resp := postJSON(t, ts.URL+"/api/checkout/lookup", map[string]string{"phone": "0901234567"}, &lookup)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "EXISTING", lookup.Mode)
	assert.Equal(t, "Nguyen Van A", lookup.Customer.Name)
	assert.Equal(t, 12, lookup.Customer.Point)
}

func TestSubmit_UnknownPaymentMethod(t *testing.T) {
	ts, _ := newTestServer(t, newBackend())
	postJSON(t, ts.URL+"/api/cart/items", map[string]int64{"productId": 7}, nil)
	postJSON(t, ts.URL+"/api/checkout/lookup", map[string]string{"phone": ""}, nil)

	resp := postJSON(t, ts.URL+"/api/checkout/submit", map[string]string{"paymentMethod": "BARTER"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmit_WithoutLookupIsConflict(t *testing.T) {
	ts, _ := newTestServer(t, newBackend())
	postJSON(t, ts.URL+"/api/cart/items", map[string]int64{"productId": 7}, nil)

	resp := postJSON(t, ts.URL+"/api/checkout/submit", map[string]string{"paymentMethod": "CASH"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRevenueSeries_DenseFill(t *testing.T) {
	backend := newBackend()
	backend.revenue = []domain.RevenueStat{
		{Bucket: "2024-03-01", Revenue: decimal.NewFromInt(100_000), OrderCount: 2},
		{Bucket: "2024-03-03", Revenue: decimal.NewFromInt(50_000), OrderCount: 1},
	}
	ts, _ := newTestServer(t, backend)

	var vm struct {
		Rows []struct {
			Label        string `json:"label"`
			Revenue      string `json:"revenue"`
			OrderCount   int    `json:"orderCount"`
			DrillDownURL string `json:"drillDownUrl"`
		} `json:"rows"`
		TotalOrders int `json:"totalOrders"`
	}
	resp := getJSON(t, ts.URL+"/api/stats/revenue?from=2024-03-01&to=2024-03-03", &vm)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, vm.Rows, 3)
	assert.Equal(t, "02/03", vm.Rows[1].Label)
	assert.Equal(t, "0", vm.Rows[1].Revenue)
	assert.Zero(t, vm.Rows[1].OrderCount)
	assert.Empty(t, vm.Rows[1].DrillDownURL, "a zero bucket is not drillable")
	assert.Equal(t, "/api/stats/revenue/2024-03-01/orders", vm.Rows[0].DrillDownURL)
	assert.Equal(t, 3, vm.TotalOrders)
}

func TestRevenueDrillDown(t *testing.T) {
	backend := newBackend()
	backend.revenue = []domain.RevenueStat{
		{Bucket: "2024-03-01", Revenue: decimal.NewFromInt(100_000), OrderCount: 2},
	}
	ts, _ := newTestServer(t, backend)

	resp := getJSON(t, ts.URL+"/api/stats/revenue/2024-03-01/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "2024-03-01T00:00:00", backend.lastOrderQuery.From)
	assert.Equal(t, "2024-03-01T23:59:59", backend.lastOrderQuery.To)
	assert.Equal(t, 20, backend.lastOrderQuery.Size, "small buckets still fetch a full page")
}

func TestRevenueDrillDown_EmptyBucket(t *testing.T) {
	ts, _ := newTestServer(t, newBackend())

	resp := getJSON(t, ts.URL+"/api/stats/revenue/2024-03-01/orders", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSearchOrders_DefaultFilters(t *testing.T) {
	backend := newBackend()
	ts, _ := newTestServer(t, backend)

	resp := getJSON(t, ts.URL+"/api/stats/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "2024-03-08T00:00:00", backend.lastOrderQuery.From, "defaults to the last seven days")
	assert.Equal(t, "2024-03-15T23:59:59", backend.lastOrderQuery.To)
	assert.Equal(t, 10, backend.lastOrderQuery.Size)
}

func TestSearchOrders_SwapsInvertedRange(t *testing.T) {
	backend := newBackend()
	ts, _ := newTestServer(t, backend)

	resp := getJSON(t, ts.URL+"/api/stats/orders?from=2024-03-10&to=2024-03-05", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "2024-03-05T00:00:00", backend.lastOrderQuery.From)
	assert.Equal(t, "2024-03-10T23:59:59", backend.lastOrderQuery.To)
}

func TestInvoicePDF_Download(t *testing.T) {
	backend := newBackend()
	backend.invoicePDF = []byte("%PDF-1.7 invoice")
	ts, _ := newTestServer(t, backend)

	resp, err := http.Get(ts.URL + "/invoice/42.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-42.pdf"`, resp.Header.Get("Content-Disposition"))
}

func TestGetInvoice(t *testing.T) {
	backend := newBackend()
	backend.order = domain.Order{
		ID:          42,
		Code:        "ORD-42",
		TotalAmount: decimal.NewFromInt(1_250_000),
		Items: []domain.OrderItem{
			{ProductName: "Instant noodles", UnitPrice: decimal.NewFromInt(12_000), Quantity: 2, LineTotal: decimal.NewFromInt(24_000)},
		},
	}
	ts, _ := newTestServer(t, backend)

	var vm struct {
		TotalDisplay string `json:"totalDisplay"`
		PDFPath      string `json:"pdfPath"`
		Items        []struct {
			LineTotalDisplay string `json:"lineTotalDisplay"`
		} `json:"items"`
	}
	resp := getJSON(t, ts.URL+"/api/invoice/42", &vm)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1.250.000 d", vm.TotalDisplay)
	assert.Equal(t, "/invoice/42.pdf", vm.PDFPath)
	require.Len(t, vm.Items, 1)
	assert.Equal(t, "24.000 d", vm.Items[0].LineTotalDisplay)
}
