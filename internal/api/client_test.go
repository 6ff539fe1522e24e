package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.Handler) (*api.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Config{BaseURL: server.URL})
	require.NoError(t, err)
	return client, server
}

func TestNewClient_EmptyBaseURL(t *testing.T) {
	_, err := api.NewClient(api.Config{})
	require.EqualError(t, err, "baseURL is empty")
}

func TestProducts_QueryAndDecoding(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "milk", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("categoryId"))
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		assert.Equal(t, "12", r.URL.Query().Get("size"))
		assert.Equal(t, "createdAt,desc", r.URL.Query().Get("sort"))

		_ = json.NewEncoder(w).Encode(domain.Page[domain.Product]{
			Content: []domain.Product{
				{ID: 1, Name: "Milk", Price: decimal.NewFromInt(12_000), StockQty: 8, Status: domain.ProductActive},
			},
			Page:       0,
			Size:       12,
			TotalPages: 1,
			Last:       true,
		})
	}))

	page, err := client.Products(t.Context(), port.ProductQuery{
		Q: "milk", CategoryID: 3, Page: 0, Size: 12, Sort: "createdAt,desc",
	})
	require.NoError(t, err)

	require.Len(t, page.Content, 1)
	assert.Equal(t, "Milk", page.Content[0].Name)
	assert.True(t, page.Content[0].Price.Equal(decimal.NewFromInt(12_000)))
	assert.Equal(t, 1, page.TotalPages)
}

func TestProducts_OmitsEmptyFilters(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("q"))
		assert.False(t, r.URL.Query().Has("categoryId"))
		_ = json.NewEncoder(w).Encode(domain.Page[domain.Product]{})
	}))

	_, err := client.Products(t.Context(), port.ProductQuery{Page: 0, Size: 12})
	require.NoError(t, err)
}

func TestCreateOrder_PhoneOmittedWhenEmpty(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasPhone := raw["customerPhone"]
		assert.False(t, hasPhone, "empty phone must be omitted, not sent as empty string")

		_ = json.NewEncoder(w).Encode(domain.Order{ID: 9, Code: "ORD-9"})
	}))

	order, err := client.CreateOrder(t.Context(), domain.CreateOrderRequest{
		CustomerName: "An",
		Items:        []domain.OrderItemInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), order.ID)
}

func TestInitiateVnpayPayment_ForwardedForHeader(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/5/payments/vnpay", r.URL.Path)
		assert.Equal(t, "10.1.2.3", r.Header.Get("X-Forwarded-For"))
		_ = json.NewEncoder(w).Encode(map[string]string{"paymentUrl": "https://pay.example/5"})
	}))

	paymentURL, err := client.InitiateVnpayPayment(t.Context(), 5, "10.1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/5", paymentURL)
}

func TestFindByPhone_NotFound(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0901234567", r.URL.Query().Get("phone"))
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
	}))

	_, err := client.FindByPhone(t.Context(), "0901234567")
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNotFound))
}

func TestFindByPhone_EmptyPhone(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := client.FindByPhone(t.Context(), "")
	require.EqualError(t, err, "phone is empty")
}

func TestServerError_SurfacesStatusAndBody(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Order(t.Context(), 1)
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Body)
	assert.False(t, errors.Is(err, api.ErrNotFound))
}

func TestNetworkError_Wrapped(t *testing.T) {
	client, server := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := client.Order(t.Context(), 1)
	require.Error(t, err)

	var apiErr *api.Error
	assert.False(t, errors.As(err, &apiErr), "network failures carry no server status")
}

func TestRevenue_Decoding(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/revenue", r.URL.Path)
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2024-03-03", r.URL.Query().Get("to"))
		_, _ = w.Write([]byte(`[{"bucket":"2024-03-01","revenue":100000,"orderCount":2}]`))
	}))

	stats, err := client.Revenue(t.Context(), "2024-03-01", "2024-03-03")
	require.NoError(t, err)

	require.Len(t, stats, 1)
	assert.True(t, stats[0].Revenue.Equal(decimal.NewFromInt(100_000)))
	assert.Equal(t, 2, stats[0].OrderCount)
}

func TestInvoicePDF_BinaryPassThrough(t *testing.T) {
	pdf := []byte("%PDF-1.7 fake")
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reports/invoices/12.pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	}))

	got, err := client.InvoicePDF(t.Context(), 12)
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
}
