// Package web is the HTTP surface of the storefront: a JSON API the operator
// UI talks to, plus PDF pass-throughs for invoices and product reports.
package web

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Server struct {
	cart     *cart.Store
	lister   *catalog.Lister
	checkout *checkout.Orchestrator
	catalog  port.ProductCatalog
	orders   port.OrderService
	stats    port.StatsService
	reports  port.ReportService
	logger   *logrus.Entry
	now      func() time.Time
}

type ServerConfig struct {
	Cart     *cart.Store
	Lister   *catalog.Lister
	Checkout *checkout.Orchestrator
	Catalog  port.ProductCatalog
	Orders   port.OrderService
	Stats    port.StatsService
	Reports  port.ReportService
	Logger   *logrus.Entry

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Cart == nil {
		return nil, fmt.Errorf("cart is nil")
	}
	if cfg.Lister == nil {
		return nil, fmt.Errorf("lister is nil")
	}
	if cfg.Checkout == nil {
		return nil, fmt.Errorf("checkout is nil")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if cfg.Orders == nil {
		return nil, fmt.Errorf("orders is nil")
	}
	if cfg.Stats == nil {
		return nil, fmt.Errorf("stats is nil")
	}
	if cfg.Reports == nil {
		return nil, fmt.Errorf("reports is nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Server{
		cart:     cfg.Cart,
		lister:   cfg.Lister,
		checkout: cfg.Checkout,
		catalog:  cfg.Catalog,
		orders:   cfg.Orders,
		stats:    cfg.Stats,
		reports:  cfg.Reports,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}, nil
}

// Router wires all routes behind the request-id, logging and metrics
// middleware chain.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, requestLogging(s.logger), requestMetrics)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", s.getProduct).Methods(http.MethodGet)

	api.HandleFunc("/cart", s.getCart).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.clearCart).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", s.addToCart).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{productId:[0-9]+}", s.updateQuantity).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{productId:[0-9]+}", s.removeFromCart).Methods(http.MethodDelete)
	api.HandleFunc("/cart/sidebar", s.setSidebar).Methods(http.MethodPost)

	api.HandleFunc("/checkout", s.enterCheckout).Methods(http.MethodGet)
	api.HandleFunc("/checkout/lookup", s.lookupCustomer).Methods(http.MethodPost)
	api.HandleFunc("/checkout/confirm-new", s.confirmNewCustomer).Methods(http.MethodPost)
	api.HandleFunc("/checkout/abort", s.abortCheckout).Methods(http.MethodPost)
	api.HandleFunc("/checkout/submit", s.submitCheckout).Methods(http.MethodPost)
	api.HandleFunc("/checkout/acknowledge", s.acknowledgeOrder).Methods(http.MethodPost)

	api.HandleFunc("/invoice/{id:[0-9]+}", s.getInvoice).Methods(http.MethodGet)

	api.HandleFunc("/stats/orders", s.searchOrders).Methods(http.MethodGet)
	api.HandleFunc("/stats/revenue", s.revenueSeries).Methods(http.MethodGet)
	api.HandleFunc("/stats/revenue/{date}/orders", s.revenueDrillDown).Methods(http.MethodGet)
	api.HandleFunc("/stats/top-products", s.topProducts).Methods(http.MethodGet)

	r.HandleFunc("/invoice/{id:[0-9]+}.pdf", s.invoicePDF).Methods(http.MethodGet)
	r.HandleFunc("/reports/products.pdf", s.productsPDF).Methods(http.MethodGet)

	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// clientIP extracts the caller address for the payment-provider call.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
