package web

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/stats"
)

func (s *Server) searchOrders(w http.ResponseWriter, r *http.Request) {
	defaults := stats.DefaultOrderFilters(s.now())

	query := r.URL.Query()
	from := query.Get("from")
	to := query.Get("to")
	if from == "" && to == "" {
		from, to = defaults.From, defaults.To
	}
	from, to = stats.EnsureRange(from, to)
	from, to = stats.OrderSearchBounds(from, to)

	page, err := s.orders.SearchOrders(r.Context(), port.OrderQuery{
		Page: max(0, queryInt(r, "page", 0)),
		Size: max(1, queryInt(r, "size", defaults.Size)),
		Code: query.Get("code"),
		From: from,
		To:   to,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newOrderPageVM(page))
}

func (s *Server) revenueSeries(w http.ResponseWriter, r *http.Request) {
	defaults := stats.DefaultRevenueFilters(s.now())

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" && to == "" {
		from, to = defaults.From, defaults.To
	}
	from, to = stats.EnsureRange(from, to)

	series, err := s.stats.Revenue(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rows := stats.DenseSeries(series, from, to)
	writeJSON(w, http.StatusOK, newRevenueVM(rows, from, to))
}

// revenueDrillDown lists the orders behind one chart bucket. A bucket with no
// orders is not drillable.
func (s *Server) revenueDrillDown(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	bucket := stats.NewBucketRange(date)
	if bucket == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid bucket date %q", date))
		return
	}

	series, err := s.stats.Revenue(r.Context(), date, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orderCount := 0
	for _, stat := range series {
		if len(stat.Bucket) >= 10 && stat.Bucket[:10] == date {
			orderCount = stat.OrderCount
			break
		}
	}
	if orderCount == 0 {
		writeError(w, http.StatusConflict, fmt.Errorf("no orders on %s", date))
		return
	}

	page, err := s.orders.SearchOrders(r.Context(), port.OrderQuery{
		Page: queryInt(r, "page", 0),
		Size: stats.DrillDownPageSize(orderCount),
		From: bucket.APIFrom,
		To:   bucket.APITo,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newOrderPageVM(page))
}

func (s *Server) topProducts(w http.ResponseWriter, r *http.Request) {
	defaults := stats.DefaultRevenueFilters(s.now())

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" && to == "" {
		from, to = defaults.From, defaults.To
	}
	from, to = stats.EnsureRange(from, to)

	products, err := s.stats.TopProducts(r.Context(), from, to, queryInt(r, "limit", 5))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTopProductsVM(products))
}
