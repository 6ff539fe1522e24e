package web

import (
	"net/http"

	"github.com/nikolayk812/storefront/internal/catalog"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	filters := catalog.Filters{
		Q:          r.URL.Query().Get("q"),
		CategoryID: int64(queryInt(r, "categoryId", 0)),
	}
	page := queryInt(r, "page", 0)

	listing, err := s.lister.Load(r.Context(), filters, page)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// a stale page index past the last page reloads the last page instead of
	// rendering an empty grid
	if clamped := catalog.ClampPage(page, listing.TotalPages); clamped != listing.Page && listing.TotalPages > 0 {
		listing, err = s.lister.Load(r.Context(), filters, clamped)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, newListingVM(listing))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	product, err := s.catalog.Product(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newProductVM(product))
}
