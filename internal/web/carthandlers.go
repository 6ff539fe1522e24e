package web

import (
	"fmt"
	"net/http"

	"github.com/nikolayk812/storefront/internal/domain"
)

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCartVM(s.cart.Snapshot()))
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID int64 `json:"productId"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	product, err := s.catalog.Product(r.Context(), payload.ProductID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// the grid disables the button for these, but the API must hold the line
	if product.Status != domain.ProductActive || product.StockQty <= 0 {
		writeError(w, http.StatusConflict, fmt.Errorf("product %d is not available", product.ID))
		return
	}

	s.cart.AddToCart(r.Context(), product)
	writeJSON(w, http.StatusOK, newCartVM(s.cart.Snapshot()))
}

func (s *Server) updateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.cart.UpdateQuantity(r.Context(), productID, payload.Quantity)
	writeJSON(w, http.StatusOK, newCartVM(s.cart.Snapshot()))
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.cart.RemoveFromCart(r.Context(), productID)
	writeJSON(w, http.StatusOK, newCartVM(s.cart.Snapshot()))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	s.cart.ClearCart(r.Context())
	writeJSON(w, http.StatusOK, newCartVM(s.cart.Snapshot()))
}

// setSidebar toggles when the payload carries no explicit value.
func (s *Server) setSidebar(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Open *bool `json:"open"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if payload.Open == nil {
		s.cart.ToggleSidebar(r.Context())
	} else {
		s.cart.SetSidebarOpen(r.Context(), *payload.Open)
	}
	writeJSON(w, http.StatusOK, newCartVM(s.cart.Snapshot()))
}
