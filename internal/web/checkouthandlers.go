package web

import (
	"fmt"
	"net/http"

	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
)

func (s *Server) enterCheckout(w http.ResponseWriter, r *http.Request) {
	if err := s.checkout.Enter(); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"phase": s.checkout.Phase(),
		"cart":  newCartVM(s.cart.Snapshot()),
	})
}

func (s *Server) lookupCustomer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Phone string `json:"phone"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.checkout.BeginLookup(r.Context(), payload.Phone)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	vm := lookupVM{Mode: result.Mode, NeedsConfirmation: result.NeedsConfirmation}
	if result.Mode == checkout.ModeExisting {
		vm.Customer = newCustomerVM(result.User)
	}
	writeJSON(w, http.StatusOK, vm)
}

func (s *Server) confirmNewCustomer(w http.ResponseWriter, r *http.Request) {
	if err := s.checkout.ConfirmNewCustomer(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"phase": s.checkout.Phase()})
}

func (s *Server) abortCheckout(w http.ResponseWriter, r *http.Request) {
	s.checkout.Cancel()
	writeJSON(w, http.StatusOK, map[string]interface{}{"phase": s.checkout.Phase()})
}

// acknowledgeOrder dismisses the just-placed-order banner.
func (s *Server) acknowledgeOrder(w http.ResponseWriter, r *http.Request) {
	s.cart.ClearLastOrderID(r.Context())
	writeJSON(w, http.StatusOK, newCartVM(s.cart.Snapshot()))
}

func (s *Server) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CustomerName    string `json:"customerName"`
		CustomerAddress string `json:"customerAddress"`
		Note            string `json:"note"`
		PaymentMethod   string `json:"paymentMethod"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	method := domain.PaymentMethod(payload.PaymentMethod)
	if method != domain.PaymentVnpay && method != domain.PaymentCash {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown payment method %q", payload.PaymentMethod))
		return
	}

	form := checkout.Form{
		CustomerName:    payload.CustomerName,
		CustomerAddress: payload.CustomerAddress,
		Note:            payload.Note,
		ClientIP:        clientIP(r),
	}

	outcome, err := s.checkout.Submit(r.Context(), form, method)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitVM{
		Order:       outcome.Order,
		RedirectURL: outcome.RedirectURL,
		InvoicePath: outcome.InvoicePath,
	})
}
