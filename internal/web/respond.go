package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/checkout"
)

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// writeDomainError maps the error taxonomy onto HTTP statuses: backend
// failures become 502, validation failures 422, flow guards 409.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *checkout.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
		return
	}

	var transitionErr *checkout.TransitionError
	switch {
	case errors.Is(err, api.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.As(err, &transitionErr),
		errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusBadGateway, err)
	}
}
