package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var backendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storefront_backend_errors_total",
	Help: "Failed backend API calls by path and failure kind (network or server).",
}, []string{"path", "kind"})
