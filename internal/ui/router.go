package ui

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autopeer-io/carstock/pkg/log"
)

// NewRouter wires the console routes behind the request middlewares.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", h.index).Methods(http.MethodGet)

	r.HandleFunc("/cars/new", h.openAdd).Methods(http.MethodPost)
	r.HandleFunc("/cars", h.submitAdd).Methods(http.MethodPost)
	r.HandleFunc("/cars/edit", h.openEdit).Methods(http.MethodPost)
	r.HandleFunc("/cars/update", h.submitEdit).Methods(http.MethodPost)
	r.HandleFunc("/forms/cancel", h.cancelForms).Methods(http.MethodPost)

	r.HandleFunc("/cars/delete", h.remove).Methods(http.MethodPost)
	r.HandleFunc("/modal/confirm", h.confirm).Methods(http.MethodPost)
	r.HandleFunc("/modal/dismiss", h.dismiss).Methods(http.MethodPost)

	r.HandleFunc("/reload", h.reload).Methods(http.MethodPost)
	r.HandleFunc("/export.csv", h.exportCSV).Methods(http.MethodGet)
	if h.exporter != nil {
		r.HandleFunc("/export/upload", h.upload).Methods(http.MethodPost)
	}

	r.HandleFunc("/healthz", h.healthz)
	r.HandleFunc("/readyz", h.readyz)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	httpLog := log.WithName("http")
	return Chain(r, WithRequestID, WithAccessLog(httpLog), WithRecover(httpLog))
}
