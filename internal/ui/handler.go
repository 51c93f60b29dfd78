package ui

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/autopeer-io/carstock/internal/inventory/form"
	"github.com/autopeer-io/carstock/internal/inventory/storage"
	"github.com/autopeer-io/carstock/internal/inventory/view"
	"github.com/autopeer-io/carstock/internal/pkg/metrics"
	"github.com/autopeer-io/carstock/pkg/log"
)

// Exporter stores a CSV export remotely.
type Exporter interface {
	Export(ctx context.Context, write storage.CSVWriter) (*storage.Upload, error)
}

// Handler serves the console pages over a shared view.
type Handler struct {
	view     *view.View
	exporter Exporter
	now      func() time.Time
}

// NewHandler creates a Handler. exporter may be nil, which disables uploads.
func NewHandler(v *view.View, exporter Exporter) *Handler {
	return &Handler{
		view:     v,
		exporter: exporter,
		now:      time.Now,
	}
}

// logger is the request scoped logger set up by WithRequestID.
func (h *Handler) logger(r *http.Request) log.Logger {
	return log.FromContext(r.Context()).WithName("ui")
}

func (h *Handler) backToGrid(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	columns := h.view.Columns()
	if hasGridParams(values, columns) {
		q, err := parseQuery(values, columns)
		if err == nil {
			err = h.view.Query(q)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	data := newPageData(h.view.Snapshot(), h.now(), h.exporter != nil)

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		h.logger(r).Error(err, "Failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) openAdd(w http.ResponseWriter, r *http.Request) {
	if err := h.view.OpenAdd(r.Context()); err != nil {
		h.logger(r).Debug("Add form not opened", "error", err)
	}
	h.backToGrid(w, r)
}

func (h *Handler) submitAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.view.SubmitAdd(r.Context(), form.ValuesFrom(r.PostForm)); err != nil {
		h.logger(r).Debug("Add form submit failed", "error", err)
	}
	h.backToGrid(w, r)
}

func (h *Handler) openEdit(w http.ResponseWriter, r *http.Request) {
	link := r.PostFormValue("link")
	if link == "" {
		http.Error(w, "missing link", http.StatusBadRequest)
		return
	}
	if _, ok := h.view.Record(link); !ok {
		http.Error(w, "no such car", http.StatusNotFound)
		return
	}
	if err := h.view.OpenEdit(r.Context(), link); err != nil {
		h.logger(r).Debug("Edit form not opened", "link", link, "error", err)
	}
	h.backToGrid(w, r)
}

func (h *Handler) submitEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// A page rendered for another record must not overwrite the open one.
	if link := r.PostForm.Get("link"); link != "" && link != h.view.EditLink() {
		http.Error(w, "edit form is open for another car", http.StatusConflict)
		return
	}
	if err := h.view.SubmitEdit(r.Context(), form.ValuesFrom(r.PostForm)); err != nil {
		h.logger(r).Debug("Edit form submit failed", "error", err)
	}
	h.backToGrid(w, r)
}

func (h *Handler) cancelForms(w http.ResponseWriter, r *http.Request) {
	h.view.CancelForms(r.Context())
	h.backToGrid(w, r)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.view.Remove(r.PostFormValue("link")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.backToGrid(w, r)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.view.Confirm(r.Context()); err != nil && !errors.Is(err, view.ErrNoPendingDelete) {
		h.logger(r).Debug("Delete failed", "error", err)
	}
	h.backToGrid(w, r)
}

func (h *Handler) dismiss(w http.ResponseWriter, r *http.Request) {
	h.view.Cancel()
	h.backToGrid(w, r)
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	_ = h.view.Load(r.Context())
	h.backToGrid(w, r)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.view.ExportCSV(&buf); err != nil {
		h.logger(r).Error(err, "Failed to export cars")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	metrics.ExportsTotal.WithLabelValues("download").Inc()
	w.Header().Set("Content-Type", storage.CSVContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="cars.csv"`)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	up, err := h.exporter.Export(r.Context(), h.view.ExportCSV)
	if err != nil {
		h.view.Alert(err, "Failed to upload export")
		h.backToGrid(w, r)
		return
	}
	h.logger(r).Info("Uploaded export", "key", up.Key, "bytes", up.Size)
	http.Redirect(w, r, up.URL, http.StatusSeeOther)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readyz turns ready after the first successful load.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if !h.view.Loaded() {
		http.Error(w, "cars not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
