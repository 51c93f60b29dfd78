package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/autopeer-io/carstock/internal/pkg/metrics"
)

// CSVContentType is the media type of uploaded exports.
const CSVContentType = "text/csv; charset=utf-8"

// CSVWriter produces an export, usually (*view.View).ExportCSV.
type CSVWriter func(w io.Writer) error

// Upload is the result of a stored export.
type Upload struct {
	Key     string
	URL     string
	Size    int64
	Expires time.Time
}

// Exporter stores CSV exports and hands out download links.
type Exporter struct {
	provider Provider
	prefix   string
	expiry   time.Duration
	now      func() time.Time
}

func NewExporter(p Provider, prefix string, expiry time.Duration) *Exporter {
	return &Exporter{provider: p, prefix: prefix, expiry: expiry, now: time.Now}
}

// ObjectKey names the export taken at t: <prefix>cars-<UTC timestamp>.csv.
func ObjectKey(prefix string, t time.Time) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + "cars-" + t.UTC().Format("20060102T150405Z") + ".csv"
}

// Export renders the CSV, uploads it and presigns a download link.
func (e *Exporter) Export(ctx context.Context, write CSVWriter) (*Upload, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	now := e.now()
	key := ObjectKey(e.prefix, now)
	size := int64(buf.Len())

	if err := e.provider.Put(ctx, key, &buf, size, CSVContentType); err != nil {
		return nil, err
	}

	link, err := e.provider.PresignedURL(ctx, key, e.expiry)
	if err != nil {
		return nil, err
	}

	metrics.ExportsTotal.WithLabelValues("s3").Inc()
	return &Upload{Key: key, URL: link, Size: size, Expires: now.Add(e.expiry)}, nil
}

func baseName(key string) string {
	return path.Base(key)
}
