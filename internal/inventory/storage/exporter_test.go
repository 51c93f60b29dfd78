package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/carstock/pkg/options"
)

type memProvider struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func (m *memProvider) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(b)) != size {
		return fmt.Errorf("size mismatch: %d != %d", len(b), size)
	}
	if m.objects == nil {
		m.objects, m.types = map[string][]byte{}, map[string]string{}
	}
	m.objects[key], m.types[key] = b, contentType
	return nil
}

func (m *memProvider) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://s3.example.test/carstock/%s?X-Amz-Expires=%d", key, int(expiry.Seconds())), nil
}

func (m *memProvider) CheckBucket(ctx context.Context) error { return nil }

func TestObjectKey(t *testing.T) {
	at := time.Date(2025, 3, 1, 13, 4, 5, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "exports/cars-20250301T120405Z.csv", ObjectKey("exports/", at))
	assert.Equal(t, "exports/cars-20250301T120405Z.csv", ObjectKey("exports", at))
	assert.Equal(t, "cars-20250301T120405Z.csv", ObjectKey("", at))
}

func TestExport(t *testing.T) {
	p := &memProvider{}
	e := NewExporter(p, "exports/", 15*time.Minute)
	e.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	up, err := e.Export(context.Background(), func(w io.Writer) error {
		_, err := io.WriteString(w, "Brand;Model\nKia;Ceed\n")
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, "exports/cars-20250301T120000Z.csv", up.Key)
	assert.Equal(t, int64(21), up.Size)
	assert.Equal(t, "https://s3.example.test/carstock/exports/cars-20250301T120000Z.csv?X-Amz-Expires=900", up.URL)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 15, 0, 0, time.UTC), up.Expires)
	assert.Equal(t, "Brand;Model\nKia;Ceed\n", string(p.objects[up.Key]))
	assert.Equal(t, CSVContentType, p.types[up.Key])
}

func TestExportFailures(t *testing.T) {
	p := &memProvider{}
	e := NewExporter(p, "exports/", time.Minute)

	_, err := e.Export(context.Background(), func(w io.Writer) error { return errors.New("no data") })
	assert.Error(t, err)
	assert.Empty(t, p.objects)

	p.putErr = errors.New("access denied")
	_, err = e.Export(context.Background(), func(w io.Writer) error { return nil })
	assert.ErrorContains(t, err, "access denied")
}

func TestNewMinIOProvider(t *testing.T) {
	opts := options.NewS3Options()
	opts.AccessKeyID, opts.SecretAccessKey = "minio", "minio123"

	p, err := NewMinIOProvider(opts)
	require.NoError(t, err)

	link, err := p.PresignedURL(context.Background(), "exports/cars-20250301T120000Z.csv", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, link, "http://localhost:9000/carstock/exports/cars-20250301T120000Z.csv")
	assert.Contains(t, link, "X-Amz-Signature=")
	assert.Contains(t, link, "response-content-disposition=")

	opts.Endpoint = "bad!endpoint"
	_, err = NewMinIOProvider(opts)
	assert.Error(t, err)
}
