package carstock

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/carstock/pkg/options"
)

func newConfig(baseURL string) *Config {
	api := options.NewAPIOptions()
	api.BaseURL = baseURL

	httpOpts := options.NewHttpOptions()
	httpOpts.Addr = "127.0.0.1:0"

	return &Config{
		HttpOptions: httpOpts,
		APIOptions:  api,
		GridOptions: options.NewGridOptions(),
		S3Options:   options.NewS3Options(),
		MqttOptions: options.NewMqttOptions(),
	}
}

func TestNewConsoleServer(t *testing.T) {
	s, err := newConfig("https://cars.example.test/cars").NewConsoleServer()
	require.NoError(t, err)
	assert.Len(t, s.manager.servers, 1)
	assert.Nil(t, s.provider)

	cfg := newConfig("https://cars.example.test/cars")
	cfg.MqttOptions.Enabled = true
	cfg.S3Options.Enabled = true
	s, err = cfg.NewConsoleServer()
	require.NoError(t, err)
	assert.Len(t, s.manager.servers, 2)
	assert.NotNil(t, s.provider)

	_, err = newConfig("cars").NewConsoleServer()
	assert.Error(t, err)
}

func TestRunLoadsAndStops(t *testing.T) {
	var gets atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gets.Add(1)
		w.Header().Set("Content-Type", "application/hal+json")
		_, _ = w.Write([]byte(`{"_embedded":{"cars":[{"brand":"Kia","model":"Ceed","year":2021,"_links":{"self":{"href":"/cars/1"}}}]}}`))
	}))
	defer api.Close()

	s, err := newConfig(api.URL + "/cars").NewConsoleServer()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, s.view.Loaded, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), gets.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console did not stop")
	}
}

type stubServer struct {
	err     error
	stopped atomic.Bool
}

func (s *stubServer) Start(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	s.stopped.Store(true)
	return nil
}

func TestManagerStopsOnFirstError(t *testing.T) {
	failing := &stubServer{err: assert.AnError}
	healthy := &stubServer{}

	err := NewManager(healthy, failing).Start(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, healthy.stopped.Load())
}
