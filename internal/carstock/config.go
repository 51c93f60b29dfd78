package carstock

import (
	"context"
	"fmt"
	"os"

	"github.com/autopeer-io/carstock/internal/inventory/client"
	"github.com/autopeer-io/carstock/internal/inventory/grid"
	"github.com/autopeer-io/carstock/internal/inventory/notifier"
	"github.com/autopeer-io/carstock/internal/inventory/storage"
	"github.com/autopeer-io/carstock/internal/inventory/view"
	"github.com/autopeer-io/carstock/internal/ui"
	"github.com/autopeer-io/carstock/pkg/log"
	"github.com/autopeer-io/carstock/pkg/mqtt"
	"github.com/autopeer-io/carstock/pkg/options"
)

type Config struct {
	HttpOptions *options.HttpOptions
	APIOptions  *options.APIOptions
	GridOptions *options.GridOptions
	S3Options   *options.S3Options
	MqttOptions *options.MqttOptions
}

// ConsoleServer is the assembled web console.
type ConsoleServer struct {
	manager  *Manager
	view     *view.View
	provider storage.Provider
}

// NewInventoryClient builds the REST client for the car resource.
func NewInventoryClient(opts *options.APIOptions) (*client.Client, error) {
	return client.New(opts.BaseURL,
		client.WithTimeout(opts.Timeout),
		client.WithUserAgent(opts.UserAgent),
		client.WithLogger(log.Std().Logr().WithName("client")),
	)
}

// NewView builds the list view over inv with the grid layout from opts.
func NewView(inv view.Inventory, opts *options.GridOptions, extra ...view.Option) (*view.View, error) {
	g, err := grid.New(grid.DefaultColumns(), grid.DefaultRenderers(), opts.PageSize)
	if err != nil {
		return nil, err
	}
	viewOpts := []view.Option{
		view.WithNoticeDuration(opts.NoticeDuration),
		view.WithSeparator(opts.Separator()),
	}
	return view.New(inv, g, append(viewOpts, extra...)...), nil
}

func (cfg *Config) NewConsoleServer() (*ConsoleServer, error) {
	inv, err := NewInventoryClient(cfg.APIOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to init inventory client: %w", err)
	}

	var (
		servers  []Server
		viewOpts []view.Option
		notes    *notifier.Notifier
	)

	if cfg.MqttOptions != nil && cfg.MqttOptions.Enabled {
		mqttClient, err := InitializeMQTTClient(cfg.MqttOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to init notifier: %w", err)
		}
		notes = notifier.New(mqttClient, cfg.MqttOptions.TopicRoot, "")
		viewOpts = append(viewOpts, view.WithPublisher(notes))
	}

	v, err := NewView(inv, cfg.GridOptions, viewOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init view: %w", err)
	}

	if notes != nil {
		notes.OnChange(func(ctx context.Context, msg notifier.Message) {
			log.Info("Inventory changed elsewhere, reloading", "event", msg.Event, "origin", msg.Origin)
			_ = v.Load(ctx)
		})
		servers = append(servers, notes)
	}

	var (
		exporter ui.Exporter
		provider storage.Provider
	)
	if cfg.S3Options != nil && cfg.S3Options.Enabled {
		provider, err = storage.NewMinIOProvider(cfg.S3Options)
		if err != nil {
			return nil, err
		}
		exporter = storage.NewExporter(provider, cfg.S3Options.Prefix, cfg.S3Options.LinkExpiry)
	}

	handler := ui.NewRouter(ui.NewHandler(v, exporter))
	servers = append(servers, ui.NewServer(cfg.HttpOptions, handler))

	return &ConsoleServer{
		manager:  NewManager(servers...),
		view:     v,
		provider: provider,
	}, nil
}

// Run loads the collection once and serves until ctx is done.
// A failed initial load is logged; the console still starts and can reload.
func (s *ConsoleServer) Run(ctx context.Context) error {
	if s.provider != nil {
		if err := s.provider.CheckBucket(ctx); err != nil {
			return err
		}
	}

	if err := s.view.Load(ctx); err != nil {
		log.Warn("Initial load failed", "error", err)
	}

	return s.manager.Start(ctx)
}

func InitializeMQTTClient(opts *options.MqttOptions) (mqtt.Client, error) {
	cfg := opts.ToClientConfig()

	if cfg.ClientID == "" {
		hostname, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("carstock-ui-%s", hostname)
	}

	mqttClient, err := mqtt.NewClient(cfg)
	if err != nil {
		log.Error(err, "failed to new mqtt client")
		return nil, err
	}

	return mqttClient, nil
}
