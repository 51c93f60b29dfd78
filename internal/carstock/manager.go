package carstock

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/carstock/pkg/log"
)

// Server is a long running part of the console (HTTP, MQTT listener).
type Server interface {
	Start(ctx context.Context) error
}

// Manager runs servers side by side; the first error stops them all.
type Manager struct {
	servers []Server
}

func NewManager(servers ...Server) *Manager {
	return &Manager{servers: servers}
}

// Start launches all servers in parallel and waits for termination.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, srv := range m.servers {
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("All servers starting...", "count", len(m.servers))
	return g.Wait()
}
