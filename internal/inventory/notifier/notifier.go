// Package notifier shares inventory changes between consoles over MQTT.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/autopeer-io/carstock/internal/inventory/model"
	"github.com/autopeer-io/carstock/internal/inventory/view"
	"github.com/autopeer-io/carstock/internal/pkg/metrics"
	"github.com/autopeer-io/carstock/pkg/log"
	"github.com/autopeer-io/carstock/pkg/mqtt"
	"github.com/autopeer-io/carstock/pkg/mqtt/topic"
)

const qos = 1

// Message is the payload of {root}/inventory/{event}.
type Message struct {
	Origin    string     `json:"origin"`
	Event     string     `json:"event"`
	Link      string     `json:"link,omitempty"`
	Car       *model.Car `json:"car,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// ChangeHandler is called for changes made by other consoles.
type ChangeHandler func(ctx context.Context, msg Message)

var _ view.Publisher = (*Notifier)(nil)

// Notifier publishes local changes and follows remote ones.
type Notifier struct {
	client   mqtt.Client
	topics   *topic.Builder
	origin   string
	onChange ChangeHandler
	now      func() time.Time
	log      log.Logger
}

// New creates a Notifier. An empty origin gets a random one.
func New(client mqtt.Client, root, origin string) *Notifier {
	if origin == "" {
		origin = uuid.NewString()
	}
	return &Notifier{
		client: client,
		topics: topic.NewBuilder(root),
		origin: origin,
		now:    time.Now,
		log:    log.WithName("notifier").WithValues("origin", origin),
	}
}

// Origin identifies this console in published messages.
func (n *Notifier) Origin() string { return n.origin }

// OnChange sets the handler for remote changes. Call before Start.
func (n *Notifier) OnChange(fn ChangeHandler) { n.onChange = fn }

// Publish implements view.Publisher.
func (n *Notifier) Publish(ctx context.Context, c view.Change) error {
	msg := Message{
		Origin:    n.origin,
		Event:     c.Kind,
		Link:      c.Link,
		Car:       c.Car,
		Timestamp: n.now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", c.Kind, err)
	}

	if err := n.client.Publish(ctx, n.topics.Inventory(c.Kind), qos, false, payload); err != nil {
		return fmt.Errorf("publish %s event: %w", c.Kind, err)
	}

	metrics.InventoryEventsTotal.WithLabelValues("published", c.Kind).Inc()
	n.log.Debug("Published inventory event", "event", c.Kind, "link", c.Link)
	return nil
}

// Start connects, follows {root}/inventory/+ and blocks until ctx is done.
func (n *Notifier) Start(ctx context.Context) error {
	if err := n.client.Start(ctx); err != nil {
		return fmt.Errorf("start mqtt client: %w", err)
	}

	if err := n.client.Subscribe(ctx, n.topics.InventoryWildcard(), qos, n.handle); err != nil {
		return fmt.Errorf("subscribe inventory events: %w", err)
	}
	n.log.Info("Following inventory events", "topic", n.topics.InventoryWildcard())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n.client.Disconnect(shutdownCtx)
	return nil
}

func (n *Notifier) handle(ctx context.Context, t string, payload []byte) {
	event, ok := n.topics.EventOf(t)
	if !ok {
		n.log.Warn("Ignoring message on unexpected topic", "topic", t)
		return
	}

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		n.log.Error(err, "Failed to decode inventory event", "topic", t)
		return
	}
	if msg.Origin == n.origin {
		return
	}
	if msg.Event == "" {
		msg.Event = event
	}

	metrics.InventoryEventsTotal.WithLabelValues("received", msg.Event).Inc()
	n.log.Debug("Received inventory event", "event", msg.Event, "from", msg.Origin, "link", msg.Link)

	if n.onChange != nil {
		n.onChange(ctx, msg)
	}
}
