package topic

import (
	"fmt"
	"strings"
)

// Topic segments shared by every carstock instance.
// Changing these values breaks compatibility with running consoles.
const (
	// SuffixInventory groups inventory change events.
	// Structure: {root}/inventory/{event}
	SuffixInventory = "inventory"

	// Wildcard is the single-level wildcard "+".
	Wildcard = "+"
)

// Builder encapsulates the logic for constructing MQTT topic strings.
type Builder struct {
	// root is the base namespace for all topics (e.g., "carstock/v1").
	root string
}

// NewBuilder creates a new Builder with the specified root namespace.
// Leading and trailing slashes are trimmed.
func NewBuilder(root string) *Builder {
	return &Builder{root: strings.Trim(root, "/")}
}

// Inventory returns the topic on which an inventory event is published.
func (b *Builder) Inventory(event string) string {
	return b.build(SuffixInventory, event)
}

// InventoryWildcard returns the filter matching every inventory event.
// Result: {root}/inventory/+
func (b *Builder) InventoryWildcard() string {
	return b.build(SuffixInventory, Wildcard)
}

// EventOf extracts the trailing event segment of an inventory topic.
// ok is false when the topic is not below {root}/inventory/.
func (b *Builder) EventOf(topic string) (event string, ok bool) {
	prefix := b.build(SuffixInventory, "")
	if !strings.HasPrefix(topic, prefix) {
		return "", false
	}
	event = strings.TrimPrefix(topic, prefix)
	if event == "" || strings.Contains(event, "/") {
		return "", false
	}
	return event, true
}

// build constructs {root}/{suffix}/{id}.
func (b *Builder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}
