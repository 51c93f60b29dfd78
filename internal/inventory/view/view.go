// Package view owns the car collection shown by the console and the
// operations that mutate it. Every mutation is followed by a full reload.
package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/autopeer-io/carstock/internal/inventory/client"
	"github.com/autopeer-io/carstock/internal/inventory/form"
	"github.com/autopeer-io/carstock/internal/inventory/grid"
	"github.com/autopeer-io/carstock/internal/inventory/model"
	"github.com/autopeer-io/carstock/internal/pkg/metrics"
	"github.com/autopeer-io/carstock/pkg/log"
)

// ErrNoPendingDelete is returned by Confirm when no deletion awaits confirmation.
var ErrNoPendingDelete = errors.New("no deletion awaiting confirmation")

// Inventory is the remote car collection.
type Inventory interface {
	List(ctx context.Context) ([]model.Record, error)
	Create(ctx context.Context, car model.Car) error
	Update(ctx context.Context, link string, car model.Car) error
	Delete(ctx context.Context, link string) error
}

// Change kinds reported to a Publisher.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Change describes a mutation accepted by the server.
type Change struct {
	Kind string
	Link string
	Car  *model.Car
}

// Publisher is told about accepted mutations.
type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

// Option configures a View.
type Option func(*View)

// WithClock replaces the wall clock that times notices.
func WithClock(c clock.PassiveClock) Option {
	return func(v *View) { v.clock = c }
}

// WithNoticeDuration sets how long notices stay visible.
func WithNoticeDuration(d time.Duration) Option {
	return func(v *View) {
		if d > 0 {
			v.noticeFor = d
		}
	}
}

// WithSeparator sets the CSV field separator.
func WithSeparator(r rune) Option {
	return func(v *View) { v.separator = r }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(v *View) { v.log = l }
}

// WithPublisher reports accepted mutations to p.
func WithPublisher(p Publisher) Option {
	return func(v *View) { v.publisher = p }
}

// View is the list view state. It is safe for concurrent use; network calls
// run outside the lock and the last reload to finish wins.
type View struct {
	inv       Inventory
	log       log.Logger
	publisher Publisher
	clock     clock.PassiveClock
	noticeFor time.Duration
	separator rune

	mu      sync.Mutex
	grid    *grid.Handle
	records []model.Record
	loaded  bool
	modal   Modal
	// held is an alert raised while a delete awaited confirmation.
	held    bool
	notice  Notice
	add     *form.AddForm
	edit    *form.EditForm
	addErr  string
	editErr string
}

// New creates a view over inv rendering through g.
func New(inv Inventory, g *grid.Handle, opts ...Option) *View {
	v := &View{
		inv:       inv,
		grid:      g,
		log:       log.WithName("view"),
		clock:     clock.RealClock{},
		noticeFor: DefaultNoticeDuration,
		separator: ';',
		records:   []model.Record{},
		add:       form.NewAddForm(),
		edit:      form.NewEditForm(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load fetches the full collection and redraws the grid.
// On failure the previous collection is kept and the alert is raised.
func (v *View) Load(ctx context.Context) error {
	records, err := v.inv.List(ctx)
	if err != nil {
		v.fail(err, "Failed to load cars")
		return fmt.Errorf("load cars: %w", err)
	}

	v.mu.Lock()
	v.records = records
	v.loaded = true
	v.grid.Redraw(records)
	v.mu.Unlock()

	metrics.CollectionSize.Set(float64(len(records)))
	v.log.Debug("Loaded cars", "count", len(records))
	return nil
}

// Create posts car and reloads whenever the server answered.
func (v *View) Create(ctx context.Context, car model.Car) error {
	err := v.inv.Create(ctx, car)
	return v.afterMutation(ctx, err, Change{Kind: ChangeCreated, Car: &car})
}

// Update replaces the record at link with car and reloads whenever the server answered.
func (v *View) Update(ctx context.Context, link string, car model.Car) error {
	err := v.inv.Update(ctx, link, car)
	return v.afterMutation(ctx, err, Change{Kind: ChangeUpdated, Link: link, Car: &car})
}

func (v *View) afterMutation(ctx context.Context, err error, c Change) error {
	if err != nil && !client.IsStatus(err) {
		v.fail(err, "Request failed", "change", c.Kind, "link", c.Link)
		return fmt.Errorf("%s car: %w", c.Kind, err)
	}

	// The reload raises its own alert.
	_ = v.Load(ctx)

	if err != nil {
		v.fail(err, "Server rejected change", "change", c.Kind, "link", c.Link)
		return fmt.Errorf("%s car: %w", c.Kind, err)
	}

	v.publish(ctx, c)
	return nil
}

// Remove asks for confirmation before deleting the record at link.
// Nothing is sent until Confirm.
func (v *View) Remove(link string) error {
	if link == "" {
		return errors.New("remove: empty link")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.modal = Modal{Kind: ModalConfirm, Message: ConfirmDeleteMessage, Link: link}
	return nil
}

// Confirm sends exactly one DELETE for the pending removal.
func (v *View) Confirm(ctx context.Context) error {
	v.mu.Lock()
	if v.modal.Kind != ModalConfirm {
		v.mu.Unlock()
		return ErrNoPendingDelete
	}
	link := v.modal.Link
	v.modal = Modal{}
	// The reload below reports its own failures.
	v.held = false
	v.mu.Unlock()

	if err := v.inv.Delete(ctx, link); err != nil {
		v.fail(err, "Failed to delete car", "link", link)
		return fmt.Errorf("delete car: %w", err)
	}

	_ = v.Load(ctx)
	v.setNotice(DeletedNotice)
	v.publish(ctx, Change{Kind: ChangeDeleted, Link: link})
	return nil
}

// Cancel closes any open dialog. A declined deletion sends nothing and
// shows the alert held back while it was open, if any.
func (v *View) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.modal.Kind == ModalConfirm && v.held {
		v.modal = Modal{Kind: ModalAlert, Message: AlertMessage}
	} else {
		v.modal = Modal{}
	}
	v.held = false
}

// Query applies sort, filters and page to the grid.
func (v *View) Query(q grid.Query) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.grid.SetQuery(q)
}

// Columns returns the grid columns.
func (v *View) Columns() []grid.Column {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.grid.Columns()
}

// ExportCSV writes the displayed rows of every page, data columns only.
func (v *View) ExportCSV(w io.Writer) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.grid.ExportCSV(w, grid.CSVOptions{Separator: v.separator})
}

// Loaded reports whether a load ever succeeded.
func (v *View) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// Record finds a record of the collection by self link.
func (v *View) Record(link string) (model.Record, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := slices.IndexFunc(v.records, func(r model.Record) bool { return r.Self() == link })
	if i < 0 {
		return model.Record{}, false
	}
	return v.records[i], true
}

// Snapshot copies the state for rendering.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := State{
		Records: slices.Clone(v.records),
		Page:    v.grid.Page(),
		Modal:   v.modal,
		Loaded:  v.loaded,
		Add: FormState{
			State:  v.add.State(),
			Values: v.add.Values(),
			Error:  v.addErr,
		},
		Edit: FormState{
			State:  v.edit.State(),
			Values: v.edit.Values(),
			Link:   v.edit.Link(),
			Error:  v.editErr,
		},
	}
	if v.notice.Message != "" && v.clock.Now().Before(v.notice.Expires) {
		n := v.notice
		s.Notice = &n
	}
	return s
}

func (v *View) setNotice(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notice = Notice{Message: msg, Expires: v.clock.Now().Add(v.noticeFor)}
}

// Alert reports a failure that happened outside the view, such as an upload.
func (v *View) Alert(err error, msg string) {
	v.fail(err, msg)
}

// fail logs err and raises the alert dialog. A pending delete confirmation
// stays open and the alert is held until it is declined.
func (v *View) fail(err error, msg string, keysAndValues ...any) {
	v.log.Error(err, msg, keysAndValues...)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.modal.Kind == ModalConfirm {
		v.held = true
		return
	}
	v.modal = Modal{Kind: ModalAlert, Message: AlertMessage}
}

func (v *View) publish(ctx context.Context, c Change) {
	if v.publisher == nil {
		return
	}
	if err := v.publisher.Publish(ctx, c); err != nil {
		v.log.Warn("Failed to publish inventory change", "change", c.Kind, "link", c.Link, "error", err)
	}
}
