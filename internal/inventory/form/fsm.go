// Package form implements the add and edit car forms as small state machines.
// A form turns raw input into a car and closes; it never talks to the server.
package form

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/looplab/fsm"

	"github.com/autopeer-io/carstock/internal/inventory/model"
	fsmutil "github.com/autopeer-io/carstock/internal/pkg/util/fsm"
)

const (
	StateClosed     = "closed"
	StateOpen       = "open"
	StateSubmitting = "submitting"
)

const (
	// EventOpen shows the form.
	EventOpen = "open"
	// EventSubmit turns the input into a car. Rejected input keeps the form open.
	EventSubmit = "submit"
	// EventDone closes the form once the car is handed over.
	EventDone = "done"
	// EventCancel closes the form without a result.
	EventCancel = "cancel"
)

// Values is raw form input keyed by car attribute name.
// An absent key means the field was not submitted.
type Values map[string]string

// ValuesFrom picks the car attributes out of posted form data.
func ValuesFrom(src url.Values) Values {
	out := Values{}
	for _, f := range model.Fields {
		if src.Has(f) {
			out[f] = src.Get(f)
		}
	}
	return out
}

// ValuesOf formats every attribute of car.
func ValuesOf(car model.Car) Values {
	out := make(Values, len(model.Fields))
	for _, f := range model.Fields {
		out[f] = car.FormatField(f)
	}
	return out
}

// buildFunc produces the submitted car from input.
type buildFunc func(values Values) (model.Car, error)

// machine is the state shared by both forms:
//
//	closed --open--> open --submit--> submitting --done--> closed
//	                 open --cancel--> closed
type machine struct {
	*fsm.FSM

	build  buildFunc
	reset  func()
	result model.Car
}

func newMachine(build buildFunc, reset func()) *machine {
	m := &machine{build: build, reset: reset}

	events := fsm.Events{
		{Name: EventOpen, Src: []string{StateClosed}, Dst: StateOpen},
		{Name: EventSubmit, Src: []string{StateOpen}, Dst: StateSubmitting},
		{Name: EventDone, Src: []string{StateSubmitting}, Dst: StateClosed},
		{Name: EventCancel, Src: []string{StateOpen}, Dst: StateClosed},
	}

	callbacks := fsm.Callbacks{
		"before_" + EventSubmit: fsmutil.WrapEvent(m.GuardSubmit),
		"enter_" + StateClosed:  fsmutil.WrapEvent(m.ActionEnterClosed),
	}

	m.FSM = fsm.NewFSM(StateClosed, events, callbacks)
	return m
}

// GuardSubmit builds the car and cancels the transition on unparsable input.
func (m *machine) GuardSubmit(ctx context.Context, e *fsm.Event) error {
	var values Values
	if len(e.Args) > 0 {
		values, _ = e.Args[0].(Values)
	}
	car, err := m.build(values)
	if err != nil {
		e.Cancel(err)
		return nil
	}
	m.result = car
	return nil
}

// ActionEnterClosed drops the draft of the closed form.
func (m *machine) ActionEnterClosed(ctx context.Context, e *fsm.Event) error {
	if m.reset != nil {
		m.reset()
	}
	return nil
}

func (m *machine) fire(ctx context.Context, event string, args ...any) error {
	err := m.Event(ctx, event, args...)
	if err == nil {
		return nil
	}

	var canceled fsm.CanceledError
	if errors.As(err, &canceled) && canceled.Err != nil {
		return canceled.Err
	}
	return fmt.Errorf("form %s: %w", event, err)
}

// submit runs submit and done back to back and returns the built car.
func (m *machine) submit(ctx context.Context, values Values) (model.Car, error) {
	if values == nil {
		values = Values{}
	}
	if err := m.fire(ctx, EventSubmit, values); err != nil {
		return model.Car{}, err
	}
	car := m.result
	m.result = model.Car{}
	if err := m.fire(ctx, EventDone); err != nil {
		return model.Car{}, err
	}
	return car, nil
}

// State reports the current state name.
func (m *machine) State() string { return m.Current() }

// IsOpen reports whether the form accepts input.
func (m *machine) IsOpen() bool { return m.Is(StateOpen) }

// Cancel closes an open form.
func (m *machine) Cancel(ctx context.Context) error {
	return m.fire(ctx, EventCancel)
}
