package view

import (
	"time"

	"github.com/autopeer-io/carstock/internal/inventory/form"
	"github.com/autopeer-io/carstock/internal/inventory/grid"
	"github.com/autopeer-io/carstock/internal/inventory/model"
)

// Fixed operator-facing texts.
const (
	ConfirmDeleteMessage = "Are you sure?"
	AlertMessage         = "Something went wrong"
	DeletedNotice        = "Car deleted"
)

// DefaultNoticeDuration is how long a notice stays visible.
const DefaultNoticeDuration = 2500 * time.Millisecond

// ModalKind tells front ends which dialog to draw.
type ModalKind int

const (
	ModalNone ModalKind = iota
	// ModalConfirm asks whether to delete Modal.Link.
	ModalConfirm
	// ModalAlert reports a failure.
	ModalAlert
)

func (k ModalKind) String() string {
	switch k {
	case ModalConfirm:
		return "confirm"
	case ModalAlert:
		return "alert"
	}
	return "none"
}

// Modal is the blocking dialog of the view, at most one at a time.
type Modal struct {
	Kind    ModalKind
	Message string
	Link    string
}

// Open reports whether a dialog is shown.
func (m Modal) Open() bool { return m.Kind != ModalNone }

// Notice is a transient message that disappears at Expires.
type Notice struct {
	Message string
	Expires time.Time
}

// FormState is what a front end needs to draw a form.
type FormState struct {
	State  string
	Values form.Values
	// Link is set for the edit form.
	Link string
	// Error holds the reason the last submit was rejected.
	Error string
}

// Open reports whether the form is shown.
func (f FormState) Open() bool { return f.State == form.StateOpen }

// State is a consistent copy of everything the view shows.
type State struct {
	Records []model.Record
	Page    grid.PageView
	Modal   Modal
	// Notice is nil once expired.
	Notice *Notice
	Add    FormState
	Edit   FormState
	// Loaded is false until the first successful load.
	Loaded bool
}
