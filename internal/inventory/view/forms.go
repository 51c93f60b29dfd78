package view

import (
	"context"
	"fmt"

	"github.com/autopeer-io/carstock/internal/inventory/form"
)

// OpenAdd shows the add form.
func (v *View) OpenAdd(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.addErr = ""
	return v.add.Open(ctx)
}

// SubmitAdd closes the add form and creates the car it produced.
// Unparsable input keeps the form open and nothing is sent.
func (v *View) SubmitAdd(ctx context.Context, values form.Values) error {
	v.mu.Lock()
	car, err := v.add.Submit(ctx, values)
	if err != nil {
		v.addErr = err.Error()
		v.mu.Unlock()
		return err
	}
	v.addErr = ""
	v.mu.Unlock()

	return v.Create(ctx, car)
}

// OpenEdit shows the edit form for the record at link.
func (v *View) OpenEdit(ctx context.Context, link string) error {
	rec, ok := v.Record(link)
	if !ok {
		return fmt.Errorf("edit: no car at %q", link)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.editErr = ""
	return v.edit.Open(ctx, rec)
}

// EditLink is the self link of the record in the open edit form, or "".
func (v *View) EditLink() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.edit.Link()
}

// SubmitEdit closes the edit form and sends the merged record.
func (v *View) SubmitEdit(ctx context.Context, values form.Values) error {
	v.mu.Lock()
	link, car, err := v.edit.Submit(ctx, values)
	if err != nil {
		v.editErr = err.Error()
		v.mu.Unlock()
		return err
	}
	v.editErr = ""
	v.mu.Unlock()

	return v.Update(ctx, link, car)
}

// CancelForms closes whichever form is open.
func (v *View) CancelForms(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.add.IsOpen() {
		_ = v.add.Cancel(ctx)
	}
	if v.edit.IsOpen() {
		_ = v.edit.Cancel(ctx)
	}
	v.addErr, v.editErr = "", ""
}
