package form

import (
	"context"
	"errors"

	"github.com/autopeer-io/carstock/internal/inventory/model"
)

// EditForm edits an existing record addressed by its self link.
type EditForm struct {
	*machine

	link     string
	original model.Car
}

func NewEditForm() *EditForm {
	f := &EditForm{}
	f.machine = newMachine(f.merge, f.clear)
	return f
}

// Open shows the form pre-populated from rec.
func (f *EditForm) Open(ctx context.Context, rec model.Record) error {
	link := rec.Self()
	if link == "" {
		return errors.New("record has no self link")
	}
	if err := f.fire(ctx, EventOpen); err != nil {
		return err
	}
	f.link = link
	f.original = rec.Car.Clone()
	return nil
}

// Link is the self link of the record being edited.
func (f *EditForm) Link() string { return f.link }

// Values is the initial input of an open edit form.
func (f *EditForm) Values() Values {
	if !f.IsOpen() {
		return Values{}
	}
	return ValuesOf(f.original)
}

// Submit merges values over the original record and closes the form.
// It returns the link to PUT to and the full replacement body.
func (f *EditForm) Submit(ctx context.Context, values Values) (string, model.Car, error) {
	link := f.link
	car, err := f.submit(ctx, values)
	if err != nil {
		return "", model.Car{}, err
	}
	return link, car, nil
}

func (f *EditForm) merge(values Values) (model.Car, error) {
	car := f.original.Clone()
	for _, name := range model.Fields {
		v, ok := values[name]
		if !ok {
			continue
		}
		if err := car.SetField(name, v); err != nil {
			return model.Car{}, err
		}
	}
	return car, nil
}

func (f *EditForm) clear() {
	f.link = ""
	f.original = model.Car{}
}
