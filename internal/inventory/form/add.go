package form

import (
	"context"

	"github.com/autopeer-io/carstock/internal/inventory/model"
)

// AddForm collects a new car.
type AddForm struct {
	*machine
}

func NewAddForm() *AddForm {
	f := &AddForm{}
	f.machine = newMachine(buildNew, nil)
	return f
}

// Open shows an empty form.
func (f *AddForm) Open(ctx context.Context) error {
	return f.fire(ctx, EventOpen)
}

// Values is the initial input of an open add form.
func (f *AddForm) Values() Values {
	return Values{}
}

// Submit parses values into a new car and closes the form.
// Missing fields are left empty, blank numbers read as zero.
func (f *AddForm) Submit(ctx context.Context, values Values) (model.Car, error) {
	return f.submit(ctx, values)
}

func buildNew(values Values) (model.Car, error) {
	var car model.Car
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
