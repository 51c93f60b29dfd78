package form

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/carstock/internal/inventory/model"
)

func TestAddFormLifecycle(t *testing.T) {
	ctx := context.Background()
	f := NewAddForm()
	assert.Equal(t, StateClosed, f.State())

	require.NoError(t, f.Open(ctx))
	assert.True(t, f.IsOpen())

	car, err := f.Submit(ctx, Values{
		"brand": "Toyota", "model": "Corolla", "color": "Silver",
		"year": "2020", "fuel": "Gasoline", "price": "18000",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Car{Brand: "Toyota", Model: "Corolla", Color: "Silver", Year: 2020, Fuel: "Gasoline", Price: 18000}, car)
	assert.Equal(t, StateClosed, f.State())
}

func TestAddFormBlankNumbersReadAsZero(t *testing.T) {
	ctx := context.Background()
	f := NewAddForm()
	require.NoError(t, f.Open(ctx))

	car, err := f.Submit(ctx, Values{"brand": "Kia", "year": "", "price": " "})
	require.NoError(t, err)
	assert.Equal(t, model.Car{Brand: "Kia"}, car)
}

func TestAddFormRejectsUnparsableInput(t *testing.T) {
	ctx := context.Background()
	f := NewAddForm()
	require.NoError(t, f.Open(ctx))

	_, err := f.Submit(ctx, Values{"year": "twenty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "year")
	assert.Equal(t, StateOpen, f.State())

	_, err = f.Submit(ctx, Values{"year": "2021"})
	assert.NoError(t, err)
}

func TestInvalidEventsLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := NewAddForm()

	_, err := f.Submit(ctx, Values{"brand": "Kia"})
	assert.Error(t, err)
	assert.Error(t, f.Cancel(ctx))
	assert.Equal(t, StateClosed, f.State())

	require.NoError(t, f.Open(ctx))
	assert.Error(t, f.Open(ctx))
	assert.Equal(t, StateOpen, f.State())

	require.NoError(t, f.Cancel(ctx))
	assert.Equal(t, StateClosed, f.State())
}

func editRecord(t *testing.T) model.Record {
	t.Helper()
	var rec model.Record
	body := `{"brand":"Ford","model":"Mustang","color":"Red","year":2016,"fuel":"Gasoline","price":26000,
		"vin":"1FA6P8","_links":{"self":{"href":"https://example.test/cars/2"}}}`
	require.NoError(t, json.Unmarshal([]byte(body), &rec))
	return rec
}

func TestEditFormMergesOverOriginal(t *testing.T) {
	ctx := context.Background()
	rec := editRecord(t)

	f := NewEditForm()
	require.NoError(t, f.Open(ctx, rec))
	assert.Equal(t, "https://example.test/cars/2", f.Link())
	assert.Equal(t, "26000", f.Values()["price"])

	link, car, err := f.Submit(ctx, Values{"price": "24500", "color": "Black"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/cars/2", link)
	assert.Equal(t, "Ford", car.Brand)
	assert.Equal(t, "Black", car.Color)
	assert.Equal(t, 2016, car.Year)
	assert.Equal(t, 24500.0, car.Price)
	assert.JSONEq(t, `"1FA6P8"`, string(car.Extra["vin"]))

	assert.Equal(t, StateClosed, f.State())
	assert.Empty(t, f.Link())
}

func TestEditFormUnmodifiedSubmitEqualsOriginal(t *testing.T) {
	ctx := context.Background()
	rec := editRecord(t)

	f := NewEditForm()
	require.NoError(t, f.Open(ctx, rec))

	_, car, err := f.Submit(ctx, f.Values())
	require.NoError(t, err)

	want, err := json.Marshal(rec.Car)
	require.NoError(t, err)
	got, err := json.Marshal(car)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestEditFormRequiresSelfLink(t *testing.T) {
	f := NewEditForm()
	assert.Error(t, f.Open(context.Background(), model.Record{Car: model.Car{Brand: "Kia"}}))
	assert.Equal(t, StateClosed, f.State())
}

func TestValuesFrom(t *testing.T) {
	src := url.Values{"brand": {"Kia"}, "price": {""}, "csrf": {"x"}}
	assert.Equal(t, Values{"brand": "Kia", "price": ""}, ValuesFrom(src))
}
