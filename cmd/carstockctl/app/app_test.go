package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inventory is an in-memory HAL car collection served under /cars.
type inventory struct {
	mu      sync.Mutex
	next    int
	cars    map[int]map[string]any
	deletes int
	posts   int
}

func newInventory(t *testing.T) (*inventory, string) {
	t.Helper()
	inv := &inventory{cars: map[int]map[string]any{}}
	inv.add(map[string]any{"brand": "Toyota", "model": "Corolla", "color": "Silver", "year": 2020, "fuel": "Gasoline", "price": 18000})
	inv.add(map[string]any{"brand": "Ford", "model": "Mustang", "color": "Red", "year": 2016, "fuel": "Gasoline", "price": 26000})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /cars", inv.list)
	mux.HandleFunc("POST /cars", inv.create)
	mux.HandleFunc("PUT /cars/{id}", inv.update)
	mux.HandleFunc("DELETE /cars/{id}", inv.remove)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return inv, srv.URL
}

func (inv *inventory) add(car map[string]any) {
	inv.next++
	inv.cars[inv.next] = car
}

func (inv *inventory) car(id int) map[string]any {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.cars[id]
}

func (inv *inventory) len() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.cars)
}

func (inv *inventory) list(w http.ResponseWriter, r *http.Request) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	cars := []map[string]any{}
	for id := 1; id <= inv.next; id++ {
		car, ok := inv.cars[id]
		if !ok {
			continue
		}
		rec := map[string]any{"_links": map[string]any{"self": map[string]string{"href": fmt.Sprintf("/cars/%d", id)}}}
		for k, v := range car {
			rec[k] = v
		}
		cars = append(cars, rec)
	}
	w.Header().Set("Content-Type", "application/hal+json")
	_ = json.NewEncoder(w).Encode(map[string]any{"_embedded": map[string]any{"cars": cars}})
}

func (inv *inventory) create(w http.ResponseWriter, r *http.Request) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.posts++
	var car map[string]any
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	inv.add(car)
	w.WriteHeader(http.StatusCreated)
}

func (inv *inventory) update(w http.ResponseWriter, r *http.Request) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	var id int
	_, _ = fmt.Sscanf(r.PathValue("id"), "%d", &id)
	var car map[string]any
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	inv.cars[id] = car
	w.WriteHeader(http.StatusOK)
}

func (inv *inventory) remove(w http.ResponseWriter, r *http.Request) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.deletes++
	var id int
	_, _ = fmt.Sscanf(r.PathValue("id"), "%d", &id)
	if _, ok := inv.cars[id]; !ok {
		http.NotFound(w, r)
		return
	}
	delete(inv.cars, id)
	w.WriteHeader(http.StatusNoContent)
}

// execute runs carstockctl against base with stdin as input.
func execute(t *testing.T, base, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewApp().Command()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--api.base-url", base+"/cars"))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListPrintsSortedTable(t *testing.T) {
	_, base := newInventory(t)

	out, err := execute(t, base, "", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "BRAND")
	assert.Contains(t, out, "PRICE (€)")
	assert.Contains(t, out, "LINK")
	assert.Contains(t, out, base+"/cars/1")
	assert.Contains(t, out, "Page 1 of 1 (2 of 2 cars)")
	assert.Less(t, strings.Index(out, "Ford"), strings.Index(out, "Toyota"))
}

func TestListSortAndFilter(t *testing.T) {
	_, base := newInventory(t)

	out, err := execute(t, base, "", "list", "--sort", "-price")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Mustang"), strings.Index(out, "Corolla"))

	out, err = execute(t, base, "", "list", "--filter", "brand=toy")
	require.NoError(t, err)
	assert.Contains(t, out, "Corolla")
	assert.NotContains(t, out, "Mustang")
	assert.Contains(t, out, "(1 of 2 cars)")

	out, err = execute(t, base, "", "list", "--filter", "year=2015..2017", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Mustang")
	assert.NotContains(t, out, "Corolla")
	assert.Contains(t, out, "1 of 2 cars")
}

func TestListRejectsBadFilter(t *testing.T) {
	_, base := newInventory(t)

	_, err := execute(t, base, "", "list", "--filter", "vin=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column")

	_, err = execute(t, base, "", "list", "--filter", "price")
	assert.Error(t, err)

	_, err = execute(t, base, "", "list", "--filter", "price=>cheap")
	assert.Error(t, err)
}

func TestLoadFailureRaisesAlert(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := execute(t, base, "", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Something went wrong")
}

func TestAddCreatesCar(t *testing.T) {
	inv, base := newInventory(t)

	out, err := execute(t, base, "", "add", "--brand", "Kia", "--model", "Ceed", "--year", "2021", "--price", "21000")
	require.NoError(t, err)
	assert.Contains(t, out, "Car created")

	require.Equal(t, 3, inv.len())
	car := inv.car(3)
	assert.Equal(t, "Kia", car["brand"])
	assert.EqualValues(t, 2021, car["year"])
	assert.EqualValues(t, 21000, car["price"])
}

func TestAddRejectsUnparsableYear(t *testing.T) {
	inv, base := newInventory(t)

	_, err := execute(t, base, "", "add", "--brand", "Kia", "--year", "soon")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "Something went wrong")
	assert.Zero(t, inv.posts)
	assert.Equal(t, 2, inv.len())
}

func TestEditKeepsUnchangedFields(t *testing.T) {
	inv, base := newInventory(t)

	out, err := execute(t, base, "", "edit", "/cars/2", "--price", "24500")
	require.NoError(t, err)
	assert.Contains(t, out, "Car updated")

	car := inv.car(2)
	assert.EqualValues(t, 24500, car["price"])
	assert.Equal(t, "Ford", car["brand"])
	assert.Equal(t, "Mustang", car["model"])
	assert.EqualValues(t, 2016, car["year"])
}

func TestEditUnknownCar(t *testing.T) {
	_, base := newInventory(t)

	_, err := execute(t, base, "", "edit", "/cars/9", "--price", "1")
	assert.Error(t, err)
}

func TestDeleteAsksFirst(t *testing.T) {
	inv, base := newInventory(t)

	out, err := execute(t, base, "n\n", "delete", base+"/cars/1")
	require.NoError(t, err)
	assert.Contains(t, out, "Toyota Corolla (2020, Silver)")
	assert.Contains(t, out, "Are you sure? [y/N]")
	assert.Contains(t, out, "Cancelled")
	assert.Zero(t, inv.deletes)

	out, err = execute(t, base, "", "delete", base+"/cars/1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Zero(t, inv.deletes)

	out, err = execute(t, base, "yes\n", "delete", base+"/cars/1")
	require.NoError(t, err)
	assert.Contains(t, out, "Car deleted")
	assert.Equal(t, 1, inv.deletes)
	assert.Equal(t, 1, inv.len())
}

func TestDeleteWithoutPrompt(t *testing.T) {
	inv, base := newInventory(t)

	out, err := execute(t, base, "", "delete", "--yes", "/cars/2")
	require.NoError(t, err)
	assert.NotContains(t, out, "Are you sure?")
	assert.Contains(t, out, "Car deleted")
	assert.Equal(t, 1, inv.deletes)
}

func TestDeleteUnknownCarSendsNothing(t *testing.T) {
	inv, base := newInventory(t)

	_, err := execute(t, base, "", "delete", "--yes", "/cars/9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no car at")
	assert.Zero(t, inv.deletes)
}

func TestExportToStdout(t *testing.T) {
	_, base := newInventory(t)

	out, err := execute(t, base, "", "export", "--sort", "-year")
	require.NoError(t, err)
	assert.Equal(t, "Brand;Model;Color;Year;Fuel;Price (€)\n"+
		"Toyota;Corolla;Silver;2020;Gasoline;18000\n"+
		"Ford;Mustang;Red;2016;Gasoline;26000\n", out)
}

func TestExportToFile(t *testing.T) {
	_, base := newInventory(t)
	path := filepath.Join(t.TempDir(), "cars.csv")

	out, err := execute(t, base, "", "export", "--filter", "brand=ford", "--grid.csv-separator", ",", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Brand,Model,Color,Year,Fuel,Price (€)\n"+
		"Ford,Mustang,Red,2016,Gasoline,26000\n", string(data))
}

func TestExportUploadNeedsStorage(t *testing.T) {
	_, base := newInventory(t)

	_, err := execute(t, base, "", "export", "--upload")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--s3.enabled")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, confirm(strings.NewReader(tt.in), &out, "Are you sure?"), "input %q", tt.in)
		assert.True(t, strings.HasPrefix(out.String(), "Are you sure? [y/N] "))
	}
}
