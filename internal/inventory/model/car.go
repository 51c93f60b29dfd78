// Package model holds the car record exchanged with the remote inventory resource.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Attribute names, in the fixed export order.
const (
	FieldBrand = "brand"
	FieldModel = "model"
	FieldColor = "color"
	FieldYear  = "year"
	FieldFuel  = "fuel"
	FieldPrice = "price"

	// FieldSelf addresses the record's self link.
	FieldSelf = "_links.self.href"
)

// Fields lists the six car attributes in export order.
var Fields = []string{FieldBrand, FieldModel, FieldColor, FieldYear, FieldFuel, FieldPrice}

// Car is the editable part of an inventory record.
type Car struct {
	Brand string  `json:"brand"`
	Model string  `json:"model"`
	Color string  `json:"color"`
	Year  int     `json:"year"`
	Fuel  string  `json:"fuel"`
	Price float64 `json:"price"`

	// Extra keeps attributes the console does not display so that a full
	// replacement sends them back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

type carAlias Car

// MarshalJSON emits the six attributes plus Extra. Known attributes win over Extra keys.
func (c Car) MarshalJSON() ([]byte, error) {
	if len(c.Extra) == 0 {
		return json.Marshal(carAlias(c))
	}

	out := make(map[string]any, len(c.Extra)+len(Fields))
	for k, v := range c.Extra {
		out[k] = v
	}
	out[FieldBrand] = c.Brand
	out[FieldModel] = c.Model
	out[FieldColor] = c.Color
	out[FieldYear] = c.Year
	out[FieldFuel] = c.Fuel
	out[FieldPrice] = c.Price
	return json.Marshal(out)
}

// UnmarshalJSON decodes the six attributes and keeps everything else except _links in Extra.
func (c *Car) UnmarshalJSON(data []byte) error {
	var a carAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, f := range Fields {
		delete(all, f)
	}
	delete(all, "_links")

	*c = Car(a)
	c.Extra = nil
	if len(all) > 0 {
		c.Extra = all
	}
	return nil
}

// Field returns the value of a named attribute: string for text attributes,
// int for year and float64 for price.
func (c Car) Field(name string) (any, bool) {
	switch name {
	case FieldBrand:
		return c.Brand, true
	case FieldModel:
		return c.Model, true
	case FieldColor:
		return c.Color, true
	case FieldYear:
		return c.Year, true
	case FieldFuel:
		return c.Fuel, true
	case FieldPrice:
		return c.Price, true
	}
	return nil, false
}

// SetField parses text input into the named attribute.
// Blank numeric input reads as zero, matching an empty number input.
func (c *Car) SetField(name, value string) error {
	switch name {
	case FieldBrand:
		c.Brand = value
	case FieldModel:
		c.Model = value
	case FieldColor:
		c.Color = value
	case FieldFuel:
		c.Fuel = value
	case FieldYear:
		v := strings.TrimSpace(value)
		if v == "" {
			c.Year = 0
			return nil
		}
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("year: %q is not a whole number", value)
		}
		c.Year = year
	case FieldPrice:
		v := strings.TrimSpace(value)
		if v == "" {
			c.Price = 0
			return nil
		}
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("price: %q is not a number", value)
		}
		c.Price = price
	default:
		return fmt.Errorf("unknown car attribute %q", name)
	}
	return nil
}

// FormatField renders an attribute as text, the inverse of SetField.
func (c Car) FormatField(name string) string {
	v, ok := c.Field(name)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// Clone returns a deep copy, Extra included.
func (c Car) Clone() Car {
	out := c
	if c.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}
