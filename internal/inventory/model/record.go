package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// Link is a HAL link object.
type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

// Links maps a relation name to its link.
type Links map[string]Link

// Record is a car as served by the resource, with its links.
// The self link is the record's identity for update and delete.
type Record struct {
	Car   Car
	Links Links
}

// Self returns the self link, or "" when the server sent none.
func (r Record) Self() string {
	return r.Links["self"].Href
}

// Field extends Car.Field with the self link.
func (r Record) Field(name string) (any, bool) {
	if name == FieldSelf {
		return r.Self(), true
	}
	return r.Car.Field(name)
}

func (r Record) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(r.Car)
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if len(r.Links) > 0 {
		links, err := json.Marshal(r.Links)
		if err != nil {
			return nil, err
		}
		out["_links"] = links
	}
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var car Car
	if err := json.Unmarshal(data, &car); err != nil {
		return err
	}
	var links struct {
		Links Links `json:"_links"`
	}
	if err := json.Unmarshal(data, &links); err != nil {
		return err
	}
	r.Car = car
	r.Links = links.Links
	return nil
}

// Page is the optional paging block of a collection response.
type Page struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

// Embedded holds the records of a collection response.
type Embedded struct {
	Cars []Record `json:"cars"`
}

// Envelope is the collection response: records nested under _embedded.cars.
// Embedded is nil when the body has no _embedded object at all.
type Envelope struct {
	Embedded *Embedded `json:"_embedded"`
	Links    Links     `json:"_links,omitempty"`
	Page     *Page     `json:"page,omitempty"`
}

// ErrNoEmbedded is returned for a collection response without _embedded.
var ErrNoEmbedded = errors.New("response has no _embedded collection")

// Validate rejects bodies that are not a collection response. An empty
// _embedded object is a valid, empty collection.
func (e *Envelope) Validate() error {
	if e.Embedded == nil {
		return ErrNoEmbedded
	}
	return nil
}

// Cars returns the embedded records, never nil.
func (e *Envelope) Cars() []Record {
	if e.Embedded == nil || e.Embedded.Cars == nil {
		return []Record{}
	}
	return e.Embedded.Cars
}

// ResolveLinks rewrites relative hrefs against base.
func (e *Envelope) ResolveLinks(base *url.URL) error {
	if e.Embedded == nil {
		return nil
	}
	for i := range e.Embedded.Cars {
		for rel, l := range e.Embedded.Cars[i].Links {
			abs, err := ResolveHref(base, l.Href)
			if err != nil {
				return fmt.Errorf("record %d link %q: %w", i, rel, err)
			}
			l.Href = abs
			e.Embedded.Cars[i].Links[rel] = l
		}
	}
	return nil
}

// ResolveHref resolves href against base. Absolute hrefs are returned unchanged.
func ResolveHref(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() || base == nil {
		return href, nil
	}
	return base.ResolveReference(ref).String(), nil
}
