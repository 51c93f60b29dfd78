package ui

import (
	"embed"
	"html/template"
	"time"

	"github.com/autopeer-io/carstock/internal/inventory/grid"
	"github.com/autopeer-io/carstock/internal/inventory/model"
	"github.com/autopeer-io/carstock/internal/inventory/view"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(
	template.New("index.html").ParseFS(templatesFS, "templates/index.html"),
)

type columnHeader struct {
	ID         string
	Header     string
	Width      int
	Sortable   bool
	Filterable bool
	Numeric    bool
	// SortDir is "asc", "desc" or empty.
	SortDir  string
	SortHref string
	Filter   string
}

type fieldInput struct {
	Name  string
	Label string
	Type  string
	Step  string
	Value string
}

type formData struct {
	Open   bool
	Action string
	Title  string
	Link   string
	Error  string
	Fields []fieldInput
}

type pageData struct {
	Columns  []columnHeader
	Page     grid.PageView
	PrevHref string
	NextHref string
	// Sort keeps the sort order across filter submits.
	Sort string

	Confirm *view.Modal
	Alert   *view.Modal
	Notice  *view.Notice
	// NoticeMillis is the remaining lifetime of the notice.
	NoticeMillis int64

	Add  formData
	Edit formData

	UploadEnabled bool
	Loaded        bool
}

var fieldLabels = map[string]string{
	model.FieldBrand: "Brand",
	model.FieldModel: "Model",
	model.FieldColor: "Color",
	model.FieldYear:  "Year",
	model.FieldFuel:  "Fuel",
	model.FieldPrice: "Price",
}

func newPageData(s view.State, now time.Time, uploadEnabled bool) pageData {
	q := s.Page.Query
	d := pageData{
		Page:          s.Page,
		Sort:          grid.FormatSort(q.Sort),
		UploadEnabled: uploadEnabled,
		Loaded:        s.Loaded,
		Add:           newFormData(s.Add, "/cars", "New car"),
		Edit:          newFormData(s.Edit, "/cars/update", "Edit car"),
	}

	sortDir := map[string]string{}
	for _, k := range q.Sort {
		if k.Desc {
			sortDir[k.Column] = "desc"
		} else {
			sortDir[k.Column] = "asc"
		}
	}

	for _, c := range s.Page.Columns {
		h := columnHeader{
			ID:         c.ID,
			Header:     c.Header,
			Width:      c.Width,
			Sortable:   c.Sortable(),
			Filterable: c.Filterable(),
			Numeric:    c.Kind == grid.KindNumber,
			SortDir:    sortDir[c.ID],
		}
		if h.Sortable {
			next := q
			next.Sort = toggleSort(q.Sort, c.ID)
			next.Page = 1
			h.SortHref = "/?" + encodeQuery(next).Encode()
		}
		if f, ok := q.Filters[c.ID]; ok {
			h.Filter = f.String()
		}
		d.Columns = append(d.Columns, h)
	}

	if s.Page.Page > 1 {
		d.PrevHref = pageHref(q, s.Page.Page-1)
	}
	if s.Page.Page < s.Page.Pages {
		d.NextHref = pageHref(q, s.Page.Page+1)
	}

	switch s.Modal.Kind {
	case view.ModalConfirm:
		m := s.Modal
		d.Confirm = &m
	case view.ModalAlert:
		m := s.Modal
		d.Alert = &m
	}

	if s.Notice != nil {
		d.Notice = s.Notice
		d.NoticeMillis = max(s.Notice.Expires.Sub(now).Milliseconds(), 0)
	}
	return d
}

func newFormData(s view.FormState, action, title string) formData {
	fd := formData{
		Open:   s.Open(),
		Action: action,
		Title:  title,
		Link:   s.Link,
		Error:  s.Error,
	}
	for _, name := range model.Fields {
		in := fieldInput{Name: name, Label: fieldLabels[name], Type: "text", Value: s.Values[name]}
		switch name {
		case model.FieldYear:
			in.Type, in.Step = "number", "1"
		case model.FieldPrice:
			in.Type, in.Step = "number", "any"
		}
		fd.Fields = append(fd.Fields, in)
	}
	return fd
}
