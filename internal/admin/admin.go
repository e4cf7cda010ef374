// Package admin is the catalog of admin resources: for each screen the
// field keys, columns, badge tones and the API call that loads its rows.
// The CLI, the terminal UI and the gateway all render from these
// definitions through the record table.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"coinfixi/internal/api"
	"coinfixi/internal/table"
)

var (
	// ErrUnknownResource is returned by Lookup for a name not in the catalog.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrUnsortableColumn is returned when a query sorts on a column that
	// does not exist or is not sortable.
	ErrUnsortableColumn = errors.New("column is not sortable")
)

// Tone is the visual weight of a badge.
type Tone int

const (
	ToneDefault Tone = iota
	ToneSuccess
	ToneWarning
	ToneError
	ToneInfo
)

func (t Tone) String() string {
	switch t {
	case ToneSuccess:
		return "success"
	case ToneWarning:
		return "warning"
	case ToneError:
		return "error"
	case ToneInfo:
		return "info"
	default:
		return "default"
	}
}

// ToneFunc picks a tone for a cell value.
type ToneFunc func(value any) Tone

// Variants maps enum values to tones. Unknown values get ToneDefault.
func Variants(m map[string]Tone) ToneFunc {
	return func(v any) Tone {
		s, _ := v.(string)
		return m[s]
	}
}

// Threshold tones a score: above hi is an error, above mid a warning.
func Threshold(mid, hi float64) ToneFunc {
	return func(v any) Tone {
		n, ok := number(v)
		switch {
		case !ok:
			return ToneDefault
		case n > hi:
			return ToneError
		case n > mid:
			return ToneWarning
		default:
			return ToneSuccess
		}
	}
}

// FetchFunc loads the rows of a resource.
type FetchFunc[K ~string] func(ctx context.Context, c *api.Client, p api.ListParams) ([]table.Record[K], api.Pagination, error)

// Resource describes one admin screen.
type Resource[K ~string] struct {
	Name         string
	Title        string
	EmptyMessage string
	Searchable   bool
	// IDKey identifies a record for actions and detail views.
	IDKey   K
	Columns []table.Column[K]
	Tones   map[K]ToneFunc
	Fetch   FetchFunc[K]
}

// NewView builds a fresh table view for the resource.
func (r *Resource[K]) NewView() (*table.View[K], error) {
	return table.NewView(r.Columns, table.Options{
		Searchable:     r.Searchable,
		EmptyMessage:   r.EmptyMessage,
		LoadingMessage: "Loading " + strings.ToLower(r.Title) + "...",
	})
}

// ToneOf returns the badge tone for the cell at key, if the column has one.
func (r *Resource[K]) ToneOf(key K, rec table.Record[K]) Tone {
	if f, ok := r.Tones[key]; ok {
		return f(rec.Get(key))
	}
	return ToneDefault
}

// ID returns the record's identifier as a string.
func (r *Resource[K]) ID(rec table.Record[K]) string {
	return table.Stringify(rec.Get(r.IDKey))
}

// Query is a type-erased table request: server-side paging plus the
// client-side search and sort applied by the record table.
type Query struct {
	Params api.ListParams
	Search string
	Sort   string
	Dir    table.Direction
}

// Snapshot is a rendered table in plain data form.
type Snapshot struct {
	Resource   string           `json:"resource"`
	Title      string           `json:"title"`
	Phase      string           `json:"phase"`
	Keys       []string         `json:"keys"`
	Headers    []string         `json:"headers"`
	Cells      [][]string       `json:"cells"`
	Records    []map[string]any `json:"records"`
	Message    string           `json:"message,omitempty"`
	Shown      int              `json:"shown"`
	Total      int              `json:"total"`
	Pagination api.Pagination   `json:"pagination"`
}

// Summary is the footer line under a populated table.
func (s *Snapshot) Summary() string {
	if s.Phase != table.Populated.String() {
		return ""
	}
	return fmt.Sprintf("Showing %d of %d results", s.Shown, s.Total)
}

// Table is a resource with its key type erased, for callers that select
// resources by name.
type Table interface {
	ResourceName() string
	ResourceTitle() string
	Keys() []string
	Load(ctx context.Context, c *api.Client, q Query) (*Snapshot, error)
}

func (r *Resource[K]) ResourceName() string  { return r.Name }
func (r *Resource[K]) ResourceTitle() string { return r.Title }

// Keys returns the column keys in display order.
func (r *Resource[K]) Keys() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = string(c.Key)
	}
	return out
}

// Load fetches the resource and renders it with q's search and sort.
func (r *Resource[K]) Load(ctx context.Context, c *api.Client, q Query) (*Snapshot, error) {
	recs, page, err := r.Fetch(ctx, c, q.Params)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.Name, err)
	}
	snap, err := r.Render(recs, q)
	if err != nil {
		return nil, err
	}
	snap.Pagination = page
	return snap, nil
}

// Render derives and renders already loaded records.
func (r *Resource[K]) Render(recs []table.Record[K], q Query) (*Snapshot, error) {
	view, err := r.NewView()
	if err != nil {
		return nil, fmt.Errorf("%s columns: %w", r.Name, err)
	}
	view.SetQuery(q.Search)
	if q.Sort != "" {
		if !view.ToggleSort(K(q.Sort)) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnsortableColumn, r.Name, q.Sort)
		}
		if q.Dir == table.Desc {
			view.State.Direction = table.Desc
		}
	}

	res := view.Render(recs)
	snap := &Snapshot{
		Resource: r.Name,
		Title:    r.Title,
		Phase:    res.Phase.String(),
		Keys:     r.Keys(),
		Headers:  res.Headers,
		Cells:    res.Cells,
		Message:  res.Message,
		Shown:    res.Shown,
		Total:    res.Total,
		Records:  make([]map[string]any, len(res.Rows)),
	}
	for i, row := range res.Rows {
		m := make(map[string]any, len(row))
		for k, v := range row {
			m[string(k)] = v
		}
		snap.Records[i] = m
	}
	return snap, nil
}

// paged adapts a paginated list endpoint.
func paged[K ~string](path string, fixed map[string]string) FetchFunc[K] {
	return func(ctx context.Context, c *api.Client, p api.ListParams) ([]table.Record[K], api.Pagination, error) {
		if len(fixed) > 0 {
			merged := make(map[string]string, len(fixed)+len(p.Filters))
			for k, v := range fixed {
				merged[k] = v
			}
			for k, v := range p.Filters {
				merged[k] = v
			}
			p.Filters = merged
		}
		page, err := api.ListRecords[K](ctx, c, path, p)
		if err != nil {
			return nil, api.Pagination{}, err
		}
		return page.Data, page.Pagination, nil
	}
}

// whole adapts an endpoint that returns every row at once.
func whole[K ~string](path string) FetchFunc[K] {
	return func(ctx context.Context, c *api.Client, _ api.ListParams) ([]table.Record[K], api.Pagination, error) {
		rows, err := api.AllRecords[K](ctx, c, path)
		if err != nil {
			return nil, api.Pagination{}, err
		}
		return rows, api.Pagination{Page: 1, Limit: len(rows), Total: len(rows), Pages: 1}, nil
	}
}

var catalog = map[string]Table{}

func register(t Table) {
	catalog[t.ResourceName()] = t
}

// Lookup finds a resource by name, case-insensitively.
func Lookup(name string) (Table, error) {
	if t, ok := catalog[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownResource, name, strings.Join(Names(), ", "))
}

// Names lists the catalog in alphabetical order.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for n := range catalog {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
