package table

import "fmt"

// DefaultEmptyMessage is shown when the derived list has no rows.
const DefaultEmptyMessage = "No data available"

// DefaultLoadingMessage is the placeholder shown while a load is pending.
const DefaultLoadingMessage = "Loading..."

// Phase is the render state of a View.
type Phase int

const (
	Idle Phase = iota
	Loading
	Empty
	Populated
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	default:
		return "idle"
	}
}

// ViewState is the transient search and sort state of one table instance.
type ViewState[K ~string] struct {
	Query      string
	SortColumn K
	Direction  Direction
}

// ToggleSort applies a header click: the active column flips direction,
// any other column becomes active in ascending order.
func (s *ViewState[K]) ToggleSort(key K) {
	if s.SortColumn == key {
		s.Direction = s.Direction.Flip()
		return
	}
	s.SortColumn = key
	s.Direction = Asc
}

// ClearSort returns the view to input order.
func (s *ViewState[K]) ClearSort() {
	var zero K
	s.SortColumn = zero
	s.Direction = Asc
}

// Options configures a View.
type Options struct {
	Searchable     bool
	EmptyMessage   string
	LoadingMessage string
}

// View composes filter, sort and rendering for one table.
type View[K ~string] struct {
	columns []Column[K]
	opts    Options

	Loading bool
	State   ViewState[K]
}

// NewView validates the column set and returns a view with default state.
func NewView[K ~string](columns []Column[K], opts Options) (*View[K], error) {
	if err := checkColumns(columns); err != nil {
		return nil, err
	}
	if opts.EmptyMessage == "" {
		opts.EmptyMessage = DefaultEmptyMessage
	}
	if opts.LoadingMessage == "" {
		opts.LoadingMessage = DefaultLoadingMessage
	}
	return &View[K]{
		columns: columns,
		opts:    opts,
		State:   ViewState[K]{Direction: Asc},
	}, nil
}

// Columns returns the column descriptors in display order.
func (v *View[K]) Columns() []Column[K] { return v.columns }

// Searchable reports whether the view exposes a search box.
func (v *View[K]) Searchable() bool { return v.opts.Searchable }

// EmptyMessage is the text rendered for an empty derived list.
func (v *View[K]) EmptyMessage() string { return v.opts.EmptyMessage }

// Column looks up a column by key.
func (v *View[K]) Column(key K) (Column[K], bool) {
	for _, c := range v.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[K]{}, false
}

// ToggleSort toggles sort on key when that column is sortable.
func (v *View[K]) ToggleSort(key K) bool {
	c, ok := v.Column(key)
	if !ok || !c.Sortable {
		return false
	}
	v.State.ToggleSort(key)
	return true
}

// SetQuery replaces the search query. Ignored when the view is not searchable.
func (v *View[K]) SetQuery(q string) {
	if !v.opts.Searchable {
		return
	}
	v.State.Query = q
}

// Derive filters then sorts records. Sorting always sees the filtered set.
func (v *View[K]) Derive(records []Record[K]) []Record[K] {
	filtered := Filter(records, v.State.Query)
	return Sort(filtered, v.State.SortColumn, v.State.Direction)
}

// Result is the outcome of one render pass.
type Result[K ~string] struct {
	Phase   Phase
	Headers []string
	Rows    []Record[K]
	Cells   [][]string
	// Message holds the placeholder in the Loading phase and the empty
	// message in the Empty phase.
	Message string
	Shown   int
	Total   int
}

// Summary mirrors the footer under a populated table.
func (r Result[K]) Summary() string {
	if r.Phase != Populated {
		return ""
	}
	return fmt.Sprintf("Showing %d of %d results", r.Shown, r.Total)
}

// Render runs one pass over records. Renderer panics are not recovered.
func (v *View[K]) Render(records []Record[K]) Result[K] {
	res := Result[K]{Headers: v.headers(), Total: len(records)}
	if v.Loading {
		res.Phase = Loading
		res.Message = v.opts.LoadingMessage
		return res
	}

	rows := v.Derive(records)
	if len(rows) == 0 {
		res.Phase = Empty
		res.Message = v.opts.EmptyMessage
		return res
	}

	res.Phase = Populated
	res.Rows = rows
	res.Shown = len(rows)
	res.Cells = make([][]string, len(rows))
	for i, rec := range rows {
		line := make([]string, len(v.columns))
		for j, c := range v.columns {
			line[j] = c.Cell(rec)
		}
		res.Cells[i] = line
	}
	return res
}

func (v *View[K]) headers() []string {
	out := make([]string, len(v.columns))
	for i, c := range v.columns {
		out[i] = c.Label
	}
	return out
}
