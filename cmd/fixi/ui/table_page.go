package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"coinfixi/internal/admin"
	"coinfixi/internal/api"
	"coinfixi/internal/logging"
	"coinfixi/internal/table"
)

// Page is one tab of the console.
type Page interface {
	Name() string
	Title() string
	// Activate is called when the tab is selected. The first activation
	// triggers a load.
	Activate() tea.Cmd
	Refresh() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
	SetSize(width, height int)
	// Capturing reports whether the page wants all key presses, e.g. while
	// the search box is focused.
	Capturing() bool
}

// Loader fetches the records of a page.
type Loader[K ~string] func(ctx context.Context) ([]table.Record[K], error)

// Action is a single-key operation on the selected record.
type Action struct {
	Key   string
	Label string
	Run   func(ctx context.Context, id string) error
}

type loadedMsg[K ~string] struct {
	page    string
	seq     int
	records []table.Record[K]
	err     error
}

type actionDoneMsg struct {
	page  string
	label string
	id    string
	err   error
}

// TablePage shows one admin resource through a table view.
type TablePage[K ~string] struct {
	res     *admin.Resource[K]
	load    Loader[K]
	actions []Action
	styles  Styles

	view    *table.View[K]
	records []table.Record[K]
	result  table.Result[K]
	loaded  bool
	seq     int
	timeout time.Duration

	spinner   spinner.Model
	search    textinput.Model
	searching bool
	col       int
	row       int
	offset    int
	detail    bool

	width  int
	height int
}

// NewTablePage builds a page for res that loads rows with load.
func NewTablePage[K ~string](res *admin.Resource[K], load Loader[K], styles Styles, actions ...Action) (*TablePage[K], error) {
	view, err := res.NewView()
	if err != nil {
		return nil, err
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 100
	ti.Width = 40

	p := &TablePage[K]{
		res:     res,
		load:    load,
		actions: actions,
		styles:  styles,
		view:    view,
		spinner: sp,
		search:  ti,
		width:   100,
		height:  24,
	}
	p.rerender()
	return p, nil
}

// NewResourcePage builds a page that fetches res through c.
func NewResourcePage[K ~string](res *admin.Resource[K], c *api.Client, pageSize int, styles Styles, actions ...Action) (*TablePage[K], error) {
	load := func(ctx context.Context) ([]table.Record[K], error) {
		recs, _, err := res.Fetch(ctx, c, api.ListParams{Page: 1, Limit: pageSize})
		return recs, err
	}
	return NewTablePage(res, load, styles, actions...)
}

// SetTimeout bounds each load. Zero leaves loads unbounded.
func (p *TablePage[K]) SetTimeout(d time.Duration) { p.timeout = d }

func (p *TablePage[K]) Name() string    { return p.res.Name }
func (p *TablePage[K]) Title() string   { return p.res.Title }
func (p *TablePage[K]) Capturing() bool { return p.searching }

// Result is the last render pass.
func (p *TablePage[K]) Result() table.Result[K] { return p.result }

// Selected returns the record under the cursor.
func (p *TablePage[K]) Selected() (table.Record[K], bool) {
	if p.result.Phase != table.Populated || p.row >= len(p.result.Rows) {
		return nil, false
	}
	return p.result.Rows[p.row], true
}

func (p *TablePage[K]) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.search.Width = max(10, width/3)
}

func (p *TablePage[K]) Activate() tea.Cmd {
	if p.loaded || p.view.Loading {
		return nil
	}
	return p.Refresh()
}

// Refresh starts a load. Records already shown stay until it completes.
func (p *TablePage[K]) Refresh() tea.Cmd {
	p.seq++
	seq := p.seq
	name := p.res.Name
	load := p.load
	timeout := p.timeout
	if !p.loaded {
		p.view.Loading = true
		p.rerender()
	}
	fetch := func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		recs, err := load(ctx)
		return loadedMsg[K]{page: name, seq: seq, records: recs, err: err}
	}
	return tea.Batch(p.spinner.Tick, fetch)
}

func (p *TablePage[K]) rerender() {
	p.result = p.view.Render(p.records)
	if n := len(p.result.Rows); p.row >= n {
		p.row = max(0, n-1)
	}
}

func (p *TablePage[K]) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[K]:
		if msg.page != p.res.Name || msg.seq != p.seq {
			return p, nil
		}
		p.view.Loading = false
		if msg.err != nil {
			logging.Get(logging.CategoryUI).Warnw("load failed", "resource", p.res.Name, "error", msg.err)
			p.rerender()
			return p, showToast("Failed to load "+strings.ToLower(p.res.Title), admin.ToneError)
		}
		p.records = msg.records
		p.loaded = true
		p.rerender()
		return p, nil

	case actionDoneMsg:
		if msg.page != p.res.Name {
			return p, nil
		}
		if msg.err != nil {
			return p, showToast(fmt.Sprintf("%s %s failed: %v", msg.label, msg.id, msg.err), admin.ToneError)
		}
		return p, tea.Batch(showToast(fmt.Sprintf("%s %s done", msg.label, msg.id), admin.ToneSuccess), p.Refresh())

	case spinner.TickMsg:
		if !p.view.Loading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		if p.searching {
			return p, p.updateSearch(msg)
		}
		return p, p.handleKey(msg)
	}
	return p, nil
}

func (p *TablePage[K]) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.search.SetValue("")
		p.searching = false
		p.search.Blur()
		p.view.SetQuery("")
		p.rerender()
		return nil
	case "enter":
		p.searching = false
		p.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	// Live filtering: every keystroke recomputes the derived rows.
	p.view.SetQuery(p.search.Value())
	p.rerender()
	return cmd
}

func (p *TablePage[K]) handleKey(msg tea.KeyMsg) tea.Cmd {
	cols := p.view.Columns()
	switch key := msg.String(); key {
	case "/":
		if !p.view.Searchable() {
			return nil
		}
		p.searching = true
		return p.search.Focus()
	case "left", "h":
		if p.col > 0 {
			p.col--
		}
	case "right", "l":
		if p.col < len(cols)-1 {
			p.col++
		}
	case "up", "k":
		if p.row > 0 {
			p.row--
		}
	case "down", "j":
		if p.row < len(p.result.Rows)-1 {
			p.row++
		}
	case "home", "g":
		p.row = 0
	case "end", "G":
		p.row = max(0, len(p.result.Rows)-1)
	case "s":
		if p.col < len(cols) && p.view.ToggleSort(cols[p.col].Key) {
			p.rerender()
		}
	case "c":
		p.view.State.ClearSort()
		p.rerender()
	case "r":
		return p.Refresh()
	case "enter":
		if _, ok := p.Selected(); ok {
			p.detail = !p.detail
		}
	case "esc":
		p.detail = false
	default:
		return p.runAction(key)
	}
	return nil
}

func (p *TablePage[K]) runAction(key string) tea.Cmd {
	for _, a := range p.actions {
		if a.Key != key {
			continue
		}
		rec, ok := p.Selected()
		if !ok {
			return nil
		}
		id := p.res.ID(rec)
		name, run, label := p.res.Name, a.Run, a.Label
		return func() tea.Msg {
			err := run(context.Background(), id)
			return actionDoneMsg{page: name, label: label, id: id, err: err}
		}
	}
	return nil
}

func (p *TablePage[K]) View() string {
	var sb strings.Builder

	head := p.styles.Title.Render(p.res.Title)
	if p.view.Searchable() && (p.searching || p.search.Value() != "") {
		head += "  " + p.search.View()
	}
	sb.WriteString(head)
	sb.WriteString("\n\n")

	switch p.result.Phase {
	case table.Loading:
		sb.WriteString(p.spinner.View() + " " + p.styles.Muted.Render(p.result.Message))
		sb.WriteString("\n")
		return sb.String()
	case table.Empty:
		sb.WriteString(p.styles.Muted.Render(p.result.Message))
		sb.WriteString("\n")
		return sb.String()
	}

	cols := p.view.Columns()
	grid := NewGrid(p.result.Headers)
	grid.Column = p.col
	grid.Widths = make([]int, len(cols))
	for i, c := range cols {
		grid.Widths[i] = c.Width
		if c.Key == p.view.State.SortColumn {
			grid.SortCol = i
			grid.SortDir = p.view.State.Direction
		}
	}

	visible := p.visibleRows()
	start, end := p.window(visible)
	grid.Cursor = p.row - start
	for r := start; r < end; r++ {
		grid.Rows = append(grid.Rows, p.result.Cells[r])
		tones := make([]admin.Tone, len(cols))
		for c, col := range cols {
			tones[c] = p.res.ToneOf(col.Key, p.result.Rows[r])
		}
		grid.Tones = append(grid.Tones, tones)
	}
	sb.WriteString(grid.View(p.styles))
	sb.WriteString(p.styles.Muted.Render(p.result.Summary()))
	if p.view.Loading {
		sb.WriteString("  " + p.spinner.View())
	}
	sb.WriteString("\n")

	if p.detail {
		if rec, ok := p.Selected(); ok {
			md := RecordMarkdown(p.res.Title+" "+p.res.ID(rec), rec)
			sb.WriteString(p.styles.Detail.Render(RenderMarkdown(md, p.width-4, p.styles.Theme.IsDark)))
			sb.WriteString("\n")
		}
	}
	sb.WriteString(p.help())
	return sb.String()
}

func (p *TablePage[K]) visibleRows() int {
	n := p.height - 8
	if p.detail {
		n = n / 2
	}
	return max(3, n)
}

// window keeps the cursor row inside the visible slice.
func (p *TablePage[K]) window(visible int) (int, int) {
	if p.row < p.offset {
		p.offset = p.row
	}
	if p.row >= p.offset+visible {
		p.offset = p.row - visible + 1
	}
	end := min(len(p.result.Rows), p.offset+visible)
	if p.offset > end {
		p.offset = 0
	}
	return p.offset, end
}

func (p *TablePage[K]) help() string {
	parts := []string{"↑/↓ row", "←/→ column", "s sort", "c clear sort", "enter detail", "r refresh"}
	if p.view.Searchable() {
		parts = append(parts, "/ search")
	}
	for _, a := range p.actions {
		parts = append(parts, a.Key+" "+a.Label)
	}
	return p.styles.Footer.Render(strings.Join(parts, " • "))
}
