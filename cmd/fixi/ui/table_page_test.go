package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"coinfixi/internal/admin"
	"coinfixi/internal/table"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func clientRecords() []table.Record[admin.ClientField] {
	return []table.Record[admin.ClientField]{
		{admin.ClientID: "c1", admin.ClientBusinessName: "Acme Pay", admin.ClientMonthlyVolume: 5000.0, admin.ClientAccountStatus: "active"},
		{admin.ClientID: "c2", admin.ClientBusinessName: "Globex", admin.ClientMonthlyVolume: 9000.0, admin.ClientAccountStatus: "suspended"},
		{admin.ClientID: "c3", admin.ClientBusinessName: "Acme Asia", admin.ClientMonthlyVolume: 100.0, admin.ClientAccountStatus: "pending"},
	}
}

type stubLoader struct {
	records []table.Record[admin.ClientField]
	err     error
	calls   int
	bounded bool
}

func (s *stubLoader) load(ctx context.Context) ([]table.Record[admin.ClientField], error) {
	s.calls++
	_, s.bounded = ctx.Deadline()
	return s.records, s.err
}

func newClientsPage(t *testing.T, l *stubLoader, actions ...Action) *TablePage[admin.ClientField] {
	t.Helper()
	p, err := NewTablePage(admin.Clients, l.load, NewStyles(LightTheme()), actions...)
	require.NoError(t, err)
	p.SetSize(140, 40)
	return p
}

// run executes cmd one level deep, expanding batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			if c != nil {
				out = append(out, c())
			}
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver feeds load results from cmd to p and returns the follow-up messages.
func deliver(p Page, cmd tea.Cmd) []tea.Msg {
	var follow []tea.Msg
	for _, msg := range run(cmd) {
		switch msg.(type) {
		case loadedMsg[admin.ClientField], actionDoneMsg:
			_, next := p.Update(msg)
			follow = append(follow, run(next)...)
		}
	}
	return follow
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(p Page, keys ...string) {
	for _, k := range keys {
		p.Update(key(k))
	}
}

func TestTablePageLoads(t *testing.T) {
	l := &stubLoader{records: clientRecords()}
	p := newClientsPage(t, l)

	cmd := p.Activate()
	require.NotNil(t, cmd)
	assert.Equal(t, table.Loading, p.Result().Phase)
	assert.Contains(t, p.View(), "Loading clients")

	deliver(p, cmd)
	assert.Equal(t, 1, l.calls)
	assert.Equal(t, table.Populated, p.Result().Phase)
	assert.Equal(t, "Showing 3 of 3 results", p.Result().Summary())
	assert.Contains(t, p.View(), "Globex")

	assert.Nil(t, p.Activate(), "second activation must not reload")
}

func TestTablePageEmpty(t *testing.T) {
	p := newClientsPage(t, &stubLoader{})
	deliver(p, p.Activate())
	assert.Equal(t, table.Empty, p.Result().Phase)
	assert.Equal(t, 1, strings.Count(p.View(), "No clients found"))
}

func TestTablePageLiveSearch(t *testing.T) {
	p := newClientsPage(t, &stubLoader{records: clientRecords()})
	deliver(p, p.Activate())

	press(p, "/")
	assert.True(t, p.Capturing())
	press(p, "a", "c", "m", "e")
	assert.Equal(t, 2, p.Result().Shown)
	assert.Equal(t, 3, p.Result().Total)

	press(p, "enter")
	assert.False(t, p.Capturing())
	assert.Equal(t, 2, p.Result().Shown, "query kept after enter")

	press(p, "/", "esc")
	assert.Equal(t, 3, p.Result().Shown)
}

func TestTablePageSortToggle(t *testing.T) {
	p := newClientsPage(t, &stubLoader{records: clientRecords()})
	deliver(p, p.Activate())

	names := func() []any {
		var out []any
		for _, r := range p.Result().Rows {
			out = append(out, r.Get(admin.ClientBusinessName))
		}
		return out
	}

	press(p, "s")
	assert.Equal(t, []any{"Acme Asia", "Acme Pay", "Globex"}, names())
	assert.Contains(t, p.View(), "▲")

	press(p, "s")
	assert.Equal(t, []any{"Globex", "Acme Pay", "Acme Asia"}, names())
	assert.Contains(t, p.View(), "▼")

	press(p, "right", "right", "s")
	assert.Equal(t, []any{"Acme Asia", "Acme Pay", "Globex"}, names(), "volume ascending")

	press(p, "c")
	assert.Equal(t, []any{"Acme Pay", "Globex", "Acme Asia"}, names())
}

func TestTablePageFailureKeepsStaleRows(t *testing.T) {
	l := &stubLoader{records: clientRecords()}
	p := newClientsPage(t, l)
	deliver(p, p.Activate())

	l.records, l.err = nil, errors.New("boom")
	follow := deliver(p, p.Refresh())

	require.Len(t, follow, 1)
	assert.Equal(t, ToastMsg{Text: "Failed to load clients", Tone: admin.ToneError}, follow[0])
	assert.Equal(t, table.Populated, p.Result().Phase)
	assert.Equal(t, 3, p.Result().Shown)
}

func TestTablePageDropsStaleResponses(t *testing.T) {
	l := &stubLoader{records: clientRecords()}
	p := newClientsPage(t, l)
	first := p.Refresh()
	second := p.Refresh()

	l.records = clientRecords()[:1]
	deliver(p, second)
	l.records = clientRecords()
	deliver(p, first)

	assert.Equal(t, 1, p.Result().Shown)
}

func TestTablePageActionAndDetail(t *testing.T) {
	var got string
	act := Action{Key: "x", Label: "suspend", Run: func(_ context.Context, id string) error {
		got = id
		return nil
	}}
	l := &stubLoader{records: clientRecords()}
	p := newClientsPage(t, l, act)
	deliver(p, p.Activate())

	press(p, "down")
	sel, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, "c2", sel.Get(admin.ClientID))

	_, cmd := p.Update(key("x"))
	follow := deliver(p, cmd)
	assert.Equal(t, "c2", got)
	assert.Contains(t, follow, tea.Msg(ToastMsg{Text: "suspend c2 done", Tone: admin.ToneSuccess}))

	assert.NotContains(t, ansi.Strip(p.View()), "business_name")

	press(p, "enter")
	detail := ansi.Strip(p.View())
	assert.Contains(t, detail, "business_name")
	assert.Contains(t, detail, "9000")
	press(p, "esc")
	closed := ansi.Strip(p.View())
	assert.NotContains(t, closed, "business_name")
	assert.NotContains(t, closed, "9000")
}

func TestTablePageLoadTimeout(t *testing.T) {
	l := &stubLoader{records: clientRecords()}
	p := newClientsPage(t, l)
	deliver(p, p.Activate())
	assert.False(t, l.bounded)

	p.SetTimeout(time.Second)
	deliver(p, p.Refresh())
	assert.Equal(t, 2, l.calls)
	assert.True(t, l.bounded)
	assert.Equal(t, 3, p.Result().Shown)
}
