package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinfixi/internal/admin"
	"coinfixi/internal/session"
	"coinfixi/internal/table"
)

func newTestApp(t *testing.T) (*App, *stubLoader, *stubLoader) {
	t.Helper()
	a1 := &stubLoader{records: clientRecords()}
	a2 := &stubLoader{}
	p1 := newClientsPage(t, a1)
	p2 := newClientsPage(t, a2)
	return NewApp([]Page{p1, p2}, NewStyles(DarkTheme()), "ops@coinfixi.io", "http://api"), a1, a2
}

func TestAppInitLoadsFirstPage(t *testing.T) {
	app, first, second := newTestApp(t)
	deliver(app.Active(), app.Init())
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
	assert.Contains(t, app.View(), "ops@coinfixi.io")
}

func TestAppTabSwitchActivates(t *testing.T) {
	app, _, second := newTestApp(t)
	_, cmd := app.Update(key("tab"))
	deliver(app.Active(), cmd)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, table.Empty, app.Active().(*TablePage[admin.ClientField]).Result().Phase)

	_, cmd = app.Update(key("1"))
	require.NotNil(t, cmd)
	assert.Equal(t, app.pages[0], app.Active())
}

func TestAppQuitUnlessSearching(t *testing.T) {
	app, _, _ := newTestApp(t)
	deliver(app.Active(), app.Init())

	app.Update(key("/"))
	assert.True(t, app.Active().Capturing())
	app.Update(key("q"))
	assert.Equal(t, "q", app.Active().(*TablePage[admin.ClientField]).search.Value())

	app.Update(key("esc"))
	_, cmd := app.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppToastLifecycle(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.Update(ToastMsg{Text: "Failed to load clients", Tone: admin.ToneError})
	assert.Contains(t, app.View(), "Failed to load clients")

	app.Update(toastExpiredMsg{id: app.toast.id - 1})
	assert.Contains(t, app.View(), "Failed to load clients", "older expiry ignored")

	app.Update(toastExpiredMsg{id: app.toast.id})
	assert.NotContains(t, app.View(), "Failed to load clients")
}

func TestAppSessionChange(t *testing.T) {
	app, _, _ := newTestApp(t)
	s := session.New()
	s.Set("tok", "bearer", session.User{Email: "new@coinfixi.io"})
	app.Update(SessionChangedMsg{Session: s})
	assert.Contains(t, app.View(), "new@coinfixi.io")

	app.Update(SessionChangedMsg{Session: session.New()})
	assert.Contains(t, app.View(), "not logged in")
}

func TestAppRefreshReloadsActivePage(t *testing.T) {
	app, first, second := newTestApp(t)
	deliver(app.Active(), app.Init())

	_, cmd := app.Update(RefreshMsg{})
	deliver(app.Active(), cmd)
	assert.Equal(t, 2, first.calls)
	assert.Equal(t, 0, second.calls)
}
