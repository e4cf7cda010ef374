package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testColumns() []Column[field] {
	return []Column[field]{
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "amt", Label: "Amount", Sortable: true, Render: func(v any, _ Record[field]) string {
			return "$" + Stringify(v)
		}},
		{Key: "note", Label: "Note"},
	}
}

func TestNewView_RejectsDuplicateKeys(t *testing.T) {
	cols := []Column[field]{{Key: "a"}, {Key: "a"}}
	_, err := NewView(cols, Options{})
	require.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestView_LoadingIgnoresRecords(t *testing.T) {
	v, err := NewView(testColumns(), Options{})
	require.NoError(t, err)
	v.Loading = true

	res := v.Render(sample())
	assert.Equal(t, Loading, res.Phase)
	assert.Empty(t, res.Cells)
	assert.Equal(t, DefaultLoadingMessage, res.Message)
	assert.Empty(t, res.Summary())

	v, err = NewView(testColumns(), Options{LoadingMessage: "Loading clients..."})
	require.NoError(t, err)
	v.Loading = true
	assert.Equal(t, "Loading clients...", v.Render(nil).Message)
}

func TestView_EmptyMessageOnce(t *testing.T) {
	v, err := NewView(testColumns(), Options{Searchable: true, EmptyMessage: "No clients found"})
	require.NoError(t, err)
	v.SetQuery("zzz")

	res := v.Render(sample())
	assert.Equal(t, Empty, res.Phase)
	assert.Equal(t, "No clients found", res.Message)
	assert.Equal(t, 3, res.Total)
	assert.Empty(t, res.Summary())

	res = v.Render(nil)
	assert.Equal(t, Empty, res.Phase)
	assert.Equal(t, 0, res.Total)
}

func TestView_DefaultEmptyMessage(t *testing.T) {
	v, err := NewView(testColumns(), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultEmptyMessage, v.Render(nil).Message)
}

func TestView_FilterThenSortAndRender(t *testing.T) {
	v, err := NewView(testColumns(), Options{Searchable: true})
	require.NoError(t, err)

	recs := append(sample(), Record[field]{"name": "Bea", "amt": 2.0, "note": "vip"})
	v.SetQuery("b")
	require.True(t, v.ToggleSort("amt"))

	res := v.Render(recs)
	require.Equal(t, Populated, res.Phase)
	assert.Equal(t, []string{"Name", "Amount", "Note"}, res.Headers)
	assert.Equal(t, []string{"Bea", "Bob"}, names(res.Rows))
	assert.Equal(t, []string{"Bea", "$2", "vip"}, res.Cells[0])
	assert.Equal(t, []string{"Bob", "$5", ""}, res.Cells[1])
	assert.Equal(t, "Showing 2 of 4 results", res.Summary())
}

func TestView_ToggleSortCycle(t *testing.T) {
	v, err := NewView(testColumns(), Options{})
	require.NoError(t, err)

	assert.True(t, v.ToggleSort("name"))
	assert.Equal(t, Asc, v.State.Direction)
	v.ToggleSort("name")
	assert.Equal(t, Desc, v.State.Direction)
	v.ToggleSort("name")
	assert.Equal(t, Asc, v.State.Direction)

	v.ToggleSort("name")
	v.ToggleSort("amt")
	assert.Equal(t, field("amt"), v.State.SortColumn)
	assert.Equal(t, Asc, v.State.Direction)

	assert.False(t, v.ToggleSort("note"), "unsortable column")
	assert.False(t, v.ToggleSort("missing"))
	assert.Equal(t, field("amt"), v.State.SortColumn)
}

func TestView_QueryIgnoredWhenNotSearchable(t *testing.T) {
	v, err := NewView(testColumns(), Options{})
	require.NoError(t, err)
	v.SetQuery("zzz")
	assert.Equal(t, Populated, v.Render(sample()).Phase)
}

func TestView_RendererPanicsPropagate(t *testing.T) {
	cols := []Column[field]{{Key: "x", Label: "X", Render: func(any, Record[field]) string {
		panic("bad renderer")
	}}}
	v, err := NewView(cols, Options{})
	require.NoError(t, err)
	assert.Panics(t, func() { v.Render([]Record[field]{{"x": 1}}) })
}

func TestView_RenderDoesNotMutateRecords(t *testing.T) {
	v, err := NewView(testColumns(), Options{})
	require.NoError(t, err)
	recs := sample()
	v.ToggleSort("name")
	_ = v.Render(recs)
	assert.Equal(t, "Bob", recs[0]["name"])
	assert.False(t, strings.HasPrefix(Stringify(recs[0]["amt"]), "$"))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "populated", Populated.String())
}
