package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinfixi/internal/table"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndList(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := s.Append(ctx, Entry{Action: "suspend", Resource: "clients", ResourceID: "c1", Note: "chargebacks", Success: true, CreatedAt: base})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	_, err = s.Append(ctx, Entry{Action: "approve", Resource: "transactions", ResourceID: "t1", CreatedAt: base.Add(time.Minute), Error: "409"})
	require.NoError(t, err)

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "approve", all[0].Action)
	assert.Equal(t, first, all[1])

	clients, err := s.List(ctx, ListOptions{Resource: "clients"})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.True(t, clients[0].Success)

	recent, err := s.List(ctx, ListOptions{Since: base.Add(30 * time.Second)})
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	limited, err := s.List(ctx, ListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestTrack(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	boom := errors.New("upstream said no")

	err := s.Track(ctx, Entry{Action: "resume", Resource: "clients", ResourceID: "c9"}, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, s.Track(ctx, Entry{Action: "ack", Resource: "alerts", ResourceID: "a1"}, func() error { return nil }))

	entries, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	byAction := map[string]Entry{}
	for _, e := range entries {
		byAction[e.Action] = e
	}
	assert.False(t, byAction["resume"].Success)
	assert.Equal(t, "upstream said no", byAction["resume"].Error)
	assert.True(t, byAction["ack"].Success)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Append(context.Background(), Entry{Action: "mark-paid", Resource: "invoices", ResourceID: "inv1", Success: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, path, s.Path())
}

func TestJournalTable(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	recs := Records([]Entry{
		{ID: "1", Action: "suspend", Resource: "clients", ResourceID: "c1", Success: true, CreatedAt: at},
		{ID: "2", Action: "reject", Resource: "transactions", ResourceID: "t1", Error: "forbidden", CreatedAt: at.Add(time.Hour)},
	})

	v, err := NewView()
	require.NoError(t, err)
	v.SetQuery("forbidden")
	res := v.Render(recs)
	require.Equal(t, table.Populated, res.Phase)
	require.Len(t, res.Cells, 1)
	assert.Equal(t, "2024-05-01 10:30", res.Cells[0][0])
	assert.Equal(t, "failed", res.Cells[0][5])

	v.SetQuery("")
	v.ToggleSort(FieldCreatedAt)
	v.ToggleSort(FieldCreatedAt)
	res = v.Render(recs)
	assert.Equal(t, "2", res.Rows[0].Get(FieldID))

	v.SetQuery("nothing matches")
	res = v.Render(recs)
	assert.Equal(t, table.Empty, res.Phase)
	assert.Equal(t, "No actions recorded", res.Message)
}
