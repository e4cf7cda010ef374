package table

import (
	"errors"
	"fmt"
)

// ErrDuplicateColumn is returned when two columns share a key.
var ErrDuplicateColumn = errors.New("duplicate column key")

// RenderFunc formats a cell. It must not modify rec.
type RenderFunc[K ~string] func(value any, rec Record[K]) string

// Column binds a record field to a table column.
type Column[K ~string] struct {
	Key      K
	Label    string
	Sortable bool
	Render   RenderFunc[K]
	// Width is the display width in terminal cells; 0 sizes to content.
	Width int
}

// Cell renders the column's value for rec.
func (c Column[K]) Cell(rec Record[K]) string {
	v := rec.Get(c.Key)
	if c.Render != nil {
		return c.Render(v, rec)
	}
	return Stringify(v)
}

func checkColumns[K ~string](cols []Column[K]) error {
	seen := make(map[K]struct{}, len(cols))
	for _, c := range cols {
		if _, dup := seen[c.Key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, string(c.Key))
		}
		seen[c.Key] = struct{}{}
	}
	return nil
}
