// Package table implements the record table shared by every admin screen:
// free-text search, stable per-column sort, and a render pass with loading
// and empty states. It is a pure derivation step with no I/O and no logging.
package table

// Record is one row of admin data keyed by a per-resource field type.
// The table knows nothing about a record beyond the keys bound to columns.
type Record[K ~string] map[K]any

// Get returns the value stored under key, or nil when it is missing.
func (r Record[K]) Get(key K) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps user input to a Direction, defaulting to Asc.
func ParseDirection(s string) Direction {
	if s == string(Desc) {
		return Desc
	}
	return Asc
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}
