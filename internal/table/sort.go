package table

import "slices"

// Sort returns records ordered by the value under column. A zero column
// returns records unchanged. Ties keep their input order in both directions
// because Desc negates the comparison instead of reversing the result.
func Sort[K ~string](records []Record[K], column K, dir Direction) []Record[K] {
	var zero K
	if column == zero {
		return records
	}

	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Record[K]) int {
		c := Compare(a.Get(column), b.Get(column))
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}
