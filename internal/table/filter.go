package table

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter keeps the records where at least one field value, stringified,
// contains query case-insensitively. An empty query returns records itself.
// nil field values never match. The input slice is not modified.
func Filter[K ~string](records []Record[K], query string) []Record[K] {
	if query == "" {
		return records
	}

	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]Record[K], 0, len(records))
	for _, rec := range records {
		if matches(rec, needle, fold) {
			out = append(out, rec)
		}
	}
	return out
}

func matches[K ~string](rec Record[K], needle string, fold cases.Caser) bool {
	for _, v := range rec {
		if v == nil {
			continue
		}
		if strings.Contains(fold.String(Stringify(v)), needle) {
			return true
		}
	}
	return false
}
