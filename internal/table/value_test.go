package table

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{true, "true"},
		{5.0, "5"},
		{1.25, "1.25"},
		{42, "42"},
		{json.Number("12.50"), "12.50"},
		{time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "2026-01-02T03:04:05Z"},
		{[]any{"a", 1.0}, "a,1"},
		{map[string]any{"k": "v"}, `{"k":"v"}`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Stringify(tc.in))
	}
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Desc, ParseDirection("desc"))
	assert.Equal(t, Asc, ParseDirection("asc"))
	assert.Equal(t, Asc, ParseDirection(""))
	assert.Equal(t, Desc, Asc.Flip())
}
