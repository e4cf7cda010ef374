package admin

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"coinfixi/internal/table"
)

type rf string

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{1234.5, "$1,234.50"},
		{0.0, "$0.00"},
		{-99.999, "-$100.00"},
		{json.Number("2500000"), "$2,500,000.00"},
		{"17.25", "$17.25"},
		{nil, Placeholder},
		{"n/a", Placeholder},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency[rf](tt.in, nil), "input %v", tt.in)
	}
}

func TestPercentAndInteger(t *testing.T) {
	assert.Equal(t, "2.50%", Percent[rf](2.5, nil))
	assert.Equal(t, Placeholder, Percent[rf](nil, nil))
	assert.Equal(t, "12,345", Integer[rf](12345.0, nil))
}

func TestAmount(t *testing.T) {
	render := Amount[rf]("currency")
	assert.Equal(t, "0.50000000 BTC", render(0.5, table.Record[rf]{"currency": "BTC"}))
	assert.Equal(t, "1.00000000", render(1.0, table.Record[rf]{}))
	assert.Equal(t, Placeholder, render(nil, nil))
}

func TestDates(t *testing.T) {
	assert.Equal(t, "2024-03-01", Date[rf]("2024-03-01T10:20:30Z", nil))
	assert.Equal(t, "2024-03-01", Date[rf]("2024-03-01", nil))
	assert.Equal(t, "2024-03-01 08:20", DateTime[rf]("2024-03-01T10:20:30+02:00", nil))
	assert.Equal(t, "2024-03-01 10:20", DateTime[rf](time.Date(2024, 3, 1, 10, 20, 0, 0, time.UTC), nil))
	assert.Equal(t, "yesterday", Date[rf]("yesterday", nil))
	assert.Equal(t, Placeholder, DateTime[rf](nil, nil))
}

func TestTextRenderers(t *testing.T) {
	assert.Equal(t, "a1b2c3d4...", Truncate[rf](8)("a1b2c3d4e5f6", nil))
	assert.Equal(t, "short", Truncate[rf](8)("short", nil))
	assert.Equal(t, "not started", Label[rf]("not_started", nil))
	assert.Equal(t, "Super Admin", Title[rf]("super_admin", nil))
	assert.Equal(t, "enabled", Flag[rf]("enabled", "disabled")(true, nil))
	assert.Equal(t, "disabled", Flag[rf]("enabled", "disabled")(nil, nil))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "2", Count[rf]([]any{map[string]any{}, map[string]any{}}, nil))
	assert.Equal(t, Placeholder, Count[rf]([]any{}, nil))
	assert.Equal(t, Placeholder, Count[rf](nil, nil))
}

func TestWithSecondary(t *testing.T) {
	render := WithSecondary[rf]("email")
	assert.Equal(t, "Acme (ops@acme.io)", render("Acme", table.Record[rf]{"email": "ops@acme.io"}))
	assert.Equal(t, "Acme", render("Acme", table.Record[rf]{}))
}

func TestTones(t *testing.T) {
	score := Threshold(40, 70)
	assert.Equal(t, ToneError, score(71.0))
	assert.Equal(t, ToneWarning, score(41.0))
	assert.Equal(t, ToneSuccess, score(40.0))
	assert.Equal(t, ToneDefault, score(nil))

	status := Variants(map[string]Tone{"active": ToneSuccess})
	assert.Equal(t, ToneSuccess, status("active"))
	assert.Equal(t, ToneDefault, status("closed"))
	assert.Equal(t, ToneDefault, status(3.0))
	assert.Equal(t, "warning", ToneWarning.String())
}
