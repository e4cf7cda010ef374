package admin

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"coinfixi/internal/table"
)

// Placeholder is rendered for missing values in formatted columns.
const Placeholder = "-"

var printer = message.NewPrinter(language.AmericanEnglish)

// number extracts a float from a JSON value. Numeric strings are accepted
// since some endpoints serialise decimals as strings.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// USD formats an amount as US dollars with thousands grouping.
func USD(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = math.Abs(v)
	}
	return sign + printer.Sprintf("$%.2f", v)
}

// Currency renders a numeric field as dollars.
func Currency[K ~string](v any, _ table.Record[K]) string {
	n, ok := number(v)
	if !ok {
		return Placeholder
	}
	return USD(n)
}

// Percent renders a numeric field as a percentage with two decimals.
func Percent[K ~string](v any, _ table.Record[K]) string {
	n, ok := number(v)
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf("%.2f%%", n)
}

// Integer renders a count with grouping.
func Integer[K ~string](v any, _ table.Record[K]) string {
	n, ok := number(v)
	if !ok {
		return Placeholder
	}
	return printer.Sprintf("%d", int64(n))
}

// Amount renders a crypto amount with eight decimals followed by the
// record's unit field, e.g. "0.50000000 BTC".
func Amount[K ~string](unit K) table.RenderFunc[K] {
	return func(v any, rec table.Record[K]) string {
		n, ok := number(v)
		if !ok {
			return Placeholder
		}
		out := fmt.Sprintf("%.8f", n)
		if u := table.Stringify(rec.Get(unit)); u != "" {
			out += " " + u
		}
		return out
	}
}

func parseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

// Date renders a timestamp as a calendar date. Unparseable input is shown as is.
func Date[K ~string](v any, _ table.Record[K]) string {
	if v == nil {
		return Placeholder
	}
	t, ok := parseTime(v)
	if !ok {
		return table.Stringify(v)
	}
	return t.Format("2006-01-02")
}

// DateTime renders a timestamp with minutes in UTC.
func DateTime[K ~string](v any, _ table.Record[K]) string {
	if v == nil {
		return Placeholder
	}
	t, ok := parseTime(v)
	if !ok {
		return table.Stringify(v)
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// Truncate shortens a string to n runes followed by "...".
func Truncate[K ~string](n int) table.RenderFunc[K] {
	return func(v any, _ table.Record[K]) string {
		s := []rune(table.Stringify(v))
		if len(s) <= n {
			return string(s)
		}
		return string(s[:n]) + "..."
	}
}

// Count renders the length of a nested list, or "-" when it is empty.
func Count[K ~string](v any, _ table.Record[K]) string {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return Placeholder
	}
	return fmt.Sprint(len(list))
}

// Label renders an enum value for humans: underscores become spaces.
func Label[K ~string](v any, _ table.Record[K]) string {
	return strings.ReplaceAll(table.Stringify(v), "_", " ")
}

// Title renders a value in title case. Casers keep state, so each call
// gets its own.
func Title[K ~string](v any, _ table.Record[K]) string {
	return cases.Title(language.English).String(Label[K](v, nil))
}

// Flag renders a boolean as one of two words.
func Flag[K ~string](yes, no string) table.RenderFunc[K] {
	return func(v any, _ table.Record[K]) string {
		if b, _ := v.(bool); b {
			return yes
		}
		return no
	}
}

// WithSecondary appends another field in parentheses, e.g. name (email).
func WithSecondary[K ~string](other K) table.RenderFunc[K] {
	return func(v any, rec table.Record[K]) string {
		main := table.Stringify(v)
		if sub := table.Stringify(rec.Get(other)); sub != "" {
			return main + " (" + sub + ")"
		}
		return main
	}
}
