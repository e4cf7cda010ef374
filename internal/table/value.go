package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Stringify converts a field value to the string used for searching and for
// cells without a renderer. nil becomes "".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case json.Number:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}

// kind ranks values so that mixed-type columns still sort deterministically.
type kind int

const (
	kindNil kind = iota
	kindBool
	kindNumber
	kindTime
	kindString
	kindOther
)

func classify(v any) (kind, float64) {
	switch x := v.(type) {
	case nil:
		return kindNil, 0
	case bool:
		if x {
			return kindBool, 1
		}
		return kindBool, 0
	case float64:
		return kindNumber, x
	case float32:
		return kindNumber, float64(x)
	case int:
		return kindNumber, float64(x)
	case int64:
		return kindNumber, float64(x)
	case int32:
		return kindNumber, float64(x)
	case uint64:
		return kindNumber, float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return kindString, 0
		}
		return kindNumber, f
	case time.Time:
		return kindTime, 0
	case string:
		return kindString, 0
	default:
		return kindOther, 0
	}
}

// Compare orders two field values: -1 when a < b, 1 when a > b, 0 otherwise.
// Values of the same kind compare naturally (numbers numerically, strings
// bytewise, false before true, times chronologically). Across kinds the order
// is nil < bool < number < time < string < anything else.
func Compare(a, b any) int {
	ka, fa := classify(a)
	kb, fb := classify(b)
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}

	switch ka {
	case kindNil:
		return 0
	case kindBool, kindNumber:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case kindTime:
		return a.(time.Time).Compare(b.(time.Time))
	case kindString:
		return strings.Compare(Stringify(a), Stringify(b))
	default:
		return strings.Compare(Stringify(a), Stringify(b))
	}
}
