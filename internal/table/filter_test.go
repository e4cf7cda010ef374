package table

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type field string

func TestFilter_EmptyQueryReturnsInput(t *testing.T) {
	recs := []Record[field]{{"n": "Alice"}, {"n": "bob"}}
	got := Filter(recs, "")
	require.Len(t, got, 2)
	// same backing array, not a copy
	assert.Same(t, &recs[0], &got[0])
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	recs := []Record[field]{{"n": "Alice"}, {"n": "bob"}}
	got := Filter(recs, "AL")
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0]["n"])
}

func TestFilter_CoercesNonStrings(t *testing.T) {
	recs := []Record[field]{
		{"amount": 1250.5, "ok": true},
		{"amount": 99.0, "ok": false},
	}
	assert.Len(t, Filter(recs, "1250.5"), 1)
	assert.Len(t, Filter(recs, "TRUE"), 1)
	assert.Len(t, Filter(recs, "99"), 1)
}

func TestFilter_NilValuesNeverMatch(t *testing.T) {
	recs := []Record[field]{{"a": nil}, {"a": "null"}}
	got := Filter(recs, "nul")
	require.Len(t, got, 1)
	assert.Equal(t, "null", got[0]["a"])

	assert.NotPanics(t, func() { Filter([]Record[field]{nil, {}}, "x") })
}

func TestFilter_NestedValues(t *testing.T) {
	recs := []Record[field]{
		{"flags": []any{"structuring", "pep_match"}},
		{"meta": map[string]any{"chain": "TRON"}},
	}
	assert.Len(t, Filter(recs, "PEP"), 1)
	assert.Len(t, Filter(recs, "tron"), 1)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	recs := []Record[field]{{"n": "x"}, {"n": "y"}, {"n": "xy"}}
	before := append([]Record[field](nil), recs...)
	_ = Filter(recs, "y")
	assert.Equal(t, before, recs)
}

// Every kept record contains the query in some field and every dropped
// record contains it in none.
func TestFilter_Partition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"Alpha", "beta", "GAMMA", "delta", "usdt", "BTC", "eth"}
	for round := 0; round < 50; round++ {
		recs := make([]Record[field], 20)
		for i := range recs {
			recs[i] = Record[field]{
				"a": words[rng.Intn(len(words))],
				"b": float64(rng.Intn(1000)),
				"c": rng.Intn(2) == 0,
			}
		}
		q := words[rng.Intn(len(words))][:2]

		kept := Filter(recs, q)
		for i := range kept {
			assert.True(t, containsFold(kept[i], q))
		}
		n := 0
		for i := range recs {
			if containsFold(recs[i], q) {
				n++
			}
		}
		assert.Equal(t, n, len(kept))
	}
}

func containsFold(rec Record[field], q string) bool {
	for _, v := range rec {
		if v != nil && strings.Contains(strings.ToLower(Stringify(v)), strings.ToLower(q)) {
			return true
		}
	}
	return false
}
