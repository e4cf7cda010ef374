package table

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(recs []Record[field]) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i], _ = r["name"].(string)
	}
	return out
}

func sample() []Record[field] {
	return []Record[field]{
		{"name": "Bob", "amt": 5.0},
		{"name": "Amy", "amt": 5.0},
		{"name": "Cid", "amt": 1.0},
	}
}

func TestSort_StableBothDirections(t *testing.T) {
	recs := sample()

	asc := Sort(recs, "amt", Asc)
	if diff := cmp.Diff([]string{"Cid", "Bob", "Amy"}, names(asc)); diff != "" {
		t.Fatalf("asc order mismatch (-want +got):\n%s", diff)
	}

	desc := Sort(recs, "amt", Desc)
	if diff := cmp.Diff([]string{"Bob", "Amy", "Cid"}, names(desc)); diff != "" {
		t.Fatalf("desc order mismatch (-want +got):\n%s", diff)
	}
}

func TestSort_NoColumnKeepsOrder(t *testing.T) {
	recs := sample()
	got := Sort(recs, "", Desc)
	assert.Equal(t, []string{"Bob", "Amy", "Cid"}, names(got))
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	recs := sample()
	_ = Sort(recs, "name", Asc)
	assert.Equal(t, []string{"Bob", "Amy", "Cid"}, names(recs))
}

func TestSort_Idempotent(t *testing.T) {
	recs := sample()
	once := Sort(recs, "name", Asc)
	twice := Sort(once, "name", Asc)
	assert.Equal(t, names(once), names(twice))
}

func TestSort_MissingAndMixedValues(t *testing.T) {
	recs := []Record[field]{
		{"name": "s", "v": "text"},
		{"name": "n", "v": 3.0},
		{"name": "missing"},
		{"name": "b", "v": true},
	}
	got := Sort(recs, "v", Asc)
	assert.Equal(t, []string{"missing", "b", "n", "s"}, names(got))

	got = Sort(recs, "v", Desc)
	assert.Equal(t, []string{"s", "n", "b", "missing"}, names(got))
}

func TestSort_Times(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	recs := []Record[field]{
		{"name": "later", "at": now.Add(time.Hour)},
		{"name": "earlier", "at": now},
	}
	assert.Equal(t, []string{"earlier", "later"}, names(Sort(recs, "at", Asc)))
}

// Ascending then descending reverses non-tied elements while ties keep input
// order in both directions.
func TestSort_AscDescReverseProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 100; round++ {
		recs := make([]Record[field], 15)
		for i := range recs {
			recs[i] = Record[field]{"name": string(rune('a' + i)), "k": float64(rng.Intn(5))}
		}
		asc := Sort(recs, "k", Asc)
		desc := Sort(recs, "k", Desc)

		groupsAsc := groupByKey(asc)
		groupsDesc := groupByKey(desc)
		require.Equal(t, len(groupsAsc), len(groupsDesc))
		for i := range groupsAsc {
			// group order reversed, order within a group preserved
			assert.Equal(t, groupsAsc[i], groupsDesc[len(groupsDesc)-1-i])
		}
		assertInputOrderWithinTies(t, recs, asc)
	}
}

func groupByKey(recs []Record[field]) [][]string {
	var out [][]string
	var last any = -1.0
	for _, r := range recs {
		if len(out) == 0 || Compare(r["k"], last) != 0 {
			out = append(out, nil)
			last = r["k"]
		}
		out[len(out)-1] = append(out[len(out)-1], r["name"].(string))
	}
	return out
}

func assertInputOrderWithinTies(t *testing.T, in, sorted []Record[field]) {
	t.Helper()
	pos := map[string]int{}
	for i, r := range in {
		pos[r["name"].(string)] = i
	}
	for i := 1; i < len(sorted); i++ {
		if Compare(sorted[i-1]["k"], sorted[i]["k"]) == 0 {
			assert.Less(t, pos[sorted[i-1]["name"].(string)], pos[sorted[i]["name"].(string)])
		}
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(1.0, 2.0))
	assert.Equal(t, 1, Compare("b", "a"))
	assert.Equal(t, 0, Compare(nil, nil))
	assert.Equal(t, -1, Compare(false, true))
	assert.Equal(t, -1, Compare(nil, "a"))
	assert.Equal(t, -1, Compare(10, 10.5))

	// Strings compare as strings even when they look numeric.
	assert.Equal(t, -1, Compare("10", "9"))
	assert.Equal(t, 1, Compare(json.Number("10"), json.Number("9")))
	assert.Equal(t, -1, Compare(9, "10"))
}
