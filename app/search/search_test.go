package search

import (
	"encoding/json"
	"fmt"
	"testing"

	"autoreview/app/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cars(names ...string) []*models.CarSpec {
	out := make([]*models.CarSpec, 0, len(names))
	for i, n := range names {
		out = append(out, &models.CarSpec{ID: fmt.Sprintf("car-%d", i+1), Name: n})
	}
	return out
}

func names(records []*models.CarSpec) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	collection := cars("GT500", "Golf GTI", "Civic")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"substring in two names", "GT", []string{"GT500", "Golf GTI"}},
		{"case insensitive", "civ", []string{"Civic"}},
		{"lower case query", "gt", []string{"GT500", "Golf GTI"}},
		{"no match", "Supra", []string{}},
		{"empty query", "", []string{}},
		{"blank query", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(collection, tt.query, Name[*models.CarSpec])
			require.NotNil(t, got)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	collection := cars("Supra", "GT500", "Civic", "Golf GTI")
	before := names(collection)

	Filter(collection, "i", Name[*models.CarSpec])
	GroupByInitial(collection, Name[*models.CarSpec])
	Search(collection, "GT", 1)

	if diff := cmp.Diff(before, names(collection)); diff != "" {
		t.Errorf("collection changed (-before +after):\n%s", diff)
	}
}

func TestGroupByInitial(t *testing.T) {
	matches := Filter(cars("GT500", "Golf GTI", "Civic"), "GT", Name[*models.CarSpec])
	groups := GroupByInitial(matches, Name[*models.CarSpec])

	require.Len(t, groups, 1)
	assert.Equal(t, "G", groups[0].Key)
	assert.Equal(t, []string{"GT500", "Golf GTI"}, names(groups[0].Items))
}

func TestGroupByInitialKeys(t *testing.T) {
	collection := cars("supra", "Civic", "911", "", "ccx", "Ariya", "S2000")
	groups := GroupByInitial(collection, Name[*models.CarSpec])

	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"#", "9", "A", "C", "S"}, keys)
	assert.Equal(t, []string{"Civic", "ccx"}, names(groups[3].Items))
	assert.Equal(t, []string{"supra", "S2000"}, names(groups[4].Items))
}

func TestGroupFlattenReproducesFilteredSet(t *testing.T) {
	collection := cars("Mustang", "GT500", "Golf GTI", "Civic", "Camry", "M3", "Model S", "mx-5", "Taycan", "Corvette")
	queries := []string{"a", "m", "GT", "c", "e", "zzz", "o"}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			filtered := Filter(collection, q, Name[*models.CarSpec])
			flat := Flatten(GroupByInitial(filtered, Name[*models.CarSpec]))

			require.Len(t, flat, len(filtered))
			seen := map[string]int{}
			for _, r := range flat {
				seen[r.ID]++
			}
			for _, r := range filtered {
				assert.Equal(t, 1, seen[r.ID], "record %s", r.Name)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	t.Run("blank query is not searched", func(t *testing.T) {
		res := Search(cars("GT500"), " ", SummaryLimit)
		assert.Equal(t, NotSearched, res.State)
		assert.Empty(t, res.Groups)
	})

	t.Run("no results is distinct and suggests", func(t *testing.T) {
		res := Search(cars("GT500", "Golf GTI", "Civic"), "Civik", SummaryLimit)
		assert.Equal(t, NoResults, res.State)
		assert.Empty(t, res.Groups)
		assert.Equal(t, []string{"Civic"}, res.Suggestions)
	})

	t.Run("summary cap applies before grouping", func(t *testing.T) {
		collection := cars("Zonda", "Yaris", "Xc90", "Wrx", "Viper", "Ur", "Tt", "Supra", "R8", "Q7", "Panamera", "Atlas")
		res := Search(collection, "a", SummaryLimit)

		assert.Equal(t, Matches, res.State)
		assert.Equal(t, 5, res.Total)
		assert.False(t, res.Truncated)

		res = Search(collection, "", SummaryLimit)
		assert.Equal(t, NotSearched, res.State)

		many := make([]string, 0, 12)
		for i := 0; i < 12; i++ {
			many = append(many, fmt.Sprintf("%c car", 'L'-i))
		}
		res = Search(cars(many...), "car", SummaryLimit)
		assert.Equal(t, 12, res.Total)
		assert.True(t, res.Truncated)
		flat := res.Records()
		require.Len(t, flat, SummaryLimit)
		assert.Equal(t, "C car", flat[0].Name)
		assert.NotContains(t, names(flat), "B car")
		assert.NotContains(t, names(flat), "A car")
	})

	t.Run("full view is uncapped", func(t *testing.T) {
		many := make([]string, 0, 15)
		for i := 0; i < 15; i++ {
			many = append(many, fmt.Sprintf("Car %d", i))
		}
		res := Search(cars(many...), "car", 0)
		assert.Len(t, res.Records(), 15)
		assert.False(t, res.Truncated)
	})
}

func TestStateJSON(t *testing.T) {
	data, err := json.Marshal(Result[*models.CarSpec]{State: NoResults, Groups: []Group[*models.CarSpec]{}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"state":"no-results"`)
	assert.Equal(t, "matches", Matches.String())
}

func TestStateUnmarshal(t *testing.T) {
	var res struct {
		State State `json:"state"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"state":"matches"}`), &res))
	assert.Equal(t, Matches, res.State)
	assert.Error(t, json.Unmarshal([]byte(`{"state":"maybe"}`), &res))
}
