package search

import (
	"sort"
	"strings"

	"autoreview/app/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MaxSuggestions bounds the "did you mean" list of an empty result.
const MaxSuggestions = 3

// Suggest proposes record names close to a query that matched nothing.
// In-order character matches rank first, then names with a word within a
// small edit distance of the query.
func Suggest[T models.Record](records []T, query string, n int) []string {
	q := strings.TrimSpace(query)
	if q == "" || n <= 0 {
		return nil
	}

	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.DisplayName())
	}

	seen := map[string]bool{}
	var out []string
	add := func(name string) bool {
		if seen[name] {
			return false
		}
		seen[name] = true
		out = append(out, name)
		return len(out) == n
	}

	ranks := fuzzy.RankFindNormalizedFold(q, names)
	sort.Stable(ranks)
	for _, rank := range ranks {
		if add(rank.Target) {
			return out
		}
	}

	type candidate struct {
		name     string
		distance int
	}
	lower := strings.ToLower(q)
	budget := len(lower) / 3
	if budget < 1 {
		budget = 1
	}
	var near []candidate
	for _, name := range names {
		best := -1
		for _, word := range append(strings.Fields(strings.ToLower(name)), strings.ToLower(name)) {
			d := fuzzy.LevenshteinDistance(lower, word)
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 && best <= budget {
			near = append(near, candidate{name, best})
		}
	}
	sort.SliceStable(near, func(i, j int) bool {
		if near[i].distance != near[j].distance {
			return near[i].distance < near[j].distance
		}
		return near[i].name < near[j].name
	})
	for _, c := range near {
		if add(c.name) {
			break
		}
	}
	return out
}
