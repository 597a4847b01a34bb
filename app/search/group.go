package search

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Group holds the records whose name starts with Key.
type Group[T any] struct {
	Key   string `json:"key"`
	Items []T    `json:"items"`
}

// GroupByInitial groups records by the uppercased first character of their
// name. Keys are sorted; records keep their relative order inside a group.
// Records with an empty name are grouped under "#".
func GroupByInitial[T any](records []T, name func(T) string) []Group[T] {
	index := map[string]int{}
	groups := []Group[T]{}
	for _, r := range records {
		key := initial(name(r))
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group[T]{Key: key})
		}
		groups[i].Items = append(groups[i].Items, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// Flatten concatenates the groups in order.
func Flatten[T any](groups []Group[T]) []T {
	out := []T{}
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "#"
	}
	return strings.ToUpper(string(r))
}
