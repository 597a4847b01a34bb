// Package search filters an in-memory record collection by name, groups the
// matches by initial and drives the debounced dropdown state of a search box.
package search

import (
	"fmt"
	"strings"

	"autoreview/app/models"
)

// SummaryLimit caps the matches shown in the compact dropdown view.
const SummaryLimit = 10

// State tells apart a query that was never applied from one that matched nothing.
type State int

const (
	NotSearched State = iota
	NoResults
	Matches
)

var stateNames = [...]string{"not-searched", "no-results", "matches"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown search state %q", text)
}

// Result is the view derived from one applied query.
type Result[T any] struct {
	Query  string     `json:"query"`
	State  State      `json:"state"`
	Groups []Group[T] `json:"groups"`
	// Total counts every match, including those cut by the limit.
	Total       int      `json:"total"`
	Truncated   bool     `json:"truncated"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Records returns the grouped matches in display order.
func (r Result[T]) Records() []T {
	return Flatten(r.Groups)
}

// Filter returns the records whose field contains query, ignoring case, in
// their original order. A query that is blank after trimming matches nothing.
// records is never modified.
func Filter[T any](records []T, query string, field func(T) string) []T {
	out := []T{}
	if strings.TrimSpace(query) == "" {
		return out
	}
	needle := strings.ToLower(query)
	for _, r := range records {
		if strings.Contains(strings.ToLower(field(r)), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Name is the field records are searched and grouped by.
func Name[T models.Record](r T) string {
	return r.DisplayName()
}

// Search applies query to records by display name. The match list is cut to
// limit before grouping; a limit of 0 keeps every match.
func Search[T models.Record](records []T, query string, limit int) Result[T] {
	if strings.TrimSpace(query) == "" {
		return Result[T]{Query: query, State: NotSearched, Groups: []Group[T]{}}
	}

	matches := Filter(records, query, Name[T])
	if len(matches) == 0 {
		return Result[T]{
			Query:       query,
			State:       NoResults,
			Groups:      []Group[T]{},
			Suggestions: Suggest(records, query, MaxSuggestions),
		}
	}

	total := len(matches)
	if limit > 0 && total > limit {
		matches = matches[:limit]
	}
	return Result[T]{
		Query:     query,
		State:     Matches,
		Groups:    GroupByInitial(matches, Name[T]),
		Total:     total,
		Truncated: len(matches) < total,
	}
}
