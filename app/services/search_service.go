package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"autoreview/app/models"
	"autoreview/app/search"

	"go.uber.org/zap"
)

// Scope names the collection a search runs over.
type Scope string

const (
	ScopePosts Scope = "posts"
	ScopeCars  Scope = "cars"
)

var ErrUnknownScope = errors.New("unknown search scope")

// ParseScope reads a scope parameter; an empty value means posts.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopePosts:
		return ScopePosts, nil
	case ScopeCars:
		return ScopeCars, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownScope)
}

// Hit is one search match, independent of its collection.
type Hit struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Path  string `json:"path"`
}

type HitGroup struct {
	Key   string `json:"key"`
	Items []Hit  `json:"items"`
}

// Listing is a search result reduced to what the views display.
type Listing struct {
	Query       string       `json:"query"`
	State       search.State `json:"state"`
	Groups      []HitGroup   `json:"groups"`
	Total       int          `json:"total"`
	Truncated   bool         `json:"truncated"`
	Suggestions []string     `json:"suggestions,omitempty"`
}

// Hits returns the grouped hits in display order.
func (l Listing) Hits() []Hit {
	var hits []Hit
	for _, g := range l.Groups {
		hits = append(hits, g.Items...)
	}
	return hits
}

// LiveUpdate is pushed to a live search client after every change of its box.
type LiveUpdate struct {
	Phase       search.Phase `json:"state"`
	Typed       string       `json:"typed"`
	Result      search.State `json:"result"`
	Groups      []HitGroup   `json:"groups"`
	Total       int          `json:"total"`
	Truncated   bool         `json:"truncated"`
	Suggestions []string     `json:"suggestions,omitempty"`
}

// LiveSearch is a debounced search box driven by a remote client.
type LiveSearch interface {
	Keystroke(text string)
	Dismiss()
	Focus()
	Clear()
	Close()
}

// SearchService runs name searches over posts and cars
type SearchService struct {
	content *ContentService
	opts    search.Options
	logger  *zap.Logger
}

// NewSearchService creates a new SearchService. opts configure the live
// sessions and the summary cap.
func NewSearchService(content *ContentService, opts search.Options, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{content: content, opts: opts, logger: logger}
}

func (s *SearchService) summaryLimit() int {
	switch {
	case s.opts.Limit == 0:
		return search.SummaryLimit
	case s.opts.Limit < 0:
		return 0
	}
	return s.opts.Limit
}

// Search applies query to the scope's collection at once. The summary view
// is capped; full lists every match.
func (s *SearchService) Search(ctx context.Context, scope Scope, query string, full bool) (Listing, error) {
	limit := s.summaryLimit()
	if full {
		limit = 0
	}

	switch scope {
	case ScopePosts:
		posts, err := s.content.Posts(ctx)
		if err != nil {
			return Listing{}, err
		}
		return toListing(search.Search(posts, query, limit), postPath), nil
	case ScopeCars:
		cars, err := s.content.Cars(ctx)
		if err != nil {
			return Listing{}, err
		}
		return toListing(search.Search(cars, query, limit), carPath), nil
	}
	return Listing{}, fmt.Errorf("%q: %w", scope, ErrUnknownScope)
}

// Live starts a search box over the scope's collection. The collection is
// fetched once in the background; onChange receives every change.
func (s *SearchService) Live(ctx context.Context, scope Scope, onChange func(LiveUpdate)) (LiveSearch, error) {
	switch scope {
	case ScopePosts:
		return startLive(ctx, s, s.content.Posts, postPath, onChange), nil
	case ScopeCars:
		return startLive(ctx, s, s.content.Cars, carPath, onChange), nil
	}
	return nil, fmt.Errorf("%q: %w", scope, ErrUnknownScope)
}

func startLive[T models.Record](ctx context.Context, s *SearchService, fetch func(context.Context) ([]T, error), path func(T) string, onChange func(LiveUpdate)) *search.Session[T] {
	var observe func(search.Snapshot[T])
	if onChange != nil {
		observe = func(snap search.Snapshot[T]) {
			onChange(toLiveUpdate(snap, path))
		}
	}
	session := search.NewSession[T](s.opts, observe)

	go func() {
		err := session.Load(ctx, fetch)
		if err != nil && !errors.Is(err, search.ErrStale) {
			s.logger.Warn("live search collection unavailable", zap.Error(err))
		}
	}()
	return session
}

func postPath(p *models.Post) string { return p.Path() }

func carPath(c *models.CarSpec) string { return "/compare?first=" + url.QueryEscape(c.ID) }

func toListing[T models.Record](res search.Result[T], path func(T) string) Listing {
	groups := make([]HitGroup, 0, len(res.Groups))
	for _, g := range res.Groups {
		hits := make([]Hit, 0, len(g.Items))
		for _, r := range g.Items {
			hits = append(hits, Hit{
				ID:    r.RecordID(),
				Name:  r.DisplayName(),
				Image: r.ImageURL(),
				Path:  path(r),
			})
		}
		groups = append(groups, HitGroup{Key: g.Key, Items: hits})
	}
	return Listing{
		Query:       res.Query,
		State:       res.State,
		Groups:      groups,
		Total:       res.Total,
		Truncated:   res.Truncated,
		Suggestions: res.Suggestions,
	}
}

func toLiveUpdate[T models.Record](snap search.Snapshot[T], path func(T) string) LiveUpdate {
	l := toListing(snap.Result, path)
	return LiveUpdate{
		Phase:       snap.Phase,
		Typed:       snap.Typed,
		Result:      l.State,
		Groups:      l.Groups,
		Total:       l.Total,
		Truncated:   l.Truncated,
		Suggestions: l.Suggestions,
	}
}
