package controllers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"autoreview/app/services"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	liveWriteWait = 5 * time.Second
	liveMaxQuery  = 256
)

// SearchController handles the search page, the search API and live search
type SearchController struct {
	*Base
	searchService *services.SearchService
	upgrader      websocket.Upgrader
}

// NewSearchController creates a new SearchController. allowedOrigins limits
// the pages that may open a live search socket; an empty list only accepts
// same-host requests.
func NewSearchController(base *Base, searchService *services.SearchService, allowedOrigins []string) *SearchController {
	sc := &SearchController{Base: base, searchService: searchService}
	sc.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if len(allowedOrigins) > 0 {
		allowed := make(map[string]bool, len(allowedOrigins))
		for _, o := range allowedOrigins {
			allowed[o] = true
		}
		sc.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin]
		}
	}
	return sc
}

type searchPage struct {
	Query   string
	Scope   services.Scope
	Listing services.Listing
}

// Show handles GET /search?q=&scope=, listing every match
func (sc *SearchController) Show(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	scope, err := services.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		sc.sendError(w, r, "Bad Request", err.Error(), http.StatusBadRequest)
		return
	}

	listing, err := sc.searchService.Search(r.Context(), scope, query, true)
	if err != nil {
		sc.logger().Error("search failed", zap.String("scope", string(scope)), zap.Error(err))
		sc.sendError(w, r, headingUnavailable, msgContentFailed, http.StatusInternalServerError)
		return
	}
	sc.render(w, r, http.StatusOK, "search", "Search", searchPage{Query: query, Scope: scope, Listing: listing})
}

// Search handles GET /api/search?q=&scope=&full=1
func (sc *SearchController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope, err := services.ParseScope(q.Get("scope"))
	if err != nil {
		sc.sendError(w, r, "Bad Request", err.Error(), http.StatusBadRequest)
		return
	}

	full := q.Get("full") == "1" || q.Get("full") == "true"
	listing, err := sc.searchService.Search(r.Context(), scope, q.Get("q"), full)
	if err != nil {
		sc.logger().Error("search failed", zap.String("scope", string(scope)), zap.Error(err))
		sc.sendError(w, r, headingUnavailable, msgContentFailed, http.StatusInternalServerError)
		return
	}
	sc.sendJSON(w, http.StatusOK, listing)
}

// liveEvent is what a live search client sends. A message without a type
// is a keystroke.
type liveEvent struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// Live handles GET /ws/search?scope=. Each connection owns one search box;
// the server pushes an update after every change of it.
func (sc *SearchController) Live(w http.ResponseWriter, r *http.Request) {
	scope, err := services.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		sc.sendError(w, r, "Bad Request", err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := sc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sc.logger().Warn("live search upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	push := func(up services.LiveUpdate) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		if err := conn.WriteJSON(up); err != nil {
			sc.logger().Debug("live search write failed", zap.Error(err))
		}
	}

	live, err := sc.searchService.Live(r.Context(), scope, push)
	if err != nil {
		sc.logger().Error("live search unavailable", zap.Error(err))
		return
	}
	defer live.Close()

	for {
		var ev liveEvent
		if err := conn.ReadJSON(&ev); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				sc.logger().Debug("live search read ended", zap.Error(err))
			}
			return
		}
		if len(ev.Query) > liveMaxQuery {
			ev.Query = ev.Query[:liveMaxQuery]
		}

		switch ev.Type {
		case "", "keystroke":
			live.Keystroke(ev.Query)
		case "dismiss":
			live.Dismiss()
		case "focus":
			live.Focus()
		case "clear":
			live.Clear()
		}
	}
}
