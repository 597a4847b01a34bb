package controllers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"autoreview/app/models"
	"autoreview/app/repositories"
	"autoreview/app/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	headingNewsNotFound = "News article not found"
	msgNewsNotFound     = "The article you are looking for does not exist or has been removed."
)

// NewsController handles HTTP requests for news and updates
type NewsController struct {
	*Base
	contentService *services.ContentService
}

// NewNewsController creates a new NewsController
func NewNewsController(base *Base, contentService *services.ContentService) *NewsController {
	return &NewsController{Base: base, contentService: contentService}
}

type newsPage struct {
	Article *services.NewsArticle
	Body    template.HTML
}

// Show handles GET /news/{slug}
func (nc *NewsController) Show(w http.ResponseWriter, r *http.Request) {
	article, ok := nc.loadArticle(w, r)
	if !ok {
		return
	}
	nc.render(w, r, http.StatusOK, "news", article.Item.Title, newsPage{
		Article: article,
		Body:    nc.RichText.Render(article.Item.Content),
	})
}

// List handles GET /api/news
func (nc *NewsController) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			nc.sendError(w, r, "Bad Request", "limit must be a non-negative number", http.StatusBadRequest)
			return
		}
		limit = n
	}

	items, err := nc.contentService.News(r.Context(), limit)
	if err != nil {
		nc.logger().Error("failed to list news", zap.Error(err))
		nc.sendError(w, r, headingUnavailable, msgContentFailed, http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*models.NewsItem{}
	}
	nc.sendJSON(w, http.StatusOK, items)
}

// Get handles GET /api/news/{slug}
func (nc *NewsController) Get(w http.ResponseWriter, r *http.Request) {
	article, ok := nc.loadArticle(w, r)
	if !ok {
		return
	}
	nc.sendJSON(w, http.StatusOK, article)
}

func (nc *NewsController) loadArticle(w http.ResponseWriter, r *http.Request) (*services.NewsArticle, bool) {
	slug := mux.Vars(r)["slug"]
	article, err := nc.contentService.NewsArticle(r.Context(), slug)
	switch {
	case err == nil:
		return article, true
	case errors.Is(err, repositories.ErrNotFound):
		nc.sendError(w, r, headingNewsNotFound, msgNewsNotFound, http.StatusNotFound)
	default:
		nc.logger().Error("failed to load news item", zap.String("slug", slug), zap.Error(err))
		nc.sendError(w, r, headingUnavailable, msgContentFailed, http.StatusInternalServerError)
	}
	return nil, false
}
