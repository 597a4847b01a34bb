// Package routes wires the controllers into the HTTP route table.
package routes

import (
	"net/http"
	"strings"

	"autoreview/app/controllers"
	"autoreview/app/middleware"
	"autoreview/app/views"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Controllers is every controller the route table dispatches to.
type Controllers struct {
	Posts    *controllers.PostController
	Comments *controllers.CommentController
	News     *controllers.NewsController
	Compare  *controllers.CompareController
	Search   *controllers.SearchController
}

// Setup defines the site and API routes and returns the root handler.
func Setup(c Controllers, logger *zap.Logger, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))

	router.NotFoundHandler = middleware.Logger(logger)(http.HandlerFunc(notFound))

	// Web routes
	router.HandleFunc("/", c.Posts.Home).Methods("GET")
	router.HandleFunc("/search", c.Search.Show).Methods("GET")
	router.HandleFunc("/compare", c.Compare.Show).Methods("GET")
	router.HandleFunc("/news/{slug}", c.News.Show).Methods("GET")

	posts := router.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", c.Posts.Index).Methods("GET")
	posts.HandleFunc("/{slug}", c.Posts.Show).Methods("GET")
	posts.HandleFunc("/{slug}/comments", c.Posts.CreateComment).Methods("POST")

	router.HandleFunc("/ws/search", c.Search.Live).Methods("GET")
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", views.Static())).Methods("GET")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	api.HandleFunc("/home", c.Posts.HomeJSON).Methods("GET")
	api.HandleFunc("/posts", c.Posts.List).Methods("GET")
	api.HandleFunc("/posts/{slug}", c.Posts.Get).Methods("GET")
	api.HandleFunc("/posts/{slug}/comments", c.Comments.Index).Methods("GET")
	api.HandleFunc("/comments", c.Comments.Create).Methods("POST")
	api.HandleFunc("/news", c.News.List).Methods("GET")
	api.HandleFunc("/news/{slug}", c.News.Get).Methods("GET")
	api.HandleFunc("/cars", c.Compare.Cars).Methods("GET")
	api.HandleFunc("/compare", c.Compare.Get).Methods("GET")
	api.HandleFunc("/search", c.Search.Search).Methods("GET")

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler(router)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}` + "\n"))
		return
	}
	http.NotFound(w, r)
}
