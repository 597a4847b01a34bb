package controllers

import (
	"errors"
	"html/template"
	"net/http"

	"autoreview/app/models"
	"autoreview/app/repositories"
	"autoreview/app/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	msgCommentPending   = "Thank you! Your comment has been submitted and is awaiting approval."
	msgCommentTryAgain  = "Sorry, your comment could not be submitted. Please try again later."
	msgPostNotFound     = "The review you are looking for does not exist or has been removed."
	msgContentFailed    = "Something went wrong while loading this page. Please try again later."
	headingPostNotFound = "Post Not Found"
	headingUnavailable  = "Content Unavailable"
)

// PostController handles HTTP requests for reviews and the home page
type PostController struct {
	*Base
	contentService *services.ContentService
	commentService *services.CommentService
	searchService  *services.SearchService
}

// NewPostController creates a new PostController
func NewPostController(base *Base, contentService *services.ContentService, commentService *services.CommentService, searchService *services.SearchService) *PostController {
	return &PostController{
		Base:           base,
		contentService: contentService,
		commentService: commentService,
		searchService:  searchService,
	}
}

type postsPage struct {
	Posts   []*models.Post
	Query   string
	Listing *services.Listing
}

type commentForm struct {
	Action  string
	Values  models.CommentSubmission
	Field   string
	Error   string
	Success string
}

type postPage struct {
	Post     *models.Post
	Body     template.HTML
	Comments []*models.Comment
	Form     commentForm
}

// Home handles GET /
func (pc *PostController) Home(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, "home", "", pc.contentService.Home(r.Context()))
}

// Index handles GET /posts, with the search summary when q is set
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.contentService.Posts(r.Context())
	if err != nil {
		pc.logger().Error("failed to list posts", zap.Error(err))
		pc.sendError(w, r, headingUnavailable, msgContentFailed, http.StatusInternalServerError)
		return
	}

	page := postsPage{Posts: posts, Query: r.URL.Query().Get("q")}
	if page.Query != "" {
		listing, err := pc.searchService.Search(r.Context(), services.ScopePosts, page.Query, false)
		if err != nil {
			pc.logger().Warn("search summary unavailable", zap.Error(err))
		} else {
			page.Listing = &listing
		}
	}
	pc.render(w, r, http.StatusOK, "posts", "Car Reviews", page)
}

// Show handles GET /posts/{slug}
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return
	}
	pc.showPost(w, r, http.StatusOK, post, commentForm{Values: models.CommentSubmission{PostName: post.Title}})
}

// CreateComment handles POST /posts/{slug}/comments from the comment form
func (pc *PostController) CreateComment(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, "Bad Request", "The form could not be read.", http.StatusBadRequest)
		return
	}

	sub := models.CommentSubmission{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Comment:  r.FormValue("comment"),
		PostName: r.FormValue("postName"),
	}
	_, err := pc.commentService.Submit(r.Context(), &sub, r.RemoteAddr)

	var verr *models.ValidationError
	switch {
	case err == nil:
		pc.showPost(w, r, http.StatusOK, post, commentForm{
			Values:  models.CommentSubmission{PostName: post.Title},
			Success: msgCommentPending,
		})
	case errors.As(err, &verr):
		pc.showPost(w, r, http.StatusBadRequest, post, commentForm{Values: sub, Field: verr.Field, Error: verr.Message})
	default:
		pc.showPost(w, r, http.StatusInternalServerError, post, commentForm{Values: sub, Error: msgCommentTryAgain})
	}
}

// List handles GET /api/posts
func (pc *PostController) List(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.contentService.Posts(r.Context())
	if err != nil {
		pc.logger().Error("failed to list posts", zap.Error(err))
		pc.sendError(w, r, headingUnavailable, msgContentFailed, http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	pc.sendJSON(w, http.StatusOK, posts)
}

// Get handles GET /api/posts/{slug}
func (pc *PostController) Get(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// HomeJSON handles GET /api/home
func (pc *PostController) HomeJSON(w http.ResponseWriter, r *http.Request) {
	pc.sendJSON(w, http.StatusOK, pc.contentService.Home(r.Context()))
}

func (pc *PostController) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	slug := mux.Vars(r)["slug"]
	post, err := pc.contentService.Post(r.Context(), slug)
	switch {
	case err == nil:
		return post, true
	case errors.Is(err, repositories.ErrNotFound):
		pc.sendError(w, r, headingPostNotFound, msgPostNotFound, http.StatusNotFound)
	default:
		pc.logger().Error("failed to load post", zap.String("slug", slug), zap.Error(err))
		pc.sendError(w, r, headingUnavailable, msgContentFailed, http.StatusInternalServerError)
	}
	return nil, false
}

func (pc *PostController) showPost(w http.ResponseWriter, r *http.Request, status int, post *models.Post, form commentForm) {
	comments, err := pc.commentService.Approved(r.Context(), post.Slug.Current)
	if err != nil {
		pc.logger().Warn("failed to load comments", zap.String("slug", post.Slug.Current), zap.Error(err))
		comments = nil
	}

	rich := pc.RichText
	rich.TOC = true
	form.Action = post.Path() + "/comments"
	pc.render(w, r, status, "post", post.Title, postPage{
		Post:     post,
		Body:     rich.Render(post.Body),
		Comments: comments,
		Form:     form,
	})
}
