package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"autoreview/app/models"
	"autoreview/app/repositories"
	"autoreview/app/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	msgCommentCreated  = "Comment created successfully"
	msgInvalidBody     = "Invalid request body"
	msgCommentAuth     = "Authentication error. Please check your Sanity configuration."
	msgCommentFailed   = "An error occurred while creating the comment"
	msgCommentsFailed  = "An error occurred while loading comments"
	maxCommentBodySize = 64 << 10
)

// CommentController handles the JSON comment endpoints
type CommentController struct {
	*Base
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(base *Base, commentService *services.CommentService) *CommentController {
	return &CommentController{Base: base, commentService: commentService}
}

type commentCreated struct {
	Message   string `json:"message"`
	CommentID string `json:"commentId"`
}

type message struct {
	Message string `json:"message"`
}

// Create handles POST /api/comments
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	var sub models.CommentSubmission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommentBodySize)).Decode(&sub); err != nil {
		cc.sendJSON(w, http.StatusBadRequest, message{msgInvalidBody})
		return
	}

	comment, err := cc.commentService.Submit(r.Context(), &sub, r.RemoteAddr)
	if err != nil {
		status, msg := commentErrorStatus(err)
		cc.sendJSON(w, status, message{msg})
		return
	}

	cc.sendJSON(w, http.StatusCreated, commentCreated{Message: msgCommentCreated, CommentID: comment.ID})
}

// Index handles GET /api/posts/{slug}/comments
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	comments, err := cc.commentService.Approved(r.Context(), slug)
	if err != nil {
		cc.logger().Error("failed to load comments", zap.String("slug", slug), zap.Error(err))
		cc.sendJSON(w, http.StatusInternalServerError, message{msgCommentsFailed})
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	cc.sendJSON(w, http.StatusOK, publicComments(comments))
}

type publicComment struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Comment   string `json:"comment"`
	PostName  string `json:"postName"`
	CreatedAt string `json:"createdAt"`
}

// publicComments drops the commenter email from the listing.
func publicComments(comments []*models.Comment) []publicComment {
	out := make([]publicComment, 0, len(comments))
	for _, c := range comments {
		out = append(out, publicComment{
			ID:        c.ID,
			Name:      c.Name,
			Comment:   c.Comment,
			PostName:  c.PostName,
			CreatedAt: c.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	return out
}

func commentErrorStatus(err error) (int, string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, repositories.ErrUnauthorized):
		return http.StatusForbidden, msgCommentAuth
	}
	return http.StatusInternalServerError, msgCommentFailed
}
