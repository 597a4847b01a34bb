package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var looseEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return looseEmail.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidationError reports the first rule a comment submission violates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CommentSubmission is the reader-supplied part of a comment.
type CommentSubmission struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Comment  string `json:"comment"`
	PostName string `json:"postName"`
}

type submissionRule struct {
	field   string
	tag     string
	message string
	value   func(*CommentSubmission) string
}

// Rules run in this order and the first failure wins.
var submissionRules = []submissionRule{
	{"name", "required,min=2", "Name is required and must be at least 2 characters",
		func(s *CommentSubmission) string { return s.Name }},
	{"email", "required,loose_email", "Valid email is required",
		func(s *CommentSubmission) string { return s.Email }},
	{"comment", "required,min=10", "Comment must be at least 10 characters",
		func(s *CommentSubmission) string { return s.Comment }},
	{"postName", "required", "Post name is required",
		func(s *CommentSubmission) string { return s.PostName }},
}

// Validate returns a *ValidationError for the first violated rule, or nil.
func (s *CommentSubmission) Validate() error {
	for _, rule := range submissionRules {
		if err := validate.Var(rule.value(s), rule.tag); err != nil {
			return &ValidationError{Field: rule.field, Message: rule.message}
		}
	}
	return nil
}

// NewComment builds an unapproved comment from a submission.
func NewComment(s *CommentSubmission, now time.Time) *Comment {
	return &Comment{
		Name:      s.Name,
		Email:     s.Email,
		Comment:   s.Comment,
		PostName:  s.PostName,
		Approved:  false,
		CreatedAt: now.UTC(),
	}
}

// SearchTitle turns a post slug into the text comments are matched against.
func SearchTitle(slug string) string {
	return strings.TrimSpace(strings.ReplaceAll(slug, "-", " "))
}

// MatchesPost reports whether the comment's post name contains the slug's
// search title, ignoring case.
func (c *Comment) MatchesPost(slug string) bool {
	return strings.Contains(strings.ToLower(c.PostName), strings.ToLower(SearchTitle(slug)))
}

// Visible reports whether the comment may be shown to readers.
func (c *Comment) Visible() bool {
	return c.Approved
}
