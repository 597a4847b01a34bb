package views

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"autoreview/app/models"
	"autoreview/app/site"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	templates, err := Load()
	require.NoError(t, err)

	for _, name := range []string{"home", "posts", "post", "news", "compare", "search", "error"} {
		assert.Contains(t, templates, name)
	}
}

func TestRenderErrorPage(t *testing.T) {
	templates, err := Load()
	require.NoError(t, err)
	s, err := site.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = templates.Render(&buf, "error", Page{
		Title: "Post Not Found",
		Path:  "/posts/missing",
		Site:  s,
		Data: struct{ Heading, Message string }{
			Heading: "Post Not Found",
			Message: "<b>gone</b>",
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>Post Not Found | Auto Review</title>")
	assert.Contains(t, out, "&lt;b&gt;gone&lt;/b&gt;")
	assert.Contains(t, out, `<a href="/posts" class="active">Reviews</a>`)
}

func TestRenderPostComments(t *testing.T) {
	templates, err := Load()
	require.NoError(t, err)
	s, err := site.Default()
	require.NoError(t, err)

	type form struct {
		Action, Error, Field, Success string
		Values                        models.CommentSubmission
	}
	data := struct {
		Post     *models.Post
		Body     template.HTML
		Comments []*models.Comment
		Form     form
	}{
		Post: &models.Post{Title: "GT500", PublishedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		Body: template.HTML(`<article class="rich-text"></article>`),
		Form: form{Action: "/posts/gt500/comments", Values: models.CommentSubmission{PostName: "GT500"}},
	}

	var buf bytes.Buffer
	require.NoError(t, templates.Render(&buf, "post", Page{Site: s, Data: data}))
	out := buf.String()
	assert.Contains(t, out, "No comments yet")
	assert.Contains(t, out, `<article class="rich-text"></article>`)
	assert.Contains(t, out, "February 1, 2024")

	assert.Error(t, templates.Render(&buf, "missing", Page{Site: s}))
}
