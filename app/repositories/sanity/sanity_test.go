package sanity

import (
	"context"
	"errors"
	"testing"
	"time"

	"autoreview/app/content"
	"autoreview/app/models"
	"autoreview/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchCall struct {
	query  content.Query
	params content.Params
}

// fakeClient records calls and answers from canned results.
type fakeClient struct {
	calls   []fetchCall
	fetch   func(q content.Query, out interface{}) error
	created []content.Document
	id      string
	err     error
}

func (f *fakeClient) Fetch(ctx context.Context, q content.Query, params content.Params, out interface{}) error {
	f.calls = append(f.calls, fetchCall{query: q, params: params})
	if f.err != nil {
		return f.err
	}
	if f.fetch != nil {
		return f.fetch(q, out)
	}
	return nil
}

func (f *fakeClient) Create(ctx context.Context, doc content.Document) (string, error) {
	f.created = append(f.created, doc)
	return f.id, f.err
}

func TestPostRepositoryList(t *testing.T) {
	tests := []struct {
		name  string
		order repositories.Order
		limit int
		want  string
	}{
		{"featured", repositories.NewestFirst, 3, `*[_type == "post"] | order(publishedAt desc)[0...3]`},
		{"latest updates", repositories.OldestFirst, 3, `*[_type == "post"] | order(publishedAt asc)[0...3]`},
		{"all", repositories.NewestFirst, 0, `*[_type == "post"] | order(publishedAt desc)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			_, err := NewPostRepository(client).List(context.Background(), tt.order, tt.limit)
			require.NoError(t, err)
			require.Len(t, client.calls, 1)
			assert.Contains(t, client.calls[0].query.String(), tt.want+" {")
		})
	}
}

func TestPostRepositoryGetBySlug(t *testing.T) {
	client := &fakeClient{err: content.ErrNotFound}
	_, err := NewPostRepository(client).GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Equal(t, "missing", client.calls[0].params["slug"])

	client = &fakeClient{fetch: func(q content.Query, out interface{}) error {
		out.(*models.Post).Title = "Ford GT500"
		return nil
	}}
	post, err := NewPostRepository(client).GetBySlug(context.Background(), "ford-gt500")
	require.NoError(t, err)
	assert.Equal(t, "Ford GT500", post.Title)
	assert.True(t, client.calls[0].query.Single)
}

func TestNewsRepositoryRelated(t *testing.T) {
	client := &fakeClient{}
	repo := NewNewsRepository(client)

	related, err := repo.Related(context.Background(), &models.NewsItem{ID: "n1"}, 3)
	require.NoError(t, err)
	assert.Empty(t, related)
	assert.Empty(t, client.calls, "no categories means no query")

	item := &models.NewsItem{ID: "n1", Categories: []models.Category{{ID: "cat-ev"}, {ID: "cat-recall"}}}
	_, err = repo.Related(context.Background(), item, 3)
	require.NoError(t, err)
	require.Len(t, client.calls, 1)

	call := client.calls[0]
	assert.Contains(t, call.query.String(), `references($categories) && _id != $currentId] | order(date desc)[0...3]`)
	assert.Equal(t, []string{"cat-ev", "cat-recall"}, call.params["categories"])
	assert.Equal(t, "n1", call.params["currentId"])
}

func TestCommentRepository(t *testing.T) {
	t.Run("create sends an unapproved comment", func(t *testing.T) {
		client := &fakeClient{id: "comment-1"}
		c := &models.Comment{
			Name: "Jane", Email: "jane@example.com", Comment: "Loved this review", PostName: "GT500",
			CreatedAt: time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC),
		}
		require.NoError(t, NewCommentRepository(client).Create(context.Background(), c))

		assert.Equal(t, "comment-1", c.ID)
		require.Len(t, client.created, 1)
		doc := client.created[0]
		assert.Equal(t, "comment", doc["_type"])
		assert.Equal(t, false, doc["approved"])
		assert.Equal(t, "2025-02-03T04:05:06.000Z", doc["createdAt"])
	})

	t.Run("create keeps unauthorized identifiable", func(t *testing.T) {
		client := &fakeClient{err: content.ErrUnauthorized}
		err := NewCommentRepository(client).Create(context.Background(), &models.Comment{})
		assert.True(t, errors.Is(err, repositories.ErrUnauthorized))
	})

	t.Run("approved list matches on the slug title", func(t *testing.T) {
		client := &fakeClient{}
		_, err := NewCommentRepository(client).ListApproved(context.Background(), "ford-gt500-review")
		require.NoError(t, err)

		call := client.calls[0]
		assert.Equal(t, "ford gt500 review", call.params["searchTitle"])
		assert.Contains(t, call.query.String(),
			`approved == true && lower(postName) match ("*" + lower($searchTitle) + "*")] | order(createdAt desc)`)
	})

	listings := []struct {
		name string
		list func(r *CommentRepository) ([]*models.Comment, error)
	}{
		{"post listing", func(r *CommentRepository) ([]*models.Comment, error) {
			return r.ListApproved(context.Background(), "ford-gt500")
		}},
		{"full listing", func(r *CommentRepository) ([]*models.Comment, error) {
			return r.AllApproved(context.Background())
		}},
	}
	for _, tt := range listings {
		t.Run(tt.name+" projects every stored field", func(t *testing.T) {
			client := &fakeClient{}
			_, err := tt.list(NewCommentRepository(client))
			require.NoError(t, err)
			require.Len(t, client.calls, 1)
			assert.Equal(t, "_id, name, email, comment, postName, approved, createdAt", client.calls[0].query.Projection)
		})
	}
}
