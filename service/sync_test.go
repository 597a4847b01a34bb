package service

import (
	"context"
	"testing"
	"time"

	"autoreview/app/models"
	"autoreview/app/repositories"
	"autoreview/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	src      Source
	posts    *mock.PostRepository
	comments *mock.CommentRepository
	store    *repositories.Store
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	store, err := repositories.NewStore("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	posts := mock.NewPostRepository(
		&models.Post{ID: "p1", Title: "Golf GTI", Slug: models.Slug{Current: "golf-gti"}, PublishedAt: day(1)},
		&models.Post{ID: "p2", Title: "Civic Type R", Slug: models.Slug{Current: "civic-type-r"}, PublishedAt: day(2)},
	)
	comments := mock.NewCommentRepository(
		&models.Comment{ID: "c1", Name: "Ann", PostName: "Golf GTI", Approved: true, CreatedAt: day(3)},
		&models.Comment{ID: "c2", Name: "Bob", PostName: "Golf GTI", CreatedAt: day(4)},
	)
	return &syncFixture{
		src: Source{
			Posts:    posts,
			News:     mock.NewNewsRepository(&models.NewsItem{ID: "n1", Title: "EV tax credit", Slug: models.Slug{Current: "ev-tax"}, Date: day(1)}),
			Cars:     mock.NewCarRepository(&models.CarSpec{ID: "car-golf", Name: "Golf GTI"}),
			Comments: comments,
		},
		posts:    posts,
		comments: comments,
		store:    store,
	}
}

func (f *syncFixture) addLocalComment(t *testing.T, name string) *models.Comment {
	t.Helper()
	c := models.NewComment(&models.CommentSubmission{
		Name: name, Email: "reader@example.com", Comment: "Submitted while offline", PostName: "Golf GTI",
	}, day(5))
	require.NoError(t, f.store.Comments().Create(context.Background(), c))
	return c
}

func TestSyncMirrorsContent(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)
	require.NoError(t, f.store.Posts().Replace([]*models.Post{
		{ID: "stale", Title: "Removed review", Slug: models.Slug{Current: "removed"}},
	}))
	f.addLocalComment(t, "Cleo")

	syncer := NewSyncer(f.src, f.store, true, nil)
	syncer.now = func() time.Time { return day(9) }
	report, err := syncer.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, &SyncReport{Posts: 2, News: 1, Cars: 1, Comments: 1, Uploaded: 1, At: day(9)}, report)

	posts, err := f.store.Posts().List(ctx, repositories.NewestFirst, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Civic Type R", posts[0].Title)

	_, err = f.store.Posts().GetBySlug(ctx, "removed")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	approved, err := f.store.Comments().ListApproved(ctx, "golf-gti")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Ann", approved[0].Name)

	pending, err := f.store.Comments().Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "uploaded comments leave the snapshot")

	assert.Equal(t, 1, f.comments.Created)
	uploaded := f.comments.All()
	last := uploaded[len(uploaded)-1]
	assert.Equal(t, "Cleo", last.Name)
	assert.False(t, last.Approved)

	at, err := f.store.SyncedAt()
	require.NoError(t, err)
	assert.True(t, at.Equal(day(9)))
}

func TestSyncWithoutWriteTokenKeepsPending(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)
	f.addLocalComment(t, "Cleo")

	report, err := NewSyncer(f.src, f.store, false, nil).Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Uploaded)
	assert.Zero(t, f.comments.Created)

	pending, err := f.store.Comments().Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Cleo", pending[0].Name)
}

func TestSyncDropsCommentsGoneRemotely(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)
	require.NoError(t, f.store.Comments().Upsert([]*models.Comment{
		{ID: "gone", Name: "Dee", PostName: "Golf GTI", Approved: true, CreatedAt: day(2)},
		{ID: "c1", Name: "Ann (edited)", PostName: "Golf GTI", Approved: true, CreatedAt: day(3)},
	}))
	f.addLocalComment(t, "Cleo")

	_, err := NewSyncer(f.src, f.store, false, nil).Run(ctx)
	require.NoError(t, err)

	approved, err := f.store.Comments().ListApproved(ctx, "golf-gti")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "c1", approved[0].ID)
	assert.Equal(t, "Ann", approved[0].Name)

	pending, err := f.store.Comments().Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Cleo", pending[0].Name)
}

func TestSyncFetchErrorLeavesSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newSyncFixture(t)
	require.NoError(t, f.store.Posts().Replace([]*models.Post{
		{ID: "kept", Title: "Kept review", Slug: models.Slug{Current: "kept"}},
	}))
	f.posts.Err = assert.AnError

	_, err := NewSyncer(f.src, f.store, true, nil).Run(ctx)
	require.ErrorIs(t, err, assert.AnError)

	_, err = f.store.Posts().GetBySlug(ctx, "kept")
	assert.NoError(t, err)

	at, err := f.store.SyncedAt()
	require.NoError(t, err)
	assert.True(t, at.IsZero())
}

func TestUploadPendingStops(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"rejected credentials", repositories.ErrUnauthorized, false},
		{"transport failure", assert.AnError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newSyncFixture(t)
			f.addLocalComment(t, "Cleo")
			f.comments.Err = tt.err

			n, err := NewSyncer(f.src, f.store, true, nil).uploadPending(ctx)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Zero(t, n)

			pending, err := f.store.Comments().Pending(ctx)
			require.NoError(t, err)
			assert.Len(t, pending, 1)
		})
	}
}
