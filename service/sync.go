package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autoreview/app/models"
	"autoreview/app/repositories"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CommentSource is the remote comment collection a sync reads and uploads to.
type CommentSource interface {
	repositories.CommentRepository
	AllApproved(ctx context.Context) ([]*models.Comment, error)
}

// Source is the remote side of a sync.
type Source struct {
	Posts    repositories.PostRepository
	News     repositories.NewsRepository
	Cars     repositories.CarRepository
	Comments CommentSource
}

// SyncReport counts what a sync moved.
type SyncReport struct {
	Posts    int
	News     int
	Cars     int
	Comments int
	Uploaded int
	At       time.Time
}

// Syncer mirrors the content store into the local snapshot.
type Syncer struct {
	src    Source
	store  *repositories.Store
	upload bool
	logger *zap.Logger
	now    func() time.Time
}

// NewSyncer creates a Syncer. With upload set, comments submitted while
// offline are sent to src before the mirror is taken.
func NewSyncer(src Source, store *repositories.Store, upload bool, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{src: src, store: store, upload: upload, logger: logger, now: time.Now}
}

// Run uploads pending comments, then replaces the snapshot's posts, news and
// cars and merges in the approved comments. The sync time is recorded only
// when every collection was written.
func (s *Syncer) Run(ctx context.Context) (*SyncReport, error) {
	report := &SyncReport{}

	uploaded, err := s.uploadPending(ctx)
	if err != nil {
		return nil, err
	}
	report.Uploaded = uploaded

	var (
		posts    []*models.Post
		news     []*models.NewsItem
		cars     []*models.CarSpec
		comments []*models.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = s.src.Posts.List(gctx, repositories.NewestFirst, 0)
		return err
	})
	g.Go(func() (err error) {
		news, err = s.src.News.List(gctx, 0)
		return err
	})
	g.Go(func() (err error) {
		cars, err = s.src.Cars.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		comments, err = s.src.Comments.AllApproved(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}

	if err := s.store.Posts().Replace(posts); err != nil {
		return nil, fmt.Errorf("store posts: %w", err)
	}
	if err := s.store.News().Replace(news); err != nil {
		return nil, fmt.Errorf("store news: %w", err)
	}
	if err := s.store.Cars().Replace(cars); err != nil {
		return nil, fmt.Errorf("store cars: %w", err)
	}
	if err := s.store.Comments().ReplaceApproved(comments); err != nil {
		return nil, fmt.Errorf("store comments: %w", err)
	}

	report.Posts, report.News, report.Cars, report.Comments = len(posts), len(news), len(cars), len(comments)
	report.At = s.now()
	if err := s.store.MarkSynced(report.At); err != nil {
		return nil, fmt.Errorf("mark synced: %w", err)
	}

	s.logger.Info("snapshot synced",
		zap.Int("posts", report.Posts),
		zap.Int("news", report.News),
		zap.Int("cars", report.Cars),
		zap.Int("comments", report.Comments),
		zap.Int("uploaded", report.Uploaded),
	)
	return report, nil
}

// uploadPending sends locally submitted comments to the content store and
// removes the ones it accepted. The first failure stops the upload and
// leaves the rest for a later sync; only credential errors let the sync go on.
func (s *Syncer) uploadPending(ctx context.Context) (int, error) {
	local := s.store.Comments()
	pending, err := local.Pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("pending comments: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}
	if !s.upload {
		s.logger.Info("pending comments kept, no write token configured", zap.Int("pending", len(pending)))
		return 0, nil
	}

	var (
		sent      []string
		uploadErr error
	)
	for _, c := range pending {
		remote := *c
		remote.ID = ""
		if err := s.src.Comments.Create(ctx, &remote); err != nil {
			if errors.Is(err, repositories.ErrUnauthorized) {
				s.logger.Warn("comment upload rejected", zap.Error(err))
			} else {
				uploadErr = fmt.Errorf("upload comment %s: %w", c.ID, err)
			}
			break
		}
		sent = append(sent, c.ID)
	}

	if err := local.Delete(ctx, sent...); err != nil {
		return 0, fmt.Errorf("remove uploaded comments: %w", err)
	}
	return len(sent), uploadErr
}
