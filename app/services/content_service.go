package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"autoreview/app/models"
	"autoreview/app/repositories"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	FeaturedLimit      = 3
	LatestUpdatesLimit = 3
	HomeNewsLimit      = 3
	RelatedLimit       = 3
)

// Home holds the sections of the landing page. A section whose fetch failed
// is empty and named in Failed.
type Home struct {
	Featured      []*models.Post     `json:"featured"`
	LatestUpdates []*models.Post     `json:"latestUpdates"`
	News          []*models.NewsItem `json:"news"`
	Failed        []string           `json:"failed,omitempty"`
}

// NewsArticle is a news item with the articles that share a category with it.
type NewsArticle struct {
	Item    *models.NewsItem   `json:"item"`
	Related []*models.NewsItem `json:"related"`
}

// ContentService reads posts, news and car specifications
type ContentService struct {
	postRepo repositories.PostRepository
	newsRepo repositories.NewsRepository
	carRepo  repositories.CarRepository
	logger   *zap.Logger
}

// NewContentService creates a new ContentService
func NewContentService(postRepo repositories.PostRepository, newsRepo repositories.NewsRepository, carRepo repositories.CarRepository, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		postRepo: postRepo,
		newsRepo: newsRepo,
		carRepo:  carRepo,
		logger:   logger,
	}
}

// Home fetches the three landing page sections concurrently.
func (s *ContentService) Home(ctx context.Context) *Home {
	home := &Home{
		Featured:      []*models.Post{},
		LatestUpdates: []*models.Post{},
		News:          []*models.NewsItem{},
	}

	var mu sync.Mutex
	failed := func(section string, err error) {
		s.logger.Error("failed to load home section", zap.String("section", section), zap.Error(err))
		mu.Lock()
		home.Failed = append(home.Failed, section)
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		posts, err := s.postRepo.List(ctx, repositories.NewestFirst, FeaturedLimit)
		if err != nil {
			failed("featured", err)
			return nil
		}
		home.Featured = posts
		return nil
	})
	g.Go(func() error {
		posts, err := s.postRepo.List(ctx, repositories.OldestFirst, LatestUpdatesLimit)
		if err != nil {
			failed("latest-updates", err)
			return nil
		}
		home.LatestUpdates = posts
		return nil
	})
	g.Go(func() error {
		items, err := s.newsRepo.List(ctx, HomeNewsLimit)
		if err != nil {
			failed("news", err)
			return nil
		}
		home.News = items
		return nil
	})
	_ = g.Wait()

	sort.Strings(home.Failed)
	return home
}

// Posts lists every post, newest first.
func (s *ContentService) Posts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx, repositories.NewestFirst, 0)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Post returns the post with slug, or repositories.ErrNotFound.
func (s *ContentService) Post(ctx context.Context, slug string) (*models.Post, error) {
	return s.postRepo.GetBySlug(ctx, slug)
}

// News lists the newest news items; a limit of 0 lists all of them.
func (s *ContentService) News(ctx context.Context, limit int) ([]*models.NewsItem, error) {
	items, err := s.newsRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

// NewsArticle returns the item with slug and up to RelatedLimit related
// items. A failed related lookup leaves the list empty.
func (s *ContentService) NewsArticle(ctx context.Context, slug string) (*NewsArticle, error) {
	item, err := s.newsRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	article := &NewsArticle{Item: item, Related: []*models.NewsItem{}}
	if len(item.Categories) == 0 {
		return article, nil
	}
	related, err := s.newsRepo.Related(ctx, item, RelatedLimit)
	if err != nil {
		s.logger.Error("failed to load related news", zap.String("slug", slug), zap.Error(err))
		return article, nil
	}
	if related != nil {
		article.Related = related
	}
	return article, nil
}

// Cars lists every car specification.
func (s *ContentService) Cars(ctx context.Context) ([]*models.CarSpec, error) {
	cars, err := s.carRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return cars, nil
}

// Car returns the car with id, or repositories.ErrNotFound.
func (s *ContentService) Car(ctx context.Context, id string) (*models.CarSpec, error) {
	return s.carRepo.GetByID(ctx, id)
}
