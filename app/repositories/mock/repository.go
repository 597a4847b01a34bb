package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"autoreview/app/models"
	"autoreview/app/repositories"
)

type PostRepository struct {
	posts []*models.Post
	Err   error
	mutex sync.RWMutex
}

type NewsRepository struct {
	items []*models.NewsItem
	Err   error
	mutex sync.RWMutex
}

type CarRepository struct {
	cars  []*models.CarSpec
	Err   error
	Calls int
	mutex sync.RWMutex
}

type CommentRepository struct {
	comments []*models.Comment
	nextID   int
	Err      error
	Created  int
	mutex    sync.RWMutex
}

func NewPostRepository(posts ...*models.Post) *PostRepository {
	return &PostRepository{posts: posts}
}

func NewNewsRepository(items ...*models.NewsItem) *NewsRepository {
	return &NewsRepository{items: items}
}

func NewCarRepository(cars ...*models.CarSpec) *CarRepository {
	return &CarRepository{cars: cars}
}

func NewCommentRepository(comments ...*models.Comment) *CommentRepository {
	return &CommentRepository{comments: comments, nextID: 1}
}

// PostRepository implementation
func (m *PostRepository) List(ctx context.Context, order repositories.Order, limit int) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	posts := append([]*models.Post(nil), m.posts...)
	sort.SliceStable(posts, func(i, j int) bool {
		if order == repositories.NewestFirst {
			return posts[i].PublishedAt.After(posts[j].PublishedAt)
		}
		return posts[i].PublishedAt.Before(posts[j].PublishedAt)
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, p := range m.posts {
		if p.Slug.Current == slug {
			return p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// NewsRepository implementation
func (m *NewsRepository) sorted() []*models.NewsItem {
	items := append([]*models.NewsItem(nil), m.items...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items
}

func (m *NewsRepository) List(ctx context.Context, limit int) ([]*models.NewsItem, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	items := m.sorted()
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *NewsRepository) GetBySlug(ctx context.Context, slug string) (*models.NewsItem, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, n := range m.items {
		if n.Slug.Current == slug {
			return n, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *NewsRepository) Related(ctx context.Context, item *models.NewsItem, limit int) ([]*models.NewsItem, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	wanted := map[string]bool{}
	for _, id := range item.CategoryIDs() {
		wanted[id] = true
	}
	var related []*models.NewsItem
	for _, n := range m.sorted() {
		if n.ID == item.ID {
			continue
		}
		for _, id := range n.CategoryIDs() {
			if wanted[id] {
				related = append(related, n)
				break
			}
		}
	}
	if limit > 0 && len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

// CarRepository implementation
func (m *CarRepository) List(ctx context.Context) ([]*models.CarSpec, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]*models.CarSpec(nil), m.cars...), nil
}

func (m *CarRepository) GetByID(ctx context.Context, id string) (*models.CarSpec, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, c := range m.cars {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// CommentRepository implementation
func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	comment.ID = fmt.Sprintf("comment-%d", m.nextID)
	m.nextID++
	m.Created++
	m.comments = append(m.comments, comment)
	return nil
}

func (m *CommentRepository) ListApproved(ctx context.Context, slug string) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var comments []*models.Comment
	for _, c := range m.comments {
		if c.Visible() && c.MatchesPost(slug) {
			comments = append(comments, c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// All returns every stored comment, approved or not.
func (m *CommentRepository) All() []*models.Comment {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]*models.Comment(nil), m.comments...)
}

// AllApproved returns every approved comment, newest first.
func (m *CommentRepository) AllApproved(ctx context.Context) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var comments []*models.Comment
	for _, c := range m.comments {
		if c.Visible() {
			comments = append(comments, c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}
