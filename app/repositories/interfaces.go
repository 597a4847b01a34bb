package repositories

import (
	"context"

	"autoreview/app/models"
)

// Order selects the publication order of a listing.
type Order int

const (
	NewestFirst Order = iota
	OldestFirst
)

// PostRepository defines read access to reviews
type PostRepository interface {
	// List returns posts by publishedAt. A limit of 0 returns every post.
	List(ctx context.Context, order Order, limit int) ([]*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
}

// NewsRepository defines read access to news and updates
type NewsRepository interface {
	// List returns news items newest first. A limit of 0 returns every item.
	List(ctx context.Context, limit int) ([]*models.NewsItem, error)
	GetBySlug(ctx context.Context, slug string) (*models.NewsItem, error)
	// Related returns items sharing a category with item, excluding item itself.
	Related(ctx context.Context, item *models.NewsItem, limit int) ([]*models.NewsItem, error)
}

// CarRepository defines read access to car specifications
type CarRepository interface {
	List(ctx context.Context) ([]*models.CarSpec, error)
	GetByID(ctx context.Context, id string) (*models.CarSpec, error)
}

// CommentRepository defines comment persistence
type CommentRepository interface {
	// Create stores the comment and sets its ID.
	Create(ctx context.Context, comment *models.Comment) error
	// ListApproved returns approved comments whose post name loosely matches
	// slug, newest first.
	ListApproved(ctx context.Context, slug string) ([]*models.Comment, error)
}
