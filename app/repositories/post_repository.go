package repositories

import (
	"context"
	"fmt"

	"autoreview/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository over the snapshot
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Replace swaps the stored posts for posts.
func (r *BadgerPostRepository) Replace(posts []*models.Post) error {
	if err := dropPrefix(r.db, PostKeyPrefix); err != nil {
		return fmt.Errorf("drop posts: %w", err)
	}
	return putEntities(r.db, PostKeyPrefix, posts, func(p *models.Post) string { return p.Slug.Current })
}

// List returns the stored posts ordered by publishedAt
func (r *BadgerPostRepository) List(ctx context.Context, order Order, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, PostKeyPrefix, func(val []byte) error {
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return err
			}
			posts = append(posts, &post)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortByTime(posts, order == NewestFirst)
	return limitSlice(posts, limit), nil
}

// GetBySlug retrieves a post by its slug
func (r *BadgerPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(PostKeyPrefix, slug), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}
