package repositories

import (
	"context"
	"fmt"

	"autoreview/app/models"

	"github.com/dgraph-io/badger/v4"
)

type BadgerNewsRepository struct {
	db *badger.DB
}

func NewBadgerNewsRepository(db *badger.DB) *BadgerNewsRepository {
	return &BadgerNewsRepository{db: db}
}

func (r *BadgerNewsRepository) Replace(items []*models.NewsItem) error {
	if err := dropPrefix(r.db, NewsKeyPrefix); err != nil {
		return fmt.Errorf("drop news: %w", err)
	}
	return putEntities(r.db, NewsKeyPrefix, items, func(n *models.NewsItem) string { return n.Slug.Current })
}

func (r *BadgerNewsRepository) all() ([]*models.NewsItem, error) {
	var items []*models.NewsItem
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, NewsKeyPrefix, func(val []byte) error {
			var item models.NewsItem
			if err := unmarshalEntity(val, &item); err != nil {
				return err
			}
			items = append(items, &item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortByTime(items, true)
	return items, nil
}

func (r *BadgerNewsRepository) List(ctx context.Context, limit int) ([]*models.NewsItem, error) {
	items, err := r.all()
	if err != nil {
		return nil, err
	}
	return limitSlice(items, limit), nil
}

func (r *BadgerNewsRepository) GetBySlug(ctx context.Context, slug string) (*models.NewsItem, error) {
	var item models.NewsItem
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(NewsKeyPrefix, slug), &item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *BadgerNewsRepository) Related(ctx context.Context, item *models.NewsItem, limit int) ([]*models.NewsItem, error) {
	wanted := make(map[string]bool, len(item.Categories))
	for _, id := range item.CategoryIDs() {
		wanted[id] = true
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	items, err := r.all()
	if err != nil {
		return nil, err
	}

	var related []*models.NewsItem
	for _, candidate := range items {
		if candidate.ID == item.ID {
			continue
		}
		for _, id := range candidate.CategoryIDs() {
			if wanted[id] {
				related = append(related, candidate)
				break
			}
		}
	}
	return limitSlice(related, limit), nil
}
