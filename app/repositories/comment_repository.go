package repositories

import (
	"context"
	"fmt"
	"sort"

	"autoreview/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create stores a comment under a fresh id
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		comment.ID = uuid.NewString()

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}
		return txn.Set(entityKey(CommentKeyPrefix, comment.ID), data)
	})
}

// Upsert writes comments over any stored under the same id. Comments created
// locally are kept.
func (r *BadgerCommentRepository) Upsert(comments []*models.Comment) error {
	return putEntities(r.db, CommentKeyPrefix, comments, func(c *models.Comment) string { return c.ID })
}

// ReplaceApproved swaps every approved comment for comments in one
// transaction. Pending comments are kept for upload.
func (r *BadgerCommentRepository) ReplaceApproved(comments []*models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var stale []string
		err := scanPrefix(txn, CommentKeyPrefix, func(val []byte) error {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			if comment.Approved {
				stale = append(stale, comment.ID)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, id := range stale {
			if err := txn.Delete(entityKey(CommentKeyPrefix, id)); err != nil {
				return err
			}
		}
		for _, c := range comments {
			data, err := marshalEntity(c)
			if err != nil {
				return err
			}
			if err := txn.Set(entityKey(CommentKeyPrefix, c.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the comments with ids. Missing ids are ignored.
func (r *BadgerCommentRepository) Delete(ctx context.Context, ids ...string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := txn.Delete(entityKey(CommentKeyPrefix, id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Pending returns comments awaiting moderation, oldest first.
func (r *BadgerCommentRepository) Pending(ctx context.Context) ([]*models.Comment, error) {
	comments, err := r.filter(func(c *models.Comment) bool { return !c.Approved })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// ListApproved retrieves the approved comments of a post
func (r *BadgerCommentRepository) ListApproved(ctx context.Context, slug string) ([]*models.Comment, error) {
	comments, err := r.filter(func(c *models.Comment) bool {
		return c.Visible() && c.MatchesPost(slug)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *BadgerCommentRepository) filter(keep func(*models.Comment) bool) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, CommentKeyPrefix, func(val []byte) error {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			if keep(&comment) {
				comments = append(comments, &comment)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}
