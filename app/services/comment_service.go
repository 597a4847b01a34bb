package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"time"

	"autoreview/app/models"
	"autoreview/app/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"
)

// CommentService handles comment submission and the approved comment list
type CommentService struct {
	commentRepo repositories.CommentRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		commentRepo: commentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit validates sub and stores it as an unapproved comment. Validation
// failures are returned as *models.ValidationError before anything is sent
// to the repository.
func (s *CommentService) Submit(ctx context.Context, sub *models.CommentSubmission, remoteAddr string) (*models.Comment, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	comment := models.NewComment(sub, s.now())
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		fields := []zap.Field{
			zap.String("post_name", sub.PostName),
			zap.String("client", ClientDigest(remoteAddr)),
			zap.Error(err),
		}
		if errors.Is(err, repositories.ErrUnauthorized) {
			s.logger.Error("comment rejected by content store, check the API token", fields...)
		} else {
			s.logger.Error("failed to create comment", fields...)
		}
		return nil, fmt.Errorf("submit comment: %w", err)
	}

	s.logger.Info("comment submitted",
		zap.String("comment_id", comment.ID),
		zap.String("post_name", comment.PostName),
		zap.String("client", ClientDigest(remoteAddr)),
	)
	return comment, nil
}

// Approved lists the approved comments whose post name loosely matches
// slug, newest first.
func (s *CommentService) Approved(ctx context.Context, slug string) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListApproved(ctx, slug)
	if err != nil {
		return nil, err
	}
	visible := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Visible() {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// ClientDigest returns a short SHA3-256 digest of the host part of addr so
// that client addresses never appear in logs.
func ClientDigest(addr string) string {
	if addr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	sum := sha3.Sum256([]byte(host))
	return hex.EncodeToString(sum[:8])
}
