package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/instacommunity/backend/internal/apperr"
	"github.com/instacommunity/backend/internal/feed"
	"github.com/instacommunity/backend/internal/models"
	"github.com/instacommunity/backend/pkg/telemetry"
)

// CreateComment adds a comment to a live post. The parent-post check and
// the insert share one transaction so the post cannot be deleted in
// between.
func (s *Service) CreateComment(ctx context.Context, postID, userID int64, content string) (*feed.CommentItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.create_comment")
	defer span.End()

	var commentID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Select("id").Where("id = ? AND deleted_at IS NULL", postID).Take(&post).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Post not found")
			}
			return err
		}

		comment := models.Comment{PostID: postID, UserID: userID, Content: content}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		commentID = comment.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.feed.GetComment(ctx, commentID)
}

// UpdateComment rewrites a comment's content after the ownership guard
func (s *Service) UpdateComment(ctx context.Context, commentID, userID int64, content string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.update_comment")
	defer span.End()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardCommentOwner(tx, commentID, userID); err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			Update("content", content).Error
	})
}

// DeleteComment soft-deletes a comment after the ownership guard
func (s *Service) DeleteComment(ctx context.Context, commentID, userID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "service.delete_comment")
	defer span.End()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardCommentOwner(tx, commentID, userID); err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			Update("deleted_at", time.Now().UTC()).Error
	})
}

// guardCommentOwner mirrors guardPostOwner for comments
func guardCommentOwner(tx *gorm.DB, commentID, userID int64) error {
	var comment models.Comment
	err := tx.Select("id, user_id").
		Where("id = ? AND deleted_at IS NULL", commentID).
		Take(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Comment not found")
		}
		return err
	}
	if comment.UserID != userID {
		return apperr.Forbidden("Not allowed")
	}
	return nil
}
