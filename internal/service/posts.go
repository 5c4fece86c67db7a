package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/instacommunity/backend/internal/apperr"
	"github.com/instacommunity/backend/internal/feed"
	"github.com/instacommunity/backend/internal/models"
	"github.com/instacommunity/backend/pkg/telemetry"
)

// PostInput carries validated post fields for create and update
type PostInput struct {
	Title       string
	Body        string
	Place       *string
	PublishedAt *time.Time
	Images      []string
	Tags        []string
}

// CreatePost writes a post with its images and tags in one transaction
// and returns the aggregated post.
func (s *Service) CreatePost(ctx context.Context, userID int64, in PostInput) (*feed.PostItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.create_post")
	defer span.End()

	var postID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		publishedAt := time.Now().UTC()
		if in.PublishedAt != nil {
			publishedAt = *in.PublishedAt
		}

		post := models.Post{
			UserID:      userID,
			Title:       in.Title,
			Body:        in.Body,
			PublishedAt: publishedAt,
		}
		if in.Place != nil {
			post.Place = sql.NullString{String: *in.Place, Valid: true}
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		postID = post.ID

		if err := insertImages(tx, post.ID, in.Images); err != nil {
			return err
		}
		return insertTags(tx, post.ID, in.Tags)
	})
	if err != nil {
		return nil, err
	}

	return s.feed.GetPost(ctx, postID)
}

// UpdatePost rewrites a post's fields and fully replaces its image and
// tag sets. Replacement is delete-then-reinsert, which keeps update
// idempotent at the cost of row identity across edits.
func (s *Service) UpdatePost(ctx context.Context, postID, userID int64, in PostInput) (*feed.PostItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.update_post")
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardPostOwner(tx, postID, userID); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"title": in.Title,
			"body":  in.Body,
			"place": nil,
		}
		if in.Place != nil {
			updates["place"] = *in.Place
		}
		if in.PublishedAt != nil {
			updates["published_at"] = *in.PublishedAt
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		if err := insertImages(tx, postID, in.Images); err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return insertTags(tx, postID, in.Tags)
	})
	if err != nil {
		return nil, err
	}

	return s.feed.GetPost(ctx, postID)
}

// DeletePost soft-deletes a post after the ownership guard
func (s *Service) DeletePost(ctx context.Context, postID, userID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "service.delete_post")
	defer span.End()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := guardPostOwner(tx, postID, userID); err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Update("deleted_at", time.Now().UTC()).Error
	})
}

// LikeResult is the state after a toggle
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

// ToggleLike flips the caller's like on a post. It attempts the insert
// first and lets the (post_id, user_id) constraint arbitrate: a
// duplicate-key rejection means "already liked" and converts into a
// delete. Two concurrent toggles can never both observe "not liked" the
// way a read-then-write would. The savepoint exists because Postgres
// aborts the whole transaction on a constraint violation.
func (s *Service) ToggleLike(ctx context.Context, postID, userID int64) (*LikeResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.toggle_like")
	defer span.End()

	result := &LikeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Select("id").Where("id = ? AND deleted_at IS NULL", postID).Take(&post).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Post not found")
			}
			return err
		}

		if err := tx.SavePoint("toggle").Error; err != nil {
			return err
		}

		like := models.PostLike{PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}
		err = tx.Create(&like).Error
		switch {
		case err == nil:
			result.Liked = true
		case errors.Is(err, gorm.ErrDuplicatedKey):
			if err := tx.RollbackTo("toggle").Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ? AND user_id = ?", postID, userID).
				Delete(&models.PostLike{}).Error; err != nil {
				return err
			}
			result.Liked = false
		default:
			return err
		}

		// Fresh count inside the same transaction for consistency
		return tx.Model(&models.PostLike{}).
			Where("post_id = ?", postID).
			Count(&result.LikesCount).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// guardPostOwner enforces the ownership rule inside the caller's
// transaction. NotFound takes precedence over Forbidden.
func guardPostOwner(tx *gorm.DB, postID, userID int64) error {
	var post models.Post
	err := tx.Select("id, user_id").
		Where("id = ? AND deleted_at IS NULL", postID).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Post not found")
		}
		return err
	}
	if post.UserID != userID {
		return apperr.Forbidden("Not allowed")
	}
	return nil
}

func insertImages(tx *gorm.DB, postID int64, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	images := make([]models.PostImage, len(urls))
	for i, url := range urls {
		images[i] = models.PostImage{PostID: postID, ImageURL: url, SortOrder: i}
	}
	return tx.Create(&images).Error
}

// insertTags upserts each tag by name and links it to the post. Insert
// is ON CONFLICT DO NOTHING, so two posts creating the same tag name
// concurrently cannot produce duplicate tag rows.
func insertTags(tx *gorm.DB, postID int64, names []string) error {
	for _, name := range DedupeTags(names) {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Tag{Name: name}).Error; err != nil {
			return err
		}

		var tag models.Tag
		if err := tx.Where("name = ?", name).Take(&tag).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostTag{PostID: postID, TagID: tag.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

// DedupeTags trims, drops empties, and deduplicates tag names while
// preserving first-seen order.
func DedupeTags(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		result = append(result, trimmed)
	}
	return result
}
