package feed

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/instacommunity/backend/internal/apperr"
	"github.com/instacommunity/backend/pkg/telemetry"
)

// CommentItem is one comment row joined with its author
type CommentItem struct {
	ID              int64     `json:"id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	UserID          int64     `json:"userId"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL string    `json:"profileImageUrl"`
}

// CommentPage is one page of comments plus the cursor for the next one
type CommentPage struct {
	Items      []CommentItem `json:"items"`
	NextCursor *string       `json:"nextCursor"`
}

type commentRow struct {
	ID              int64     `gorm:"column:id"`
	Content         string    `gorm:"column:content"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
	UserID          int64     `gorm:"column:user_id"`
	Nickname        string    `gorm:"column:nickname"`
	ProfileImageURL string    `gorm:"column:profile_image_url"`
}

// GetComment returns one live comment joined with its author. Unknown
// or soft-deleted ids are NotFound.
func (e *Engine) GetComment(ctx context.Context, commentID int64) (*CommentItem, error) {
	var row commentRow
	err := e.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.content, comments.created_at, comments.updated_at, users.id AS user_id, users.nickname, users.profile_image_url").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.id = ? AND comments.deleted_at IS NULL", commentID).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Comment not found")
		}
		return nil, fmt.Errorf("failed to load comment %d: %w", commentID, err)
	}
	item := CommentItem(row)
	return &item, nil
}

// ListComments returns one page of live comments on a post, newest
// first, under the same strict (created_at, id) order discipline as the
// post feed.
func (e *Engine) ListComments(ctx context.Context, postID int64, cursor string, limit int) (*CommentPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.list_comments")
	defer span.End()

	limit = ClampLimit(limit)

	q := e.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.content, comments.created_at, comments.updated_at, users.id AS user_id, users.nickname, users.profile_image_url").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ? AND comments.deleted_at IS NULL", postID)

	if cur := DecodeCursor(cursor); cur != nil {
		q = q.Where("(comments.created_at < ? OR (comments.created_at = ? AND comments.id < ?))", cur.TS, cur.TS, cur.ID)
	}

	var rows []commentRow
	if err := q.Order("comments.created_at DESC, comments.id DESC").
		Limit(limit + 1).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	hasNext := len(rows) > limit
	if hasNext {
		rows = rows[:limit]
	}

	items := make([]CommentItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, CommentItem(r))
	}

	page := &CommentPage{Items: items}
	if hasNext {
		last := rows[len(rows)-1]
		next := EncodeCursor(last.CreatedAt, last.ID)
		page.NextCursor = &next
	}
	return page, nil
}
