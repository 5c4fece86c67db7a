package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/instacommunity/backend/pkg/telemetry"
)

// MyCommentItem is one of the caller's comments joined with its parent
// post for title display
type MyCommentItem struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	PostID    int64     `json:"postId"`
	PostTitle string    `json:"postTitle"`
}

// MyCommentPage is one page of the caller's comments
type MyCommentPage struct {
	Items      []MyCommentItem `json:"items"`
	NextCursor *string         `json:"nextCursor"`
}

// ListMyComments returns one page of the given user's live comments,
// newest first, each joined to its parent post.
func (e *Engine) ListMyComments(ctx context.Context, userID int64, cursor string, limit int) (*MyCommentPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.list_my_comments")
	defer span.End()

	limit = ClampLimit(limit)

	// A soft-deleted parent post drops the comment from this view, same
	// rule as ListCommentedPosts.
	q := e.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.content, comments.created_at, comments.updated_at, posts.id AS post_id, posts.title AS post_title").
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("comments.user_id = ? AND comments.deleted_at IS NULL AND posts.deleted_at IS NULL", userID)

	if cur := DecodeCursor(cursor); cur != nil {
		q = q.Where("(comments.created_at < ? OR (comments.created_at = ? AND comments.id < ?))", cur.TS, cur.TS, cur.ID)
	}

	var rows []struct {
		ID        int64     `gorm:"column:id"`
		Content   string    `gorm:"column:content"`
		CreatedAt time.Time `gorm:"column:created_at"`
		UpdatedAt time.Time `gorm:"column:updated_at"`
		PostID    int64     `gorm:"column:post_id"`
		PostTitle string    `gorm:"column:post_title"`
	}
	if err := q.Order("comments.created_at DESC, comments.id DESC").
		Limit(limit + 1).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list user comments: %w", err)
	}

	hasNext := len(rows) > limit
	if hasNext {
		rows = rows[:limit]
	}

	items := make([]MyCommentItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, MyCommentItem{
			ID:        r.ID,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			PostID:    r.PostID,
			PostTitle: r.PostTitle,
		})
	}

	page := &MyCommentPage{Items: items}
	if hasNext {
		last := rows[len(rows)-1]
		next := EncodeCursor(last.CreatedAt, last.ID)
		page.NextCursor = &next
	}
	return page, nil
}

// CommentedPostItem is a post the caller has commented on, ordered by
// the caller's most recent comment
type CommentedPostItem struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	PublishedAt     time.Time `json:"publishedAt"`
	LastCommentedAt time.Time `json:"lastCommentedAt"`
}

// CommentedPostPage is one page of commented posts
type CommentedPostPage struct {
	Items      []CommentedPostItem `json:"items"`
	NextCursor *string             `json:"nextCursor"`
}

// ListCommentedPosts returns posts the user has commented on, grouped by
// post and ordered by the latest comment timestamp. The sort key is an
// aggregate, so the cursor bound goes into HAVING rather than WHERE.
func (e *Engine) ListCommentedPosts(ctx context.Context, userID int64, cursor string, limit int) (*CommentedPostPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.list_commented_posts")
	defer span.End()

	limit = ClampLimit(limit)

	q := e.db.WithContext(ctx).
		Table("comments").
		Select("posts.id, posts.title, posts.body, posts.published_at, MAX(comments.created_at) AS last_commented_at").
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("comments.user_id = ? AND comments.deleted_at IS NULL AND posts.deleted_at IS NULL", userID).
		Group("posts.id, posts.title, posts.body, posts.published_at")

	if cur := DecodeCursor(cursor); cur != nil {
		q = q.Having("(MAX(comments.created_at) < ? OR (MAX(comments.created_at) = ? AND posts.id < ?))", cur.TS, cur.TS, cur.ID)
	}

	var rows []struct {
		ID              int64     `gorm:"column:id"`
		Title           string    `gorm:"column:title"`
		Body            string    `gorm:"column:body"`
		PublishedAt     time.Time `gorm:"column:published_at"`
		LastCommentedAt time.Time `gorm:"column:last_commented_at"`
	}
	if err := q.Order("last_commented_at DESC, posts.id DESC").
		Limit(limit + 1).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list commented posts: %w", err)
	}

	hasNext := len(rows) > limit
	if hasNext {
		rows = rows[:limit]
	}

	items := make([]CommentedPostItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, CommentedPostItem{
			ID:              r.ID,
			Title:           r.Title,
			Body:            r.Body,
			PublishedAt:     r.PublishedAt,
			LastCommentedAt: r.LastCommentedAt,
		})
	}

	page := &CommentedPostPage{Items: items}
	if hasNext {
		last := rows[len(rows)-1]
		next := EncodeCursor(last.LastCommentedAt, last.ID)
		page.NextCursor = &next
	}
	return page, nil
}
