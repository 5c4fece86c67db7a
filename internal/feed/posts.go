package feed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/instacommunity/backend/internal/apperr"
	"github.com/instacommunity/backend/pkg/logging"
	"github.com/instacommunity/backend/pkg/telemetry"
)

// Engine builds filtered, paginated, aggregated feed queries. It is
// read-only: every method goes straight to the store.
type Engine struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEngine creates a new feed engine
func NewEngine(database *gorm.DB) *Engine {
	return &Engine{
		db:     database,
		logger: logging.WithComponent("feed"),
	}
}

// PostFilter narrows a post feed. Zero values mean "no constraint".
type PostFilter struct {
	UserID int64
	Tag    string
	Place  string
}

// ImageItem is one ordered image on a post
type ImageItem struct {
	URL  string `json:"url"`
	Sort int    `json:"sort"`
}

// PostItem is a fully aggregated post row
type PostItem struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	Title           string      `json:"title"`
	Body            string      `json:"body"`
	Place           *string     `json:"place"`
	PublishedAt     time.Time   `json:"publishedAt"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	Nickname        string      `json:"nickname"`
	ProfileImageURL string      `json:"profileImageUrl"`
	Images          []ImageItem `json:"images"`
	Tags            []string    `json:"tags"`
	CommentCount    int64       `json:"commentCount"`
	LikeCount       int64       `json:"likesCount"`
}

// PostPage is one page of posts plus the cursor for the next one
type PostPage struct {
	Items      []PostItem `json:"items"`
	NextCursor *string    `json:"nextCursor"`
}

// postRow is the flat scan target for the base feed query
type postRow struct {
	ID              int64          `gorm:"column:id"`
	UserID          int64          `gorm:"column:user_id"`
	Title           string         `gorm:"column:title"`
	Body            string         `gorm:"column:body"`
	Place           sql.NullString `gorm:"column:place"`
	PublishedAt     time.Time      `gorm:"column:published_at"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	Nickname        string         `gorm:"column:nickname"`
	ProfileImageURL string         `gorm:"column:profile_image_url"`
}

// ListPosts returns one page of live posts matching the filter, newest
// first. Ordering is a strict total order on (published_at, id) so pages
// never duplicate or skip rows, even when several posts share a
// timestamp. It fetches limit+1 rows: the extra row only signals that
// another page exists.
func (e *Engine) ListPosts(ctx context.Context, filter PostFilter, cursor string, limit int) (*PostPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.list_posts")
	defer span.End()

	limit = ClampLimit(limit)

	q := e.db.WithContext(ctx).
		Table("posts").
		Select("posts.id, posts.user_id, posts.title, posts.body, posts.place, posts.published_at, posts.created_at, posts.updated_at, users.nickname, users.profile_image_url").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.deleted_at IS NULL")

	if filter.UserID != 0 {
		q = q.Where("posts.user_id = ?", filter.UserID)
	}
	if filter.Place != "" {
		q = q.Where("posts.place = ?", filter.Place)
	}
	if filter.Tag != "" {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", filter.Tag)
	}

	if cur := DecodeCursor(cursor); cur != nil {
		q = q.Where("(posts.published_at < ? OR (posts.published_at = ? AND posts.id < ?))", cur.TS, cur.TS, cur.ID)
	}

	var rows []postRow
	if err := q.Order("posts.published_at DESC, posts.id DESC").
		Limit(limit + 1).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	hasNext := len(rows) > limit
	if hasNext {
		rows = rows[:limit]
	}

	items, err := e.buildPostItems(ctx, rows)
	if err != nil {
		return nil, err
	}

	page := &PostPage{Items: items}
	if hasNext {
		last := rows[len(rows)-1]
		next := EncodeCursor(last.PublishedAt, last.ID)
		page.NextCursor = &next
	}
	return page, nil
}

// GetPost returns one aggregated post. Unknown or soft-deleted ids are
// NotFound.
func (e *Engine) GetPost(ctx context.Context, postID int64) (*PostItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.get_post")
	defer span.End()

	var row postRow
	err := e.db.WithContext(ctx).
		Table("posts").
		Select("posts.id, posts.user_id, posts.title, posts.body, posts.place, posts.published_at, posts.created_at, posts.updated_at, users.nickname, users.profile_image_url").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.id = ? AND posts.deleted_at IS NULL", postID).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, fmt.Errorf("failed to load post %d: %w", postID, err)
	}

	items, err := e.buildPostItems(ctx, []postRow{row})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// buildPostItems attaches images, tags, and counts to a page of rows
// with one grouped query per concern.
func (e *Engine) buildPostItems(ctx context.Context, rows []postRow) ([]PostItem, error) {
	items := make([]PostItem, 0, len(rows))
	if len(rows) == 0 {
		return items, nil
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	images, err := e.loadImages(ctx, ids)
	if err != nil {
		return nil, err
	}
	tags, err := e.loadTagNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := e.countGrouped(ctx, "comments", "deleted_at IS NULL", ids)
	if err != nil {
		return nil, err
	}
	likeCounts, err := e.countGrouped(ctx, "post_likes", "", ids)
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		item := PostItem{
			ID:              r.ID,
			UserID:          r.UserID,
			Title:           r.Title,
			Body:            r.Body,
			PublishedAt:     r.PublishedAt,
			CreatedAt:       r.CreatedAt,
			UpdatedAt:       r.UpdatedAt,
			Nickname:        r.Nickname,
			ProfileImageURL: r.ProfileImageURL,
			Images:          images[r.ID],
			Tags:            tags[r.ID],
			CommentCount:    commentCounts[r.ID],
			LikeCount:       likeCounts[r.ID],
		}
		if r.Place.Valid {
			place := r.Place.String
			item.Place = &place
		}
		if item.Images == nil {
			item.Images = []ImageItem{}
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		items = append(items, item)
	}
	return items, nil
}

func (e *Engine) loadImages(ctx context.Context, postIDs []int64) (map[int64][]ImageItem, error) {
	var rows []struct {
		PostID    int64  `gorm:"column:post_id"`
		ImageURL  string `gorm:"column:image_url"`
		SortOrder int    `gorm:"column:sort_order"`
	}
	if err := e.db.WithContext(ctx).
		Table("post_images").
		Select("post_id, image_url, sort_order").
		Where("post_id IN ?", postIDs).
		Order("post_id, sort_order").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load post images: %w", err)
	}

	result := make(map[int64][]ImageItem, len(postIDs))
	for _, r := range rows {
		result[r.PostID] = append(result[r.PostID], ImageItem{URL: r.ImageURL, Sort: r.SortOrder})
	}
	return result, nil
}

func (e *Engine) loadTagNames(ctx context.Context, postIDs []int64) (map[int64][]string, error) {
	var rows []struct {
		PostID int64  `gorm:"column:post_id"`
		Name   string `gorm:"column:name"`
	}
	if err := e.db.WithContext(ctx).
		Table("post_tags").
		Select("post_tags.post_id, tags.name").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("post_tags.post_id IN ?", postIDs).
		Order("post_tags.post_id, tags.name").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load post tags: %w", err)
	}

	result := make(map[int64][]string, len(postIDs))
	for _, r := range rows {
		result[r.PostID] = append(result[r.PostID], r.Name)
	}
	return result, nil
}

func (e *Engine) countGrouped(ctx context.Context, table, extraWhere string, postIDs []int64) (map[int64]int64, error) {
	var rows []struct {
		PostID int64 `gorm:"column:post_id"`
		Count  int64 `gorm:"column:cnt"`
	}
	q := e.db.WithContext(ctx).
		Table(table).
		Select("post_id, COUNT(*) AS cnt").
		Where("post_id IN ?", postIDs)
	if extraWhere != "" {
		q = q.Where(extraWhere)
	}
	if err := q.Group("post_id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", table, err)
	}

	result := make(map[int64]int64, len(rows))
	for _, r := range rows {
		result[r.PostID] = r.Count
	}
	return result, nil
}
