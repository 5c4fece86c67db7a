package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/instacommunity/backend/internal/apperr"
	"github.com/instacommunity/backend/internal/feed"
	"github.com/instacommunity/backend/internal/service"
)

// PostHandler serves the post feed and post mutations
type PostHandler struct {
	svc  *service.Service
	feed *feed.Engine
}

// NewPostHandler creates a new post handler
func NewPostHandler(svc *service.Service, engine *feed.Engine) *PostHandler {
	return &PostHandler{svc: svc, feed: engine}
}

// pageQuery reads the cursor/limit query pair. Both are permissive: a
// bad limit falls back to the default, a bad cursor means start of feed.
func pageQuery(c *gin.Context) (string, int) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return c.Query("cursor"), limit
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid " + name)
	}
	return id, nil
}

// List handles GET /posts
func (h *PostHandler) List(c *gin.Context) {
	cursor, limit := pageQuery(c)

	var filter feed.PostFilter
	if v := c.Query("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			abortWithError(c, apperr.Validation("Invalid userId"))
			return
		}
		filter.UserID = id
	}
	filter.Tag = c.Query("tag")
	filter.Place = c.Query("place")

	page, err := h.feed.ListPosts(c.Request.Context(), filter, cursor, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Detail handles GET /posts/:postId
func (h *PostHandler) Detail(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		abortWithError(c, err)
		return
	}

	post, err := h.feed.GetPost(c.Request.Context(), postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

type postImageInput struct {
	ImageURL string `json:"imageUrl" binding:"required,url"`
}

type postRequest struct {
	Title       string           `json:"title" binding:"required"`
	Body        string           `json:"body" binding:"required"`
	Place       *string          `json:"place"`
	PublishedAt *time.Time       `json:"publishedAt"`
	Images      []postImageInput `json:"images" binding:"omitempty,dive"`
	Tags        []string         `json:"tags"`
}

func (r *postRequest) toInput() service.PostInput {
	images := make([]string, len(r.Images))
	for i, img := range r.Images {
		images[i] = img.ImageURL
	}
	return service.PostInput{
		Title:       r.Title,
		Body:        r.Body,
		Place:       r.Place,
		PublishedAt: r.PublishedAt,
		Images:      images,
		Tags:        r.Tags,
	}
}

// Create handles POST /posts
func (h *PostHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), currentUserID(c), req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Update handles PUT /posts/:postId
func (h *PostHandler) Update(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	post, err := h.svc.UpdatePost(c.Request.Context(), postID, currentUserID(c), req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /posts/:postId
func (h *PostHandler) Delete(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.svc.DeletePost(c.Request.Context(), postID, currentUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleLike handles POST /posts/:postId/like
func (h *PostHandler) ToggleLike(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		abortWithError(c, err)
		return
	}

	result, err := h.svc.ToggleLike(c.Request.Context(), postID, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
