package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/instacommunity/backend/internal/feed"
	"github.com/instacommunity/backend/internal/service"
)

// CommentHandler serves comment listing and mutations
type CommentHandler struct {
	svc  *service.Service
	feed *feed.Engine
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(svc *service.Service, engine *feed.Engine) *CommentHandler {
	return &CommentHandler{svc: svc, feed: engine}
}

// List handles GET /posts/:postId/comments
func (h *CommentHandler) List(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		abortWithError(c, err)
		return
	}
	cursor, limit := pageQuery(c)

	page, err := h.feed.ListComments(c.Request.Context(), postID, cursor, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Create handles POST /posts/:postId/comments
func (h *CommentHandler) Create(c *gin.Context) {
	postID, err := idParam(c, "postId")
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), postID, currentUserID(c), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update handles PUT /comments/:commentId
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, err := idParam(c, "commentId")
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	if err := h.svc.UpdateComment(c.Request.Context(), commentID, currentUserID(c), req.Content); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /comments/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := idParam(c, "commentId")
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), commentID, currentUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
