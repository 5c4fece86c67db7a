package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/instacommunity/backend/internal/feed"
	"github.com/instacommunity/backend/internal/service"
)

// UserHandler serves the authenticated user's profile and activity views
type UserHandler struct {
	svc  *service.Service
	feed *feed.Engine
}

// NewUserHandler creates a new user handler
func NewUserHandler(svc *service.Service, engine *feed.Engine) *UserHandler {
	return &UserHandler{svc: svc, feed: engine}
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.svc.GetMe(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Nickname        *string `json:"nickname" binding:"omitempty,min=2,max=40"`
	Bio             *string `json:"bio"`
	ProfileImageURL *string `json:"profileImageUrl" binding:"omitempty,url"`
}

// UpdateMe handles PATCH /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), currentUserID(c), service.UpdateProfileInput{
		Nickname:        req.Nickname,
		Bio:             req.Bio,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// MyPosts handles GET /users/me/posts
func (h *UserHandler) MyPosts(c *gin.Context) {
	cursor, limit := pageQuery(c)

	page, err := h.feed.ListPosts(c.Request.Context(), feed.PostFilter{UserID: currentUserID(c)}, cursor, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// MyComments handles GET /users/me/comments
func (h *UserHandler) MyComments(c *gin.Context) {
	cursor, limit := pageQuery(c)

	page, err := h.feed.ListMyComments(c.Request.Context(), currentUserID(c), cursor, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CommentedPosts handles GET /users/me/commented-posts
func (h *UserHandler) CommentedPosts(c *gin.Context) {
	cursor, limit := pageQuery(c)

	page, err := h.feed.ListCommentedPosts(c.Request.Context(), currentUserID(c), cursor, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
