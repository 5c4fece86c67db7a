package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/instacommunity/backend/internal/auth"
	"github.com/instacommunity/backend/internal/feed"
	"github.com/instacommunity/backend/internal/service"
	"github.com/instacommunity/backend/internal/uploads"
	"github.com/instacommunity/backend/pkg/logging"
)

// Router sets up API routes
type Router struct {
	svc     *service.Service
	feed    *feed.Engine
	tokens  *auth.TokenIssuer
	uploads *uploads.Store
	logger  *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(svc *service.Service, engine *feed.Engine, tokens *auth.TokenIssuer, store *uploads.Store) *Router {
	return &Router{
		svc:     svc,
		feed:    engine,
		tokens:  tokens,
		uploads: store,
		logger:  logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoint
	engine.GET("/health", r.healthHandler)

	// Uploaded images are served straight off disk
	engine.Static("/static", r.uploads.Dir())

	authHandler := NewAuthHandler(r.svc)
	userHandler := NewUserHandler(r.svc, r.feed)
	postHandler := NewPostHandler(r.svc, r.feed)
	commentHandler := NewCommentHandler(r.svc, r.feed)
	uploadHandler := NewUploadHandler(r.uploads)

	requireAuth := AuthRequired(r.tokens)

	v1 := engine.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/verify-email", authHandler.VerifyEmail)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", requireAuth, authHandler.Me)
	}

	userGroup := v1.Group("/users", requireAuth)
	{
		userGroup.GET("/me", userHandler.Me)
		userGroup.PATCH("/me", userHandler.UpdateMe)
		userGroup.GET("/me/posts", userHandler.MyPosts)
		userGroup.GET("/me/comments", userHandler.MyComments)
		userGroup.GET("/me/commented-posts", userHandler.CommentedPosts)
	}

	postGroup := v1.Group("/posts")
	{
		postGroup.GET("", postHandler.List)
		postGroup.GET("/:postId", postHandler.Detail)
		postGroup.GET("/:postId/comments", commentHandler.List)

		postGroup.POST("", requireAuth, postHandler.Create)
		postGroup.PUT("/:postId", requireAuth, postHandler.Update)
		postGroup.DELETE("/:postId", requireAuth, postHandler.Delete)
		postGroup.POST("/:postId/like", requireAuth, postHandler.ToggleLike)
		postGroup.POST("/:postId/comments", requireAuth, commentHandler.Create)
	}

	commentGroup := v1.Group("/comments", requireAuth)
	{
		commentGroup.PUT("/:commentId", commentHandler.Update)
		commentGroup.DELETE("/:commentId", commentHandler.Delete)
	}

	v1.POST("/uploads", requireAuth, uploadHandler.Create)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "insta-community-api",
	})
}
