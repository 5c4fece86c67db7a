package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/instacommunity/backend/internal/apperr"
	"github.com/instacommunity/backend/pkg/logging"
)

// abortWithError maps a core error to an HTTP response. Classified
// errors pass their message through; anything else is logged and
// redacted to a generic 500.
func abortWithError(c *gin.Context, err error) {
	status, expose := apperr.StatusOf(err)

	message := "Internal Server Error"
	if expose {
		var appErr *apperr.Error
		errors.As(err, &appErr)
		message = appErr.Message
	} else {
		logging.WithComponent("api").Error("Unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// abortWithValidation rejects malformed input before it reaches the core
func abortWithValidation(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
}
