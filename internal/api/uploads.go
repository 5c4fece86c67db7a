package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/instacommunity/backend/internal/apperr"
	"github.com/instacommunity/backend/internal/uploads"
)

// maxUploadBytes caps a single image upload at 10 MiB.
const maxUploadBytes = 10 << 20

// UploadHandler receives image uploads and stores them locally
type UploadHandler struct {
	store *uploads.Store
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(store *uploads.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Create handles POST /uploads. It expects a single multipart file under
// the "image" field.
func (h *UploadHandler) Create(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		abortWithError(c, apperr.Validation("Missing image file"))
		return
	}
	if header.Size > maxUploadBytes {
		abortWithError(c, apperr.Validation("Image exceeds the size limit"))
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		abortWithError(c, apperr.Validation("Only image uploads are accepted"))
		return
	}

	result, err := h.store.Save(header)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
