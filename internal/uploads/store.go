package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/instacommunity/backend/pkg/config"
)

// Result describes a stored upload
type Result struct {
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// Store persists uploaded binaries to a local directory and hands back a
// public URL for each.
type Store struct {
	dir     string
	baseURL string
}

// New creates the upload store, ensuring the target directory exists.
func New(cfg *config.UploadsConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir %s: %w", cfg.Dir, err)
	}
	return &Store{
		dir:     cfg.Dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Dir returns the directory uploads are written to, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes one multipart file under a fresh name and returns its
// public URL. The original filename is untrusted; only its extension
// survives.
func (s *Store) Save(header *multipart.FileHeader) (*Result, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &Result{
		URL:      s.baseURL + "/" + name,
		Size:     size,
		MimeType: header.Header.Get("Content-Type"),
	}, nil
}
