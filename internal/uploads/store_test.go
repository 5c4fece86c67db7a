package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/instacommunity/backend/pkg/config"
)

func multipartFile(t *testing.T, field, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="` + field + `"; filename="` + filename + `"`},
		"Content-Type":        {contentType},
	})
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Failed to write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("Failed to parse form: %v", err)
	}
	files := req.MultipartForm.File[field]
	if len(files) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(files))
	}
	return files[0]
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	store, err := New(&config.UploadsConfig{
		Dir:     dir,
		BaseURL: "http://localhost:4000/static/",
	})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	data := []byte("fake image bytes")
	header := multipartFile(t, "image", "photo.JPG", "image/jpeg", data)

	result, err := store.Save(header)
	if err != nil {
		t.Fatalf("Failed to save upload: %v", err)
	}

	if !strings.HasPrefix(result.URL, "http://localhost:4000/static/") {
		t.Errorf("Unexpected URL prefix: %s", result.URL)
	}
	if !strings.HasSuffix(result.URL, ".jpg") {
		t.Errorf("Expected lowercased extension, got %s", result.URL)
	}
	if result.Size != int64(len(data)) {
		t.Errorf("Expected size %d, got %d", len(data), result.Size)
	}
	if result.MimeType != "image/jpeg" {
		t.Errorf("Expected mime type image/jpeg, got %s", result.MimeType)
	}

	name := result.URL[strings.LastIndex(result.URL, "/")+1:]
	stored, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Failed to read stored file: %v", err)
	}
	if !bytes.Equal(stored, data) {
		t.Errorf("Stored bytes differ from upload")
	}
}

func TestSaveDistinctNames(t *testing.T) {
	store, err := New(&config.UploadsConfig{
		Dir:     t.TempDir(),
		BaseURL: "http://localhost:4000/static",
	})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	header := multipartFile(t, "image", "same.png", "image/png", []byte("a"))
	first, err := store.Save(header)
	if err != nil {
		t.Fatalf("Failed to save first upload: %v", err)
	}
	second, err := store.Save(header)
	if err != nil {
		t.Fatalf("Failed to save second upload: %v", err)
	}

	if first.URL == second.URL {
		t.Errorf("Expected distinct names for repeated uploads, got %s twice", first.URL)
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	store, err := New(&config.UploadsConfig{Dir: dir, BaseURL: "http://localhost/static"})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if store.Dir() != dir {
		t.Errorf("Expected dir %s, got %s", dir, store.Dir())
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected directory to exist: %v", err)
	}
}
