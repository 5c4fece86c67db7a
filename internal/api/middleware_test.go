package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/instacommunity/backend/internal/auth"
	"github.com/instacommunity/backend/pkg/config"
)

func testRouter(t *testing.T) (*gin.Engine, *auth.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenIssuer(&config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "insta-community",
		TokenTTL:  time.Hour,
	})

	engine := gin.New()
	engine.GET("/protected", AuthRequired(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": currentUserID(c)})
	})
	return engine, tokens
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	engine, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestAuthRequiredBadScheme(t *testing.T) {
	engine, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestAuthRequiredGarbageToken(t *testing.T) {
	engine, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestAuthRequiredValidToken(t *testing.T) {
	engine, tokens := testRouter(t)

	token, err := tokens.Sign(42, "user@example.com")
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"userId":42}` {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestAuthRequiredWrongSecret(t *testing.T) {
	engine, _ := testRouter(t)

	other := auth.NewTokenIssuer(&config.AuthConfig{
		JWTSecret: "different-secret",
		Issuer:    "insta-community",
		TokenTTL:  time.Hour,
	})
	token, err := other.Sign(42, "user@example.com")
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}
