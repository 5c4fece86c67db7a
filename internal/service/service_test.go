package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/instacommunity/backend/internal/apperr"
	"github.com/instacommunity/backend/internal/auth"
	"github.com/instacommunity/backend/internal/feed"
	"github.com/instacommunity/backend/internal/mail"
	"github.com/instacommunity/backend/internal/models"
	"github.com/instacommunity/backend/pkg/config"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(t.TempDir()+"/test.db"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.Post{},
		&models.PostImage{},
		&models.Tag{},
		&models.PostTag{},
		&models.Comment{},
		&models.PostLike{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	tokens := auth.NewTokenIssuer(&config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "insta-community",
		TokenTTL:  time.Hour,
	})
	mailer := mail.New(&config.SMTPConfig{})
	engine := feed.NewEngine(db)

	return New(db, engine, tokens, mailer, config.FeaturesConfig{}), db
}

func seedUser(t *testing.T, db *gorm.DB, nickname string) int64 {
	t.Helper()
	user := models.User{
		Email:        nickname + "@example.com",
		PasswordHash: "x",
		Nickname:     nickname,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user.ID
}

func wantAppStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected classified error with status %d, got %v", status, err)
	}
	if appErr.Status != status {
		t.Fatalf("Expected status %d, got %d (%v)", status, appErr.Status, err)
	}
}

func TestToggleLikeDoubleToggleRestoresState(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")
	post, err := svc.CreatePost(ctx, author, PostInput{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	first, err := svc.ToggleLike(ctx, post.ID, fan)
	if err != nil {
		t.Fatalf("First toggle failed: %v", err)
	}
	if !first.Liked || first.LikesCount != 1 {
		t.Errorf("First toggle = %+v, want liked with count 1", first)
	}

	second, err := svc.ToggleLike(ctx, post.ID, fan)
	if err != nil {
		t.Fatalf("Second toggle failed: %v", err)
	}
	if second.Liked || second.LikesCount != 0 {
		t.Errorf("Second toggle = %+v, want unliked with count 0", second)
	}

	var rows int64
	if err := db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&rows).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if rows != 0 {
		t.Errorf("Expected no like rows after double toggle, got %d", rows)
	}
}

func TestToggleLikeTwoUsersAccumulate(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	first := seedUser(t, db, "first")
	second := seedUser(t, db, "second")
	post, err := svc.CreatePost(ctx, author, PostInput{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if _, err := svc.ToggleLike(ctx, post.ID, first); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	result, err := svc.ToggleLike(ctx, post.ID, second)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !result.Liked || result.LikesCount != 2 {
		t.Errorf("Result = %+v, want liked with count 2", result)
	}
}

func TestToggleLikeMissingPost(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	fan := seedUser(t, db, "fan")
	_, err := svc.ToggleLike(ctx, 99999, fan)
	wantAppStatus(t, err, http.StatusNotFound)
}

func TestUpdatePostReplacesImagesAndTags(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	created, err := svc.CreatePost(ctx, author, PostInput{
		Title:  "before",
		Body:   "b",
		Images: []string{"http://img/1.jpg", "http://img/2.jpg"},
		Tags:   []string{"travel", "food"},
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if len(created.Images) != 2 || len(created.Tags) != 2 {
		t.Fatalf("Created post = %d images %d tags, want 2 and 2", len(created.Images), len(created.Tags))
	}

	updated, err := svc.UpdatePost(ctx, created.ID, author, PostInput{
		Title:  "after",
		Body:   "b2",
		Images: []string{"http://img/3.jpg"},
		Tags:   []string{"food", "seoul"},
	})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	if updated.Title != "after" {
		t.Errorf("Title = %q, want %q", updated.Title, "after")
	}
	if len(updated.Images) != 1 || updated.Images[0].URL != "http://img/3.jpg" {
		t.Errorf("Images not replaced: %+v", updated.Images)
	}
	if len(updated.Tags) != 2 || updated.Tags[0] != "food" || updated.Tags[1] != "seoul" {
		t.Errorf("Tags not replaced: %v", updated.Tags)
	}

	var imageRows, linkRows int64
	if err := db.Model(&models.PostImage{}).Where("post_id = ?", created.ID).Count(&imageRows).Error; err != nil {
		t.Fatalf("Count images failed: %v", err)
	}
	if err := db.Model(&models.PostTag{}).Where("post_id = ?", created.ID).Count(&linkRows).Error; err != nil {
		t.Fatalf("Count tag links failed: %v", err)
	}
	if imageRows != 1 || linkRows != 2 {
		t.Errorf("Rows after update = %d images %d tag links, want 1 and 2", imageRows, linkRows)
	}
}

func TestUpdatePostNotOwner(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")
	post, err := svc.CreatePost(ctx, author, PostInput{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	_, err = svc.UpdatePost(ctx, post.ID, other, PostInput{Title: "x", Body: "y"})
	wantAppStatus(t, err, http.StatusForbidden)
}

func TestDeletePostSoftDeletes(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post, err := svc.CreatePost(ctx, author, PostInput{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if err := svc.DeletePost(ctx, post.ID, author); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	_, err = svc.feed.GetPost(ctx, post.ID)
	wantAppStatus(t, err, http.StatusNotFound)

	// The row survives as a soft delete.
	var stored models.Post
	if err := db.Where("id = ?", post.ID).Take(&stored).Error; err != nil {
		t.Fatalf("Post row should still exist: %v", err)
	}
	if !stored.DeletedAt.Valid {
		t.Error("Expected deleted_at to be set")
	}
}

func TestCreateCommentRequiresLivePost(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post, err := svc.CreatePost(ctx, author, PostInput{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if err := svc.DeletePost(ctx, post.ID, author); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	_, err = svc.CreateComment(ctx, post.ID, author, "too late")
	wantAppStatus(t, err, http.StatusNotFound)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := RegisterInput{Email: "dup@example.com", Password: "password1", Nickname: "original"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("First register failed: %v", err)
	}

	in.Nickname = "different"
	_, err := svc.Register(ctx, in)
	wantAppStatus(t, err, http.StatusConflict)
}
