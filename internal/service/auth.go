package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/instacommunity/backend/internal/apperr"
	"github.com/instacommunity/backend/internal/auth"
	"github.com/instacommunity/backend/internal/models"
	"github.com/instacommunity/backend/pkg/telemetry"
)

const verificationTTL = 24 * time.Hour

// RegisterInput carries validated registration fields
type RegisterInput struct {
	Email    string
	Password string
	Nickname string
}

// RegisterResult is returned on successful registration
type RegisterResult struct {
	UserID int64 `json:"userId"`
}

// Register creates a new account. The email and nickname pre-checks are
// an optimization for a friendly message; the unique constraints are
// what actually resolve a race between two simultaneous registrations.
// When email verification is enabled a single-use token is written in
// the same transaction and the email dispatched after commit.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.register")
	defer span.End()

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var userID int64
	var verifyToken string

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Select("id").Where("email = ?", in.Email).Take(&existing).Error
		if err == nil {
			return apperr.Conflict("Email already in use")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Select("id").Where("nickname = ?", in.Nickname).Take(&existing).Error
		if err == nil {
			return apperr.Conflict("Nickname already in use")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := models.User{
			Email:        in.Email,
			PasswordHash: hash,
			Nickname:     in.Nickname,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("Email or nickname already in use")
			}
			return err
		}
		userID = user.ID

		if s.features.EmailVerification {
			verifyToken = uuid.NewString()
			verification := models.EmailVerification{
				Token:     verifyToken,
				UserID:    user.ID,
				ExpiresAt: time.Now().UTC().Add(verificationTTL),
			}
			if err := tx.Create(&verification).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.features.EmailVerification {
		// Detached from the transaction: the user exists even if the
		// email never arrives.
		s.mailer.SendVerificationEmail(in.Email, verifyToken)
	}

	return &RegisterResult{UserID: userID}, nil
}

// VerifyEmail consumes a verification token and marks the user verified.
// The token row is locked FOR UPDATE so a concurrent request cannot use
// it twice.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.verify_email")
	defer span.End()

	if !s.features.EmailVerification {
		return apperr.Gone("Email verification disabled")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var verification models.EmailVerification
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).
			Take(&verification).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Verification token not found")
			}
			return err
		}

		if verification.UsedAt.Valid {
			return apperr.Conflict("Token already used")
		}
		if time.Now().UTC().After(verification.ExpiresAt) {
			return apperr.BadRequest("Token expired")
		}

		now := time.Now().UTC()
		if err := tx.Model(&models.User{}).
			Where("id = ?", verification.UserID).
			Update("email_verified_at", now).Error; err != nil {
			return err
		}
		return tx.Model(&models.EmailVerification{}).
			Where("id = ?", verification.ID).
			Update("used_at", now).Error
	})
}

// UserPayload is the user object returned by login and profile reads
type UserPayload struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	Nickname        string     `json:"nickname"`
	Bio             string     `json:"bio"`
	ProfileImageURL string     `json:"profileImageUrl"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	AccessToken string      `json:"accessToken"`
	User        UserPayload `json:"user"`
}

// Login checks credentials and issues an access token. Unknown email and
// wrong password answer identically so the response does not reveal
// which one failed.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.login")
	defer span.End()

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	if s.features.EmailVerification && !user.EmailVerifiedAt.Valid {
		return nil, apperr.Forbidden("Email not verified")
	}

	token, err := s.tokens.Sign(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		User:        userPayload(&user),
	}, nil
}

func userPayload(user *models.User) UserPayload {
	payload := UserPayload{
		ID:              user.ID,
		Email:           user.Email,
		Nickname:        user.Nickname,
		Bio:             user.Bio,
		ProfileImageURL: user.ProfileImageURL,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
	if user.EmailVerifiedAt.Valid {
		verifiedAt := user.EmailVerifiedAt.Time
		payload.EmailVerifiedAt = &verifiedAt
	}
	return payload
}
