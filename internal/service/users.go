package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/instacommunity/backend/internal/apperr"
	"github.com/instacommunity/backend/internal/models"
)

// GetMe returns the authenticated user's own profile
func (s *Service) GetMe(ctx context.Context, userID int64) (*UserPayload, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	payload := userPayload(&user)
	return &payload, nil
}

// UpdateProfileInput carries optional profile fields; nil means "leave
// unchanged".
type UpdateProfileInput struct {
	Nickname        *string
	Bio             *string
	ProfileImageURL *string
}

// UpdateProfile applies a partial profile update and returns the fresh
// profile. A nickname collision maps to Conflict.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*UserPayload, error) {
	updates := map[string]interface{}{}
	if in.Nickname != nil {
		updates["nickname"] = *in.Nickname
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.ProfileImageURL != nil {
		updates["profile_image_url"] = *in.ProfileImageURL
	}

	if len(updates) == 0 {
		return s.GetMe(ctx, userID)
	}

	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Nickname already in use")
		}
		return nil, err
	}

	return s.GetMe(ctx, userID)
}
