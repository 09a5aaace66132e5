package services

import (
	"context"
	"errors"

	"medbrain/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService { return &UserService{db: db} }

// ByPublicID resolves the external UUID used in API payloads. Deactivated
// accounts resolve to not-found.
func (s *UserService) ByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("public_id = ? AND is_active = ?", publicID, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type ProfileInput struct {
	Username string `json:"username"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.User, error) {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Username != "" {
		user.Username = input.Username
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

type PreferencesInput struct {
	InsightTone     *string `json:"insight_tone"`
	NotifyInsights  *bool   `json:"notify_insights"`
	NotifyReminders *bool   `json:"notify_reminders"`
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID uint, input PreferencesInput) (*models.User, error) {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.InsightTone != nil {
		user.InsightTone = *input.InsightTone
	}
	if input.NotifyInsights != nil {
		user.NotifyInsights = *input.NotifyInsights
	}
	if input.NotifyReminders != nil {
		user.NotifyReminders = *input.NotifyReminders
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) CompleteOnboarding(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Onboarded = true
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate soft-deletes the account. Rows are never hard-deleted.
func (s *UserService) Deactivate(ctx context.Context, userID uint) error {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	return s.db.WithContext(ctx).Save(user).Error
}
