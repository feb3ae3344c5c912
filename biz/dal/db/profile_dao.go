package db

import (
	"context"
	"errors"

	"github.com/funwhale/orderboard/biz/dal/model"
	"gorm.io/gorm"
)

// ProfileDAO wraps basic CRUD operations for provider profile entities.
type ProfileDAO struct{}

func NewProfileDAO() *ProfileDAO { return &ProfileDAO{} }

// Create persists a new profile entry.
func (dao *ProfileDAO) Create(ctx context.Context, db *gorm.DB, entity *model.Profile) error {
	if entity == nil {
		return errors.New("profile must not be nil")
	}
	if entity.ProfileID == "" {
		return errors.New("profile_id is required")
	}
	if entity.UserID <= 0 {
		return errors.New("user_id is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// GetByProfileID fetches a single profile by its opaque id.
func (dao *ProfileDAO) GetByProfileID(ctx context.Context, db *gorm.DB, profileID string) (*model.Profile, error) {
	var entity model.Profile
	if err := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetByUserID fetches the profile owned by the given user.
func (dao *ProfileDAO) GetByUserID(ctx context.Context, db *gorm.DB, userID int64) (*model.Profile, error) {
	var entity model.Profile
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}
