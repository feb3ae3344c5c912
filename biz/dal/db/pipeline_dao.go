package db

import (
	"context"
	"errors"

	"github.com/funwhale/orderboard/biz/dal/model"
	"gorm.io/gorm"
)

// PipelineDAO wraps basic CRUD operations for pipeline entities.
type PipelineDAO struct{}

func NewPipelineDAO() *PipelineDAO { return &PipelineDAO{} }

// Create persists a new pipeline entry.
func (dao *PipelineDAO) Create(ctx context.Context, db *gorm.DB, entity *model.Pipeline) error {
	if entity == nil {
		return errors.New("pipeline must not be nil")
	}
	if entity.PipelineID == "" {
		return errors.New("pipeline_id is required")
	}
	if entity.ProfileID == "" {
		return errors.New("profile_id is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// UpdateFields applies a partial update to the pipeline identified by its id.
// Callers pass an explicit column map so zero values (empty description,
// is_default=false) are written rather than skipped.
func (dao *PipelineDAO) UpdateFields(ctx context.Context, db *gorm.DB, pipelineID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&model.Pipeline{}).
		Where("pipeline_id = ?", pipelineID).
		Updates(fields).
		Error
}

// Delete performs a soft delete by pipeline id.
func (dao *PipelineDAO) Delete(ctx context.Context, db *gorm.DB, pipelineID string) error {
	return db.WithContext(ctx).
		Where("pipeline_id = ?", pipelineID).
		Delete(&model.Pipeline{}).Error
}

// GetByID fetches a single pipeline by its opaque id.
func (dao *PipelineDAO) GetByID(ctx context.Context, db *gorm.DB, pipelineID string) (*model.Pipeline, error) {
	var entity model.Pipeline
	if err := db.WithContext(ctx).
		Where("pipeline_id = ?", pipelineID).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// ListByProfile returns all pipelines owned by a profile, default first.
func (dao *PipelineDAO) ListByProfile(ctx context.Context, db *gorm.DB, profileID string) ([]model.Pipeline, error) {
	var entities []model.Pipeline
	if err := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("is_default DESC, created_at ASC").
		Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// CountByProfile returns the number of pipelines owned by a profile.
func (dao *PipelineDAO) CountByProfile(ctx context.Context, db *gorm.DB, profileID string) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.Pipeline{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClearDefault unsets the default flag on every pipeline of a profile.
// Used inside the set-default transaction before flagging the new one.
func (dao *PipelineDAO) ClearDefault(ctx context.Context, db *gorm.DB, profileID string) error {
	return db.WithContext(ctx).
		Model(&model.Pipeline{}).
		Where("profile_id = ? AND is_default = ?", profileID, true).
		Update("is_default", false).
		Error
}
