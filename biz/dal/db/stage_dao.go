package db

import (
	"context"
	"errors"

	"github.com/funwhale/orderboard/biz/dal/model"
	"gorm.io/gorm"
)

// StageDAO wraps basic CRUD operations for stage entities.
type StageDAO struct{}

func NewStageDAO() *StageDAO { return &StageDAO{} }

// Create persists a new stage entry. The (pipeline_id, position) unique
// index rejects racing inserts that allocated the same position.
func (dao *StageDAO) Create(ctx context.Context, db *gorm.DB, entity *model.Stage) error {
	if entity == nil {
		return errors.New("stage must not be nil")
	}
	if entity.StageID == "" {
		return errors.New("stage_id is required")
	}
	if entity.PipelineID == "" {
		return errors.New("pipeline_id is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// Rename updates the display name of a stage.
func (dao *StageDAO) Rename(ctx context.Context, db *gorm.DB, stageID, name string) error {
	return db.WithContext(ctx).
		Model(&model.Stage{}).
		Where("stage_id = ?", stageID).
		Update("name", name).
		Error
}

// UpdatePosition moves a stage to a new ordering key.
func (dao *StageDAO) UpdatePosition(ctx context.Context, db *gorm.DB, stageID string, position int64) error {
	return db.WithContext(ctx).
		Model(&model.Stage{}).
		Where("stage_id = ?", stageID).
		Update("position", position).
		Error
}

// Delete removes a stage permanently.
func (dao *StageDAO) Delete(ctx context.Context, db *gorm.DB, stageID string) error {
	return db.WithContext(ctx).
		Where("stage_id = ?", stageID).
		Delete(&model.Stage{}).Error
}

// DeleteByPipeline removes all stages of a pipeline. Used by the pipeline
// delete cascade after the card check passed.
func (dao *StageDAO) DeleteByPipeline(ctx context.Context, db *gorm.DB, pipelineID string) error {
	return db.WithContext(ctx).
		Where("pipeline_id = ?", pipelineID).
		Delete(&model.Stage{}).Error
}

// GetByID fetches a single stage by its opaque id.
func (dao *StageDAO) GetByID(ctx context.Context, db *gorm.DB, stageID string) (*model.Stage, error) {
	var entity model.Stage
	if err := db.WithContext(ctx).
		Where("stage_id = ?", stageID).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetBySystemStatus fetches the reserved stage of a pipeline for one status.
func (dao *StageDAO) GetBySystemStatus(ctx context.Context, db *gorm.DB, pipelineID string, status model.SystemStatus) (*model.Stage, error) {
	var entity model.Stage
	if err := db.WithContext(ctx).
		Where("pipeline_id = ? AND system_status = ?", pipelineID, status).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// ListByPipeline returns all stages of a pipeline in board order.
func (dao *StageDAO) ListByPipeline(ctx context.Context, db *gorm.DB, pipelineID string) ([]model.Stage, error) {
	var entities []model.Stage
	if err := db.WithContext(ctx).
		Where("pipeline_id = ?", pipelineID).
		Order("position ASC").
		Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}
