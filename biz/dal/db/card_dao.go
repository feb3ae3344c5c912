package db

import (
	"context"
	"errors"

	"github.com/funwhale/orderboard/biz/dal/model"
	"gorm.io/gorm"
)

// CardDAO wraps persistence for order-in-pipeline card assignments.
type CardDAO struct{}

func NewCardDAO() *CardDAO { return &CardDAO{} }

// Create persists a new card assignment.
func (dao *CardDAO) Create(ctx context.Context, db *gorm.DB, entity *model.Card) error {
	if entity == nil {
		return errors.New("card must not be nil")
	}
	if entity.OrderID == "" {
		return errors.New("order_id is required")
	}
	if entity.PipelineID == "" {
		return errors.New("pipeline_id is required")
	}
	if entity.StageID == "" {
		return errors.New("stage_id is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// UpdateStage moves the card identified by (pipeline_id, order_id) to a new
// stage and refreshes the transition timestamp.
func (dao *CardDAO) UpdateStage(ctx context.Context, db *gorm.DB, pipelineID, orderID, stageID string, fields map[string]interface{}) error {
	updates := map[string]interface{}{"stage_id": stageID}
	for k, v := range fields {
		updates[k] = v
	}
	return db.WithContext(ctx).
		Model(&model.Card{}).
		Where("pipeline_id = ? AND order_id = ?", pipelineID, orderID).
		Updates(updates).
		Error
}

// Delete removes the card of an order within a pipeline.
func (dao *CardDAO) Delete(ctx context.Context, db *gorm.DB, pipelineID, orderID string) error {
	return db.WithContext(ctx).
		Where("pipeline_id = ? AND order_id = ?", pipelineID, orderID).
		Delete(&model.Card{}).Error
}

// GetByOrder fetches the card of an order within one pipeline.
func (dao *CardDAO) GetByOrder(ctx context.Context, db *gorm.DB, pipelineID, orderID string) (*model.Card, error) {
	var entity model.Card
	if err := db.WithContext(ctx).
		Where("pipeline_id = ? AND order_id = ?", pipelineID, orderID).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetLatestByOrderID fetches the most recently moved card for an order
// across all pipelines. Used by the client status projection.
func (dao *CardDAO) GetLatestByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*model.Card, error) {
	var entity model.Card
	if err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("moved_at DESC").
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// ListByPipeline returns all cards of a pipeline, oldest transition first.
func (dao *CardDAO) ListByPipeline(ctx context.Context, db *gorm.DB, pipelineID string) ([]model.Card, error) {
	var entities []model.Card
	if err := db.WithContext(ctx).
		Where("pipeline_id = ?", pipelineID).
		Order("moved_at ASC").
		Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// CountByStage returns the number of cards currently assigned to a stage.
func (dao *CardDAO) CountByStage(ctx context.Context, db *gorm.DB, stageID string) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.Card{}).
		Where("stage_id = ?", stageID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByPipeline returns the number of cards inside a pipeline.
func (dao *CardDAO) CountByPipeline(ctx context.Context, db *gorm.DB, pipelineID string) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.Card{}).
		Where("pipeline_id = ?", pipelineID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
