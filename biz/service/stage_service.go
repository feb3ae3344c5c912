package service

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/funwhale/orderboard/biz/dal/model"
	"github.com/funwhale/orderboard/pkg/position"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errPositionTaken marks a unique index violation on (pipeline_id,
// position): another writer claimed the allocated key first. The outer
// retry loop re-runs the whole allocate+insert transaction on it.
var errPositionTaken = errors.New("allocated position already taken")

// StagePatch carries the mutable stage attributes for the PATCH endpoint.
// AfterStageID reorders the stage behind the named neighbour; the empty
// string moves it to the end of the customizable region.
type StagePatch struct {
	Name         *string `json:"name,omitempty"`
	AfterStageID *string `json:"after_stage_id,omitempty"`
}

// CreateStage inserts a custom stage into the customizable region of the
// pipeline: directly after the pending stage or after another custom
// stage, never inside the reserved confirmed→completed→cancelled tail.
func (s *Service) CreateStage(ctx context.Context, pipelineID, name, afterStageID string) (*StageView, error) {
	if strings.TrimSpace(name) == "" {
		return nil, Invalidf("stage name must not be empty")
	}
	if _, err := s.logic.authorizePipeline(ctx, s.logic.db, pipelineID); err != nil {
		return nil, err
	}

	var created model.Stage
	for attempt := 0; attempt < positionRetryBudget; attempt++ {
		err := s.logic.db.Transaction(func(tx *gorm.DB) error {
			pos, err := s.logic.allocateStagePosition(ctx, tx, pipelineID, afterStageID, "")
			if err != nil {
				return err
			}
			created = model.Stage{
				StageID:    uuid.New().String(),
				PipelineID: pipelineID,
				Name:       name,
				Position:   pos,
			}
			if err := s.logic.stageDAO.Create(ctx, tx, &created); err != nil {
				if isDuplicateKey(err) {
					return errPositionTaken
				}
				return classifyStorage(err, "stage")
			}
			return nil
		})
		if err == nil {
			view := stageToView(&created)
			return &view, nil
		}
		if errors.Is(err, errPositionTaken) {
			continue
		}
		return nil, err
	}

	hlog.CtxErrorf(ctx, "stage insert into pipeline %s lost the position race %d times", pipelineID, positionRetryBudget)
	return nil, Conflictf("could not allocate a stage position, please retry")
}

// UpdateStage applies rename and/or reorder from one PATCH call. Both
// legs run in a single transaction, so a rejected reorder also rolls the
// rename back and the stage comes out of a failed PATCH untouched.
func (s *Service) UpdateStage(ctx context.Context, stageID string, patch StagePatch) (*StageView, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, Invalidf("stage name must not be empty")
	}
	stage, err := s.logic.findAuthorizedStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if patch.AfterStageID != nil {
		if stage.IsReserved() {
			return nil, Invalidf("reserved stages cannot be reordered")
		}
		if *patch.AfterStageID == stageID {
			return nil, Invalidf("a stage cannot be placed after itself")
		}
	}

	for attempt := 0; attempt < positionRetryBudget; attempt++ {
		err := s.logic.db.Transaction(func(tx *gorm.DB) error {
			if patch.AfterStageID != nil {
				pos, err := s.logic.allocateStagePosition(ctx, tx, stage.PipelineID, *patch.AfterStageID, stageID)
				if err != nil {
					return err
				}
				if err := s.logic.stageDAO.UpdatePosition(ctx, tx, stageID, pos); err != nil {
					if isDuplicateKey(err) {
						return errPositionTaken
					}
					return classifyStorage(err, "stage")
				}
				stage.Position = pos
			}
			if patch.Name != nil {
				if err := s.logic.stageDAO.Rename(ctx, tx, stageID, *patch.Name); err != nil {
					return classifyStorage(err, "stage")
				}
				stage.Name = *patch.Name
			}
			return nil
		})
		if err == nil {
			view := stageToView(stage)
			return &view, nil
		}
		if errors.Is(err, errPositionTaken) {
			continue
		}
		return nil, err
	}

	hlog.CtxErrorf(ctx, "stage %s reorder lost the position race %d times", stageID, positionRetryBudget)
	return nil, Conflictf("could not allocate a stage position, please retry")
}

// RenameStage changes the display label. Reserved stages may be renamed;
// their system semantics never change.
func (s *Service) RenameStage(ctx context.Context, stageID, name string) error {
	_, err := s.UpdateStage(ctx, stageID, StagePatch{Name: &name})
	return err
}

// ReorderStage moves a custom stage behind a new neighbour within the
// customizable region. Reserved stages keep their fixed relative order.
func (s *Service) ReorderStage(ctx context.Context, stageID, afterStageID string) error {
	_, err := s.UpdateStage(ctx, stageID, StagePatch{AfterStageID: &afterStageID})
	return err
}

// DeleteStage removes a custom stage. Reserved stages are protected, and a
// stage still holding cards blocks deletion until they are moved away.
func (s *Service) DeleteStage(ctx context.Context, stageID string) error {
	stage, err := s.logic.findAuthorizedStage(ctx, stageID)
	if err != nil {
		return err
	}
	if stage.IsReserved() {
		return Invalidf("reserved stages cannot be deleted")
	}

	// the card guard and the delete share one transaction so a card
	// attached concurrently cannot slip in between them
	return s.logic.db.Transaction(func(tx *gorm.DB) error {
		cards, err := s.logic.cardDAO.CountByStage(ctx, tx, stageID)
		if err != nil {
			return classifyStorage(err, "card")
		}
		if cards > 0 {
			return Conflictf("stage still holds %d cards; move them first", cards)
		}
		return classifyStorage(s.logic.stageDAO.Delete(ctx, tx, stageID), "stage")
	})
}

// findAuthorizedStage resolves a stage and checks ownership through its
// pipeline.
func (l *Logic) findAuthorizedStage(ctx context.Context, stageID string) (*model.Stage, error) {
	stage, err := l.stageDAO.GetByID(ctx, l.db, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("stage not found")
		}
		return nil, classifyStorage(err, "stage")
	}
	if _, err := l.authorizePipeline(ctx, l.db, stage.PipelineID); err != nil {
		return nil, err
	}
	return stage, nil
}

// allocateStagePosition computes an ordering key for inserting or moving a
// stage behind afterStageID. On gap exhaustion it renumbers the whole
// pipeline inside the same transaction and retries the allocation once.
// movingStageID is skipped during neighbour resolution so a reorder never
// picks the moving stage as its own neighbour.
func (l *Logic) allocateStagePosition(ctx context.Context, tx *gorm.DB, pipelineID, afterStageID, movingStageID string) (int64, error) {
	stages, err := l.stageDAO.ListByPipeline(ctx, tx, pipelineID)
	if err != nil {
		return 0, classifyStorage(err, "stage")
	}

	prev, next, err := resolveInsertNeighbours(stages, afterStageID, movingStageID)
	if err != nil {
		return 0, err
	}

	pos, err := position.Allocate(prev, next)
	if err == nil {
		return pos, nil
	}
	if !errors.Is(err, position.ErrExhausted) {
		return 0, Conflictf("position allocation failed")
	}

	if err := l.renumberPipeline(ctx, tx, stages); err != nil {
		return 0, err
	}
	stages, err = l.stageDAO.ListByPipeline(ctx, tx, pipelineID)
	if err != nil {
		return 0, classifyStorage(err, "stage")
	}
	prev, next, err = resolveInsertNeighbours(stages, afterStageID, movingStageID)
	if err != nil {
		return 0, err
	}
	pos, err = position.Allocate(prev, next)
	if err != nil {
		hlog.CtxErrorf(ctx, "pipeline %s still exhausted after renumbering", pipelineID)
		return 0, Conflictf("could not allocate a stage position, please retry")
	}
	return pos, nil
}

// renumberPipeline rewrites all stage positions to evenly spaced baseline
// values. Runs in two phases because the (pipeline_id, position) unique
// index is not deferred: stages move to negative keys first, then to their
// final ones, so no intermediate state collides.
func (l *Logic) renumberPipeline(ctx context.Context, tx *gorm.DB, stages []model.Stage) error {
	for i := range stages {
		if err := l.stageDAO.UpdatePosition(ctx, tx, stages[i].StageID, -int64(i+1)); err != nil {
			return classifyStorage(err, "stage")
		}
	}
	keys := position.Renumber(len(stages))
	for i := range stages {
		if err := l.stageDAO.UpdatePosition(ctx, tx, stages[i].StageID, keys[i]); err != nil {
			return classifyStorage(err, "stage")
		}
	}
	return nil
}

// resolveInsertNeighbours locates the prev/next position keys for a stage
// landing after afterStageID. The empty id appends to the end of the
// customizable region, directly before the confirmed stage. Only the
// pending stage and custom stages are legal left neighbours.
func resolveInsertNeighbours(stages []model.Stage, afterStageID, movingStageID string) (*int64, *int64, error) {
	ordered := make([]model.Stage, 0, len(stages))
	for _, stage := range stages {
		if stage.StageID == movingStageID {
			continue
		}
		ordered = append(ordered, stage)
	}

	confirmedIdx := -1
	for i := range ordered {
		if ordered[i].SystemStatus == model.SystemStatusConfirmed {
			confirmedIdx = i
			break
		}
	}
	if confirmedIdx <= 0 {
		// every pipeline is created with its reserved stages in place
		return nil, nil, Conflictf("pipeline is missing its reserved stages")
	}

	afterIdx := confirmedIdx - 1
	if afterStageID != "" {
		afterIdx = -1
		for i := range ordered {
			if ordered[i].StageID == afterStageID {
				afterIdx = i
				break
			}
		}
		if afterIdx == -1 {
			return nil, nil, NotFoundf("neighbour stage not found in this pipeline")
		}
		after := &ordered[afterIdx]
		if after.IsReserved() && after.SystemStatus != model.SystemStatusPending {
			return nil, nil, Invalidf("custom stages may only follow the pending stage or another custom stage")
		}
	}

	prev := ordered[afterIdx].Position
	if afterIdx+1 >= len(ordered) {
		return &prev, nil, nil
	}
	next := ordered[afterIdx+1].Position
	return &prev, &next, nil
}
