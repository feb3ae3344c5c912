package service

import (
	"context"
	"strings"

	"github.com/funwhale/orderboard/biz/dal/model"
	"github.com/funwhale/orderboard/pkg/position"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PipelinePatch carries the mutable pipeline attributes. A nil field is
// left untouched. IsDefault is present only to reject direct flips: the
// default flag changes exclusively through SetDefaultPipeline.
type PipelinePatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Settings    *string `json:"settings,omitempty"`
	IsDefault   *bool   `json:"is_default,omitempty"`
}

// ProvisionProfile registers a provider profile together with its default
// pipeline and the four reserved stages, all in one transaction.
func (s *Service) ProvisionProfile(ctx context.Context, userID int64, displayName string) (*ProfileView, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		userID = principal.UserID
	}
	if userID != principal.UserID && !principal.IsAdmin() {
		return nil, Forbiddenf("only admins may provision profiles for other users")
	}

	profile := &model.Profile{
		ProfileID:   uuid.New().String(),
		UserID:      userID,
		DisplayName: displayName,
	}

	err = s.logic.db.Transaction(func(tx *gorm.DB) error {
		if err := s.logic.profileDAO.Create(ctx, tx, profile); err != nil {
			return classifyStorage(err, "profile")
		}
		_, _, err := s.logic.createPipelineTx(ctx, tx, profile.ProfileID, "Orders", true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profileToView(profile), nil
}

// CreatePipeline creates a non-default pipeline for the profile, or the
// default one when it is the profile's first.
func (s *Service) CreatePipeline(ctx context.Context, profileID, name string) (*PipelineView, error) {
	if strings.TrimSpace(name) == "" {
		return nil, Invalidf("pipeline name must not be empty")
	}
	if _, err := s.logic.authorizeProfile(ctx, s.logic.db, profileID); err != nil {
		return nil, err
	}

	var (
		pipeline *model.Pipeline
		stages   []model.Stage
	)
	err := s.logic.db.Transaction(func(tx *gorm.DB) error {
		count, err := s.logic.pipelineDAO.CountByProfile(ctx, tx, profileID)
		if err != nil {
			return classifyStorage(err, "pipeline")
		}
		pipeline, stages, err = s.logic.createPipelineTx(ctx, tx, profileID, name, count == 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pipelineToView(pipeline, stages), nil
}

// createPipelineTx inserts the pipeline row plus its reserved stages at
// evenly spaced baseline positions. Must run inside a transaction.
func (l *Logic) createPipelineTx(ctx context.Context, tx *gorm.DB, profileID, name string, isDefault bool) (*model.Pipeline, []model.Stage, error) {
	pipeline := &model.Pipeline{
		PipelineID: uuid.New().String(),
		ProfileID:  profileID,
		Name:       name,
		IsDefault:  isDefault,
	}
	if err := l.pipelineDAO.Create(ctx, tx, pipeline); err != nil {
		return nil, nil, classifyStorage(err, "pipeline")
	}

	stages := make([]model.Stage, 0, len(model.ReservedStatuses))
	for i, status := range model.ReservedStatuses {
		stage := model.Stage{
			StageID:      uuid.New().String(),
			PipelineID:   pipeline.PipelineID,
			Name:         model.DefaultStageName(status),
			Position:     position.Base * int64(i+1),
			SystemStatus: status,
		}
		if err := l.stageDAO.Create(ctx, tx, &stage); err != nil {
			return nil, nil, classifyStorage(err, "stage")
		}
		stages = append(stages, stage)
	}
	return pipeline, stages, nil
}

// GetPipeline returns the pipeline with its stages in board order, each
// stage carrying the attached client status.
func (s *Service) GetPipeline(ctx context.Context, pipelineID string) (*PipelineView, error) {
	pipeline, err := s.logic.authorizePipeline(ctx, s.logic.db, pipelineID)
	if err != nil {
		return nil, err
	}
	stages, err := s.logic.stageDAO.ListByPipeline(ctx, s.logic.db, pipelineID)
	if err != nil {
		return nil, classifyStorage(err, "stage")
	}
	return pipelineToView(pipeline, stages), nil
}

// ListPipelines returns all pipelines of a profile, default first, with
// their stages attached.
func (s *Service) ListPipelines(ctx context.Context, profileID string) ([]*PipelineView, error) {
	if _, err := s.logic.authorizeProfile(ctx, s.logic.db, profileID); err != nil {
		return nil, err
	}
	pipelines, err := s.logic.pipelineDAO.ListByProfile(ctx, s.logic.db, profileID)
	if err != nil {
		return nil, classifyStorage(err, "pipeline")
	}

	views := make([]*PipelineView, 0, len(pipelines))
	for i := range pipelines {
		stages, err := s.logic.stageDAO.ListByPipeline(ctx, s.logic.db, pipelines[i].PipelineID)
		if err != nil {
			return nil, classifyStorage(err, "stage")
		}
		views = append(views, pipelineToView(&pipelines[i], stages))
	}
	return views, nil
}

// UpdatePipeline edits name, description and settings. The default flag is
// rejected here: flipping it bypasses the single-default invariant.
func (s *Service) UpdatePipeline(ctx context.Context, pipelineID string, patch PipelinePatch) (*PipelineView, error) {
	if patch.IsDefault != nil {
		return nil, Invalidf("is_default cannot be patched; use the set-default operation")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, Invalidf("pipeline name must not be empty")
	}
	if _, err := s.logic.authorizePipeline(ctx, s.logic.db, pipelineID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Settings != nil {
		fields["settings"] = *patch.Settings
	}
	if err := s.logic.pipelineDAO.UpdateFields(ctx, s.logic.db, pipelineID, fields); err != nil {
		return nil, classifyStorage(err, "pipeline")
	}

	return s.GetPipeline(ctx, pipelineID)
}

// SetDefaultPipeline atomically moves the default flag of the owning
// profile to this pipeline. Idempotent when it is already the default.
func (s *Service) SetDefaultPipeline(ctx context.Context, pipelineID string) error {
	pipeline, err := s.logic.authorizePipeline(ctx, s.logic.db, pipelineID)
	if err != nil {
		return err
	}
	if pipeline.IsDefault {
		return nil
	}

	return s.logic.db.Transaction(func(tx *gorm.DB) error {
		if err := s.logic.pipelineDAO.ClearDefault(ctx, tx, pipeline.ProfileID); err != nil {
			return classifyStorage(err, "pipeline")
		}
		err := s.logic.pipelineDAO.UpdateFields(ctx, tx, pipelineID,
			map[string]interface{}{"is_default": true})
		return classifyStorage(err, "pipeline")
	})
}

// DeletePipeline removes a non-default pipeline and cascades its stages.
// Pipelines still holding cards are protected: the caller must move or
// detach those orders first.
func (s *Service) DeletePipeline(ctx context.Context, pipelineID string) error {
	pipeline, err := s.logic.authorizePipeline(ctx, s.logic.db, pipelineID)
	if err != nil {
		return err
	}
	if pipeline.IsDefault {
		return Conflictf("the default pipeline cannot be deleted")
	}

	// the card guard and the stage cascade share one transaction so a
	// card attached concurrently cannot end up referencing deleted stages
	return s.logic.db.Transaction(func(tx *gorm.DB) error {
		cards, err := s.logic.cardDAO.CountByPipeline(ctx, tx, pipelineID)
		if err != nil {
			return classifyStorage(err, "card")
		}
		if cards > 0 {
			return Conflictf("pipeline still holds %d cards; move or detach them first", cards)
		}
		if err := s.logic.stageDAO.DeleteByPipeline(ctx, tx, pipelineID); err != nil {
			return classifyStorage(err, "stage")
		}
		return classifyStorage(s.logic.pipelineDAO.Delete(ctx, tx, pipelineID), "pipeline")
	})
}
