package service

import (
	"context"
	"errors"

	"github.com/funwhale/orderboard/biz/dal/db"
	"github.com/funwhale/orderboard/biz/dal/model"
	"github.com/funwhale/orderboard/pkg/common"
	"gorm.io/gorm"
)

// positionRetryBudget bounds allocate+insert retries when concurrent
// writers collide on the (pipeline_id, position) unique index. Exceeding
// it is treated as a logic bug and surfaced as a conflict.
const positionRetryBudget = 3

// Logic contains business rules on top of data persistence.
type Logic struct {
	db          *gorm.DB
	profileDAO  *db.ProfileDAO
	pipelineDAO *db.PipelineDAO
	stageDAO    *db.StageDAO
	cardDAO     *db.CardDAO
}

func NewLogic(dbConn *gorm.DB) *Logic {
	return &Logic{
		db:          dbConn,
		profileDAO:  db.NewProfileDAO(),
		pipelineDAO: db.NewPipelineDAO(),
		stageDAO:    db.NewStageDAO(),
		cardDAO:     db.NewCardDAO(),
	}
}

// Service orchestrates pipeline, stage and card operations using Logic.
type Service struct {
	logic *Logic
}

func NewService(dbConn *gorm.DB) *Service {
	return &Service{logic: NewLogic(dbConn)}
}

// requirePrincipal extracts the verified caller identity from context.
func requirePrincipal(ctx context.Context) (common.Principal, error) {
	principal, ok := common.GetPrincipal(ctx)
	if !ok {
		return common.Principal{}, Unauthorizedf("authentication required")
	}
	return principal, nil
}

// authorizeProfile checks that the caller owns the given profile or is an
// admin. Returns the resolved profile for further use.
func (l *Logic) authorizeProfile(ctx context.Context, tx *gorm.DB, profileID string) (*model.Profile, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := l.profileDAO.GetByProfileID(ctx, tx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("profile not found")
		}
		return nil, classifyStorage(err, "profile")
	}

	if profile.UserID != principal.UserID && !principal.IsAdmin() {
		return nil, Forbiddenf("caller does not own this profile")
	}
	return profile, nil
}

// authorizePipeline resolves a pipeline and checks board ownership through
// its owning profile.
func (l *Logic) authorizePipeline(ctx context.Context, tx *gorm.DB, pipelineID string) (*model.Pipeline, error) {
	pipeline, err := l.pipelineDAO.GetByID(ctx, tx, pipelineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("pipeline not found")
		}
		return nil, classifyStorage(err, "pipeline")
	}

	if _, err := l.authorizeProfile(ctx, tx, pipeline.ProfileID); err != nil {
		return nil, err
	}
	return pipeline, nil
}
