package service

import (
	"context"
	"errors"
	"time"

	"github.com/funwhale/orderboard/biz/dal/model"
	"gorm.io/gorm"
)

// AttachOrder enters an order into a pipeline, creating its card on the
// pending stage. Attaching an already present order is a no-op returning
// the existing card.
func (s *Service) AttachOrder(ctx context.Context, pipelineID, orderID, category, city string) (*CardView, error) {
	if orderID == "" {
		return nil, Invalidf("order id must not be empty")
	}
	if _, err := s.logic.authorizePipeline(ctx, s.logic.db, pipelineID); err != nil {
		return nil, err
	}

	pending, err := s.logic.stageDAO.GetBySystemStatus(ctx, s.logic.db, pipelineID, model.SystemStatusPending)
	if err != nil {
		return nil, classifyStorage(err, "stage")
	}

	for attempt := 0; attempt < positionRetryBudget; attempt++ {
		existing, err := s.logic.cardDAO.GetByOrder(ctx, s.logic.db, pipelineID, orderID)
		if err == nil {
			stage, err := s.logic.stageDAO.GetByID(ctx, s.logic.db, existing.StageID)
			if err != nil {
				return nil, classifyStorage(err, "stage")
			}
			view := cardToView(existing, stage)
			return &view, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, classifyStorage(err, "card")
		}

		card := &model.Card{
			OrderID:    orderID,
			PipelineID: pipelineID,
			StageID:    pending.StageID,
			Category:   category,
			City:       city,
			MovedAt:    time.Now().UTC(),
		}
		if err := s.logic.cardDAO.Create(ctx, s.logic.db, card); err != nil {
			if isDuplicateKey(err) {
				// racing attach: re-read the row the other writer created
				continue
			}
			return nil, classifyStorage(err, "card")
		}

		view := cardToView(card, pending)
		return &view, nil
	}

	return nil, Conflictf("could not attach the order, please retry")
}

// MoveCard moves an order's card to the target stage, refreshing the
// transition timestamp. The operation is an upsert keyed by
// (pipeline, order): an order not yet on the board enters it directly at
// the target stage, and repeating a move converges on the same final state.
func (s *Service) MoveCard(ctx context.Context, pipelineID, orderID, targetStageID string) (*CardView, error) {
	if orderID == "" {
		return nil, Invalidf("order id must not be empty")
	}
	if _, err := s.logic.authorizePipeline(ctx, s.logic.db, pipelineID); err != nil {
		return nil, err
	}

	target, err := s.logic.stageDAO.GetByID(ctx, s.logic.db, targetStageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("target stage not found")
		}
		return nil, classifyStorage(err, "stage")
	}
	if target.PipelineID != pipelineID {
		return nil, NotFoundf("target stage does not belong to this pipeline")
	}

	movedAt := time.Now().UTC()
	var card *model.Card
	err = s.logic.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.logic.cardDAO.GetByOrder(ctx, tx, pipelineID, orderID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return classifyStorage(err, "card")
			}
			card = &model.Card{
				OrderID:    orderID,
				PipelineID: pipelineID,
				StageID:    targetStageID,
				MovedAt:    movedAt,
			}
			return classifyStorage(s.logic.cardDAO.Create(ctx, tx, card), "card")
		}

		if err := s.logic.cardDAO.UpdateStage(ctx, tx, pipelineID, orderID, targetStageID,
			map[string]interface{}{"moved_at": movedAt}); err != nil {
			return classifyStorage(err, "card")
		}
		existing.StageID = targetStageID
		existing.MovedAt = movedAt
		card = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := cardToView(card, target)
	return &view, nil
}

// DetachOrder removes an order's card from a pipeline, typically because
// the order was deleted upstream.
func (s *Service) DetachOrder(ctx context.Context, pipelineID, orderID string) error {
	if _, err := s.logic.authorizePipeline(ctx, s.logic.db, pipelineID); err != nil {
		return err
	}
	if _, err := s.logic.cardDAO.GetByOrder(ctx, s.logic.db, pipelineID, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("order has no card in this pipeline")
		}
		return classifyStorage(err, "card")
	}
	return classifyStorage(s.logic.cardDAO.Delete(ctx, s.logic.db, pipelineID, orderID), "card")
}

// ListCards returns the board content of a pipeline: every card with its
// client status attached.
func (s *Service) ListCards(ctx context.Context, pipelineID string) ([]CardView, error) {
	if _, err := s.logic.authorizePipeline(ctx, s.logic.db, pipelineID); err != nil {
		return nil, err
	}
	cards, err := s.logic.cardDAO.ListByPipeline(ctx, s.logic.db, pipelineID)
	if err != nil {
		return nil, classifyStorage(err, "card")
	}
	stages, err := s.logic.stageDAO.ListByPipeline(ctx, s.logic.db, pipelineID)
	if err != nil {
		return nil, classifyStorage(err, "stage")
	}

	byID := make(map[string]*model.Stage, len(stages))
	for i := range stages {
		byID[stages[i].StageID] = &stages[i]
	}

	views := make([]CardView, 0, len(cards))
	for i := range cards {
		views = append(views, cardToView(&cards[i], byID[cards[i].StageID]))
	}
	return views, nil
}

// OrderStatus is the client-facing projection: the simplified status of an
// order, with the internal stage name included only when the pipeline's
// settings opt in. Any authenticated caller may read it; mapping orders to
// their clients is the gateway's concern.
func (s *Service) OrderStatus(ctx context.Context, orderID string) (*OrderStatusView, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}

	card, err := s.logic.cardDAO.GetLatestByOrderID(ctx, s.logic.db, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("order is not tracked on any board")
		}
		return nil, classifyStorage(err, "card")
	}
	stage, err := s.logic.stageDAO.GetByID(ctx, s.logic.db, card.StageID)
	if err != nil {
		return nil, classifyStorage(err, "stage")
	}

	view := &OrderStatusView{
		OrderID:      orderID,
		ClientStatus: model.ToClientStatus(stage),
	}
	pipeline, err := s.logic.pipelineDAO.GetByID(ctx, s.logic.db, card.PipelineID)
	if err == nil && showStageNames(pipeline.Settings) {
		view.StageName = stage.Name
	}
	return view, nil
}
