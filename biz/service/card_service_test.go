package service

import (
	"context"
	"testing"

	"github.com/funwhale/orderboard/biz/dal/model"
)

func TestAttachOrder(t *testing.T) {
	svc, _ := newTestService(t)
	board := boardFixture(t, svc, 1)
	pending := stageByStatus(t, board, model.SystemStatusPending)

	t.Run("LandsOnPending", func(t *testing.T) {
		card, err := svc.AttachOrder(asUser(1), board.PipelineID, "order-1", "birthday", "Riga")
		if err != nil {
			t.Fatalf("AttachOrder failed: %v", err)
		}
		if card.StageID != pending.StageID {
			t.Errorf("expected card on pending stage, got %s", card.StageID)
		}
		if card.ClientStatus != model.ClientStatusInProgress {
			t.Errorf("expected in_progress, got %s", card.ClientStatus)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		again, err := svc.AttachOrder(asUser(1), board.PipelineID, "order-1", "birthday", "Riga")
		if err != nil {
			t.Fatalf("second AttachOrder failed: %v", err)
		}
		if again.StageID != pending.StageID {
			t.Errorf("repeat attach moved the card to %s", again.StageID)
		}
		cards, err := svc.ListCards(asUser(1), board.PipelineID)
		if err != nil {
			t.Fatalf("ListCards failed: %v", err)
		}
		if len(cards) != 1 {
			t.Errorf("expected a single card, got %d", len(cards))
		}
	})

	t.Run("EmptyOrderID", func(t *testing.T) {
		_, err := svc.AttachOrder(asUser(1), board.PipelineID, "", "birthday", "Riga")
		expectKind(t, err, KindValidation)
	})

	// repeats well past the duplicate-row retry budget: attaching a
	// present order always returns its row, never consumes retries
	t.Run("RepeatedAttachKeepsOneCard", func(t *testing.T) {
		for i := 0; i < positionRetryBudget+2; i++ {
			if _, err := svc.AttachOrder(asUser(1), board.PipelineID, "order-2", "show", "Tallinn"); err != nil {
				t.Fatalf("attach %d failed: %v", i, err)
			}
		}
		cards, err := svc.ListCards(asUser(1), board.PipelineID)
		if err != nil {
			t.Fatalf("ListCards failed: %v", err)
		}
		seen := 0
		for _, card := range cards {
			if card.OrderID == "order-2" {
				seen++
			}
		}
		if seen != 1 {
			t.Errorf("expected one card for order-2, got %d", seen)
		}
	})
}

// Scenario: order moves through a custom stage to confirmed; one card row
// throughout, timestamp refreshed on every transition.
func TestMoveCardThroughPipeline(t *testing.T) {
	svc, _ := newTestService(t)
	board := boardFixture(t, svc, 1)
	pending := stageByStatus(t, board, model.SystemStatusPending)
	confirmed := stageByStatus(t, board, model.SystemStatusConfirmed)

	qualifying, err := svc.CreateStage(asUser(1), board.PipelineID, "Qualifying", pending.StageID)
	if err != nil {
		t.Fatalf("CreateStage failed: %v", err)
	}
	attached, err := svc.AttachOrder(asUser(1), board.PipelineID, "order-1", "birthday", "Riga")
	if err != nil {
		t.Fatalf("AttachOrder failed: %v", err)
	}

	moved, err := svc.MoveCard(asUser(1), board.PipelineID, "order-1", qualifying.StageID)
	if err != nil {
		t.Fatalf("MoveCard to Qualifying failed: %v", err)
	}
	if moved.StageID != qualifying.StageID {
		t.Errorf("expected card on Qualifying, got %s", moved.StageID)
	}
	if moved.ClientStatus != model.ClientStatusInProgress {
		t.Errorf("custom stage must read in_progress, got %s", moved.ClientStatus)
	}
	if moved.MovedAt.Before(attached.MovedAt) {
		t.Error("moved_at went backwards")
	}

	final, err := svc.MoveCard(asUser(1), board.PipelineID, "order-1", confirmed.StageID)
	if err != nil {
		t.Fatalf("MoveCard to confirmed failed: %v", err)
	}
	if final.ClientStatus != model.ClientStatusConfirmed {
		t.Errorf("expected confirmed, got %s", final.ClientStatus)
	}

	cards, err := svc.ListCards(asUser(1), board.PipelineID)
	if err != nil {
		t.Fatalf("ListCards failed: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected a single card row, got %d", len(cards))
	}
	if cards[0].StageID != confirmed.StageID {
		t.Errorf("expected final stage confirmed, got %s", cards[0].StageID)
	}
}

func TestMoveCardIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	board := boardFixture(t, svc, 1)
	confirmed := stageByStatus(t, board, model.SystemStatusConfirmed)

	first, err := svc.MoveCard(asUser(1), board.PipelineID, "order-1", confirmed.StageID)
	if err != nil {
		t.Fatalf("first MoveCard failed: %v", err)
	}
	second, err := svc.MoveCard(asUser(1), board.PipelineID, "order-1", confirmed.StageID)
	if err != nil {
		t.Fatalf("second MoveCard failed: %v", err)
	}
	if first.StageID != second.StageID {
		t.Error("repeated move diverged")
	}

	cards, err := svc.ListCards(asUser(1), board.PipelineID)
	if err != nil {
		t.Fatalf("ListCards failed: %v", err)
	}
	if len(cards) != 1 {
		t.Errorf("expected a single card row, got %d", len(cards))
	}
}

func TestMoveCardForeignStage(t *testing.T) {
	svc, _ := newTestService(t)
	profileID := provisionedProfile(t, svc, 1)
	pipelines, err := svc.ListPipelines(asUser(1), profileID)
	if err != nil {
		t.Fatalf("ListPipelines failed: %v", err)
	}
	board := pipelines[0]

	other, err := svc.CreatePipeline(asUser(1), profileID, "Second Board")
	if err != nil {
		t.Fatalf("CreatePipeline failed: %v", err)
	}
	foreign := stageByStatus(t, other, model.SystemStatusPending)

	_, err = svc.MoveCard(asUser(1), board.PipelineID, "order-1", foreign.StageID)
	expectKind(t, err, KindNotFound)
}

func TestMoveCardAuthorization(t *testing.T) {
	svc, _ := newTestService(t)
	board := boardFixture(t, svc, 1)
	confirmed := stageByStatus(t, board, model.SystemStatusConfirmed)

	t.Run("StrangerForbidden", func(t *testing.T) {
		_, err := svc.MoveCard(asUser(8), board.PipelineID, "order-1", confirmed.StageID)
		expectKind(t, err, KindForbidden)
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		if _, err := svc.MoveCard(asAdmin(99), board.PipelineID, "order-1", confirmed.StageID); err != nil {
			t.Fatalf("admin MoveCard failed: %v", err)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		_, err := svc.MoveCard(context.Background(), board.PipelineID, "order-1", confirmed.StageID)
		expectKind(t, err, KindUnauthorized)
	})
}

func TestDetachOrder(t *testing.T) {
	svc, _ := newTestService(t)
	board := boardFixture(t, svc, 1)

	if _, err := svc.AttachOrder(asUser(1), board.PipelineID, "order-1", "birthday", "Riga"); err != nil {
		t.Fatalf("AttachOrder failed: %v", err)
	}
	if err := svc.DetachOrder(asUser(1), board.PipelineID, "order-1"); err != nil {
		t.Fatalf("DetachOrder failed: %v", err)
	}
	expectKind(t, svc.DetachOrder(asUser(1), board.PipelineID, "order-1"), KindNotFound)
}

func TestOrderStatus(t *testing.T) {
	svc, _ := newTestService(t)
	board := boardFixture(t, svc, 1)
	pending := stageByStatus(t, board, model.SystemStatusPending)
	cancelled := stageByStatus(t, board, model.SystemStatusCancelled)

	qualifying, err := svc.CreateStage(asUser(1), board.PipelineID, "Qualifying", pending.StageID)
	if err != nil {
		t.Fatalf("CreateStage failed: %v", err)
	}
	if _, err := svc.AttachOrder(asUser(1), board.PipelineID, "order-1", "birthday", "Riga"); err != nil {
		t.Fatalf("AttachOrder failed: %v", err)
	}
	if _, err := svc.MoveCard(asUser(1), board.PipelineID, "order-1", qualifying.StageID); err != nil {
		t.Fatalf("MoveCard failed: %v", err)
	}

	t.Run("CustomStageHiddenByDefault", func(t *testing.T) {
		status, err := svc.OrderStatus(asUser(42), "order-1")
		if err != nil {
			t.Fatalf("OrderStatus failed: %v", err)
		}
		if status.ClientStatus != model.ClientStatusInProgress {
			t.Errorf("expected in_progress, got %s", status.ClientStatus)
		}
		if status.StageName != "" {
			t.Errorf("stage name must stay hidden, got %q", status.StageName)
		}
	})

	t.Run("StageNameVisibleWhenOptedIn", func(t *testing.T) {
		settings := `{"show_stage_names":true}`
		if _, err := svc.UpdatePipeline(asUser(1), board.PipelineID, PipelinePatch{Settings: &settings}); err != nil {
			t.Fatalf("UpdatePipeline failed: %v", err)
		}
		status, err := svc.OrderStatus(asUser(42), "order-1")
		if err != nil {
			t.Fatalf("OrderStatus failed: %v", err)
		}
		if status.StageName != "Qualifying" {
			t.Errorf("expected stage name Qualifying, got %q", status.StageName)
		}
	})

	t.Run("TerminalStage", func(t *testing.T) {
		if _, err := svc.MoveCard(asUser(1), board.PipelineID, "order-1", cancelled.StageID); err != nil {
			t.Fatalf("MoveCard failed: %v", err)
		}
		status, err := svc.OrderStatus(asUser(42), "order-1")
		if err != nil {
			t.Fatalf("OrderStatus failed: %v", err)
		}
		if status.ClientStatus != model.ClientStatusCancelled {
			t.Errorf("expected cancelled, got %s", status.ClientStatus)
		}
	})

	t.Run("UntrackedOrder", func(t *testing.T) {
		_, err := svc.OrderStatus(asUser(42), "order-unknown")
		expectKind(t, err, KindNotFound)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		_, err := svc.OrderStatus(context.Background(), "order-1")
		expectKind(t, err, KindUnauthorized)
	})
}
