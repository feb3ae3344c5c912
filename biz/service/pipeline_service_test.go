package service

import (
	"context"
	"testing"

	"github.com/funwhale/orderboard/biz/dal/model"
)

func TestProvisionProfile(t *testing.T) {
	svc, _ := newTestService(t)

	t.Run("CreatesDefaultPipelineWithReservedStages", func(t *testing.T) {
		profile, err := svc.ProvisionProfile(asUser(1), 1, "Magic Shows Ltd")
		if err != nil {
			t.Fatalf("ProvisionProfile failed: %v", err)
		}

		pipelines, err := svc.ListPipelines(asUser(1), profile.ProfileID)
		if err != nil {
			t.Fatalf("ListPipelines failed: %v", err)
		}
		if len(pipelines) != 1 {
			t.Fatalf("expected 1 pipeline, got %d", len(pipelines))
		}
		if !pipelines[0].IsDefault {
			t.Error("expected the provisioned pipeline to be default")
		}
		assertReservedStageSet(t, pipelines[0].Stages)
	})

	t.Run("ForbiddenForOtherUser", func(t *testing.T) {
		_, err := svc.ProvisionProfile(asUser(2), 3, "Not Mine")
		expectKind(t, err, KindForbidden)
	})

	t.Run("AdminMayProvisionForAnyone", func(t *testing.T) {
		if _, err := svc.ProvisionProfile(asAdmin(99), 4, "Admin Made"); err != nil {
			t.Fatalf("admin provisioning failed: %v", err)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		_, err := svc.ProvisionProfile(context.Background(), 5, "Ghost")
		expectKind(t, err, KindUnauthorized)
	})
}

// Scenario: creating pipeline "Sales" yields four reserved stages with
// default labels and the default flag on the first pipeline only.
func TestCreatePipeline(t *testing.T) {
	svc, _ := newTestService(t)
	profileID := provisionedProfile(t, svc, 1)

	t.Run("SecondPipelineIsNotDefault", func(t *testing.T) {
		view, err := svc.CreatePipeline(asUser(1), profileID, "Sales")
		if err != nil {
			t.Fatalf("CreatePipeline failed: %v", err)
		}
		if view.IsDefault {
			t.Error("second pipeline must not be default")
		}
		assertReservedStageSet(t, view.Stages)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := svc.CreatePipeline(asUser(1), profileID, "   ")
		expectKind(t, err, KindValidation)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		_, err := svc.CreatePipeline(asUser(2), profileID, "Sneaky")
		expectKind(t, err, KindForbidden)
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		if _, err := svc.CreatePipeline(asAdmin(99), profileID, "Admin Board"); err != nil {
			t.Fatalf("admin create failed: %v", err)
		}
	})

	t.Run("UnknownProfile", func(t *testing.T) {
		_, err := svc.CreatePipeline(asUser(1), "no-such-profile", "Lost")
		expectKind(t, err, KindNotFound)
	})
}

func TestUpdatePipeline(t *testing.T) {
	svc, _ := newTestService(t)
	profileID := provisionedProfile(t, svc, 1)
	created, err := svc.CreatePipeline(asUser(1), profileID, "Sales")
	if err != nil {
		t.Fatalf("CreatePipeline failed: %v", err)
	}

	t.Run("EditsNameDescriptionSettings", func(t *testing.T) {
		name, desc, settings := "Bookings", "weekend gigs", `{"show_stage_names":true}`
		view, err := svc.UpdatePipeline(asUser(1), created.PipelineID, PipelinePatch{
			Name: &name, Description: &desc, Settings: &settings,
		})
		if err != nil {
			t.Fatalf("UpdatePipeline failed: %v", err)
		}
		if view.Name != "Bookings" || view.Description != "weekend gigs" {
			t.Errorf("patch not applied: %+v", view)
		}
	})

	t.Run("RejectsDefaultFlag", func(t *testing.T) {
		flag := true
		_, err := svc.UpdatePipeline(asUser(1), created.PipelineID, PipelinePatch{IsDefault: &flag})
		expectKind(t, err, KindValidation)
	})

	// Scenario: a non-owner, non-admin principal PATCHing a pipeline is
	// rejected before any change is applied.
	t.Run("StrangerForbidden", func(t *testing.T) {
		name := "Hijacked"
		_, err := svc.UpdatePipeline(asUser(7), created.PipelineID, PipelinePatch{Name: &name})
		expectKind(t, err, KindForbidden)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		name := "Nobody"
		_, err := svc.UpdatePipeline(context.Background(), created.PipelineID, PipelinePatch{Name: &name})
		expectKind(t, err, KindUnauthorized)
	})
}

func TestSetDefaultPipeline(t *testing.T) {
	svc, _ := newTestService(t)
	profileID := provisionedProfile(t, svc, 1)
	second, err := svc.CreatePipeline(asUser(1), profileID, "Sales")
	if err != nil {
		t.Fatalf("CreatePipeline failed: %v", err)
	}

	if err := svc.SetDefaultPipeline(asUser(1), second.PipelineID); err != nil {
		t.Fatalf("SetDefaultPipeline failed: %v", err)
	}

	pipelines, err := svc.ListPipelines(asUser(1), profileID)
	if err != nil {
		t.Fatalf("ListPipelines failed: %v", err)
	}
	defaults := 0
	for _, p := range pipelines {
		if p.IsDefault {
			defaults++
			if p.PipelineID != second.PipelineID {
				t.Errorf("wrong pipeline flagged default: %s", p.PipelineID)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("expected exactly one default pipeline, got %d", defaults)
	}

	// setting the current default again is a no-op
	if err := svc.SetDefaultPipeline(asUser(1), second.PipelineID); err != nil {
		t.Fatalf("idempotent SetDefaultPipeline failed: %v", err)
	}
}

func TestDeletePipeline(t *testing.T) {
	svc, _ := newTestService(t)
	profileID := provisionedProfile(t, svc, 1)

	pipelines, err := svc.ListPipelines(asUser(1), profileID)
	if err != nil {
		t.Fatalf("ListPipelines failed: %v", err)
	}
	defaultID := pipelines[0].PipelineID

	t.Run("DefaultProtected", func(t *testing.T) {
		expectKind(t, svc.DeletePipeline(asUser(1), defaultID), KindConflict)
	})

	t.Run("BlockedWhileCardsExist", func(t *testing.T) {
		second, err := svc.CreatePipeline(asUser(1), profileID, "Sales")
		if err != nil {
			t.Fatalf("CreatePipeline failed: %v", err)
		}
		if _, err := svc.AttachOrder(asUser(1), second.PipelineID, "order-1", "birthday", "Riga"); err != nil {
			t.Fatalf("AttachOrder failed: %v", err)
		}

		expectKind(t, svc.DeletePipeline(asUser(1), second.PipelineID), KindConflict)

		// a blocked delete must leave the stage set fully intact
		view, err := svc.GetPipeline(asUser(1), second.PipelineID)
		if err != nil {
			t.Fatalf("GetPipeline after blocked delete failed: %v", err)
		}
		assertReservedStageSet(t, view.Stages)

		if err := svc.DetachOrder(asUser(1), second.PipelineID, "order-1"); err != nil {
			t.Fatalf("DetachOrder failed: %v", err)
		}
		if err := svc.DeletePipeline(asUser(1), second.PipelineID); err != nil {
			t.Fatalf("DeletePipeline failed: %v", err)
		}

		_, err = svc.GetPipeline(asUser(1), second.PipelineID)
		expectKind(t, err, KindNotFound)
	})
}

// assertReservedStageSet checks the four reserved stages are present
// exactly once each, in fixed order, with their default labels.
func assertReservedStageSet(t *testing.T, stages []StageView) {
	t.Helper()
	if len(stages) < 4 {
		t.Fatalf("expected at least 4 stages, got %d", len(stages))
	}
	counts := map[model.SystemStatus]int{}
	var reservedOrder []model.SystemStatus
	for _, stage := range stages {
		if stage.SystemStatus == model.SystemStatusNone {
			continue
		}
		counts[stage.SystemStatus]++
		reservedOrder = append(reservedOrder, stage.SystemStatus)
		if stage.Name == "" {
			t.Errorf("reserved stage %s has no label", stage.SystemStatus)
		}
	}
	for _, status := range model.ReservedStatuses {
		if counts[status] != 1 {
			t.Errorf("expected exactly one %s stage, got %d", status, counts[status])
		}
	}
	for i, status := range reservedOrder {
		if status != model.ReservedStatuses[i] {
			t.Errorf("reserved stages out of order: %v", reservedOrder)
			break
		}
	}
}
