package db

import (
	"context"
	"testing"
	"time"

	"github.com/funwhale/orderboard/biz/dal/model"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Reduce log noise in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Auto migrate all tables
	if err := db.AutoMigrate(
		&model.Profile{},
		&model.Pipeline{},
		&model.Stage{},
		&model.Card{},
	); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}

	return db
}

// CleanupTestDB closes the database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close DB: %v", err)
	}
}

// CreateTestProfile creates a test profile with default values
func CreateTestProfile(t *testing.T, db *gorm.DB, userID int64) *model.Profile {
	t.Helper()
	dao := NewProfileDAO()
	profile := &model.Profile{
		ProfileID:   uuid.New().String(),
		UserID:      userID,
		DisplayName: "Test Provider",
	}
	if err := dao.Create(context.Background(), db, profile); err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return profile
}

// CreateTestPipeline creates a pipeline with its four reserved stages
func CreateTestPipeline(t *testing.T, db *gorm.DB, profileID, name string, isDefault bool) *model.Pipeline {
	t.Helper()
	dao := NewPipelineDAO()
	pipe := &model.Pipeline{
		PipelineID: uuid.New().String(),
		ProfileID:  profileID,
		Name:       name,
		IsDefault:  isDefault,
	}
	if err := dao.Create(context.Background(), db, pipe); err != nil {
		t.Fatalf("Failed to create test pipeline: %v", err)
	}

	stageDAO := NewStageDAO()
	for i, status := range model.ReservedStatuses {
		stage := &model.Stage{
			StageID:      uuid.New().String(),
			PipelineID:   pipe.PipelineID,
			Name:         model.DefaultStageName(status),
			Position:     int64((i + 1) * 10),
			SystemStatus: status,
		}
		if err := stageDAO.Create(context.Background(), db, stage); err != nil {
			t.Fatalf("Failed to create reserved stage %s: %v", status, err)
		}
	}
	return pipe
}

// CreateTestStage creates a custom stage at the given position
func CreateTestStage(t *testing.T, db *gorm.DB, pipelineID, name string, position int64) *model.Stage {
	t.Helper()
	dao := NewStageDAO()
	stage := &model.Stage{
		StageID:    uuid.New().String(),
		PipelineID: pipelineID,
		Name:       name,
		Position:   position,
	}
	if err := dao.Create(context.Background(), db, stage); err != nil {
		t.Fatalf("Failed to create test stage: %v", err)
	}
	return stage
}

// CreateTestCard assigns an order to a stage
func CreateTestCard(t *testing.T, db *gorm.DB, pipelineID, stageID, orderID string) *model.Card {
	t.Helper()
	dao := NewCardDAO()
	card := &model.Card{
		OrderID:    orderID,
		PipelineID: pipelineID,
		StageID:    stageID,
		Category:   "birthday",
		City:       "Riga",
		MovedAt:    time.Now().UTC(),
	}
	if err := dao.Create(context.Background(), db, card); err != nil {
		t.Fatalf("Failed to create test card: %v", err)
	}
	return card
}
