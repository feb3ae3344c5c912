package service

import (
	"context"
	"testing"

	"github.com/funwhale/orderboard/biz/dal/db"
	"github.com/funwhale/orderboard/pkg/common"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	conn := db.SetupTestDB(t)
	t.Cleanup(func() { db.CleanupTestDB(t, conn) })
	return NewService(conn), conn
}

func asUser(userID int64) context.Context {
	return common.ContextWithPrincipal(context.Background(),
		common.Principal{UserID: userID, Role: common.RoleUser})
}

func asAdmin(userID int64) context.Context {
	return common.ContextWithPrincipal(context.Background(),
		common.Principal{UserID: userID, Role: common.RoleAdmin})
}

func expectKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected error kind %d, got %d (%v)", kind, got, err)
	}
}

// provisionedProfile provisions a profile for userID and returns its id.
func provisionedProfile(t *testing.T, svc *Service, userID int64) string {
	t.Helper()
	profile, err := svc.ProvisionProfile(asUser(userID), userID, "Test Provider")
	if err != nil {
		t.Fatalf("ProvisionProfile failed: %v", err)
	}
	return profile.ProfileID
}
