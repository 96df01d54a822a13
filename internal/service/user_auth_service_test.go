package service

import (
	"errors"
	"testing"

	"github.com/fanxian-next/internal/config"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/repository"

	"gorm.io/gorm"
)

func newUserAuthServiceForTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	return NewUserAuthService(&config.Config{}, repository.NewUserRepository(db), nil, nil), db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  "测试用户",
		Status:       "active",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func strPtr(s string) *string { return &s }

func TestUpdateProfileSavesDefaultUPI(t *testing.T) {
	svc, db := newUserAuthServiceForTest(t)
	user := seedUser(t, db, "ravi@example.com")

	updated, err := svc.UpdateProfile(user.ID, nil, nil, nil, strPtr("  Ravi.Kumar@okhdfc "))
	if err != nil {
		t.Fatalf("update profile with upi failed: %v", err)
	}
	if updated.UPIID != "ravi.kumar@okhdfc" {
		t.Fatalf("default upi should be trimmed and lowercased, got %q", updated.UPIID)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if stored.UPIID != "ravi.kumar@okhdfc" {
		t.Fatalf("persisted upi mismatch: %q", stored.UPIID)
	}
}

func TestUpdateProfileRejectsBadUPI(t *testing.T) {
	svc, db := newUserAuthServiceForTest(t)
	user := seedUser(t, db, "ravi@example.com")

	if _, err := svc.UpdateProfile(user.ID, nil, nil, nil, strPtr("not a upi")); !errors.Is(err, ErrUPIInvalid) {
		t.Fatalf("want ErrUPIInvalid got %v", err)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if stored.UPIID != "" {
		t.Fatalf("invalid upi must not be persisted, got %q", stored.UPIID)
	}
}

func TestUpdateProfileEmptyInput(t *testing.T) {
	svc, db := newUserAuthServiceForTest(t)
	user := seedUser(t, db, "ravi@example.com")

	if _, err := svc.UpdateProfile(user.ID, nil, nil, nil, nil); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("want ErrProfileEmpty got %v", err)
	}
	if _, err := svc.UpdateProfile(9999, strPtr("名字"), nil, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}
