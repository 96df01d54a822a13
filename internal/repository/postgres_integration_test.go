//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fanxian-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.Reward{},
		&models.QRCode{},
		&models.QRBatch{},
		&models.Product{},
		&models.Company{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Company{},
		&models.Product{},
		&models.QRBatch{},
		&models.QRCode{},
		&models.Reward{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresQRCodeLifecycle(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	company := models.Company{Name: "PG Integration Co"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("create company failed: %v", err)
	}
	product := models.Product{CompanyID: company.ID, Name: "PG Widget", SKUPrefix: "PGW"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	repo := NewQRCodeRepository(db)
	code := models.QRCode{ProductID: product.ID, Code: "PGTESTCODE01", SerialNumber: 1}
	if err := repo.Create(&code); err != nil {
		t.Fatalf("create qr code failed: %v", err)
	}

	if err := repo.RecordScan(code.ID, time.Now()); err != nil {
		t.Fatalf("record scan failed: %v", err)
	}

	locked, err := repo.GetByCodeForUpdate("pgtestcode01")
	if err != nil {
		t.Fatalf("locked read failed: %v", err)
	}
	if locked == nil || locked.ScanCount != 1 {
		t.Fatalf("expected scan_count 1, got %+v", locked)
	}

	affected, err := repo.MarkUsed(code.ID, 7, time.Now())
	if err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	// 二次核销必须是空操作
	affected, err = repo.MarkUsed(code.ID, 8, time.Now())
	if err != nil {
		t.Fatalf("second mark used failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows affected on reuse, got %d", affected)
	}
}
