package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fanxian-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// setupServiceDB 为单个测试准备独立的内存库，并临时接管全局 DB。
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Company{},
		&models.Product{},
		&models.QRBatch{},
		&models.QRCode{},
		&models.User{},
		&models.Reward{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	prev := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prev })
	return db
}

func seedCompany(t *testing.T, db *gorm.DB, name string) *models.Company {
	t.Helper()
	company := &models.Company{Name: name}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("seed company failed: %v", err)
	}
	return company
}

func seedProduct(t *testing.T, db *gorm.DB, companyID uint, skuPrefix string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		CompanyID:      companyID,
		Name:           "测试商品 " + skuPrefix,
		SKUPrefix:      skuPrefix,
		MRP:            models.NewMoneyFromDecimal(decimal.NewFromInt(999)),
		SellingPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(799)),
		CashbackAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		MarketplaceURLs: models.JSON{
			"amazon": "https://www.amazon.in/dp/TEST" + skuPrefix,
		},
		IsActive: active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	if !active {
		// IsActive has gorm:"default:true", so Create drops the zero value; force it.
		if err := db.Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate seeded product failed: %v", err)
		}
		product.IsActive = false
	}
	return product
}
