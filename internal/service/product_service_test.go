package service

import (
	"errors"
	"testing"

	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newProductServiceForTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	return NewProductService(repository.NewProductRepository(db), repository.NewCompanyRepository(db)), db
}

func validProductInput(companyID uint) ProductInput {
	return ProductInput{
		CompanyID:      companyID,
		Name:           "Wireless Earbuds Pro",
		SKUPrefix:      "wep",
		MRP:            models.NewMoneyFromDecimal(decimal.NewFromInt(1999)),
		SellingPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(1499)),
		CashbackAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		MarketplaceURLs: map[string]string{
			"Amazon ": "https://www.amazon.in/dp/B0TEST",
		},
		Category: "electronics",
	}
}

func TestCreateProductNormalizesInput(t *testing.T) {
	svc, db := newProductServiceForTest(t)
	company := seedCompany(t, db, "Brand A")

	product, err := svc.CreateProduct(validProductInput(company.ID))
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.SKUPrefix != "WEP" {
		t.Fatalf("sku prefix should be uppercased, got %q", product.SKUPrefix)
	}
	if !product.IsActive {
		t.Fatalf("new product should default to active")
	}
	if _, ok := product.MarketplaceURLs["amazon"]; !ok {
		t.Fatalf("marketplace key should be normalized to lowercase: %v", product.MarketplaceURLs)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, db := newProductServiceForTest(t)
	company := seedCompany(t, db, "Brand A")

	input := validProductInput(company.ID)
	input.CompanyID = 999
	if _, err := svc.CreateProduct(input); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("unknown company want ErrCompanyNotFound got %v", err)
	}

	input = validProductInput(company.ID)
	input.SKUPrefix = " "
	if _, err := svc.CreateProduct(input); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("blank sku want ErrProductInvalid got %v", err)
	}

	input = validProductInput(company.ID)
	input.CashbackAmount = models.NewMoneyFromDecimal(decimal.NewFromInt(-1))
	if _, err := svc.CreateProduct(input); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("negative amount want ErrProductInvalid got %v", err)
	}

	input = validProductInput(company.ID)
	input.MarketplaceURLs = map[string]string{"ebay": "https://ebay.example.com/item"}
	if _, err := svc.CreateProduct(input); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("unknown platform want ErrProductInvalid got %v", err)
	}
}

func TestGetPublicHidesInactive(t *testing.T) {
	svc, db := newProductServiceForTest(t)
	company := seedCompany(t, db, "Brand A")
	active := seedProduct(t, db, company.ID, "WEP", true)
	inactive := seedProduct(t, db, company.ID, "SSB", false)

	if _, err := svc.GetPublic(active.ID); err != nil {
		t.Fatalf("active product should be public: %v", err)
	}
	if _, err := svc.GetPublic(inactive.ID); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("inactive product want ErrProductNotAvailable got %v", err)
	}
	if _, err := svc.GetPublic(999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want ErrProductNotFound got %v", err)
	}

	list, total, err := svc.ListPublic("", "", 1, 10)
	if err != nil {
		t.Fatalf("list public failed: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != active.ID {
		t.Fatalf("public list should only contain active product, got total=%d", total)
	}

	adminList, adminTotal, err := svc.ListAdmin(ProductListInput{CompanyID: company.ID, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if adminTotal != 2 || len(adminList) != 2 {
		t.Fatalf("admin list should contain both products, got total=%d", adminTotal)
	}
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	svc, db := newProductServiceForTest(t)
	company := seedCompany(t, db, "Brand A")
	product := seedProduct(t, db, company.ID, "WEP", true)

	if err := svc.DeleteProduct(product.ID); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	if _, err := svc.GetProduct(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("deleted product want ErrProductNotFound got %v", err)
	}

	var count int64
	if err := db.Unscoped().Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
		t.Fatalf("count unscoped failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("product row should remain for audit, got %d", count)
	}
}
