package service

import (
	"errors"
	"testing"

	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/repository"

	"gorm.io/gorm"
)

func newCompanyServiceForTest(t *testing.T) (*CompanyService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	return NewCompanyService(repository.NewCompanyRepository(db), repository.NewProductRepository(db)), db
}

func TestCreateCompanyNameTaken(t *testing.T) {
	svc, _ := newCompanyServiceForTest(t)

	first, err := svc.CreateCompany(CompanyInput{Name: "  Horizon Consumer Goods  "})
	if err != nil {
		t.Fatalf("create company failed: %v", err)
	}
	if first.Name != "Horizon Consumer Goods" {
		t.Fatalf("name not trimmed: %q", first.Name)
	}

	if _, err := svc.CreateCompany(CompanyInput{Name: "Horizon Consumer Goods"}); !errors.Is(err, ErrCompanyNameTaken) {
		t.Fatalf("duplicate name want ErrCompanyNameTaken got %v", err)
	}
	if _, err := svc.CreateCompany(CompanyInput{Name: "   "}); !errors.Is(err, ErrCompanyInvalid) {
		t.Fatalf("blank name want ErrCompanyInvalid got %v", err)
	}
}

func TestUpdateCompanyRenameConflict(t *testing.T) {
	svc, _ := newCompanyServiceForTest(t)

	a, err := svc.CreateCompany(CompanyInput{Name: "Brand A"})
	if err != nil {
		t.Fatalf("create company A failed: %v", err)
	}
	if _, err := svc.CreateCompany(CompanyInput{Name: "Brand B"}); err != nil {
		t.Fatalf("create company B failed: %v", err)
	}

	if _, err := svc.UpdateCompany(a.ID, CompanyInput{Name: "Brand B"}); !errors.Is(err, ErrCompanyNameTaken) {
		t.Fatalf("rename to taken name want ErrCompanyNameTaken got %v", err)
	}

	// 名称不变时可以更新其余字段
	updated, err := svc.UpdateCompany(a.ID, CompanyInput{Name: "Brand A", Website: "https://brand-a.example.com"})
	if err != nil {
		t.Fatalf("update company failed: %v", err)
	}
	if updated.Website != "https://brand-a.example.com" {
		t.Fatalf("website not updated: %q", updated.Website)
	}
}

func TestDeleteCompanyWithProducts(t *testing.T) {
	svc, db := newCompanyServiceForTest(t)

	company, err := svc.CreateCompany(CompanyInput{Name: "Brand A"})
	if err != nil {
		t.Fatalf("create company failed: %v", err)
	}
	seedProduct(t, db, company.ID, "WEP", true)

	if err := svc.DeleteCompany(company.ID); !errors.Is(err, ErrCompanyHasProducts) {
		t.Fatalf("delete with products want ErrCompanyHasProducts got %v", err)
	}

	if err := db.Where("company_id = ?", company.ID).Delete(&models.Product{}).Error; err != nil {
		t.Fatalf("remove products failed: %v", err)
	}
	if err := svc.DeleteCompany(company.ID); err != nil {
		t.Fatalf("delete empty company failed: %v", err)
	}
	if _, err := svc.GetCompany(company.ID); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("deleted company want ErrCompanyNotFound got %v", err)
	}
}
