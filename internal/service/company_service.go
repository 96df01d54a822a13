package service

import (
	"strings"

	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/repository"
)

// CompanyService 品牌公司服务
type CompanyService struct {
	repo        repository.CompanyRepository
	productRepo repository.ProductRepository
}

// CompanyInput 创建/更新公司输入
type CompanyInput struct {
	Name        string
	LogoURL     string
	Description string
	Website     string
}

// NewCompanyService 创建公司服务
func NewCompanyService(repo repository.CompanyRepository, productRepo repository.ProductRepository) *CompanyService {
	return &CompanyService{repo: repo, productRepo: productRepo}
}

// ListCompanies 公司列表
func (s *CompanyService) ListCompanies(search string, page, pageSize int) ([]models.Company, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrCompanyFetchFailed
	}

	list, total, err := s.repo.List(repository.CompanyListFilter{
		Search:   strings.TrimSpace(search),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, ErrCompanyFetchFailed
	}
	return list, total, nil
}

// GetCompany 公司详情
func (s *CompanyService) GetCompany(id uint) (*models.Company, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCompanyFetchFailed
	}

	company, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrCompanyFetchFailed
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}
	return company, nil
}

// CreateCompany 创建公司，名称全局唯一
func (s *CompanyService) CreateCompany(input CompanyInput) (*models.Company, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCompanySaveFailed
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCompanyInvalid
	}
	existing, err := s.repo.GetByName(name)
	if err != nil {
		return nil, ErrCompanyFetchFailed
	}
	if existing != nil {
		return nil, ErrCompanyNameTaken
	}

	company := &models.Company{
		Name:        name,
		LogoURL:     strings.TrimSpace(input.LogoURL),
		Description: strings.TrimSpace(input.Description),
		Website:     strings.TrimSpace(input.Website),
	}
	if err := s.repo.Create(company); err != nil {
		return nil, ErrCompanySaveFailed
	}
	return company, nil
}

// UpdateCompany 更新公司信息
func (s *CompanyService) UpdateCompany(id uint, input CompanyInput) (*models.Company, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCompanySaveFailed
	}

	company, err := s.GetCompany(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCompanyInvalid
	}
	if name != company.Name {
		existing, err := s.repo.GetByName(name)
		if err != nil {
			return nil, ErrCompanyFetchFailed
		}
		if existing != nil {
			return nil, ErrCompanyNameTaken
		}
	}

	company.Name = name
	company.LogoURL = strings.TrimSpace(input.LogoURL)
	company.Description = strings.TrimSpace(input.Description)
	company.Website = strings.TrimSpace(input.Website)
	if err := s.repo.Update(company); err != nil {
		return nil, ErrCompanySaveFailed
	}
	return company, nil
}

// DeleteCompany 删除公司，存在在售商品时拒绝
func (s *CompanyService) DeleteCompany(id uint) error {
	if s == nil || s.repo == nil {
		return ErrCompanySaveFailed
	}

	if _, err := s.GetCompany(id); err != nil {
		return err
	}
	if s.productRepo != nil {
		count, err := s.productRepo.CountByCompany(id)
		if err != nil {
			return ErrCompanyFetchFailed
		}
		if count > 0 {
			return ErrCompanyHasProducts
		}
	}
	if err := s.repo.Delete(id); err != nil {
		return ErrCompanySaveFailed
	}
	return nil
}
