package service

import (
	"strings"

	"github.com/fanxian-next/internal/constants"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品服务
type ProductService struct {
	repo        repository.ProductRepository
	companyRepo repository.CompanyRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, companyRepo repository.CompanyRepository) *ProductService {
	return &ProductService{repo: repo, companyRepo: companyRepo}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CompanyID       uint
	Name            string
	Description     string
	ImageURL        string
	SKUPrefix       string
	MRP             models.Money
	SellingPrice    models.Money
	CashbackAmount  models.Money
	MarketplaceURLs map[string]string
	Category        string
	IsActive        *bool
}

// ProductListInput 商品列表输入
type ProductListInput struct {
	CompanyID  uint
	Category   string
	Search     string
	OnlyActive bool
	Page       int
	PageSize   int
}

// ListPublic 获取公开商品列表（仅在售）
func (s *ProductService) ListPublic(category, search string, page, pageSize int) ([]models.Product, int64, error) {
	return s.list(ProductListInput{
		Category:   category,
		Search:     search,
		OnlyActive: true,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetPublic 获取公开商品详情
func (s *ProductService) GetPublic(id uint) (*models.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotAvailable
	}
	return product, nil
}

// ListAdmin 管理侧商品列表
func (s *ProductService) ListAdmin(input ProductListInput) ([]models.Product, int64, error) {
	return s.list(input)
}

// GetProduct 商品详情
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	if s == nil || s.repo == nil {
		return nil, ErrProductFetchFailed
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrProductFetchFailed
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// CreateProduct 创建商品
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	if s == nil || s.repo == nil {
		return nil, ErrProductSaveFailed
	}

	product := &models.Product{IsActive: true}
	if err := s.applyInput(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, ErrProductSaveFailed
	}
	return product, nil
}

// UpdateProduct 更新商品
func (s *ProductService) UpdateProduct(id uint, input ProductInput) (*models.Product, error) {
	if s == nil || s.repo == nil {
		return nil, ErrProductSaveFailed
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyInput(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(product); err != nil {
		return nil, ErrProductSaveFailed
	}
	return product, nil
}

// DeleteProduct 软删除商品
func (s *ProductService) DeleteProduct(id uint) error {
	if s == nil || s.repo == nil {
		return ErrProductSaveFailed
	}

	if _, err := s.GetProduct(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return ErrProductSaveFailed
	}
	return nil
}

func (s *ProductService) list(input ProductListInput) ([]models.Product, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrProductFetchFailed
	}

	list, total, err := s.repo.List(repository.ProductListFilter{
		CompanyID:   input.CompanyID,
		Category:    strings.TrimSpace(input.Category),
		Search:      strings.TrimSpace(input.Search),
		OnlyActive:  input.OnlyActive,
		WithCompany: true,
		Page:        input.Page,
		PageSize:    input.PageSize,
	})
	if err != nil {
		return nil, 0, ErrProductFetchFailed
	}
	return list, total, nil
}

func (s *ProductService) applyInput(product *models.Product, input ProductInput) error {
	name := strings.TrimSpace(input.Name)
	skuPrefix := strings.ToUpper(strings.TrimSpace(input.SKUPrefix))
	if input.CompanyID == 0 || name == "" || skuPrefix == "" {
		return ErrProductInvalid
	}
	if input.CashbackAmount.Decimal.LessThan(decimal.Zero) ||
		input.MRP.Decimal.LessThan(decimal.Zero) ||
		input.SellingPrice.Decimal.LessThan(decimal.Zero) {
		return ErrProductInvalid
	}
	if s.companyRepo != nil {
		company, err := s.companyRepo.GetByID(input.CompanyID)
		if err != nil {
			return ErrCompanyFetchFailed
		}
		if company == nil {
			return ErrCompanyNotFound
		}
	}

	urls := make(models.JSON, len(input.MarketplaceURLs))
	for platform, url := range input.MarketplaceURLs {
		key := strings.ToLower(strings.TrimSpace(platform))
		url = strings.TrimSpace(url)
		if key == "" || url == "" {
			continue
		}
		if !isKnownPlatform(key) {
			return ErrProductInvalid
		}
		urls[key] = url
	}

	product.CompanyID = input.CompanyID
	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	product.SKUPrefix = skuPrefix
	product.MRP = input.MRP
	product.SellingPrice = input.SellingPrice
	product.CashbackAmount = input.CashbackAmount
	product.MarketplaceURLs = urls
	product.Category = strings.TrimSpace(input.Category)
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}

func isKnownPlatform(platform string) bool {
	switch platform {
	case constants.PlatformAmazon, constants.PlatformFlipkart, constants.PlatformMeesho,
		constants.PlatformMyntra, constants.PlatformNykaa, constants.PlatformJiomart:
		return true
	}
	return false
}
