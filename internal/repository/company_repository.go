package repository

import (
	"errors"
	"strings"

	"github.com/fanxian-next/internal/models"

	"gorm.io/gorm"
)

// CompanyRepository 公司数据访问接口
type CompanyRepository interface {
	List(filter CompanyListFilter) ([]models.Company, int64, error)
	GetByID(id uint) (*models.Company, error)
	GetByName(name string) (*models.Company, error)
	Create(company *models.Company) error
	Update(company *models.Company) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) CompanyRepository
}

// GormCompanyRepository GORM 实现
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository 创建公司仓库
func NewCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCompanyRepository) WithTx(tx *gorm.DB) CompanyRepository {
	if tx == nil {
		return r
	}
	return &GormCompanyRepository{db: tx}
}

// List 公司列表
func (r *GormCompanyRepository) List(filter CompanyListFilter) ([]models.Company, int64, error) {
	query := r.db.Model(&models.Company{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"name", "website"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var companies []models.Company
	if err := query.Order("id DESC").Find(&companies).Error; err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

// GetByID 根据 ID 查询公司
func (r *GormCompanyRepository) GetByID(id uint) (*models.Company, error) {
	if id == 0 {
		return nil, nil
	}
	var company models.Company
	if err := r.db.First(&company, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

// GetByName 根据名称查询公司
func (r *GormCompanyRepository) GetByName(name string) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var company models.Company
	if err := r.db.Where("name = ?", name).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

// Create 创建公司
func (r *GormCompanyRepository) Create(company *models.Company) error {
	if company == nil {
		return errors.New("invalid company")
	}
	return r.db.Create(company).Error
}

// Update 更新公司
func (r *GormCompanyRepository) Update(company *models.Company) error {
	if company == nil {
		return errors.New("invalid company")
	}
	return r.db.Save(company).Error
}

// Delete 删除公司（软删除）
func (r *GormCompanyRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Company{}, id).Error
}
