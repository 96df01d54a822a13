package repository

import (
	"errors"

	"github.com/fanxian-next/internal/models"

	"gorm.io/gorm"
)

// QRBatchRepository 二维码批次数据访问接口
type QRBatchRepository interface {
	Create(batch *models.QRBatch) error
	GetByID(id uint) (*models.QRBatch, error)
	List(filter QRBatchListFilter) ([]models.QRBatch, int64, error)
	MaxBatchNumber(productID uint) (int, error)
	MaxSerialNumber(productID uint) (int, error)
	WithTx(tx *gorm.DB) QRBatchRepository
}

// GormQRBatchRepository GORM 实现
type GormQRBatchRepository struct {
	db *gorm.DB
}

// NewQRBatchRepository 创建批次仓库
func NewQRBatchRepository(db *gorm.DB) *GormQRBatchRepository {
	return &GormQRBatchRepository{db: db}
}

// WithTx 绑定事务
func (r *GormQRBatchRepository) WithTx(tx *gorm.DB) QRBatchRepository {
	if tx == nil {
		return r
	}
	return &GormQRBatchRepository{db: tx}
}

// Create 创建批次
func (r *GormQRBatchRepository) Create(batch *models.QRBatch) error {
	if batch == nil {
		return errors.New("invalid qr batch")
	}
	return r.db.Create(batch).Error
}

// GetByID 根据 ID 查询批次
func (r *GormQRBatchRepository) GetByID(id uint) (*models.QRBatch, error) {
	if id == 0 {
		return nil, nil
	}
	var batch models.QRBatch
	if err := r.db.Preload("Product").First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

// List 查询批次列表
func (r *GormQRBatchRepository) List(filter QRBatchListFilter) ([]models.QRBatch, int64, error) {
	query := r.db.Model(&models.QRBatch{}).Preload("Product")
	if filter.ProductID > 0 {
		query = query.Where("qr_batches.product_id = ?", filter.ProductID)
	}
	if filter.CompanyID > 0 {
		query = query.Joins("JOIN products ON products.id = qr_batches.product_id").
			Where("products.company_id = ?", filter.CompanyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var batches []models.QRBatch
	if err := query.Order("qr_batches.id DESC").Find(&batches).Error; err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

// MaxBatchNumber 查询商品当前最大批次号（无批次时为 0）
func (r *GormQRBatchRepository) MaxBatchNumber(productID uint) (int, error) {
	var max *int
	err := r.db.Model(&models.QRBatch{}).
		Where("product_id = ?", productID).
		Select("MAX(batch_number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// MaxSerialNumber 查询商品当前最大序号（无码时为 0）
func (r *GormQRBatchRepository) MaxSerialNumber(productID uint) (int, error) {
	var max *int
	err := r.db.Model(&models.QRCode{}).
		Where("product_id = ?", productID).
		Select("MAX(serial_number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
