package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/fanxian-next/internal/models"

	"gorm.io/gorm"
)

// QRCodeRepository 防伪码数据访问接口
type QRCodeRepository interface {
	Create(code *models.QRCode) error
	CreateBatch(codes []models.QRCode) error
	GetByID(id uint) (*models.QRCode, error)
	GetByCode(code string) (*models.QRCode, error)
	GetByCodeForUpdate(code string) (*models.QRCode, error)
	ExistsByCode(code string) (bool, error)
	List(filter QRCodeListFilter) ([]models.QRCode, int64, error)
	RecordScan(id uint, scannedAt time.Time) error
	MarkUsed(id uint, userID uint, usedAt time.Time) (int64, error)
	CountByProduct(productID uint) (int64, error)
	WithTx(tx *gorm.DB) QRCodeRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormQRCodeRepository GORM 实现
type GormQRCodeRepository struct {
	db *gorm.DB
}

// NewQRCodeRepository 创建防伪码仓库
func NewQRCodeRepository(db *gorm.DB) *GormQRCodeRepository {
	return &GormQRCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormQRCodeRepository) WithTx(tx *gorm.DB) QRCodeRepository {
	if tx == nil {
		return r
	}
	return &GormQRCodeRepository{db: tx}
}

// Transaction 执行事务
func (r *GormQRCodeRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建单个防伪码
func (r *GormQRCodeRepository) Create(code *models.QRCode) error {
	if code == nil {
		return errors.New("invalid qr code")
	}
	return r.db.Create(code).Error
}

// CreateBatch 批量创建防伪码
func (r *GormQRCodeRepository) CreateBatch(codes []models.QRCode) error {
	if len(codes) == 0 {
		return nil
	}
	return r.db.CreateInBatches(&codes, 100).Error
}

// GetByID 根据 ID 查询防伪码
func (r *GormQRCodeRepository) GetByID(id uint) (*models.QRCode, error) {
	if id == 0 {
		return nil, nil
	}
	var code models.QRCode
	if err := r.db.Preload("Product").Preload("Product.Company").First(&code, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// GetByCode 根据码值查询防伪码
func (r *GormQRCodeRepository) GetByCode(code string) (*models.QRCode, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, nil
	}
	var record models.QRCode
	if err := r.db.Preload("Product").Preload("Product.Company").
		Where("code = ?", code).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByCodeForUpdate 根据码值加锁查询防伪码（核销期间防并发）
func (r *GormQRCodeRepository) GetByCodeForUpdate(code string) (*models.QRCode, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, nil
	}
	var record models.QRCode
	if err := lockForUpdate(r.db).
		Where("code = ?", code).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ExistsByCode 码值是否已存在（生成防碰撞检查）
func (r *GormQRCodeRepository) ExistsByCode(code string) (bool, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return false, nil
	}
	var count int64
	if err := r.db.Model(&models.QRCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 查询防伪码列表
func (r *GormQRCodeRepository) List(filter QRCodeListFilter) ([]models.QRCode, int64, error) {
	query := r.db.Model(&models.QRCode{})
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.BatchID > 0 {
		query = query.Where("batch_id = ?", filter.BatchID)
	}
	if code := strings.TrimSpace(strings.ToUpper(filter.Code)); code != "" {
		query = query.Where("code LIKE ?", "%"+code+"%")
	}
	if filter.IsUsed != nil {
		query = query.Where("is_used = ?", *filter.IsUsed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var codes []models.QRCode
	if err := query.Order("serial_number ASC").Find(&codes).Error; err != nil {
		return nil, 0, err
	}
	return codes, total, nil
}

// RecordScan 记录一次扫码（计数 +1，刷新扫码时间）
func (r *GormQRCodeRepository) RecordScan(id uint, scannedAt time.Time) error {
	if id == 0 {
		return nil
	}
	if scannedAt.IsZero() {
		scannedAt = time.Now()
	}
	return r.db.Model(&models.QRCode{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"scan_count":      gorm.Expr("scan_count + 1"),
			"last_scanned_at": scannedAt,
		}).Error
}

// MarkUsed 核销防伪码（仅未核销的行生效，返回影响行数）
func (r *GormQRCodeRepository) MarkUsed(id uint, userID uint, usedAt time.Time) (int64, error) {
	if id == 0 {
		return 0, nil
	}
	if usedAt.IsZero() {
		usedAt = time.Now()
	}
	result := r.db.Model(&models.QRCode{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": usedAt,
			"used_by": userID,
		})
	return result.RowsAffected, result.Error
}

// CountByProduct 统计商品下防伪码数量
func (r *GormQRCodeRepository) CountByProduct(productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.QRCode{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}
