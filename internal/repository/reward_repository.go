package repository

import (
	"errors"
	"strings"

	"github.com/fanxian-next/internal/constants"
	"github.com/fanxian-next/internal/models"

	"gorm.io/gorm"
)

// RewardRepository 返现申请数据访问接口
type RewardRepository interface {
	Create(reward *models.Reward) error
	GetByID(id uint) (*models.Reward, error)
	GetByIDForUpdate(id uint) (*models.Reward, error)
	GetByImageHash(hash string) (*models.Reward, error)
	FindUPIConflict(upiID string, excludeUserID uint) (*models.Reward, error)
	List(filter RewardListFilter) ([]models.Reward, int64, error)
	ListByIDs(ids []uint) ([]models.Reward, error)
	Update(reward *models.Reward) error
	Delete(id uint) error
	CountByStatus() (map[string]int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) RewardRepository
}

// GormRewardRepository GORM 实现
type GormRewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository 创建返现申请仓库
func NewRewardRepository(db *gorm.DB) *GormRewardRepository {
	return &GormRewardRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRewardRepository) WithTx(tx *gorm.DB) RewardRepository {
	if tx == nil {
		return r
	}
	return &GormRewardRepository{db: tx}
}

// Transaction 执行事务
func (r *GormRewardRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建返现申请
func (r *GormRewardRepository) Create(reward *models.Reward) error {
	if reward == nil {
		return errors.New("invalid reward")
	}
	return r.db.Create(reward).Error
}

// GetByID 根据 ID 查询返现申请
func (r *GormRewardRepository) GetByID(id uint) (*models.Reward, error) {
	if id == 0 {
		return nil, nil
	}
	var reward models.Reward
	if err := r.db.Preload("User").First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

// GetByIDForUpdate 根据 ID 加锁查询返现申请（状态流转期间防并发）
func (r *GormRewardRepository) GetByIDForUpdate(id uint) (*models.Reward, error) {
	if id == 0 {
		return nil, nil
	}
	var reward models.Reward
	if err := lockForUpdate(r.db).First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

// GetByImageHash 根据截图哈希查询（同图重复提交检查）
func (r *GormRewardRepository) GetByImageHash(hash string) (*models.Reward, error) {
	hash = strings.TrimSpace(strings.ToLower(hash))
	if hash == "" {
		return nil, nil
	}
	var reward models.Reward
	if err := r.db.Where("image_hash = ?", hash).First(&reward).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

// FindUPIConflict 查询同一 UPI 账号绑定到其他用户的申请（拒收除外）
func (r *GormRewardRepository) FindUPIConflict(upiID string, excludeUserID uint) (*models.Reward, error) {
	upiID = strings.TrimSpace(strings.ToLower(upiID))
	if upiID == "" {
		return nil, nil
	}
	var reward models.Reward
	err := r.db.Where("upi_id = ? AND user_id <> ? AND status <> ?",
		upiID, excludeUserID, constants.RewardStatusRejected).
		First(&reward).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

// List 查询返现申请列表
func (r *GormRewardRepository) List(filter RewardListFilter) ([]models.Reward, int64, error) {
	query := r.db.Model(&models.Reward{}).Preload("User")
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if platform := strings.TrimSpace(filter.Platform); platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if code := strings.TrimSpace(strings.ToUpper(filter.CouponCode)); code != "" {
		query = query.Where("coupon_code = ?", code)
	}
	if upi := strings.TrimSpace(strings.ToLower(filter.UPIID)); upi != "" {
		query = query.Where("upi_id = ?", upi)
	}
	if filter.AutoApproved != nil {
		query = query.Where("is_auto_approved = ?", *filter.AutoApproved)
	}
	if analysisStatus := strings.TrimSpace(filter.AnalysisStatus); analysisStatus != "" {
		query = query.Where("ai_analysis_status = ?", analysisStatus)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var rewards []models.Reward
	if err := query.Order("id DESC").Find(&rewards).Error; err != nil {
		return nil, 0, err
	}
	return rewards, total, nil
}

// ListByIDs 按 ID 列表查询返现申请
func (r *GormRewardRepository) ListByIDs(ids []uint) ([]models.Reward, error) {
	if len(ids) == 0 {
		return []models.Reward{}, nil
	}
	var rewards []models.Reward
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

// Update 更新返现申请
func (r *GormRewardRepository) Update(reward *models.Reward) error {
	if reward == nil {
		return errors.New("invalid reward")
	}
	return r.db.Save(reward).Error
}

// Delete 删除返现申请
func (r *GormRewardRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Reward{}, id).Error
}

// CountByStatus 按状态统计申请数（仪表盘用）
func (r *GormRewardRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&models.Reward{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, item := range rows {
		counts[item.Status] = item.Count
	}
	return counts, nil
}
