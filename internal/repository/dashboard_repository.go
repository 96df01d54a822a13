package repository

import (
	"time"

	"github.com/fanxian-next/internal/constants"
	"github.com/fanxian-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetRewardTrends(startAt, endAt time.Time) ([]DashboardRewardTrendRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	RewardsTotal    int64
	RewardsPending  int64
	RewardsApproved int64
	RewardsRejected int64
	RewardsPaid     int64
	AutoApproved    int64
	PaidAmount      float64
	CodesTotal      int64
	CodesUsed       int64
	ScansTotal      int64
	NewUsers        int64
	ActiveProducts  int64
}

// DashboardRewardTrendRow 返现申请趋势统计
type DashboardRewardTrendRow struct {
	Day              string
	RewardsSubmitted int64
	RewardsApproved  int64
	RewardsPaid      int64
}

// DashboardProductRankingRow 商品兑付排行原始行
type DashboardProductRankingRow struct {
	ProductID  uint
	Name       string
	UsedCodes  int64
	TotalCodes int64
}

// GormDashboardRepository GORM 仪表盘查询实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 统计时间窗内的总览数据
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	var row DashboardOverviewRow

	rewardBase := func() *gorm.DB {
		return r.db.Model(&models.Reward{}).Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}
	if err := rewardBase().Count(&row.RewardsTotal).Error; err != nil {
		return row, err
	}
	statusCounts := map[string]*int64{
		constants.RewardStatusPending:  &row.RewardsPending,
		constants.RewardStatusApproved: &row.RewardsApproved,
		constants.RewardStatusRejected: &row.RewardsRejected,
		constants.RewardStatusPaid:     &row.RewardsPaid,
	}
	for status, target := range statusCounts {
		if err := rewardBase().Where("status = ?", status).Count(target).Error; err != nil {
			return row, err
		}
	}
	if err := rewardBase().Where("is_auto_approved = ?", true).Count(&row.AutoApproved).Error; err != nil {
		return row, err
	}

	var paid *float64
	if err := r.db.Model(&models.Reward{}).
		Where("status = ? AND payment_date >= ? AND payment_date < ?", constants.RewardStatusPaid, startAt, endAt).
		Select("SUM(payment_amount)").
		Scan(&paid).Error; err != nil {
		return row, err
	}
	if paid != nil {
		row.PaidAmount = *paid
	}

	if err := r.db.Model(&models.QRCode{}).Count(&row.CodesTotal).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.QRCode{}).Where("is_used = ?", true).Count(&row.CodesUsed).Error; err != nil {
		return row, err
	}
	var scans *int64
	if err := r.db.Model(&models.QRCode{}).Select("SUM(scan_count)").Scan(&scans).Error; err != nil {
		return row, err
	}
	if scans != nil {
		row.ScansTotal = *scans
	}

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&row.NewUsers).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&row.ActiveProducts).Error; err != nil {
		return row, err
	}
	return row, nil
}

// GetRewardTrends 按天统计返现申请趋势
func (r *GormDashboardRepository) GetRewardTrends(startAt, endAt time.Time) ([]DashboardRewardTrendRow, error) {
	dayExpr := dateBucketExpr(r.db, "created_at")
	var rows []DashboardRewardTrendRow
	err := r.db.Model(&models.Reward{}).
		Select(dayExpr+" AS day, "+
			"COUNT(*) AS rewards_submitted, "+
			"SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END) AS rewards_approved, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS rewards_paid",
			constants.RewardStatusApproved, constants.RewardStatusPaid, constants.RewardStatusPaid).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopProducts 按核销量排行商品
func (r *GormDashboardRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []DashboardProductRankingRow
	err := r.db.Model(&models.QRCode{}).
		Select("qr_codes.product_id AS product_id, products.name AS name, "+
			"SUM(CASE WHEN qr_codes.is_used AND qr_codes.used_at >= ? AND qr_codes.used_at < ? THEN 1 ELSE 0 END) AS used_codes, "+
			"COUNT(*) AS total_codes", startAt, endAt).
		Joins("JOIN products ON products.id = qr_codes.product_id").
		Group("qr_codes.product_id, products.name").
		Order("used_codes DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// dateBucketExpr 构建按天聚合表达式，兼容 sqlite 与 postgres。
func dateBucketExpr(db *gorm.DB, column string) string {
	switch dbDialectName(db) {
	case "postgres", "postgresql":
		return "to_char(" + column + ", 'YYYY-MM-DD')"
	default:
		return "strftime('%Y-%m-%d', " + column + ")"
	}
}
