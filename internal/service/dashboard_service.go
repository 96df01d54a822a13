package service

import (
	"time"

	"github.com/fanxian-next/internal/repository"
)

// DashboardService 管理后台统计服务
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建统计服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	Rewards struct {
		Total        int64 `json:"total"`
		Pending      int64 `json:"pending"`
		Approved     int64 `json:"approved"`
		Rejected     int64 `json:"rejected"`
		Paid         int64 `json:"paid"`
		AutoApproved int64 `json:"auto_approved"`
	} `json:"rewards"`
	PaidAmount float64 `json:"paid_amount"`
	Codes      struct {
		Total int64 `json:"total"`
		Used  int64 `json:"used"`
		Scans int64 `json:"scans"`
	} `json:"codes"`
	NewUsers       int64 `json:"new_users"`
	ActiveProducts int64 `json:"active_products"`
}

// RewardTrendPoint 申请趋势单日数据
type RewardTrendPoint struct {
	Day       string `json:"day"`
	Submitted int64  `json:"submitted"`
	Approved  int64  `json:"approved"`
	Paid      int64  `json:"paid"`
}

// ProductRanking 商品兑付排行
type ProductRanking struct {
	ProductID  uint   `json:"product_id"`
	Name       string `json:"name"`
	UsedCodes  int64  `json:"used_codes"`
	TotalCodes int64  `json:"total_codes"`
}

// GetOverview 统计指定时间窗内的总览数据
func (s *DashboardService) GetOverview(startAt, endAt time.Time) (*DashboardOverview, error) {
	if s == nil || s.repo == nil {
		return nil, ErrRewardFetchFailed
	}

	row, err := s.repo.GetOverview(startAt, endAt)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}

	overview := &DashboardOverview{
		PaidAmount:     row.PaidAmount,
		NewUsers:       row.NewUsers,
		ActiveProducts: row.ActiveProducts,
	}
	overview.Rewards.Total = row.RewardsTotal
	overview.Rewards.Pending = row.RewardsPending
	overview.Rewards.Approved = row.RewardsApproved
	overview.Rewards.Rejected = row.RewardsRejected
	overview.Rewards.Paid = row.RewardsPaid
	overview.Rewards.AutoApproved = row.AutoApproved
	overview.Codes.Total = row.CodesTotal
	overview.Codes.Used = row.CodesUsed
	overview.Codes.Scans = row.ScansTotal
	return overview, nil
}

// GetRewardTrends 申请趋势（按天）
func (s *DashboardService) GetRewardTrends(startAt, endAt time.Time) ([]RewardTrendPoint, error) {
	if s == nil || s.repo == nil {
		return nil, ErrRewardFetchFailed
	}

	rows, err := s.repo.GetRewardTrends(startAt, endAt)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	points := make([]RewardTrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, RewardTrendPoint{
			Day:       row.Day,
			Submitted: row.RewardsSubmitted,
			Approved:  row.RewardsApproved,
			Paid:      row.RewardsPaid,
		})
	}
	return points, nil
}

// GetTopProducts 商品兑付排行
func (s *DashboardService) GetTopProducts(startAt, endAt time.Time, limit int) ([]ProductRanking, error) {
	if s == nil || s.repo == nil {
		return nil, ErrRewardFetchFailed
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	rows, err := s.repo.GetTopProducts(startAt, endAt, limit)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	rankings := make([]ProductRanking, 0, len(rows))
	for _, row := range rows {
		rankings = append(rankings, ProductRanking{
			ProductID:  row.ProductID,
			Name:       row.Name,
			UsedCodes:  row.UsedCodes,
			TotalCodes: row.TotalCodes,
		})
	}
	return rankings, nil
}
