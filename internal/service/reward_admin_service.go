package service

import (
	"errors"
	"strings"
	"time"

	"github.com/fanxian-next/internal/constants"
	"github.com/fanxian-next/internal/logger"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/queue"
	"github.com/fanxian-next/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RewardAdminService 返现审核服务（管理侧）
type RewardAdminService struct {
	repo        repository.RewardRepository
	queueClient *queue.Client
}

// RewardAdminListInput 管理侧申请列表输入
type RewardAdminListInput struct {
	UserID         uint
	Status         string
	Platform       string
	CouponCode     string
	UPIID          string
	AutoApproved   *bool
	AnalysisStatus string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	Page           int
	PageSize       int
}

// OverrideRewardInput 人工改判输入
type OverrideRewardInput struct {
	Status          string
	RejectionReason string
	AdminNotes      string
	PaymentAmount   *models.Money
	AdminID         uint
}

// BulkPaymentFailure 批量打款单条失败明细
type BulkPaymentFailure struct {
	RewardID uint   `json:"reward_id"`
	Reason   string `json:"reason"`
}

// BulkPaymentResult 批量打款结果
type BulkPaymentResult struct {
	SuccessIDs    []uint               `json:"success_ids"`
	FailedDetails []BulkPaymentFailure `json:"failed_details"`
}

var overridableStatuses = map[string]struct{}{
	constants.RewardStatusPending:  {},
	constants.RewardStatusApproved: {},
	constants.RewardStatusRejected: {},
	constants.RewardStatusPaid:     {},
}

// NewRewardAdminService 创建返现审核服务
func NewRewardAdminService(repo repository.RewardRepository, queueClient *queue.Client) *RewardAdminService {
	return &RewardAdminService{repo: repo, queueClient: queueClient}
}

// ListRewards 管理侧申请列表
func (s *RewardAdminService) ListRewards(input RewardAdminListInput) ([]models.Reward, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrRewardFetchFailed
	}

	list, total, err := s.repo.List(repository.RewardListFilter{
		UserID:         input.UserID,
		Status:         strings.TrimSpace(input.Status),
		Platform:       strings.ToLower(strings.TrimSpace(input.Platform)),
		CouponCode:     normalizeCode(input.CouponCode),
		UPIID:          strings.TrimSpace(input.UPIID),
		AutoApproved:   input.AutoApproved,
		AnalysisStatus: strings.TrimSpace(input.AnalysisStatus),
		CreatedFrom:    input.CreatedFrom,
		CreatedTo:      input.CreatedTo,
		Page:           input.Page,
		PageSize:       input.PageSize,
	})
	if err != nil {
		return nil, 0, ErrRewardFetchFailed
	}
	return list, total, nil
}

// GetReward 管理侧申请详情
func (s *RewardAdminService) GetReward(id uint) (*models.Reward, error) {
	if s == nil || s.repo == nil {
		return nil, ErrRewardFetchFailed
	}

	reward, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}
	return reward, nil
}

// OverrideStatus 人工改判。管理员可随时改判任意状态，paid 只能从这里进入。
func (s *RewardAdminService) OverrideStatus(id uint, input OverrideRewardInput) (*models.Reward, error) {
	if s == nil || s.repo == nil {
		return nil, ErrRewardSaveFailed
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if _, ok := overridableStatuses[status]; !ok {
		return nil, ErrRewardStatusInvalid
	}

	var updated *models.Reward
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		reward, err := repo.GetByIDForUpdate(id)
		if err != nil {
			return ErrRewardFetchFailed
		}
		if reward == nil {
			return ErrRewardNotFound
		}

		now := time.Now()
		reward.Status = status
		reward.AdminNotes = strings.TrimSpace(input.AdminNotes)
		if input.AdminID != 0 {
			adminID := input.AdminID
			reward.VerifiedBy = &adminID
		}
		reward.VerifiedAt = &now

		switch status {
		case constants.RewardStatusRejected:
			reward.RejectionReason = strings.TrimSpace(input.RejectionReason)
		case constants.RewardStatusPaid:
			if input.PaymentAmount != nil {
				reward.PaymentAmount = *input.PaymentAmount
			}
			reward.PaymentDate = &now
		}

		if err := repo.Update(reward); err != nil {
			return ErrRewardSaveFailed
		}
		updated = reward
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRewardNotFound) || errors.Is(err, ErrRewardFetchFailed) || errors.Is(err, ErrRewardStatusInvalid) {
			return nil, err
		}
		return nil, ErrRewardSaveFailed
	}

	s.notifyStatusChange(updated)
	return updated, nil
}

// BulkPayment 批量打款：逐条独立处理，单条失败不影响其余。
// 仅 approved 状态可置为 paid。
func (s *RewardAdminService) BulkPayment(ids []uint, adminID uint) (*BulkPaymentResult, error) {
	if s == nil || s.repo == nil {
		return nil, ErrRewardSaveFailed
	}
	if len(ids) == 0 {
		return nil, ErrRewardInvalid
	}

	result := &BulkPaymentResult{
		SuccessIDs:    make([]uint, 0, len(ids)),
		FailedDetails: make([]BulkPaymentFailure, 0),
	}
	var paid []*models.Reward

	for _, id := range ids {
		reward, err := s.payOne(id, adminID)
		if err != nil {
			result.FailedDetails = append(result.FailedDetails, BulkPaymentFailure{
				RewardID: id,
				Reason:   bulkPaymentFailureReason(err),
			})
			continue
		}
		result.SuccessIDs = append(result.SuccessIDs, id)
		paid = append(paid, reward)
	}

	for _, reward := range paid {
		s.notifyStatusChange(reward)
	}
	return result, nil
}

func (s *RewardAdminService) payOne(id uint, adminID uint) (*models.Reward, error) {
	var updated *models.Reward
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		reward, err := repo.GetByIDForUpdate(id)
		if err != nil {
			return ErrRewardFetchFailed
		}
		if reward == nil {
			return ErrRewardNotFound
		}
		if reward.Status == constants.RewardStatusPaid {
			return ErrRewardAlreadyPaid
		}
		if reward.Status != constants.RewardStatusApproved {
			return ErrRewardStatusInvalid
		}

		now := time.Now()
		reward.Status = constants.RewardStatusPaid
		reward.PaymentDate = &now
		if adminID != 0 {
			verifier := adminID
			reward.VerifiedBy = &verifier
		}
		reward.VerifiedAt = &now

		if err := repo.Update(reward); err != nil {
			return ErrRewardSaveFailed
		}
		updated = reward
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func bulkPaymentFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrRewardNotFound):
		return "reward not found"
	case errors.Is(err, ErrRewardAlreadyPaid):
		return "already paid"
	case errors.Is(err, ErrRewardStatusInvalid):
		return "not in approved status"
	default:
		return "payment update failed"
	}
}

func (s *RewardAdminService) notifyStatusChange(reward *models.Reward) {
	if s.queueClient == nil || reward == nil || reward.ID == 0 {
		return
	}
	if err := s.queueClient.EnqueueRewardStatusEmail(queue.RewardStatusEmailPayload{
		RewardID: reward.ID,
		Status:   reward.Status,
	}); err != nil {
		logger.Z().Warn("状态邮件入队失败", zap.Uint("reward_id", reward.ID), zap.Error(err))
	}
}
