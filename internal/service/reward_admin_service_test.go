package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fanxian-next/internal/constants"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newRewardAdminServiceForTest(t *testing.T) (*RewardAdminService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	return NewRewardAdminService(repository.NewRewardRepository(db), nil), db
}

func seedReward(t *testing.T, db *gorm.DB, userID uint, status string) *models.Reward {
	t.Helper()
	reward := &models.Reward{
		UserID:        userID,
		Name:          "Ravi Kumar",
		Phone:         "+919876543210",
		UPIID:         fmt.Sprintf("user%d@upi", userID),
		ProductName:   "测试商品",
		Platform:      "amazon",
		CouponCode:    fmt.Sprintf("CODE%08d", userID),
		ImageHash:     fmt.Sprintf("hash-%s-%d", status, userID),
		Status:        status,
		PaymentAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
	}
	if err := db.Create(reward).Error; err != nil {
		t.Fatalf("seed reward failed: %v", err)
	}
	return reward
}

func TestOverrideStatusReject(t *testing.T) {
	svc, db := newRewardAdminServiceForTest(t)
	reward := seedReward(t, db, 1, constants.RewardStatusPending)

	updated, err := svc.OverrideStatus(reward.ID, OverrideRewardInput{
		Status:          "Rejected",
		RejectionReason: "  截图未显示五星好评  ",
		AdminNotes:      "人工复核",
		AdminID:         7,
	})
	if err != nil {
		t.Fatalf("override status failed: %v", err)
	}
	if updated.Status != constants.RewardStatusRejected {
		t.Fatalf("status want rejected got %s", updated.Status)
	}
	if updated.RejectionReason != "截图未显示五星好评" {
		t.Fatalf("rejection reason not trimmed: %q", updated.RejectionReason)
	}
	if updated.VerifiedBy == nil || *updated.VerifiedBy != 7 {
		t.Fatalf("verified_by want 7 got %v", updated.VerifiedBy)
	}
	if updated.VerifiedAt == nil {
		t.Fatalf("verified_at should be set")
	}
}

func TestOverrideStatusPaidWithAmount(t *testing.T) {
	svc, db := newRewardAdminServiceForTest(t)
	reward := seedReward(t, db, 1, constants.RewardStatusApproved)

	amount := models.NewMoneyFromDecimal(decimal.NewFromFloat(45.5))
	updated, err := svc.OverrideStatus(reward.ID, OverrideRewardInput{
		Status:        constants.RewardStatusPaid,
		PaymentAmount: &amount,
		AdminID:       3,
	})
	if err != nil {
		t.Fatalf("override to paid failed: %v", err)
	}
	if updated.Status != constants.RewardStatusPaid {
		t.Fatalf("status want paid got %s", updated.Status)
	}
	if updated.PaymentAmount.String() != amount.String() {
		t.Fatalf("payment amount want %s got %s", amount, updated.PaymentAmount)
	}
	if updated.PaymentDate == nil {
		t.Fatalf("payment date should be set")
	}
}

func TestOverrideStatusInvalid(t *testing.T) {
	svc, db := newRewardAdminServiceForTest(t)
	reward := seedReward(t, db, 1, constants.RewardStatusPending)

	if _, err := svc.OverrideStatus(reward.ID, OverrideRewardInput{Status: "bogus"}); !errors.Is(err, ErrRewardStatusInvalid) {
		t.Fatalf("want ErrRewardStatusInvalid got %v", err)
	}
}

func TestOverrideStatusNotFound(t *testing.T) {
	svc, _ := newRewardAdminServiceForTest(t)
	if _, err := svc.OverrideStatus(404, OverrideRewardInput{Status: constants.RewardStatusApproved}); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("want ErrRewardNotFound got %v", err)
	}
}

func TestBulkPaymentPartialFailure(t *testing.T) {
	svc, db := newRewardAdminServiceForTest(t)
	approved := seedReward(t, db, 1, constants.RewardStatusApproved)
	pending := seedReward(t, db, 2, constants.RewardStatusPending)
	alreadyPaid := seedReward(t, db, 3, constants.RewardStatusPaid)
	missingID := uint(9999)

	result, err := svc.BulkPayment([]uint{approved.ID, pending.ID, alreadyPaid.ID, missingID}, 5)
	if err != nil {
		t.Fatalf("bulk payment failed: %v", err)
	}

	if len(result.SuccessIDs) != 1 || result.SuccessIDs[0] != approved.ID {
		t.Fatalf("success ids want [%d] got %v", approved.ID, result.SuccessIDs)
	}
	if len(result.FailedDetails) != 3 {
		t.Fatalf("failed details want 3 got %d", len(result.FailedDetails))
	}
	reasons := make(map[uint]string, len(result.FailedDetails))
	for _, detail := range result.FailedDetails {
		reasons[detail.RewardID] = detail.Reason
	}
	if reasons[pending.ID] != "not in approved status" {
		t.Fatalf("pending reason unexpected: %q", reasons[pending.ID])
	}
	if reasons[alreadyPaid.ID] != "already paid" {
		t.Fatalf("paid reason unexpected: %q", reasons[alreadyPaid.ID])
	}
	if reasons[missingID] != "reward not found" {
		t.Fatalf("missing reason unexpected: %q", reasons[missingID])
	}

	var stored models.Reward
	if err := db.First(&stored, approved.ID).Error; err != nil {
		t.Fatalf("load paid reward failed: %v", err)
	}
	if stored.Status != constants.RewardStatusPaid || stored.PaymentDate == nil {
		t.Fatalf("approved reward should now be paid, got status=%s", stored.Status)
	}
	if stored.VerifiedBy == nil || *stored.VerifiedBy != 5 {
		t.Fatalf("verified_by want 5 got %v", stored.VerifiedBy)
	}

	var untouched models.Reward
	if err := db.First(&untouched, pending.ID).Error; err != nil {
		t.Fatalf("load pending reward failed: %v", err)
	}
	if untouched.Status != constants.RewardStatusPending {
		t.Fatalf("failed item should remain pending, got %s", untouched.Status)
	}
}

func TestBulkPaymentEmptyInput(t *testing.T) {
	svc, _ := newRewardAdminServiceForTest(t)
	if _, err := svc.BulkPayment(nil, 1); !errors.Is(err, ErrRewardInvalid) {
		t.Fatalf("want ErrRewardInvalid got %v", err)
	}
}

func TestListRewardsFilters(t *testing.T) {
	svc, db := newRewardAdminServiceForTest(t)
	seedReward(t, db, 1, constants.RewardStatusApproved)
	seedReward(t, db, 2, constants.RewardStatusPending)

	list, total, err := svc.ListRewards(RewardAdminListInput{Status: constants.RewardStatusApproved, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list rewards failed: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("approved filter want 1 got total=%d len=%d", total, len(list))
	}

	list, total, err = svc.ListRewards(RewardAdminListInput{UserID: 2, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].UserID != 2 {
		t.Fatalf("user filter want user 2, got total=%d", total)
	}
}
