package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fanxian-next/internal/http/response"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// OverrideRewardRequest 人工改判请求
type OverrideRewardRequest struct {
	Status          string   `json:"status" binding:"required"`
	RejectionReason string   `json:"rejection_reason"`
	AdminNotes      string   `json:"admin_notes"`
	PaymentAmount   *float64 `json:"payment_amount"`
}

// BulkPaymentRequest 批量打款请求
type BulkPaymentRequest struct {
	RewardIDs []uint `json:"reward_ids" binding:"required"`
}

// GetAdminRewards 获取返现申请列表
func (h *Handler) GetAdminRewards(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	var autoApproved *bool
	if raw := strings.TrimSpace(c.Query("auto_approved")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		autoApproved = &parsed
	}

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	rewards, total, err := h.RewardAdminService.ListRewards(service.RewardAdminListInput{
		UserID:         uint(userID),
		Status:         c.Query("status"),
		Platform:       c.Query("platform"),
		CouponCode:     c.Query("coupon_code"),
		UPIID:          c.Query("upi_id"),
		AutoApproved:   autoApproved,
		AnalysisStatus: c.Query("analysis_status"),
		CreatedFrom:    createdFrom,
		CreatedTo:      createdTo,
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.reward_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, rewards, pagination)
}

// GetAdminReward 获取返现申请详情
func (h *Handler) GetAdminReward(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	reward, err := h.RewardAdminService.GetReward(id)
	if err != nil {
		if errors.Is(err, service.ErrRewardNotFound) {
			respondError(c, response.CodeNotFound, "error.reward_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.reward_fetch_failed", err)
		return
	}

	response.Success(c, reward)
}

// OverrideRewardStatus 人工改判返现申请状态
func (h *Handler) OverrideRewardStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req OverrideRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var paymentAmount *models.Money
	if req.PaymentAmount != nil {
		amount := models.NewMoneyFromDecimal(decimal.NewFromFloat(*req.PaymentAmount))
		paymentAmount = &amount
	}

	reward, err := h.RewardAdminService.OverrideStatus(id, service.OverrideRewardInput{
		Status:          req.Status,
		RejectionReason: req.RejectionReason,
		AdminNotes:      req.AdminNotes,
		PaymentAmount:   paymentAmount,
		AdminID:         adminID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRewardNotFound):
			respondError(c, response.CodeNotFound, "error.reward_not_found", nil)
		case errors.Is(err, service.ErrRewardStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.reward_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.reward_save_failed", err)
		}
		return
	}

	response.Success(c, reward)
}

// BulkRewardPayment 批量打款（逐条提交，单条失败不影响其余）
func (h *Handler) BulkRewardPayment(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req BulkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if len(req.RewardIDs) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	result, err := h.RewardAdminService.BulkPayment(req.RewardIDs, adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.reward_save_failed", err)
		return
	}

	response.Success(c, result)
}
