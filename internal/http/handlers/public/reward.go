package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fanxian-next/internal/http/response"
	"github.com/fanxian-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitRewardRequest 提交返现申请（multipart 表单）
type SubmitRewardRequest struct {
	Name       string `form:"name" binding:"required"`
	Phone      string `form:"phone" binding:"required"`
	Platform   string `form:"platform" binding:"required"`
	UPIID      string `form:"upi_id"`
	CouponCode string `form:"coupon_code" binding:"required"`
}

// SubmitReward 提交返现申请
func (h *Handler) SubmitReward(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req SubmitRewardRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	screenshot, err := c.FormFile("screenshot")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.screenshot_missing", nil)
		return
	}

	// 表单未填收款账号时使用资料里保存的默认 UPI
	upiID := strings.TrimSpace(req.UPIID)
	if upiID == "" && h.UserRepo != nil {
		if user, err := h.UserRepo.GetByID(id); err == nil && user != nil {
			upiID = user.UPIID
		}
	}

	reward, err := h.RewardService.SubmitReward(c.Request.Context(), service.SubmitRewardInput{
		UserID:     id,
		Name:       req.Name,
		Phone:      req.Phone,
		Platform:   req.Platform,
		UPIID:      upiID,
		CouponCode: req.CouponCode,
		Screenshot: screenshot,
	})
	if err != nil {
		respondRewardSubmitError(c, err)
		return
	}

	response.Success(c, reward)
}

// GetMyRewards 获取当前用户返现申请列表
func (h *Handler) GetMyRewards(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rewards, total, err := h.RewardService.MyRewards(service.MyRewardsInput{
		UserID:   id,
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
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

// GetMyReward 获取当前用户返现申请详情
func (h *Handler) GetMyReward(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	reward, err := h.RewardService.GetMyReward(id, uint(rawID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRewardNotFound), errors.Is(err, service.ErrRewardNotOwned):
			respondError(c, response.CodeNotFound, "error.reward_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.reward_fetch_failed", err)
		}
		return
	}

	response.Success(c, reward)
}
