package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fanxian-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

var errDashboardRangeInvalid = errors.New("dashboard range invalid")

// GetDashboardOverview 获取后台仪表盘总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	startAt, endAt, err := parseDashboardRange(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	data, err := h.DashboardService.GetOverview(startAt, endAt)
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}

	response.Success(c, data)
}

// GetDashboardTrends 获取后台仪表盘返现趋势
func (h *Handler) GetDashboardTrends(c *gin.Context) {
	startAt, endAt, err := parseDashboardRange(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	data, err := h.DashboardService.GetRewardTrends(startAt, endAt)
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}

	response.Success(c, data)
}

// GetDashboardTopProducts 获取后台仪表盘商品排行
func (h *Handler) GetDashboardTopProducts(c *gin.Context) {
	startAt, endAt, err := parseDashboardRange(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	data, err := h.DashboardService.GetTopProducts(startAt, endAt, limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}

	response.Success(c, data)
}

// parseDashboardRange 解析时间窗口
// 支持 range=7d/30d/90d 或 from/to（RFC3339），from/to 优先
func parseDashboardRange(c *gin.Context) (time.Time, time.Time, error) {
	from, err := parseTimeNullable(strings.TrimSpace(c.Query("from")))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseTimeNullable(strings.TrimSpace(c.Query("to")))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	now := time.Now()
	if from != nil || to != nil {
		if from == nil || to == nil || !from.Before(*to) {
			return time.Time{}, time.Time{}, errDashboardRangeInvalid
		}
		return *from, *to, nil
	}

	days := 7
	switch strings.TrimSpace(c.DefaultQuery("range", "7d")) {
	case "7d":
		days = 7
	case "30d":
		days = 30
	case "90d":
		days = 90
	default:
		return time.Time{}, time.Time{}, errDashboardRangeInvalid
	}
	return now.AddDate(0, 0, -days), now, nil
}
