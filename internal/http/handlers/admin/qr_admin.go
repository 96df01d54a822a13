package admin

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fanxian-next/internal/http/response"
	"github.com/fanxian-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GenerateQRCodeRequest 生成防伪码请求
type GenerateQRCodeRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// GenerateQRCode 生成单个防伪码
func (h *Handler) GenerateQRCode(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req GenerateQRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	code, err := h.QRCodeService.GenerateCode(req.ProductID, &adminID)
	if err != nil {
		respondQRGenerateError(c, err)
		return
	}

	response.Success(c, gin.H{
		"code":   code,
		"qr_url": h.QRCodeService.CodeURL(code.Code),
	})
}

// GenerateQRCodesBulk 批量生成防伪码
func (h *Handler) GenerateQRCodesBulk(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req GenerateQRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	codes, err := h.QRCodeService.GenerateBulk(req.ProductID, req.Quantity, &adminID)
	if err != nil {
		respondQRGenerateError(c, err)
		return
	}

	response.Success(c, gin.H{
		"generated": len(codes),
		"codes":     codes,
	})
}

// GenerateQRBatchPDF 生成批次并返回打印用 PDF
func (h *Handler) GenerateQRBatchPDF(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req GenerateQRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	sheet, err := h.QRCodeService.GenerateBatchSheet(req.ProductID, req.Quantity, &adminID)
	if err != nil {
		respondQRGenerateError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.Filename))
	c.Header("X-Batch-Id", strconv.FormatUint(uint64(sheet.Batch.ID), 10))
	c.Data(200, "application/pdf", sheet.PDF)
}

// GetAdminQRCodes 获取防伪码列表
func (h *Handler) GetAdminQRCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)
	batchID, _ := strconv.ParseUint(c.Query("batch_id"), 10, 64)

	var isUsed *bool
	if raw := c.Query("is_used"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		isUsed = &parsed
	}

	codes, total, err := h.QRCodeService.ListCodes(service.QRCodeListInput{
		ProductID: uint(productID),
		BatchID:   uint(batchID),
		Code:      c.Query("code"),
		IsUsed:    isUsed,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.code_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, codes, pagination)
}

// GetAdminQRBatches 获取批次列表
func (h *Handler) GetAdminQRBatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)
	companyID, _ := strconv.ParseUint(c.Query("company_id"), 10, 64)

	batches, total, err := h.QRCodeService.ListBatches(service.QRBatchListInput{
		ProductID: uint(productID),
		CompanyID: uint(companyID),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.batch_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, batches, pagination)
}

// GetQRCodeImage 获取单码二维码图片
func (h *Handler) GetQRCodeImage(c *gin.Context) {
	code := c.Param("code")

	png, err := h.QRCodeService.CodeImagePNG(code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeInvalid):
			respondError(c, response.CodeBadRequest, "error.code_invalid", nil)
		case errors.Is(err, service.ErrCodeNotFound):
			respondError(c, response.CodeNotFound, "error.code_not_found", nil)
		case errors.Is(err, service.ErrCodeImageRenderFailed):
			respondError(c, response.CodeInternal, "error.code_image_failed", err)
		default:
			respondError(c, response.CodeInternal, "error.code_fetch_failed", err)
		}
		return
	}

	c.Data(200, "image/png", png)
}

func respondQRGenerateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeBadRequest, "error.product_not_found", nil)
	case errors.Is(err, service.ErrCodeQuantityInvalid):
		respondError(c, response.CodeBadRequest, "error.code_quantity_invalid", nil)
	case errors.Is(err, service.ErrCodeGenerationExhausted):
		respondError(c, response.CodeInternal, "error.code_generation_exhausted", err)
	case errors.Is(err, service.ErrCodeSheetRenderFailed):
		respondError(c, response.CodeInternal, "error.code_sheet_failed", err)
	default:
		respondError(c, response.CodeInternal, "error.code_generate_failed", err)
	}
}
