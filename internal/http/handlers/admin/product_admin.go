package admin

import (
	"errors"
	"strconv"

	"github.com/fanxian-next/internal/http/response"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	CompanyID       uint              `json:"company_id" binding:"required"`
	Name            string            `json:"name" binding:"required"`
	Description     string            `json:"description"`
	ImageURL        string            `json:"image_url"`
	SKUPrefix       string            `json:"sku_prefix" binding:"required"`
	MRP             float64           `json:"mrp"`
	SellingPrice    float64           `json:"selling_price"`
	CashbackAmount  float64           `json:"cashback_amount" binding:"required"`
	MarketplaceURLs map[string]string `json:"marketplace_urls"`
	Category        string            `json:"category"`
	IsActive        *bool             `json:"is_active"`
}

func (r ProductRequest) toServiceInput() service.ProductInput {
	return service.ProductInput{
		CompanyID:       r.CompanyID,
		Name:            r.Name,
		Description:     r.Description,
		ImageURL:        r.ImageURL,
		SKUPrefix:       r.SKUPrefix,
		MRP:             models.NewMoneyFromDecimal(decimal.NewFromFloat(r.MRP)),
		SellingPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(r.SellingPrice)),
		CashbackAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(r.CashbackAmount)),
		MarketplaceURLs: r.MarketplaceURLs,
		Category:        r.Category,
		IsActive:        r.IsActive,
	}
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	companyID, _ := strconv.ParseUint(c.Query("company_id"), 10, 64)

	products, total, err := h.ProductService.ListAdmin(service.ProductListInput{
		CompanyID: uint(companyID),
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := h.ProductService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.CreateProduct(req.toServiceInput())
	if err != nil {
		respondProductSaveError(c, err)
		return
	}

	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.UpdateProduct(id, req.toServiceInput())
	if err != nil {
		respondProductSaveError(c, err)
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.ProductService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_delete_failed", err)
		return
	}

	response.Success(c, nil)
}

func respondProductSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	case errors.Is(err, service.ErrCompanyNotFound):
		respondError(c, response.CodeBadRequest, "error.company_not_found", nil)
	case errors.Is(err, service.ErrProductInvalid):
		respondError(c, response.CodeBadRequest, "error.product_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.product_save_failed", err)
	}
}
