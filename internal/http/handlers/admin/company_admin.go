package admin

import (
	"errors"
	"strconv"

	"github.com/fanxian-next/internal/http/response"
	"github.com/fanxian-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CompanyRequest 创建/更新公司请求
type CompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	LogoURL     string `json:"logo_url"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// GetAdminCompanies 获取公司列表
func (h *Handler) GetAdminCompanies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	search := c.Query("search")

	companies, total, err := h.CompanyService.ListCompanies(search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.company_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, companies, pagination)
}

// GetAdminCompany 获取公司详情
func (h *Handler) GetAdminCompany(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	company, err := h.CompanyService.GetCompany(id)
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			respondError(c, response.CodeNotFound, "error.company_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.company_fetch_failed", err)
		return
	}

	response.Success(c, company)
}

// CreateCompany 创建公司
func (h *Handler) CreateCompany(c *gin.Context) {
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	company, err := h.CompanyService.CreateCompany(service.CompanyInput{
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		Description: req.Description,
		Website:     req.Website,
	})
	if err != nil {
		respondCompanySaveError(c, err)
		return
	}

	response.Success(c, company)
}

// UpdateCompany 更新公司
func (h *Handler) UpdateCompany(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	company, err := h.CompanyService.UpdateCompany(id, service.CompanyInput{
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		Description: req.Description,
		Website:     req.Website,
	})
	if err != nil {
		respondCompanySaveError(c, err)
		return
	}

	response.Success(c, company)
}

// DeleteCompany 删除公司
func (h *Handler) DeleteCompany(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.CompanyService.DeleteCompany(id); err != nil {
		switch {
		case errors.Is(err, service.ErrCompanyNotFound):
			respondError(c, response.CodeNotFound, "error.company_not_found", nil)
		case errors.Is(err, service.ErrCompanyHasProducts):
			respondError(c, response.CodeBadRequest, "error.company_has_products", nil)
		default:
			respondError(c, response.CodeInternal, "error.company_delete_failed", err)
		}
		return
	}

	response.Success(c, nil)
}

func respondCompanySaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCompanyNotFound):
		respondError(c, response.CodeNotFound, "error.company_not_found", nil)
	case errors.Is(err, service.ErrCompanyInvalid):
		respondError(c, response.CodeBadRequest, "error.company_invalid", nil)
	case errors.Is(err, service.ErrCompanyNameTaken):
		respondError(c, response.CodeBadRequest, "error.company_name_taken", nil)
	default:
		respondError(c, response.CodeInternal, "error.company_save_failed", err)
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(rawID), true
}
