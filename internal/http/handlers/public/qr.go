package public

import (
	"github.com/fanxian-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ResolveQRCode 扫码落地：校验防伪码并返回对应商品
func (h *Handler) ResolveQRCode(c *gin.Context) {
	code := c.Param("code")

	result, err := h.QRCodeService.Resolve(code)
	if err != nil {
		respondCodeResolveError(c, err)
		return
	}

	response.Success(c, gin.H{
		"code": gin.H{
			"code":          result.Code.Code,
			"serial_number": result.Code.SerialNumber,
			"is_used":       result.Code.IsUsed,
			"scan_count":    result.ScanCount,
		},
		"product": result.Product,
	})
}
