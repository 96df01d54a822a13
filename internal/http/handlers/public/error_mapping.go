package public

import (
	"errors"

	"github.com/fanxian-next/internal/http/response"
	"github.com/fanxian-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var couponCodeErrorRules = []mappedHandlerError{
	{target: service.ErrCodeInvalid, code: response.CodeBadRequest, key: "error.code_invalid"},
	{target: service.ErrCodeNotFound, code: response.CodeNotFound, key: "error.code_not_found"},
	{target: service.ErrCodeAlreadyUsed, code: response.CodeBadRequest, key: "error.code_already_used"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
}

var rewardSubmitExtraErrorRules = []mappedHandlerError{
	{target: service.ErrRewardInvalid, code: response.CodeBadRequest, key: "error.reward_invalid"},
	{target: service.ErrUPIInvalid, code: response.CodeBadRequest, key: "error.upi_invalid"},
	{target: service.ErrUPIConflict, code: response.CodeBadRequest, key: "error.upi_conflict"},
	{target: service.ErrScreenshotDuplicate, code: response.CodeBadRequest, key: "error.screenshot_duplicate"},
	{target: service.ErrScreenshotRejected, code: response.CodeBadRequest, key: "error.screenshot_rejected"},
	{target: service.ErrUploadTooLarge, code: response.CodeBadRequest, key: "error.upload_too_large"},
	{target: service.ErrUploadTypeInvalid, code: response.CodeBadRequest, key: "error.upload_type_invalid"},
	{target: service.ErrUploadImageInvalid, code: response.CodeBadRequest, key: "error.upload_image_invalid"},
	{target: service.ErrUploadInvalid, code: response.CodeBadRequest, key: "error.upload_invalid"},
	{target: service.ErrUploadSaveFailed, code: response.CodeInternal, key: "error.upload_failed"},
}

func respondRewardSubmitError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(couponCodeErrorRules, rewardSubmitExtraErrorRules), response.CodeInternal, "error.reward_submit_failed")
}

func respondCodeResolveError(c *gin.Context, err error) {
	respondWithMappedError(c, err, couponCodeErrorRules, response.CodeInternal, "error.code_fetch_failed")
}
