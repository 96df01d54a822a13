package service

import "errors"

// 通用错误
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidPassword = errors.New("invalid password")
)

// 认证与账号错误
var (
	ErrInvalidCredentials         = errors.New("invalid credentials")
	ErrInvalidEmail               = errors.New("invalid email")
	ErrEmailExists                = errors.New("email already registered")
	ErrEmailNotVerified           = errors.New("email not verified")
	ErrUserDisabled               = errors.New("user disabled")
	ErrUserNotFound               = errors.New("user not found")
	ErrWeakPassword               = errors.New("password does not meet policy")
	ErrAgreementRequired          = errors.New("agreement must be accepted")
	ErrProfileEmpty               = errors.New("profile has no updatable fields")
	ErrInvalidVerifyPurpose       = errors.New("invalid verify purpose")
	ErrEmailChangeInvalid         = errors.New("email change invalid")
	ErrEmailChangeExists          = errors.New("email change target exists")
	ErrVerifyCodeInvalid          = errors.New("verify code invalid")
	ErrVerifyCodeExpired          = errors.New("verify code expired")
	ErrVerifyCodeTooFrequent      = errors.New("verify code requested too often")
	ErrVerifyCodeAttemptsExceeded = errors.New("verify code attempts exceeded")
)

// 验证码错误
var (
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// 公司与商品错误
var (
	ErrCompanyInvalid      = errors.New("company invalid")
	ErrCompanyNotFound     = errors.New("company not found")
	ErrCompanyNameTaken    = errors.New("company name already exists")
	ErrCompanyHasProducts  = errors.New("company still has products")
	ErrCompanyFetchFailed  = errors.New("company fetch failed")
	ErrCompanySaveFailed   = errors.New("company save failed")
	ErrProductInvalid      = errors.New("product invalid")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrProductFetchFailed  = errors.New("product fetch failed")
	ErrProductSaveFailed   = errors.New("product save failed")
)

// 防伪码错误
var (
	ErrCodeInvalid             = errors.New("qr code invalid")
	ErrCodeNotFound            = errors.New("qr code not found")
	ErrCodeAlreadyUsed         = errors.New("qr code already used")
	ErrCodeQuantityInvalid     = errors.New("qr quantity invalid")
	ErrCodeGenerationExhausted = errors.New("qr code generation exhausted")
	ErrCodeGenerateFailed      = errors.New("qr code generate failed")
	ErrCodeFetchFailed         = errors.New("qr code fetch failed")
	ErrCodeImageRenderFailed   = errors.New("qr image render failed")
	ErrCodeSheetRenderFailed   = errors.New("qr sheet render failed")
	ErrBatchNotFound           = errors.New("qr batch not found")
)

// 返现申请错误
var (
	ErrRewardInvalid       = errors.New("reward invalid")
	ErrRewardNotFound      = errors.New("reward not found")
	ErrRewardFetchFailed   = errors.New("reward fetch failed")
	ErrRewardSaveFailed    = errors.New("reward save failed")
	ErrRewardNotOwned      = errors.New("reward not owned by user")
	ErrRewardStatusInvalid = errors.New("reward status invalid")
	ErrRewardAlreadyPaid   = errors.New("reward already paid")
	ErrUPIInvalid          = errors.New("upi id invalid")
	ErrUPIConflict         = errors.New("upi id bound to another user")
	ErrScreenshotDuplicate = errors.New("screenshot already submitted")
	ErrScreenshotRejected  = errors.New("screenshot rejected by review")
)

// 上传错误
var (
	ErrUploadInvalid      = errors.New("upload invalid")
	ErrUploadTooLarge     = errors.New("upload too large")
	ErrUploadTypeInvalid  = errors.New("upload type not allowed")
	ErrUploadSaveFailed   = errors.New("upload save failed")
	ErrUploadImageInvalid = errors.New("upload image invalid")
)

// 邮件错误
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// 队列错误
var (
	ErrQueueUnavailable = errors.New("queue unavailable")
)
