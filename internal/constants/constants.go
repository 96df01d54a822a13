package constants

// 返现申请状态常量
const (
	RewardStatusPending  = "pending"
	RewardStatusApproved = "approved"
	RewardStatusRejected = "rejected"
	RewardStatusPaid     = "paid"
)

// AI 识别状态常量
const (
	AIAnalysisStatusPending = "pending"
	AIAnalysisStatusSuccess = "success"
	AIAnalysisStatusFailed  = "failed"
)

// 自动审批阈值常量
const (
	AutoApproveRating        = 5
	AutoApproveMinConfidence = 0.85
)

// 防伪码生成常量
const (
	CodeLength           = 12  // 码值长度（SHA-256 十六进制前 12 位，大写）
	CodeSaltBytes        = 4   // 盐长度（字节，转 8 位十六进制）
	CodeMaxGenAttempts   = 10  // 碰撞重试上限
	CodeBulkMaxQuantity  = 100 // 单次批量生成上限
	CodeBatchMaxQuantity = 500 // PDF 批次生成上限
)

// 评价平台常量
const (
	PlatformAmazon   = "amazon"
	PlatformFlipkart = "flipkart"
	PlatformMeesho   = "meesho"
	PlatformMyntra   = "myntra"
	PlatformNykaa    = "nykaa"
	PlatformJiomart  = "jiomart"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录日志失败原因常量
const (
	LoginLogFailReasonBadRequest           = "bad_request"
	LoginLogFailReasonCaptchaRequired      = "captcha_required"
	LoginLogFailReasonCaptchaInvalid       = "captcha_invalid"
	LoginLogFailReasonCaptchaVerifyFailed  = "captcha_verify_failed"
	LoginLogFailReasonCaptchaConfigInvalid = "captcha_config_invalid"
	LoginLogFailReasonInvalidEmail         = "invalid_email"
	LoginLogFailReasonInvalidCredentials   = "invalid_credentials"
	LoginLogFailReasonEmailNotVerified     = "email_not_verified"
	LoginLogFailReasonUserDisabled         = "user_disabled"
	LoginLogFailReasonInternalError        = "internal_error"
)

// 登录日志来源常量
const (
	LoginLogSourceWeb = "web"
)

// 验证码用途常量
const (
	VerifyPurposeRegister       = "register"
	VerifyPurposeReset          = "reset"
	VerifyPurposeChangeEmailOld = "change_email_old"
	VerifyPurposeChangeEmailNew = "change_email_new"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin            = "login"
	CaptchaSceneRegisterSendCode = "register_send_code"
	CaptchaSceneResetSendCode    = "reset_send_code"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskRewardStatusEmail = "reward:status_email"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "fx"
)
