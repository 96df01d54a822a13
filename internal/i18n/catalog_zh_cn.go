package i18n

var zhCN = map[string]string{
	// 通用
	"error.bad_request":  "请求参数有误",
	"error.unauthorized": "未登录或登录已失效",
	"error.forbidden":    "没有权限执行该操作",
	"error.save_failed":  "保存失败，请稍后重试",
	"error.rate_limited": "请求过于频繁，请稍后再试",

	// 鉴权
	"error.auth_header_missing":    "缺少认证信息",
	"error.auth_header_invalid":    "认证信息格式有误",
	"error.token_invalid":          "登录凭证无效",
	"error.token_revoked":          "登录凭证已失效，请重新登录",
	"error.jwt_secret_missing":     "服务端认证配置缺失",
	"error.rate_limit_unavailable": "限流服务暂不可用",
	"error.login_too_many":         "登录尝试过于频繁，请稍后再试",
	"error.scan_too_many":          "扫码过于频繁，请稍后再试",

	// 管理员
	"error.admin_login_invalid":         "用户名或密码错误",
	"error.admin_username_invalid":      "用户名格式不合法",
	"error.admin_username_exists":       "用户名已存在",
	"error.admin_create_failed":         "创建管理员失败",
	"error.admin_update_failed":         "更新管理员失败",
	"error.admin_delete_failed":         "删除管理员失败",
	"error.admin_delete_self_forbidden": "不能删除当前登录的管理员",
	"error.admin_delete_last_forbidden": "不能删除最后一个管理员",
	"error.admin_delete_protected":      "该管理员受保护，不能删除",
	"error.admin_id_invalid":            "管理员 ID 不合法",
	"error.admin_id_type_invalid":       "管理员 ID 类型不合法",
	"error.config_fetch_failed":         "获取配置失败",
	"error.role_immutable":              "预置角色不允许删除",

	// 用户认证
	"error.login_invalid":                 "邮箱或密码错误",
	"error.login_failed":                  "登录失败，请稍后重试",
	"error.register_failed":               "注册失败，请稍后重试",
	"error.reset_failed":                  "重置密码失败，请稍后重试",
	"error.email_invalid":                 "邮箱格式不合法",
	"error.email_exists":                  "该邮箱已被注册",
	"error.email_not_verified":            "邮箱尚未验证",
	"error.email_change_invalid":          "新邮箱不合法",
	"error.email_change_exists":           "新邮箱已被使用",
	"error.email_change_failed":           "更换邮箱失败，请稍后重试",
	"error.agreement_required":            "请先同意用户协议",
	"error.user_disabled":                 "账号已被禁用",
	"error.user_not_found":                "用户不存在",
	"error.user_fetch_failed":             "获取用户信息失败",
	"error.user_update_failed":            "更新用户信息失败",
	"error.user_id_invalid":               "用户 ID 不合法",
	"error.user_id_type_invalid":          "用户 ID 类型不合法",
	"error.user_login_log_fetch_failed":   "获取登录记录失败",
	"error.profile_empty":                 "没有需要更新的内容",
	"error.password_old_invalid":          "原密码不正确",
	"error.password_weak":                 "密码强度不足",
	"error.password_min_length":           "密码长度不能少于 %d 位",
	"error.password_require_upper":        "密码必须包含大写字母",
	"error.password_require_lower":        "密码必须包含小写字母",
	"error.password_require_number":       "密码必须包含数字",
	"error.password_require_special":      "密码必须包含特殊字符",
	"error.send_verify_code_failed":       "发送验证码失败，请稍后重试",
	"error.verify_code_invalid":           "验证码错误",
	"error.verify_code_expired":           "验证码已过期",
	"error.verify_code_too_frequent":      "验证码发送过于频繁，请稍后再试",
	"error.verify_code_attempts_exceeded": "验证码尝试次数过多，请重新获取",
	"error.verify_purpose_invalid":        "验证码用途不合法",

	// 图形验证码
	"error.captcha_required":        "请先完成验证码",
	"error.captcha_invalid":         "验证码不正确",
	"error.captcha_unavailable":     "验证码服务暂不可用",
	"error.captcha_generate_failed": "生成验证码失败",
	"error.captcha_verify_failed":   "验证码校验失败",
	"error.captcha_config_invalid":  "验证码配置有误",

	// 品牌方
	"error.company_not_found":     "品牌方不存在",
	"error.company_invalid":       "品牌方信息不合法",
	"error.company_name_taken":    "品牌方名称已存在",
	"error.company_has_products":  "品牌方下仍有商品，不能删除",
	"error.company_fetch_failed":  "获取品牌方失败",
	"error.company_save_failed":   "保存品牌方失败",
	"error.company_delete_failed": "删除品牌方失败",

	// 商品
	"error.product_not_found":     "商品不存在",
	"error.product_not_available": "商品已下架",
	"error.product_invalid":       "商品信息不合法",
	"error.product_fetch_failed":  "获取商品失败",
	"error.product_save_failed":   "保存商品失败",
	"error.product_delete_failed": "删除商品失败",

	// 防伪码
	"error.code_invalid":              "防伪码格式不合法",
	"error.code_not_found":            "防伪码不存在",
	"error.code_already_used":         "该防伪码已被使用",
	"error.code_generate_failed":      "生成防伪码失败",
	"error.code_generation_exhausted": "防伪码生成冲突过多，请重试",
	"error.code_quantity_invalid":     "生成数量不合法",
	"error.code_image_failed":         "生成二维码图片失败",
	"error.code_sheet_failed":         "生成打印文件失败",
	"error.code_fetch_failed":         "查询防伪码失败",
	"error.batch_fetch_failed":        "获取批次失败",

	// 返现申请
	"error.reward_invalid":        "返现申请信息不合法",
	"error.reward_not_found":      "返现申请不存在",
	"error.reward_fetch_failed":   "获取返现申请失败",
	"error.reward_save_failed":    "保存返现申请失败",
	"error.reward_submit_failed":  "提交返现申请失败，请稍后重试",
	"error.reward_status_invalid": "返现状态不合法",
	"error.upi_invalid":           "UPI 账号格式不合法",
	"error.upi_conflict":          "该 UPI 账号已被其他用户使用",
	"error.screenshot_missing":    "请上传评价截图",
	"error.screenshot_duplicate":  "该截图已被提交过",
	"error.screenshot_rejected":   "截图未通过审核，请确认已给出五星好评",

	// 上传
	"error.file_missing":         "请选择要上传的文件",
	"error.upload_invalid":       "上传文件不合法",
	"error.upload_too_large":     "文件大小超出限制",
	"error.upload_type_invalid":  "不支持的文件类型",
	"error.upload_image_invalid": "图片文件无效",
	"error.upload_failed":        "上传失败，请稍后重试",

	// 仪表盘
	"error.dashboard_fetch_failed": "获取统计数据失败",

	// 邮件服务
	"error.email_service_not_configured": "邮件服务未配置",
	"error.email_recipient_not_found":    "收件邮箱不存在",

	// 返现状态
	"reward.status.pending":  "待审核",
	"reward.status.approved": "已通过",
	"reward.status.rejected": "已驳回",
	"reward.status.paid":     "已打款",

	// 返现状态邮件
	"email.reward_status.subject":       "返现审核状态更新：%s",
	"email.reward_status.body_approved": "您的返现申请审核已通过。\n\n商品：%s\n防伪码：%s\n返现金额：₹%s\n\n款项将尽快打至您提交的 UPI 账户。",
	"email.reward_status.body_rejected": "您的返现申请已被驳回。\n\n商品：%s\n防伪码：%s\n原因：%s",
	"email.reward_status.body_paid":     "您的返现申请已完成打款。\n\n商品：%s\n防伪码：%s\n金额：₹%s\n\n请注意查收 UPI 到账通知。",
	"email.reward_status.body":          "您的返现申请状态已更新。\n\n商品：%s\n防伪码：%s\n当前状态：%s",
	"email.reward_status.no_reason":     "未说明",
}
