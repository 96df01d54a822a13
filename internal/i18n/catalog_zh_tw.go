package i18n

var zhTW = map[string]string{
	// 通用
	"error.bad_request":  "請求參數有誤",
	"error.unauthorized": "未登入或登入已失效",
	"error.forbidden":    "沒有權限執行該操作",
	"error.save_failed":  "儲存失敗，請稍後重試",
	"error.rate_limited": "請求過於頻繁，請稍後再試",

	// 鑑權
	"error.auth_header_missing":    "缺少認證資訊",
	"error.auth_header_invalid":    "認證資訊格式有誤",
	"error.token_invalid":          "登入憑證無效",
	"error.token_revoked":          "登入憑證已失效，請重新登入",
	"error.jwt_secret_missing":     "伺服器認證設定缺失",
	"error.rate_limit_unavailable": "限流服務暫不可用",
	"error.login_too_many":         "登入嘗試過於頻繁，請稍後再試",
	"error.scan_too_many":          "掃碼過於頻繁，請稍後再試",

	// 管理員
	"error.admin_login_invalid":         "帳號或密碼錯誤",
	"error.admin_username_invalid":      "帳號格式不合法",
	"error.admin_username_exists":       "帳號已存在",
	"error.admin_create_failed":         "建立管理員失敗",
	"error.admin_update_failed":         "更新管理員失敗",
	"error.admin_delete_failed":         "刪除管理員失敗",
	"error.admin_delete_self_forbidden": "不能刪除當前登入的管理員",
	"error.admin_delete_last_forbidden": "不能刪除最後一個管理員",
	"error.admin_delete_protected":      "該管理員受保護，不能刪除",
	"error.admin_id_invalid":            "管理員 ID 不合法",
	"error.admin_id_type_invalid":       "管理員 ID 類型不合法",
	"error.config_fetch_failed":         "取得設定失敗",
	"error.role_immutable":              "預置角色不允許刪除",

	// 用戶認證
	"error.login_invalid":                 "信箱或密碼錯誤",
	"error.login_failed":                  "登入失敗，請稍後重試",
	"error.register_failed":               "註冊失敗，請稍後重試",
	"error.reset_failed":                  "重設密碼失敗，請稍後重試",
	"error.email_invalid":                 "信箱格式不合法",
	"error.email_exists":                  "該信箱已被註冊",
	"error.email_not_verified":            "信箱尚未驗證",
	"error.email_change_invalid":          "新信箱不合法",
	"error.email_change_exists":           "新信箱已被使用",
	"error.email_change_failed":           "更換信箱失敗，請稍後重試",
	"error.agreement_required":            "請先同意用戶協議",
	"error.user_disabled":                 "帳號已被停用",
	"error.user_not_found":                "用戶不存在",
	"error.user_fetch_failed":             "取得用戶資訊失敗",
	"error.user_update_failed":            "更新用戶資訊失敗",
	"error.user_id_invalid":               "用戶 ID 不合法",
	"error.user_id_type_invalid":          "用戶 ID 類型不合法",
	"error.user_login_log_fetch_failed":   "取得登入記錄失敗",
	"error.profile_empty":                 "沒有需要更新的內容",
	"error.password_old_invalid":          "原密碼不正確",
	"error.password_weak":                 "密碼強度不足",
	"error.password_min_length":           "密碼長度不能少於 %d 位",
	"error.password_require_upper":        "密碼必須包含大寫字母",
	"error.password_require_lower":        "密碼必須包含小寫字母",
	"error.password_require_number":       "密碼必須包含數字",
	"error.password_require_special":      "密碼必須包含特殊字元",
	"error.send_verify_code_failed":       "發送驗證碼失敗，請稍後重試",
	"error.verify_code_invalid":           "驗證碼錯誤",
	"error.verify_code_expired":           "驗證碼已過期",
	"error.verify_code_too_frequent":      "驗證碼發送過於頻繁，請稍後再試",
	"error.verify_code_attempts_exceeded": "驗證碼嘗試次數過多，請重新取得",
	"error.verify_purpose_invalid":        "驗證碼用途不合法",

	// 圖形驗證碼
	"error.captcha_required":        "請先完成驗證碼",
	"error.captcha_invalid":         "驗證碼不正確",
	"error.captcha_unavailable":     "驗證碼服務暫不可用",
	"error.captcha_generate_failed": "產生驗證碼失敗",
	"error.captcha_verify_failed":   "驗證碼校驗失敗",
	"error.captcha_config_invalid":  "驗證碼設定有誤",

	// 品牌方
	"error.company_not_found":     "品牌方不存在",
	"error.company_invalid":       "品牌方資訊不合法",
	"error.company_name_taken":    "品牌方名稱已存在",
	"error.company_has_products":  "品牌方下仍有商品，不能刪除",
	"error.company_fetch_failed":  "取得品牌方失敗",
	"error.company_save_failed":   "儲存品牌方失敗",
	"error.company_delete_failed": "刪除品牌方失敗",

	// 商品
	"error.product_not_found":     "商品不存在",
	"error.product_not_available": "商品已下架",
	"error.product_invalid":       "商品資訊不合法",
	"error.product_fetch_failed":  "取得商品失敗",
	"error.product_save_failed":   "儲存商品失敗",
	"error.product_delete_failed": "刪除商品失敗",

	// 防偽碼
	"error.code_invalid":              "防偽碼格式不合法",
	"error.code_not_found":            "防偽碼不存在",
	"error.code_already_used":         "該防偽碼已被使用",
	"error.code_generate_failed":      "產生防偽碼失敗",
	"error.code_generation_exhausted": "防偽碼產生衝突過多，請重試",
	"error.code_quantity_invalid":     "產生數量不合法",
	"error.code_image_failed":         "產生二維碼圖片失敗",
	"error.code_sheet_failed":         "產生列印檔案失敗",
	"error.code_fetch_failed":         "查詢防偽碼失敗",
	"error.batch_fetch_failed":        "取得批次失敗",

	// 返現申請
	"error.reward_invalid":        "返現申請資訊不合法",
	"error.reward_not_found":      "返現申請不存在",
	"error.reward_fetch_failed":   "取得返現申請失敗",
	"error.reward_save_failed":    "儲存返現申請失敗",
	"error.reward_submit_failed":  "提交返現申請失敗，請稍後重試",
	"error.reward_status_invalid": "返現狀態不合法",
	"error.upi_invalid":           "UPI 帳號格式不合法",
	"error.upi_conflict":          "該 UPI 帳號已被其他用戶使用",
	"error.screenshot_missing":    "請上傳評價截圖",
	"error.screenshot_duplicate":  "該截圖已被提交過",
	"error.screenshot_rejected":   "截圖未通過審核，請確認已給出五星好評",

	// 上傳
	"error.file_missing":         "請選擇要上傳的檔案",
	"error.upload_invalid":       "上傳檔案不合法",
	"error.upload_too_large":     "檔案大小超出限制",
	"error.upload_type_invalid":  "不支援的檔案類型",
	"error.upload_image_invalid": "圖片檔案無效",
	"error.upload_failed":        "上傳失敗，請稍後重試",

	// 儀表板
	"error.dashboard_fetch_failed": "取得統計資料失敗",

	// 郵件服務
	"error.email_service_not_configured": "郵件服務未設定",
	"error.email_recipient_not_found":    "收件信箱不存在",

	// 返現狀態
	"reward.status.pending":  "待審核",
	"reward.status.approved": "已通過",
	"reward.status.rejected": "已駁回",
	"reward.status.paid":     "已打款",

	// 返現狀態郵件
	"email.reward_status.subject":       "返現審核狀態更新：%s",
	"email.reward_status.body_approved": "您的返現申請審核已通過。\n\n商品：%s\n防偽碼：%s\n返現金額：₹%s\n\n款項將儘快打至您提交的 UPI 帳戶。",
	"email.reward_status.body_rejected": "您的返現申請已被駁回。\n\n商品：%s\n防偽碼：%s\n原因：%s",
	"email.reward_status.body_paid":     "您的返現申請已完成打款。\n\n商品：%s\n防偽碼：%s\n金額：₹%s\n\n請注意查收 UPI 到帳通知。",
	"email.reward_status.body":          "您的返現申請狀態已更新。\n\n商品：%s\n防偽碼：%s\n當前狀態：%s",
	"email.reward_status.no_reason":     "未說明",
}
