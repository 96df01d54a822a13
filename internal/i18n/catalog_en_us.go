package i18n

var enUS = map[string]string{
	// Common
	"error.bad_request":  "Invalid request parameters",
	"error.unauthorized": "Not signed in or session expired",
	"error.forbidden":    "You do not have permission to perform this action",
	"error.save_failed":  "Save failed, please try again later",
	"error.rate_limited": "Too many requests, please try again later",

	// Auth
	"error.auth_header_missing":    "Missing authentication header",
	"error.auth_header_invalid":    "Malformed authentication header",
	"error.token_invalid":          "Invalid access token",
	"error.token_revoked":          "Access token revoked, please sign in again",
	"error.jwt_secret_missing":     "Server authentication is not configured",
	"error.rate_limit_unavailable": "Rate limiter temporarily unavailable",
	"error.login_too_many":         "Too many login attempts, please try again later",
	"error.scan_too_many":          "Too many scans, please try again later",

	// Admin
	"error.admin_login_invalid":         "Incorrect username or password",
	"error.admin_username_invalid":      "Invalid username format",
	"error.admin_username_exists":       "Username already exists",
	"error.admin_create_failed":         "Failed to create admin",
	"error.admin_update_failed":         "Failed to update admin",
	"error.admin_delete_failed":         "Failed to delete admin",
	"error.admin_delete_self_forbidden": "Cannot delete the currently signed-in admin",
	"error.admin_delete_last_forbidden": "Cannot delete the last admin",
	"error.admin_delete_protected":      "This admin is protected and cannot be deleted",
	"error.admin_id_invalid":            "Invalid admin ID",
	"error.admin_id_type_invalid":       "Invalid admin ID type",
	"error.config_fetch_failed":         "Failed to fetch configuration",
	"error.role_immutable":              "Builtin roles cannot be deleted",

	// User auth
	"error.login_invalid":                 "Incorrect email or password",
	"error.login_failed":                  "Login failed, please try again later",
	"error.register_failed":               "Registration failed, please try again later",
	"error.reset_failed":                  "Password reset failed, please try again later",
	"error.email_invalid":                 "Invalid email address",
	"error.email_exists":                  "Email address already registered",
	"error.email_not_verified":            "Email address not verified",
	"error.email_change_invalid":          "Invalid new email address",
	"error.email_change_exists":           "New email address already in use",
	"error.email_change_failed":           "Failed to change email, please try again later",
	"error.agreement_required":            "Please accept the user agreement first",
	"error.user_disabled":                 "Account disabled",
	"error.user_not_found":                "User not found",
	"error.user_fetch_failed":             "Failed to fetch user",
	"error.user_update_failed":            "Failed to update user",
	"error.user_id_invalid":               "Invalid user ID",
	"error.user_id_type_invalid":          "Invalid user ID type",
	"error.user_login_log_fetch_failed":   "Failed to fetch login history",
	"error.profile_empty":                 "Nothing to update",
	"error.password_old_invalid":          "Current password is incorrect",
	"error.password_weak":                 "Password is too weak",
	"error.password_min_length":           "Password must be at least %d characters",
	"error.password_require_upper":        "Password must contain an uppercase letter",
	"error.password_require_lower":        "Password must contain a lowercase letter",
	"error.password_require_number":       "Password must contain a digit",
	"error.password_require_special":      "Password must contain a special character",
	"error.send_verify_code_failed":       "Failed to send verification code, please try again later",
	"error.verify_code_invalid":           "Incorrect verification code",
	"error.verify_code_expired":           "Verification code expired",
	"error.verify_code_too_frequent":      "Verification code requested too frequently, please try again later",
	"error.verify_code_attempts_exceeded": "Too many attempts, please request a new code",
	"error.verify_purpose_invalid":        "Invalid verification code purpose",

	// Captcha
	"error.captcha_required":        "Please complete the captcha first",
	"error.captcha_invalid":         "Incorrect captcha",
	"error.captcha_unavailable":     "Captcha service temporarily unavailable",
	"error.captcha_generate_failed": "Failed to generate captcha",
	"error.captcha_verify_failed":   "Failed to verify captcha",
	"error.captcha_config_invalid":  "Invalid captcha configuration",

	// Company
	"error.company_not_found":     "Company not found",
	"error.company_invalid":       "Invalid company data",
	"error.company_name_taken":    "Company name already exists",
	"error.company_has_products":  "Company still has products and cannot be deleted",
	"error.company_fetch_failed":  "Failed to fetch company",
	"error.company_save_failed":   "Failed to save company",
	"error.company_delete_failed": "Failed to delete company",

	// Product
	"error.product_not_found":     "Product not found",
	"error.product_not_available": "Product is no longer available",
	"error.product_invalid":       "Invalid product data",
	"error.product_fetch_failed":  "Failed to fetch product",
	"error.product_save_failed":   "Failed to save product",
	"error.product_delete_failed": "Failed to delete product",

	// Coupon codes
	"error.code_invalid":              "Invalid coupon code format",
	"error.code_not_found":            "Coupon code not found",
	"error.code_already_used":         "Coupon code has already been used",
	"error.code_generate_failed":      "Failed to generate coupon code",
	"error.code_generation_exhausted": "Too many code collisions, please retry",
	"error.code_quantity_invalid":     "Invalid generation quantity",
	"error.code_image_failed":         "Failed to render QR image",
	"error.code_sheet_failed":         "Failed to render print sheet",
	"error.code_fetch_failed":         "Failed to look up coupon code",
	"error.batch_fetch_failed":        "Failed to fetch batches",

	// Cashback rewards
	"error.reward_invalid":        "Invalid cashback request",
	"error.reward_not_found":      "Cashback request not found",
	"error.reward_fetch_failed":   "Failed to fetch cashback requests",
	"error.reward_save_failed":    "Failed to save cashback request",
	"error.reward_submit_failed":  "Failed to submit cashback request, please try again later",
	"error.reward_status_invalid": "Invalid cashback status",
	"error.upi_invalid":           "Invalid UPI ID format",
	"error.upi_conflict":          "This UPI ID is already used by another account",
	"error.screenshot_missing":    "Please upload a review screenshot",
	"error.screenshot_duplicate":  "This screenshot has already been submitted",
	"error.screenshot_rejected":   "Screenshot was rejected, please make sure it shows a 5-star review",

	// Upload
	"error.file_missing":         "Please choose a file to upload",
	"error.upload_invalid":       "Invalid upload",
	"error.upload_too_large":     "File exceeds the size limit",
	"error.upload_type_invalid":  "Unsupported file type",
	"error.upload_image_invalid": "Invalid image file",
	"error.upload_failed":        "Upload failed, please try again later",

	// Dashboard
	"error.dashboard_fetch_failed": "Failed to fetch statistics",

	// Email service
	"error.email_service_not_configured": "Email service is not configured",
	"error.email_recipient_not_found":    "Recipient mailbox does not exist",

	// Reward status
	"reward.status.pending":  "Pending Review",
	"reward.status.approved": "Approved",
	"reward.status.rejected": "Rejected",
	"reward.status.paid":     "Paid",

	// Reward status email
	"email.reward_status.subject":       "Cashback status updated: %s",
	"email.reward_status.body_approved": "Your cashback request has been approved.\n\nProduct: %s\nCoupon: %s\nCashback amount: ₹%s\n\nPayment will be sent to your UPI account shortly.",
	"email.reward_status.body_rejected": "Your cashback request has been rejected.\n\nProduct: %s\nCoupon: %s\nReason: %s",
	"email.reward_status.body_paid":     "Your cashback has been paid out.\n\nProduct: %s\nCoupon: %s\nAmount: ₹%s\n\nPlease check your UPI account for the credit.",
	"email.reward_status.body":          "The status of your cashback request has changed.\n\nProduct: %s\nCoupon: %s\nCurrent status: %s",
	"email.reward_status.no_reason":     "Not specified",
}
