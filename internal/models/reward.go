package models

import "time"

// Reward 返现申请表
type Reward struct {
	ID     uint `gorm:"primarykey" json:"id"` // 主键
	UserID uint `gorm:"not null;index" json:"user_id"`

	// 申请人填写的收款与联系信息
	Name  string `gorm:"type:varchar(100);not null" json:"name"`
	Phone string `gorm:"type:varchar(20);not null" json:"phone"`
	UPIID string `gorm:"type:varchar(100);not null;index" json:"upi_id"` // UPI 收款账号（name@handle）

	// 购买信息（快照，商品改名不影响历史申请）
	ProductName string `gorm:"type:varchar(200);not null" json:"product_name"`
	Platform    string `gorm:"type:varchar(50)" json:"platform"`                   // 评价平台（amazon/flipkart/...）
	CouponCode  string `gorm:"type:varchar(50);not null;index" json:"coupon_code"` // 关联的防伪码

	// 评价截图
	ScreenshotPath string `gorm:"type:varchar(500);not null" json:"-"`
	ScreenshotURL  string `gorm:"type:varchar(500)" json:"screenshot_url"`
	// 截图 SHA-256，防止同图多账号重复薅
	ImageHash string `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`

	// 审核状态机：pending -> approved -> paid / rejected
	Status          string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectionReason string `gorm:"type:text" json:"rejection_reason"`

	// AI 识别结果
	AIVerified       bool     `gorm:"not null;default:false" json:"ai_verified"` // 是否已完成 AI 识别
	DetectedRating   *int     `json:"detected_rating"`                           // 识别出的星级（1-5）
	DetectedComment  string   `gorm:"type:text" json:"detected_comment"`         // 识别出的评价文字
	AIConfidence     *float64 `json:"ai_confidence"`                             // 商品匹配置信度（0-1）
	AIAnalysisStatus string   `gorm:"type:varchar(20);not null;default:'pending'" json:"ai_analysis_status"`
	AIDecisionLog    string   `gorm:"type:text" json:"ai_decision_log"` // 判定依据（给审核员看）
	IsAutoApproved   bool     `gorm:"not null;default:false;index" json:"is_auto_approved"`

	// 人工审核
	AdminNotes string     `gorm:"type:text" json:"admin_notes"`
	VerifiedBy *uint      `gorm:"index" json:"verified_by"` // 审核管理员
	VerifiedAt *time.Time `json:"verified_at"`

	// 打款记录
	PaymentAmount Money      `gorm:"type:decimal(12,2)" json:"payment_amount"`
	PaymentDate   *time.Time `json:"payment_date"`

	CreatedAt time.Time `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt time.Time `json:"updated_at"`              // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Reward) TableName() string {
	return "rewards"
}
