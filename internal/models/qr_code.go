package models

import "time"

// QRCode 防伪码表（一物一码，兑付后作废）
type QRCode struct {
	ID        uint   `gorm:"primarykey" json:"id"` // 主键
	ProductID uint   `gorm:"not null;index;uniqueIndex:idx_qr_product_serial" json:"product_id"`
	BatchID   *uint  `gorm:"index" json:"batch_id"`                             // 所属批次（单个生成时为空）
	Code      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // 码值（全局唯一）
	// 商品内序号，参与码值哈希
	SerialNumber int `gorm:"not null;uniqueIndex:idx_qr_product_serial" json:"serial_number"`

	// 扫码追踪
	ScanCount     int        `gorm:"not null;default:0" json:"scan_count"`
	LastScannedAt *time.Time `json:"last_scanned_at"`

	// 单次核销状态
	IsUsed bool       `gorm:"not null;default:false;index" json:"is_used"`
	UsedAt *time.Time `json:"used_at"`
	UsedBy *uint      `gorm:"index" json:"used_by"` // 核销用户

	CreatedAt time.Time `gorm:"index" json:"created_at"` // 创建时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Batch   *QRBatch `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
}

// TableName 指定表名
func (QRCode) TableName() string {
	return "qr_codes"
}
