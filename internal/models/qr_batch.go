package models

import "time"

// QRBatch 二维码批次表（按商品递增编号，只增不改）
type QRBatch struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                               // 主键
	ProductID   uint      `gorm:"not null;index:idx_batch_product_number,unique" json:"product_id"`   // 所属商品
	BatchNumber int       `gorm:"not null;index:idx_batch_product_number,unique" json:"batch_number"` // 批次号（每商品从 1 递增）
	Quantity    int       `gorm:"not null" json:"quantity"`                                           // 本批次生成数量
	SerialStart int       `gorm:"not null" json:"serial_start"`                                       // 序号区间起点
	SerialEnd   int       `gorm:"not null" json:"serial_end"`                                         // 序号区间终点
	CreatedBy   *uint     `gorm:"index" json:"created_by"`                                            // 操作管理员
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                            // 创建时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 指定表名
func (QRBatch) TableName() string {
	return "qr_batches"
}
