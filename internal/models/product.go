package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint   `gorm:"primarykey" json:"id"`             // 主键
	CompanyID   uint   `gorm:"not null;index" json:"company_id"` // 所属公司
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"type:varchar(500)" json:"image_url"`
	SKUPrefix   string `gorm:"type:varchar(50);not null;index" json:"sku_prefix"` // 生成防伪码时参与哈希的 SKU 前缀

	// 价格（统一 Money 类型，2 位小数）
	MRP            Money `gorm:"type:decimal(12,2);not null" json:"mrp"`             // 标牌价
	SellingPrice   Money `gorm:"type:decimal(12,2);not null" json:"selling_price"`   // 售价
	CashbackAmount Money `gorm:"type:decimal(12,2);not null" json:"cashback_amount"` // 好评返现金额

	// 各电商平台商品链接（key: amazon/flipkart/meesho/...）
	MarketplaceURLs JSON `gorm:"type:json" json:"marketplace_urls"`

	Category string `gorm:"type:varchar(100);index" json:"category"`
	IsActive bool   `gorm:"not null;default:true;index" json:"is_active"` // 下架后不再响应扫码

	CreatedAt time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
