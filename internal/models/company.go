package models

import (
	"time"

	"gorm.io/gorm"
)

// Company 品牌公司表
type Company struct {
	ID          uint           `gorm:"primarykey" json:"id"`             // 主键
	Name        string         `gorm:"uniqueIndex;not null" json:"name"` // 公司名称
	LogoURL     string         `gorm:"type:varchar(500)" json:"logo_url"`
	Description string         `gorm:"type:text" json:"description"`
	Website     string         `gorm:"type:varchar(200)" json:"website"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间
}

// TableName 指定表名
func (Company) TableName() string {
	return "companies"
}
