package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page        int
	PageSize    int
	CompanyID   uint
	Category    string
	Search      string
	OnlyActive  bool
	WithCompany bool
}

// CompanyListFilter 查询公司列表的过滤条件
type CompanyListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// QRCodeListFilter 查询防伪码列表的过滤条件
type QRCodeListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	BatchID   uint
	Code      string
	IsUsed    *bool
}

// QRBatchListFilter 查询批次列表的过滤条件
type QRBatchListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	CompanyID uint
}

// RewardListFilter 查询返现申请列表的过滤条件
type RewardListFilter struct {
	Page           int
	PageSize       int
	UserID         uint
	Status         string
	Platform       string
	CouponCode     string
	UPIID          string
	AutoApproved   *bool
	AnalysisStatus string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page          int
	PageSize      int
	Keyword       string
	Status        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	LastLoginFrom *time.Time
	LastLoginTo   *time.Time
}

// UserLoginLogListFilter 查询用户登录日志列表的过滤条件
type UserLoginLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Email       string
	Status      string
	FailReason  string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuthzAuditLogListFilter 查询权限审计日志列表的过滤条件
type AuthzAuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	TargetAdminID   uint
	Action          string
	Role            string
	Object          string
	Method          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
