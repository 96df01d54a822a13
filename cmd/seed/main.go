package main

import (
	"os"

	"github.com/fanxian-next/internal/config"
	"github.com/fanxian-next/internal/logger"
	"github.com/fanxian-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin(os.Getenv("FX_DEFAULT_ADMIN_USERNAME"), os.Getenv("FX_DEFAULT_ADMIN_PASSWORD")); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 演示公司
	company := models.Company{
		Name:        "Horizon Consumer Goods",
		Description: "Demo brand used for local development.",
		Website:     "https://example.com",
	}
	var existingCompany models.Company
	if err := models.DB.Where("name = ?", company.Name).First(&existingCompany).Error; err != nil {
		if err := models.DB.Create(&company).Error; err != nil {
			stdLog.Fatalf("Failed to create company: %v", err)
		}
		stdLog.Printf("Created company: %s", company.Name)
	} else {
		company = existingCompany
		stdLog.Printf("Company already exists: %s", company.Name)
	}

	// 演示商品
	products := []models.Product{
		{
			CompanyID:      company.ID,
			Name:           "Wireless Earbuds Pro",
			Description:    "Bluetooth 5.3 earbuds with ANC.",
			SKUPrefix:      "WEP",
			MRP:            models.NewMoneyFromDecimal(decimal.NewFromInt(2999)),
			SellingPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(1499)),
			CashbackAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			MarketplaceURLs: models.JSON(map[string]interface{}{
				"amazon":   "https://www.amazon.in/dp/B0DEMO0001",
				"flipkart": "https://www.flipkart.com/p/demo0001",
			}),
			Category: "electronics",
			IsActive: true,
		},
		{
			CompanyID:      company.ID,
			Name:           "Stainless Steel Bottle 1L",
			Description:    "Vacuum insulated, keeps drinks cold for 24h.",
			SKUPrefix:      "SSB",
			MRP:            models.NewMoneyFromDecimal(decimal.NewFromInt(999)),
			SellingPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(599)),
			CashbackAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
			MarketplaceURLs: models.JSON(map[string]interface{}{
				"amazon": "https://www.amazon.in/dp/B0DEMO0002",
				"meesho": "https://www.meesho.com/p/demo0002",
			}),
			Category: "lifestyle",
			IsActive: true,
		},
	}

	for i := range products {
		product := products[i]
		var existing models.Product
		if err := models.DB.Where("company_id = ? AND name = ?", product.CompanyID, product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			} else {
				stdLog.Printf("Created product: %s", product.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Name)
		}
	}

	stdLog.Printf("Seed finished")
}
