package provider

import (
	"context"

	"github.com/fanxian-next/internal/ai"
	"github.com/fanxian-next/internal/authz"
	"github.com/fanxian-next/internal/cache"
	"github.com/fanxian-next/internal/config"
	"github.com/fanxian-next/internal/logger"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/queue"
	"github.com/fanxian-next/internal/repository"
	"github.com/fanxian-next/internal/service"
	"github.com/fanxian-next/internal/storage"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// 外部依赖（未配置时为 nil，调用方自行降级）
	Oracle   ai.Oracle
	Archiver storage.Archiver

	// Repositories
	AdminRepo           repository.AdminRepository
	UserRepo            repository.UserRepository
	EmailVerifyCodeRepo repository.EmailVerifyCodeRepository
	CompanyRepo         repository.CompanyRepository
	ProductRepo         repository.ProductRepository
	QRCodeRepo          repository.QRCodeRepository
	QRBatchRepo         repository.QRBatchRepository
	RewardRepo          repository.RewardRepository
	UserLoginLogRepo    repository.UserLoginLogRepository
	AuthzAuditLogRepo   repository.AuthzAuditLogRepository
	DashboardRepo       repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	EmailService        *service.EmailService
	CaptchaService      *service.CaptchaService
	UploadService       *service.UploadService
	CompanyService      *service.CompanyService
	ProductService      *service.ProductService
	QRCodeService       *service.QRCodeService
	RewardService       *service.RewardService
	RewardAdminService  *service.RewardAdminService
	UserLoginLogService *service.UserLoginLogService
	AuthzAuditService   *service.AuthzAuditService
	DashboardService    *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化外部依赖
	c.initExternal()

	// 2. 初始化 Repositories
	c.initRepositories()

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initExternal() {
	ctx := context.Background()

	if c.Config.AI.Enabled {
		oracle, err := ai.NewGeminiOracle(ctx, c.Config.AI)
		if err != nil {
			logger.Errorw("provider_init_oracle_failed", "error", err)
		} else {
			c.Oracle = oracle
		}
	}

	if c.Config.Drive.Enabled {
		archiver, err := storage.NewDriveArchiver(ctx, c.Config.Drive)
		if err != nil {
			logger.Errorw("provider_init_drive_failed", "error", err)
		} else {
			c.Archiver = archiver
		}
	}
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.EmailVerifyCodeRepo = repository.NewEmailVerifyCodeRepository(db)
	c.CompanyRepo = repository.NewCompanyRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.QRCodeRepo = repository.NewQRCodeRepository(db)
	c.QRBatchRepo = repository.NewQRBatchRepository(db)
	c.RewardRepo = repository.NewRewardRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.EmailVerifyCodeRepo, c.EmailService)
	c.UploadService = service.NewUploadService(c.Config)
	c.CompanyService = service.NewCompanyService(c.CompanyRepo, c.ProductRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CompanyRepo)
	c.QRCodeService = service.NewQRCodeService(c.Config, c.QRCodeRepo, c.QRBatchRepo, c.ProductRepo)
	c.RewardService = service.NewRewardService(c.Config, c.RewardRepo, c.QRCodeRepo, c.Oracle, c.Archiver, c.QueueClient)
	c.RewardAdminService = service.NewRewardAdminService(c.RewardRepo, c.QueueClient)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditLogRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
