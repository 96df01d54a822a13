package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/fanxian-next/internal/ai"
	"github.com/fanxian-next/internal/config"
	"github.com/fanxian-next/internal/constants"
	"github.com/fanxian-next/internal/logger"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/queue"
	"github.com/fanxian-next/internal/repository"
	"github.com/fanxian-next/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// upiIDPattern UPI 收款账号格式：name@handle
var upiIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{1,255}@[a-zA-Z]{2,64}$`)

// RewardService 返现申请服务（用户侧）
type RewardService struct {
	cfg         *config.Config
	repo        repository.RewardRepository
	codeRepo    repository.QRCodeRepository
	oracle      ai.Oracle
	archiver    storage.Archiver
	queueClient *queue.Client
}

// SubmitRewardInput 返现申请输入
type SubmitRewardInput struct {
	UserID     uint
	Name       string
	Phone      string
	Platform   string
	UPIID      string
	CouponCode string
	Screenshot *multipart.FileHeader
}

// MyRewardsInput 用户申请列表输入
type MyRewardsInput struct {
	UserID   uint
	Status   string
	Page     int
	PageSize int
}

// NewRewardService 创建返现申请服务
func NewRewardService(cfg *config.Config, repo repository.RewardRepository, codeRepo repository.QRCodeRepository, oracle ai.Oracle, archiver storage.Archiver, queueClient *queue.Client) *RewardService {
	return &RewardService{
		cfg:         cfg,
		repo:        repo,
		codeRepo:    codeRepo,
		oracle:      oracle,
		archiver:    archiver,
		queueClient: queueClient,
	}
}

// SubmitReward 提交返现申请。
// 流程：校验 → 查重 → 验码 → 落盘 → AI 核验（不持锁）→ 事务内核销防伪码并建档。
func (s *RewardService) SubmitReward(ctx context.Context, input SubmitRewardInput) (*models.Reward, error) {
	if s == nil || s.repo == nil || s.codeRepo == nil {
		return nil, ErrRewardSaveFailed
	}
	if input.UserID == 0 || input.Screenshot == nil {
		return nil, ErrRewardInvalid
	}

	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	upiID := strings.ToLower(strings.TrimSpace(input.UPIID))
	platform := strings.ToLower(strings.TrimSpace(input.Platform))
	couponCode := normalizeCode(input.CouponCode)
	if name == "" || phone == "" || couponCode == "" {
		return nil, ErrRewardInvalid
	}
	if !upiIDPattern.MatchString(upiID) {
		return nil, ErrUPIInvalid
	}

	imageData, mimeType, err := s.readScreenshot(input.Screenshot)
	if err != nil {
		return nil, err
	}
	hashSum := sha256.Sum256(imageData)
	imageHash := hex.EncodeToString(hashSum[:])

	// 同图查重：同一截图不允许第二次申请
	duplicate, err := s.repo.GetByImageHash(imageHash)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	if duplicate != nil {
		return nil, ErrScreenshotDuplicate
	}

	// UPI 查重：同一收款账号不允许绑定第二个申请人（被驳回的不算）
	conflict, err := s.repo.FindUPIConflict(upiID, input.UserID)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	if conflict != nil {
		return nil, ErrUPIConflict
	}

	// 预检防伪码，核销在事务内再次校验
	code, err := s.codeRepo.GetByCode(couponCode)
	if err != nil {
		return nil, ErrCodeFetchFailed
	}
	if code == nil {
		return nil, ErrCodeNotFound
	}
	if code.IsUsed {
		return nil, ErrCodeAlreadyUsed
	}
	product := code.Product
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	screenshotPath, err := s.saveScreenshot(input.UserID, input.Screenshot.Filename, imageData)
	if err != nil {
		return nil, ErrUploadSaveFailed
	}

	reward := &models.Reward{
		UserID:           input.UserID,
		Name:             name,
		Phone:            phone,
		UPIID:            upiID,
		ProductName:      product.Name,
		Platform:         platform,
		CouponCode:       couponCode,
		ScreenshotPath:   screenshotPath,
		ImageHash:        imageHash,
		Status:           constants.RewardStatusPending,
		AIAnalysisStatus: constants.AIAnalysisStatusPending,
		PaymentAmount:    product.CashbackAmount,
	}

	// AI 核验在任何数据库锁之外执行
	if err := s.runVerification(ctx, reward, product, imageData, mimeType); err != nil {
		s.removeScreenshot(screenshotPath)
		return nil, err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		codeRepo := s.codeRepo.WithTx(tx)
		locked, err := codeRepo.GetByCodeForUpdate(couponCode)
		if err != nil {
			return ErrCodeFetchFailed
		}
		if locked == nil {
			return ErrCodeNotFound
		}
		if locked.IsUsed {
			return ErrCodeAlreadyUsed
		}

		affected, err := codeRepo.MarkUsed(locked.ID, input.UserID, time.Now())
		if err != nil || affected == 0 {
			return ErrCodeAlreadyUsed
		}
		if err := s.repo.WithTx(tx).Create(reward); err != nil {
			return ErrRewardSaveFailed
		}
		return nil
	})
	if err != nil {
		s.removeScreenshot(screenshotPath)
		if errors.Is(err, ErrCodeNotFound) || errors.Is(err, ErrCodeAlreadyUsed) || errors.Is(err, ErrCodeFetchFailed) {
			return nil, err
		}
		return nil, ErrRewardSaveFailed
	}

	s.archiveScreenshot(ctx, reward, mimeType)
	s.notifyStatus(reward)
	return reward, nil
}

// MyRewards 当前用户的申请列表
func (s *RewardService) MyRewards(input MyRewardsInput) ([]models.Reward, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrRewardFetchFailed
	}
	if input.UserID == 0 {
		return nil, 0, ErrRewardInvalid
	}

	list, total, err := s.repo.List(repository.RewardListFilter{
		UserID:   input.UserID,
		Status:   strings.TrimSpace(input.Status),
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, ErrRewardFetchFailed
	}
	return list, total, nil
}

// GetMyReward 获取当前用户的单个申请，校验归属
func (s *RewardService) GetMyReward(userID, rewardID uint) (*models.Reward, error) {
	if s == nil || s.repo == nil {
		return nil, ErrRewardFetchFailed
	}

	reward, err := s.repo.GetByID(rewardID)
	if err != nil {
		return nil, ErrRewardFetchFailed
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}
	if reward.UserID != userID {
		return nil, ErrRewardNotOwned
	}
	return reward, nil
}

// runVerification 执行 AI 核验并按判定策略回填申请状态。
// 星级门槛先于商品匹配门槛；核验失败不等于驳回。
func (s *RewardService) runVerification(ctx context.Context, reward *models.Reward, product *models.Product, imageData []byte, mimeType string) error {
	if s.oracle == nil {
		reward.AIAnalysisStatus = constants.AIAnalysisStatusFailed
		reward.AIDecisionLog = "AI analysis skipped: oracle not configured"
		return nil
	}

	result, err := s.oracle.Verify(ctx, ai.VerificationInput{
		ImageData:       imageData,
		MIMEType:        mimeType,
		ProductName:     product.Name,
		MarketplaceURLs: marketplaceURLMap(product.MarketplaceURLs),
	})
	if err != nil {
		logger.Z().Warn("AI 核验失败，转入人工审核",
			zap.Uint("user_id", reward.UserID),
			zap.String("coupon_code", reward.CouponCode),
			zap.Error(err))
		reward.AIAnalysisStatus = constants.AIAnalysisStatusFailed
		reward.AIDecisionLog = fmt.Sprintf("AI analysis failed: %v", err)
		return nil
	}

	rating := result.DetectedRating
	confidence := result.ConfidenceScore
	reward.AIVerified = true
	reward.AIAnalysisStatus = constants.AIAnalysisStatusSuccess
	reward.DetectedRating = &rating
	reward.DetectedComment = result.ExtractedTextSnippet
	reward.AIConfidence = &confidence

	if rating != constants.AutoApproveRating {
		return fmt.Errorf("%w: detected %d star(s)", ErrScreenshotRejected, rating)
	}

	if result.IsMatch && confidence > constants.AutoApproveMinConfidence && !result.IsEditedOrFake {
		reward.Status = constants.RewardStatusApproved
		reward.IsAutoApproved = true
		reward.AIDecisionLog = "Auto-Approved: " + result.DecisionReasoning
		return nil
	}

	reward.AIDecisionLog = "Manual Review Required: " + result.DecisionReasoning
	return nil
}

// readScreenshot 读取截图内容并校验大小与类型
func (s *RewardService) readScreenshot(file *multipart.FileHeader) ([]byte, string, error) {
	if s.cfg != nil && s.cfg.Upload.MaxSize > 0 && file.Size > s.cfg.Upload.MaxSize {
		return nil, "", ErrUploadTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", ErrUploadInvalid
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", ErrUploadInvalid
	}
	if len(data) == 0 {
		return nil, "", ErrUploadInvalid
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", ErrUploadTypeInvalid
	}
	return data, mimeType, nil
}

// saveScreenshot 截图落盘，文件名为 时间戳_用户ID+扩展名
func (s *RewardService) saveScreenshot(userID uint, originalName string, data []byte) (string, error) {
	dir := filepath.Join("uploads", "rewards")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	path := filepath.Join(dir, fmt.Sprintf("%d_%d%s", time.Now().Unix(), userID, ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *RewardService) removeScreenshot(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Z().Warn("清理截图失败", zap.String("path", path), zap.Error(err))
	}
}

// archiveScreenshot 归档截图到外部存储，失败保留本地路径
func (s *RewardService) archiveScreenshot(ctx context.Context, reward *models.Reward, mimeType string) {
	if s.archiver == nil || reward == nil {
		return
	}

	f, err := os.Open(reward.ScreenshotPath)
	if err != nil {
		logger.Z().Warn("读取截图归档失败", zap.Uint("reward_id", reward.ID), zap.Error(err))
		return
	}
	defer f.Close()

	url, err := s.archiver.Archive(ctx, filepath.Base(reward.ScreenshotPath), mimeType, f)
	if err != nil {
		logger.Z().Warn("截图归档失败，保留本地文件",
			zap.Uint("reward_id", reward.ID),
			zap.Error(err))
		return
	}

	reward.ScreenshotURL = url
	if err := s.repo.Update(reward); err != nil {
		logger.Z().Warn("回写归档链接失败", zap.Uint("reward_id", reward.ID), zap.Error(err))
	}
}

// notifyStatus 入队状态通知邮件，失败仅记日志
func (s *RewardService) notifyStatus(reward *models.Reward) {
	if s.queueClient == nil || reward == nil || reward.ID == 0 {
		return
	}
	if err := s.queueClient.EnqueueRewardStatusEmail(queue.RewardStatusEmailPayload{
		RewardID: reward.ID,
		Status:   reward.Status,
	}); err != nil {
		logger.Z().Warn("状态邮件入队失败", zap.Uint("reward_id", reward.ID), zap.Error(err))
	}
}

// marketplaceURLMap 提取商品各平台链接
func marketplaceURLMap(raw models.JSON) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	urls := make(map[string]string, len(raw))
	for platform, value := range raw {
		if str, ok := value.(string); ok && str != "" {
			urls[platform] = str
		}
	}
	return urls
}
