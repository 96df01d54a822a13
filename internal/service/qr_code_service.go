package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fanxian-next/internal/config"
	"github.com/fanxian-next/internal/constants"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/printer"
	"github.com/fanxian-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QRCodeService 防伪码服务
type QRCodeService struct {
	cfg         *config.Config
	repo        repository.QRCodeRepository
	batchRepo   repository.QRBatchRepository
	productRepo repository.ProductRepository
	saltFn      func() string
}

// QRCodeListInput 防伪码列表输入
type QRCodeListInput struct {
	ProductID uint
	BatchID   uint
	Code      string
	IsUsed    *bool
	Page      int
	PageSize  int
}

// QRBatchListInput 批次列表输入
type QRBatchListInput struct {
	ProductID uint
	CompanyID uint
	Page      int
	PageSize  int
}

// ResolveResult 扫码落地结果
type ResolveResult struct {
	Code      *models.QRCode  `json:"code"`
	Product   *models.Product `json:"product"`
	ScanCount int             `json:"scan_count"`
}

// BatchSheet PDF 批次生成结果
type BatchSheet struct {
	Batch    *models.QRBatch
	Codes    []models.QRCode
	PDF      []byte
	Filename string
}

// NewQRCodeService 创建防伪码服务
func NewQRCodeService(cfg *config.Config, repo repository.QRCodeRepository, batchRepo repository.QRBatchRepository, productRepo repository.ProductRepository) *QRCodeService {
	return &QRCodeService{
		cfg:         cfg,
		repo:        repo,
		batchRepo:   batchRepo,
		productRepo: productRepo,
		saltFn:      newCodeSalt,
	}
}

// GenerateCode 为商品生成单个防伪码
func (s *QRCodeService) GenerateCode(productID uint, createdBy *uint) (*models.QRCode, error) {
	if s == nil || s.repo == nil || s.productRepo == nil {
		return nil, ErrCodeGenerateFailed
	}
	if productID == 0 {
		return nil, ErrProductInvalid
	}

	var created *models.QRCode
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.WithTx(tx).GetByIDForUpdate(productID)
		if err != nil {
			return ErrCodeGenerateFailed
		}
		if product == nil {
			return ErrProductNotFound
		}

		codeRepo := s.repo.WithTx(tx)
		maxSerial, err := s.batchRepo.WithTx(tx).MaxSerialNumber(productID)
		if err != nil {
			return ErrCodeGenerateFailed
		}
		serial := maxSerial + 1

		code, err := s.deriveUniqueCode(codeRepo, product.SKUPrefix, serial)
		if err != nil {
			return err
		}

		record := &models.QRCode{
			ProductID:    productID,
			Code:         code,
			SerialNumber: serial,
			CreatedAt:    time.Now(),
		}
		if err := codeRepo.Create(record); err != nil {
			return ErrCodeGenerateFailed
		}
		created = record
		return nil
	})
	if err != nil {
		if isKnownError(err) {
			return nil, err
		}
		return nil, ErrCodeGenerateFailed
	}
	return created, nil
}

// GenerateBulk 批量生成防伪码（不落批次，仅连号）
func (s *QRCodeService) GenerateBulk(productID uint, quantity int, createdBy *uint) ([]models.QRCode, error) {
	if s == nil || s.repo == nil || s.productRepo == nil {
		return nil, ErrCodeGenerateFailed
	}
	if productID == 0 {
		return nil, ErrProductInvalid
	}
	if quantity <= 0 || quantity > constants.CodeBulkMaxQuantity {
		return nil, ErrCodeQuantityInvalid
	}

	var generated []models.QRCode
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.WithTx(tx).GetByIDForUpdate(productID)
		if err != nil {
			return ErrCodeGenerateFailed
		}
		if product == nil {
			return ErrProductNotFound
		}

		codeRepo := s.repo.WithTx(tx)
		codes, _, err := s.buildSerialRun(tx, codeRepo, product, quantity, nil)
		if err != nil {
			return err
		}
		if err := codeRepo.CreateBatch(codes); err != nil {
			return ErrCodeGenerateFailed
		}
		generated = codes
		return nil
	})
	if err != nil {
		if isKnownError(err) {
			return nil, err
		}
		return nil, ErrCodeGenerateFailed
	}
	return generated, nil
}

// GenerateBatchSheet 生成一个印刷批次并渲染 A4 版式 PDF
func (s *QRCodeService) GenerateBatchSheet(productID uint, quantity int, createdBy *uint) (*BatchSheet, error) {
	if s == nil || s.repo == nil || s.batchRepo == nil || s.productRepo == nil {
		return nil, ErrCodeGenerateFailed
	}
	if productID == 0 {
		return nil, ErrProductInvalid
	}
	if quantity <= 0 || quantity > constants.CodeBatchMaxQuantity {
		return nil, ErrCodeQuantityInvalid
	}

	var (
		batch     *models.QRBatch
		codes     []models.QRCode
		productNm string
	)
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.WithTx(tx).GetByIDForUpdate(productID)
		if err != nil {
			return ErrCodeGenerateFailed
		}
		if product == nil {
			return ErrProductNotFound
		}
		productNm = product.Name

		batchRepo := s.batchRepo.WithTx(tx)
		maxBatch, err := batchRepo.MaxBatchNumber(productID)
		if err != nil {
			return ErrCodeGenerateFailed
		}
		maxSerial, err := batchRepo.MaxSerialNumber(productID)
		if err != nil {
			return ErrCodeGenerateFailed
		}

		record := &models.QRBatch{
			ProductID:   productID,
			BatchNumber: maxBatch + 1,
			Quantity:    quantity,
			SerialStart: maxSerial + 1,
			SerialEnd:   maxSerial + quantity,
			CreatedBy:   createdBy,
			CreatedAt:   time.Now(),
		}
		if err := batchRepo.Create(record); err != nil {
			return ErrCodeGenerateFailed
		}

		codeRepo := s.repo.WithTx(tx)
		run, _, err := s.buildSerialRun(tx, codeRepo, product, quantity, &record.ID)
		if err != nil {
			return err
		}
		if err := codeRepo.CreateBatch(run); err != nil {
			return ErrCodeGenerateFailed
		}

		batch = record
		codes = run
		return nil
	})
	if err != nil {
		if isKnownError(err) {
			return nil, err
		}
		return nil, ErrCodeGenerateFailed
	}

	items := make([]printer.SheetItem, 0, len(codes))
	for _, c := range codes {
		items = append(items, printer.SheetItem{
			Code: c.Code,
			URL:  s.CodeURL(c.Code),
		})
	}
	pdf, err := printer.GenerateSheetPDF(items, printer.SheetConfig{
		ProductName: productNm,
		BatchNumber: batch.BatchNumber,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return nil, ErrCodeSheetRenderFailed
	}

	return &BatchSheet{
		Batch:    batch,
		Codes:    codes,
		PDF:      pdf,
		Filename: fmt.Sprintf("QR_%d_%s.pdf", quantity, strings.ReplaceAll(productNm, " ", "_")),
	}, nil
}

// Resolve 扫码落地：记录扫码次数并返回商品信息
func (s *QRCodeService) Resolve(code string) (*ResolveResult, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCodeFetchFailed
	}

	normalized := normalizeCode(code)
	if normalized == "" {
		return nil, ErrCodeInvalid
	}

	record, err := s.repo.GetByCode(normalized)
	if err != nil {
		return nil, ErrCodeFetchFailed
	}
	if record == nil {
		return nil, ErrCodeNotFound
	}
	if record.IsUsed {
		return nil, ErrCodeAlreadyUsed
	}
	if record.Product == nil || !record.Product.IsActive {
		return nil, ErrProductNotAvailable
	}

	if err := s.repo.RecordScan(record.ID, time.Now()); err != nil {
		return nil, ErrCodeFetchFailed
	}
	record.ScanCount++

	return &ResolveResult{
		Code:      record,
		Product:   record.Product,
		ScanCount: record.ScanCount,
	}, nil
}

// CodeImagePNG 渲染单个防伪码的 PNG 图片
func (s *QRCodeService) CodeImagePNG(code string) ([]byte, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCodeFetchFailed
	}

	normalized := normalizeCode(code)
	if normalized == "" {
		return nil, ErrCodeInvalid
	}
	record, err := s.repo.GetByCode(normalized)
	if err != nil {
		return nil, ErrCodeFetchFailed
	}
	if record == nil {
		return nil, ErrCodeNotFound
	}

	size := 300
	if s.cfg != nil && s.cfg.QR.ImageSize > 0 {
		size = s.cfg.QR.ImageSize
	}
	png, err := printer.EncodeQRPNG(s.CodeURL(record.Code), size)
	if err != nil {
		return nil, ErrCodeImageRenderFailed
	}
	return png, nil
}

// ListCodes 防伪码列表
func (s *QRCodeService) ListCodes(input QRCodeListInput) ([]models.QRCode, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrCodeFetchFailed
	}

	list, total, err := s.repo.List(repository.QRCodeListFilter{
		ProductID: input.ProductID,
		BatchID:   input.BatchID,
		Code:      normalizeCode(input.Code),
		IsUsed:    input.IsUsed,
		Page:      input.Page,
		PageSize:  input.PageSize,
	})
	if err != nil {
		return nil, 0, ErrCodeFetchFailed
	}
	return list, total, nil
}

// ListBatches 批次列表
func (s *QRCodeService) ListBatches(input QRBatchListInput) ([]models.QRBatch, int64, error) {
	if s == nil || s.batchRepo == nil {
		return nil, 0, ErrCodeFetchFailed
	}

	list, total, err := s.batchRepo.List(repository.QRBatchListFilter{
		ProductID: input.ProductID,
		CompanyID: input.CompanyID,
		Page:      input.Page,
		PageSize:  input.PageSize,
	})
	if err != nil {
		return nil, 0, ErrCodeFetchFailed
	}
	return list, total, nil
}

// CodeURL 码值对应的扫码落地地址
func (s *QRCodeService) CodeURL(code string) string {
	base := "http://localhost:8080"
	if s != nil && s.cfg != nil && s.cfg.QR.BaseURL != "" {
		base = strings.TrimRight(s.cfg.QR.BaseURL, "/")
	}
	return fmt.Sprintf("%s/qr/%s", base, code)
}

// buildSerialRun 在事务内按连号生成一段防伪码（不落库）
func (s *QRCodeService) buildSerialRun(tx *gorm.DB, codeRepo repository.QRCodeRepository, product *models.Product, quantity int, batchID *uint) ([]models.QRCode, int, error) {
	maxSerial, err := s.batchRepo.WithTx(tx).MaxSerialNumber(product.ID)
	if err != nil {
		return nil, 0, ErrCodeGenerateFailed
	}
	serialStart := maxSerial + 1

	now := time.Now()
	codes := make([]models.QRCode, 0, quantity)
	seen := make(map[string]struct{}, quantity)
	for i := 0; i < quantity; i++ {
		serial := serialStart + i
		var code string
		for attempt := 0; attempt < constants.CodeMaxGenAttempts; attempt++ {
			candidate := deriveCode(product.SKUPrefix, serial, s.salt())
			if _, dup := seen[candidate]; dup {
				continue
			}
			exists, err := codeRepo.ExistsByCode(candidate)
			if err != nil {
				return nil, 0, ErrCodeGenerateFailed
			}
			if !exists {
				code = candidate
				break
			}
		}
		if code == "" {
			return nil, 0, ErrCodeGenerationExhausted
		}
		seen[code] = struct{}{}
		codes = append(codes, models.QRCode{
			ProductID:    product.ID,
			BatchID:      batchID,
			Code:         code,
			SerialNumber: serial,
			CreatedAt:    now,
		})
	}
	return codes, serialStart, nil
}

// deriveUniqueCode 生成单个码值，碰撞时换盐重试
func (s *QRCodeService) deriveUniqueCode(codeRepo repository.QRCodeRepository, skuPrefix string, serial int) (string, error) {
	for attempt := 0; attempt < constants.CodeMaxGenAttempts; attempt++ {
		candidate := deriveCode(skuPrefix, serial, s.salt())
		exists, err := codeRepo.ExistsByCode(candidate)
		if err != nil {
			return "", ErrCodeGenerateFailed
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}

// deriveCode 码值推导：SHA-256("{SKU}-{序号}-{盐}") 十六进制前 12 位大写
func deriveCode(skuPrefix string, serial int, salt string) string {
	seed := fmt.Sprintf("%s-%d-%s", skuPrefix, serial, salt)
	sum := sha256.Sum256([]byte(seed))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:constants.CodeLength])
}

func (s *QRCodeService) salt() string {
	if s != nil && s.saltFn != nil {
		return s.saltFn()
	}
	return newCodeSalt()
}

func newCodeSalt() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:constants.CodeSaltBytes*2]
}

func normalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// isKnownError 是否为对外可识别的业务错误
func isKnownError(err error) bool {
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrProductInvalid),
		errors.Is(err, ErrProductNotAvailable),
		errors.Is(err, ErrCodeQuantityInvalid),
		errors.Is(err, ErrCodeGenerationExhausted),
		errors.Is(err, ErrCodeNotFound),
		errors.Is(err, ErrCodeAlreadyUsed),
		errors.Is(err, ErrCodeSheetRenderFailed):
		return true
	}
	return false
}
