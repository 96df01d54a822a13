package service

import (
	"bytes"
	"errors"
	"regexp"
	"testing"

	"github.com/fanxian-next/internal/config"
	"github.com/fanxian-next/internal/constants"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/repository"
)

var codePattern = regexp.MustCompile(`^[0-9A-F]{12}$`)

func newQRCodeServiceForTest(t *testing.T) *QRCodeService {
	t.Helper()
	db := setupServiceDB(t)
	return NewQRCodeService(
		&config.Config{},
		repository.NewQRCodeRepository(db),
		repository.NewQRBatchRepository(db),
		repository.NewProductRepository(db),
	)
}

func TestDeriveCode(t *testing.T) {
	first := deriveCode("WEP", 1, "abcd1234")
	if !codePattern.MatchString(first) {
		t.Fatalf("code format invalid: %s", first)
	}
	if again := deriveCode("WEP", 1, "abcd1234"); again != first {
		t.Fatalf("same inputs should derive same code: %s vs %s", first, again)
	}
	if other := deriveCode("WEP", 1, "ffff0000"); other == first {
		t.Fatalf("different salt should derive different code")
	}
	if other := deriveCode("WEP", 2, "abcd1234"); other == first {
		t.Fatalf("different serial should derive different code")
	}
	if other := deriveCode("SSB", 1, "abcd1234"); other == first {
		t.Fatalf("different sku prefix should derive different code")
	}
}

func TestGenerateCodeSequentialSerials(t *testing.T) {
	svc := newQRCodeServiceForTest(t)
	db := models.DB
	company := seedCompany(t, db, "测试品牌")
	product := seedProduct(t, db, company.ID, "WEP", true)

	first, err := svc.GenerateCode(product.ID, nil)
	if err != nil {
		t.Fatalf("generate first code failed: %v", err)
	}
	if first.SerialNumber != 1 {
		t.Fatalf("first serial want 1 got %d", first.SerialNumber)
	}
	if !codePattern.MatchString(first.Code) {
		t.Fatalf("code format invalid: %s", first.Code)
	}

	second, err := svc.GenerateCode(product.ID, nil)
	if err != nil {
		t.Fatalf("generate second code failed: %v", err)
	}
	if second.SerialNumber != 2 {
		t.Fatalf("second serial want 2 got %d", second.SerialNumber)
	}
	if second.Code == first.Code {
		t.Fatalf("codes should be unique")
	}
}

func TestGenerateCodeProductNotFound(t *testing.T) {
	svc := newQRCodeServiceForTest(t)
	if _, err := svc.GenerateCode(99, nil); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestGenerateBulkQuantityBounds(t *testing.T) {
	svc := newQRCodeServiceForTest(t)
	db := models.DB
	company := seedCompany(t, db, "测试品牌")
	product := seedProduct(t, db, company.ID, "WEP", true)

	if _, err := svc.GenerateBulk(product.ID, 0, nil); !errors.Is(err, ErrCodeQuantityInvalid) {
		t.Fatalf("quantity 0 want ErrCodeQuantityInvalid got %v", err)
	}
	if _, err := svc.GenerateBulk(product.ID, constants.CodeBulkMaxQuantity+1, nil); !errors.Is(err, ErrCodeQuantityInvalid) {
		t.Fatalf("over limit want ErrCodeQuantityInvalid got %v", err)
	}

	codes, err := svc.GenerateBulk(product.ID, 5, nil)
	if err != nil {
		t.Fatalf("generate bulk failed: %v", err)
	}
	if len(codes) != 5 {
		t.Fatalf("want 5 codes got %d", len(codes))
	}
	seen := make(map[string]struct{}, len(codes))
	for i, code := range codes {
		if code.SerialNumber != i+1 {
			t.Fatalf("serial want %d got %d", i+1, code.SerialNumber)
		}
		if _, dup := seen[code.Code]; dup {
			t.Fatalf("duplicate code in bulk run: %s", code.Code)
		}
		seen[code.Code] = struct{}{}
	}
}

func TestGenerateBatchSheet(t *testing.T) {
	svc := newQRCodeServiceForTest(t)
	db := models.DB
	company := seedCompany(t, db, "测试品牌")
	product := seedProduct(t, db, company.ID, "WEP", true)

	sheet, err := svc.GenerateBatchSheet(product.ID, 6, nil)
	if err != nil {
		t.Fatalf("generate batch sheet failed: %v", err)
	}
	if sheet.Batch.BatchNumber != 1 {
		t.Fatalf("batch number want 1 got %d", sheet.Batch.BatchNumber)
	}
	if sheet.Batch.SerialStart != 1 || sheet.Batch.SerialEnd != 6 {
		t.Fatalf("serial range want 1-6 got %d-%d", sheet.Batch.SerialStart, sheet.Batch.SerialEnd)
	}
	if len(sheet.Codes) != 6 {
		t.Fatalf("want 6 codes got %d", len(sheet.Codes))
	}
	if !bytes.HasPrefix(sheet.PDF, []byte("%PDF")) {
		t.Fatalf("sheet should be a PDF document")
	}
	for _, code := range sheet.Codes {
		if code.BatchID == nil || *code.BatchID != sheet.Batch.ID {
			t.Fatalf("code should belong to batch %d", sheet.Batch.ID)
		}
	}

	// 第二个批次接续序号
	next, err := svc.GenerateBatchSheet(product.ID, 4, nil)
	if err != nil {
		t.Fatalf("generate second batch failed: %v", err)
	}
	if next.Batch.BatchNumber != 2 {
		t.Fatalf("second batch number want 2 got %d", next.Batch.BatchNumber)
	}
	if next.Batch.SerialStart != 7 || next.Batch.SerialEnd != 10 {
		t.Fatalf("second serial range want 7-10 got %d-%d", next.Batch.SerialStart, next.Batch.SerialEnd)
	}
}

func TestResolve(t *testing.T) {
	svc := newQRCodeServiceForTest(t)
	db := models.DB
	company := seedCompany(t, db, "测试品牌")
	product := seedProduct(t, db, company.ID, "WEP", true)

	code, err := svc.GenerateCode(product.ID, nil)
	if err != nil {
		t.Fatalf("generate code failed: %v", err)
	}

	result, err := svc.Resolve("  " + code.Code + "  ")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result.ScanCount != 1 {
		t.Fatalf("scan count want 1 got %d", result.ScanCount)
	}
	if result.Product == nil || result.Product.ID != product.ID {
		t.Fatalf("resolve should return the owning product")
	}

	again, err := svc.Resolve(code.Code)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if again.ScanCount != 2 {
		t.Fatalf("scan count want 2 got %d", again.ScanCount)
	}

	if _, err := svc.Resolve("DEADBEEF0000"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("unknown code want ErrCodeNotFound got %v", err)
	}
	if _, err := svc.Resolve(""); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("empty code want ErrCodeInvalid got %v", err)
	}
}

func TestResolveUsedCode(t *testing.T) {
	svc := newQRCodeServiceForTest(t)
	db := models.DB
	company := seedCompany(t, db, "测试品牌")
	product := seedProduct(t, db, company.ID, "WEP", true)

	code, err := svc.GenerateCode(product.ID, nil)
	if err != nil {
		t.Fatalf("generate code failed: %v", err)
	}
	if err := db.Model(&models.QRCode{}).Where("id = ?", code.ID).Update("is_used", true).Error; err != nil {
		t.Fatalf("mark code used failed: %v", err)
	}

	if _, err := svc.Resolve(code.Code); !errors.Is(err, ErrCodeAlreadyUsed) {
		t.Fatalf("used code want ErrCodeAlreadyUsed got %v", err)
	}
}

func TestResolveInactiveProduct(t *testing.T) {
	svc := newQRCodeServiceForTest(t)
	db := models.DB
	company := seedCompany(t, db, "测试品牌")
	product := seedProduct(t, db, company.ID, "WEP", true)

	code, err := svc.GenerateCode(product.ID, nil)
	if err != nil {
		t.Fatalf("generate code failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	if _, err := svc.Resolve(code.Code); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("inactive product want ErrProductNotAvailable got %v", err)
	}
}

func TestGenerateCodeRetriesOnCollision(t *testing.T) {
	svc := newQRCodeServiceForTest(t)
	db := models.DB
	company := seedCompany(t, db, "测试品牌")
	product := seedProduct(t, db, company.ID, "WEP", true)
	other := seedProduct(t, db, company.ID, "SSB", true)

	// 预置一条占用了首个候选码值的记录，强制首次推导碰撞
	taken := deriveCode("WEP", 1, "aaaaaaaa")
	if err := db.Create(&models.QRCode{ProductID: other.ID, Code: taken, SerialNumber: 1}).Error; err != nil {
		t.Fatalf("seed colliding code failed: %v", err)
	}

	salts := []string{"aaaaaaaa", "bbbbbbbb"}
	calls := 0
	svc.saltFn = func() string {
		salt := salts[len(salts)-1]
		if calls < len(salts) {
			salt = salts[calls]
		}
		calls++
		return salt
	}

	code, err := svc.GenerateCode(product.ID, nil)
	if err != nil {
		t.Fatalf("generate with collision failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("want 2 derivation attempts got %d", calls)
	}
	if code.Code != deriveCode("WEP", 1, "bbbbbbbb") {
		t.Fatalf("code should come from the retry salt, got %s", code.Code)
	}
	if code.Code == taken {
		t.Fatalf("collision was not avoided")
	}
}

func TestGenerateCodeExhaustion(t *testing.T) {
	svc := newQRCodeServiceForTest(t)
	db := models.DB
	company := seedCompany(t, db, "测试品牌")
	product := seedProduct(t, db, company.ID, "WEP", true)
	other := seedProduct(t, db, company.ID, "SSB", true)

	taken := deriveCode("WEP", 1, "aaaaaaaa")
	if err := db.Create(&models.QRCode{ProductID: other.ID, Code: taken, SerialNumber: 1}).Error; err != nil {
		t.Fatalf("seed colliding code failed: %v", err)
	}

	calls := 0
	svc.saltFn = func() string {
		calls++
		return "aaaaaaaa"
	}

	if _, err := svc.GenerateCode(product.ID, nil); !errors.Is(err, ErrCodeGenerationExhausted) {
		t.Fatalf("want ErrCodeGenerationExhausted got %v", err)
	}
	if calls != constants.CodeMaxGenAttempts {
		t.Fatalf("attempts want %d got %d", constants.CodeMaxGenAttempts, calls)
	}
}

func TestListBatchesFilterByCompany(t *testing.T) {
	svc := newQRCodeServiceForTest(t)
	db := models.DB
	first := seedCompany(t, db, "品牌一")
	second := seedCompany(t, db, "品牌二")
	firstProduct := seedProduct(t, db, first.ID, "WEP", true)
	secondProduct := seedProduct(t, db, second.ID, "SSB", true)

	if _, err := svc.GenerateBatchSheet(firstProduct.ID, 2, nil); err != nil {
		t.Fatalf("generate first batch failed: %v", err)
	}
	if _, err := svc.GenerateBatchSheet(secondProduct.ID, 2, nil); err != nil {
		t.Fatalf("generate second batch failed: %v", err)
	}

	list, total, err := svc.ListBatches(QRBatchListInput{CompanyID: first.ID, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list batches by company failed: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("company filter want 1 batch got total=%d len=%d", total, len(list))
	}
	if list[0].ProductID != firstProduct.ID {
		t.Fatalf("batch belongs to wrong product: %d", list[0].ProductID)
	}

	_, total, err = svc.ListBatches(QRBatchListInput{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list all batches failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("unfiltered want 2 batches got %d", total)
	}
}
