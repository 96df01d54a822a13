package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fanxian-next/internal/ai"
	"github.com/fanxian-next/internal/config"
	"github.com/fanxian-next/internal/constants"
	"github.com/fanxian-next/internal/models"
	"github.com/fanxian-next/internal/repository"
)

type fakeOracle struct {
	result *ai.VerificationResult
	err    error
	calls  int
}

func (f *fakeOracle) Verify(ctx context.Context, input ai.VerificationInput) (*ai.VerificationResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeOracle) Close() error { return nil }

// pngBytes 拼一段带 PNG 魔数的假图片，seed 用于制造不同的哈希。
func pngBytes(seed string) []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), []byte("fake-image-"+seed)...)
}

// makeScreenshot 构造 multipart 表单文件，模拟用户上传。
func makeScreenshot(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("screenshot", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/rewards", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart form failed: %v", err)
	}
	files := req.MultipartForm.File["screenshot"]
	if len(files) != 1 {
		t.Fatalf("want 1 form file got %d", len(files))
	}
	return files[0]
}

type rewardTestEnv struct {
	svc     *RewardService
	codeSvc *QRCodeService
	oracle  *fakeOracle
	product *models.Product
}

func newRewardServiceForTest(t *testing.T, oracle *fakeOracle) *rewardTestEnv {
	t.Helper()
	t.Chdir(t.TempDir())
	db := setupServiceDB(t)
	company := seedCompany(t, db, "测试品牌")
	product := seedProduct(t, db, company.ID, "WEP", true)

	cfg := &config.Config{}
	codeSvc := NewQRCodeService(
		cfg,
		repository.NewQRCodeRepository(db),
		repository.NewQRBatchRepository(db),
		repository.NewProductRepository(db),
	)
	var o ai.Oracle
	if oracle != nil {
		o = oracle
	}
	svc := NewRewardService(
		cfg,
		repository.NewRewardRepository(db),
		repository.NewQRCodeRepository(db),
		o,
		nil,
		nil,
	)
	return &rewardTestEnv{svc: svc, codeSvc: codeSvc, oracle: oracle, product: product}
}

func (e *rewardTestEnv) freshCode(t *testing.T) *models.QRCode {
	t.Helper()
	code, err := e.codeSvc.GenerateCode(e.product.ID, nil)
	if err != nil {
		t.Fatalf("generate coupon code failed: %v", err)
	}
	return code
}

func submitInput(userID uint, couponCode string, screenshot *multipart.FileHeader) SubmitRewardInput {
	return SubmitRewardInput{
		UserID:     userID,
		Name:       "Ravi Kumar",
		Phone:      "+919876543210",
		Platform:   "Amazon",
		UPIID:      fmt.Sprintf("ravi%d@upi", userID),
		CouponCode: couponCode,
		Screenshot: screenshot,
	}
}

func fiveStarResult() *ai.VerificationResult {
	return &ai.VerificationResult{
		IsMatch:           true,
		ConfidenceScore:   0.95,
		DetectedRating:    5,
		DetectedPlatform:  "amazon",
		DecisionReasoning: "product and five-star rating match",
	}
}

func TestSubmitRewardAutoApproved(t *testing.T) {
	oracle := &fakeOracle{result: fiveStarResult()}
	env := newRewardServiceForTest(t, oracle)
	code := env.freshCode(t)

	reward, err := env.svc.SubmitReward(context.Background(), submitInput(1, code.Code, makeScreenshot(t, "review.png", pngBytes("auto"))))
	if err != nil {
		t.Fatalf("submit reward failed: %v", err)
	}
	if oracle.calls != 1 {
		t.Fatalf("oracle calls want 1 got %d", oracle.calls)
	}
	if reward.Status != constants.RewardStatusApproved || !reward.IsAutoApproved {
		t.Fatalf("want auto-approved, got status=%s auto=%v", reward.Status, reward.IsAutoApproved)
	}
	if !reward.AIVerified || reward.AIAnalysisStatus != constants.AIAnalysisStatusSuccess {
		t.Fatalf("ai analysis state unexpected: verified=%v status=%s", reward.AIVerified, reward.AIAnalysisStatus)
	}
	if !strings.HasPrefix(reward.AIDecisionLog, "Auto-Approved") {
		t.Fatalf("decision log unexpected: %s", reward.AIDecisionLog)
	}
	if reward.PaymentAmount.String() != env.product.CashbackAmount.String() {
		t.Fatalf("payment amount want %s got %s", env.product.CashbackAmount, reward.PaymentAmount)
	}

	var stored models.QRCode
	if err := models.DB.First(&stored, code.ID).Error; err != nil {
		t.Fatalf("load code failed: %v", err)
	}
	if !stored.IsUsed || stored.UsedBy == nil || *stored.UsedBy != 1 {
		t.Fatalf("coupon code should be consumed by user 1")
	}
}

func TestSubmitRewardManualReviewOnLowConfidence(t *testing.T) {
	result := fiveStarResult()
	result.ConfidenceScore = 0.5
	env := newRewardServiceForTest(t, &fakeOracle{result: result})
	code := env.freshCode(t)

	reward, err := env.svc.SubmitReward(context.Background(), submitInput(1, code.Code, makeScreenshot(t, "review.png", pngBytes("manual"))))
	if err != nil {
		t.Fatalf("submit reward failed: %v", err)
	}
	if reward.Status != constants.RewardStatusPending || reward.IsAutoApproved {
		t.Fatalf("low confidence should stay pending, got status=%s auto=%v", reward.Status, reward.IsAutoApproved)
	}
	if !strings.HasPrefix(reward.AIDecisionLog, "Manual Review Required") {
		t.Fatalf("decision log unexpected: %s", reward.AIDecisionLog)
	}
}

func TestSubmitRewardLowRatingRejected(t *testing.T) {
	result := fiveStarResult()
	result.DetectedRating = 4
	env := newRewardServiceForTest(t, &fakeOracle{result: result})
	code := env.freshCode(t)

	_, err := env.svc.SubmitReward(context.Background(), submitInput(1, code.Code, makeScreenshot(t, "review.png", pngBytes("low"))))
	if !errors.Is(err, ErrScreenshotRejected) {
		t.Fatalf("want ErrScreenshotRejected got %v", err)
	}
	if !strings.Contains(err.Error(), "4 star") {
		t.Fatalf("error should carry detected rating: %v", err)
	}

	// 星级不达标时防伪码不消耗，申请不落库
	var stored models.QRCode
	if err := models.DB.First(&stored, code.ID).Error; err != nil {
		t.Fatalf("load code failed: %v", err)
	}
	if stored.IsUsed {
		t.Fatalf("coupon code should not be consumed on rejection")
	}
	var count int64
	if err := models.DB.Model(&models.Reward{}).Count(&count).Error; err != nil {
		t.Fatalf("count rewards failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("no reward row should be created, got %d", count)
	}
}

func TestSubmitRewardOracleFailureFallsBackToManual(t *testing.T) {
	env := newRewardServiceForTest(t, &fakeOracle{err: errors.New("model timeout")})
	code := env.freshCode(t)

	reward, err := env.svc.SubmitReward(context.Background(), submitInput(1, code.Code, makeScreenshot(t, "review.png", pngBytes("失败"))))
	if err != nil {
		t.Fatalf("oracle failure must not block submission: %v", err)
	}
	if reward.Status != constants.RewardStatusPending {
		t.Fatalf("status want pending got %s", reward.Status)
	}
	if reward.AIAnalysisStatus != constants.AIAnalysisStatusFailed {
		t.Fatalf("analysis status want failed got %s", reward.AIAnalysisStatus)
	}
	if reward.AIVerified {
		t.Fatalf("ai verified should stay false on failure")
	}

	var stored models.QRCode
	if err := models.DB.First(&stored, code.ID).Error; err != nil {
		t.Fatalf("load code failed: %v", err)
	}
	if !stored.IsUsed {
		t.Fatalf("coupon code should be consumed when falling back to manual review")
	}
}

func TestSubmitRewardWithoutOracle(t *testing.T) {
	env := newRewardServiceForTest(t, nil)
	code := env.freshCode(t)

	reward, err := env.svc.SubmitReward(context.Background(), submitInput(1, code.Code, makeScreenshot(t, "review.png", pngBytes("no-oracle"))))
	if err != nil {
		t.Fatalf("submit without oracle failed: %v", err)
	}
	if reward.Status != constants.RewardStatusPending || reward.AIAnalysisStatus != constants.AIAnalysisStatusFailed {
		t.Fatalf("want pending/failed got %s/%s", reward.Status, reward.AIAnalysisStatus)
	}
}

func TestSubmitRewardInvalidUPI(t *testing.T) {
	env := newRewardServiceForTest(t, &fakeOracle{result: fiveStarResult()})
	code := env.freshCode(t)

	input := submitInput(1, code.Code, makeScreenshot(t, "review.png", pngBytes("upi")))
	input.UPIID = "not a upi"
	if _, err := env.svc.SubmitReward(context.Background(), input); !errors.Is(err, ErrUPIInvalid) {
		t.Fatalf("want ErrUPIInvalid got %v", err)
	}
}

func TestSubmitRewardDuplicateScreenshot(t *testing.T) {
	env := newRewardServiceForTest(t, &fakeOracle{result: fiveStarResult()})
	data := pngBytes("shared")

	first := env.freshCode(t)
	if _, err := env.svc.SubmitReward(context.Background(), submitInput(1, first.Code, makeScreenshot(t, "review.png", data))); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	second := env.freshCode(t)
	input := submitInput(2, second.Code, makeScreenshot(t, "copy.png", data))
	if _, err := env.svc.SubmitReward(context.Background(), input); !errors.Is(err, ErrScreenshotDuplicate) {
		t.Fatalf("same screenshot want ErrScreenshotDuplicate got %v", err)
	}
}

func TestSubmitRewardUPIConflict(t *testing.T) {
	env := newRewardServiceForTest(t, &fakeOracle{result: fiveStarResult()})

	first := env.freshCode(t)
	if _, err := env.svc.SubmitReward(context.Background(), submitInput(1, first.Code, makeScreenshot(t, "a.png", pngBytes("a")))); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	second := env.freshCode(t)
	input := submitInput(2, second.Code, makeScreenshot(t, "b.png", pngBytes("b")))
	input.UPIID = "ravi1@upi" // 用户 1 已绑定的收款账号
	if _, err := env.svc.SubmitReward(context.Background(), input); !errors.Is(err, ErrUPIConflict) {
		t.Fatalf("want ErrUPIConflict got %v", err)
	}
}

func TestSubmitRewardUsedCode(t *testing.T) {
	env := newRewardServiceForTest(t, &fakeOracle{result: fiveStarResult()})
	code := env.freshCode(t)

	if _, err := env.svc.SubmitReward(context.Background(), submitInput(1, code.Code, makeScreenshot(t, "a.png", pngBytes("first")))); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	input := submitInput(2, code.Code, makeScreenshot(t, "b.png", pngBytes("second")))
	input.UPIID = "other2@upi"
	if _, err := env.svc.SubmitReward(context.Background(), input); !errors.Is(err, ErrCodeAlreadyUsed) {
		t.Fatalf("consumed code want ErrCodeAlreadyUsed got %v", err)
	}
}

func TestSubmitRewardNonImageUpload(t *testing.T) {
	env := newRewardServiceForTest(t, &fakeOracle{result: fiveStarResult()})
	code := env.freshCode(t)

	input := submitInput(1, code.Code, makeScreenshot(t, "notes.txt", []byte("plain text, not an image")))
	if _, err := env.svc.SubmitReward(context.Background(), input); !errors.Is(err, ErrUploadTypeInvalid) {
		t.Fatalf("want ErrUploadTypeInvalid got %v", err)
	}
}

func TestGetMyRewardOwnership(t *testing.T) {
	env := newRewardServiceForTest(t, &fakeOracle{result: fiveStarResult()})
	code := env.freshCode(t)

	reward, err := env.svc.SubmitReward(context.Background(), submitInput(1, code.Code, makeScreenshot(t, "a.png", pngBytes("own"))))
	if err != nil {
		t.Fatalf("submit reward failed: %v", err)
	}

	if _, err := env.svc.GetMyReward(2, reward.ID); !errors.Is(err, ErrRewardNotOwned) {
		t.Fatalf("foreign reward want ErrRewardNotOwned got %v", err)
	}
	got, err := env.svc.GetMyReward(1, reward.ID)
	if err != nil {
		t.Fatalf("get own reward failed: %v", err)
	}
	if got.ID != reward.ID {
		t.Fatalf("reward id want %d got %d", reward.ID, got.ID)
	}

	if _, err := env.svc.GetMyReward(1, 9999); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("missing reward want ErrRewardNotFound got %v", err)
	}
}

func TestMyRewardsFilterByStatus(t *testing.T) {
	env := newRewardServiceForTest(t, &fakeOracle{result: fiveStarResult()})

	code := env.freshCode(t)
	if _, err := env.svc.SubmitReward(context.Background(), submitInput(1, code.Code, makeScreenshot(t, "a.png", pngBytes("list")))); err != nil {
		t.Fatalf("submit reward failed: %v", err)
	}

	list, total, err := env.svc.MyRewards(MyRewardsInput{UserID: 1, Status: constants.RewardStatusApproved, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list rewards failed: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("want 1 approved reward got total=%d len=%d", total, len(list))
	}

	list, total, err = env.svc.MyRewards(MyRewardsInput{UserID: 1, Status: constants.RewardStatusRejected, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list rejected rewards failed: %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Fatalf("want no rejected rewards got total=%d len=%d", total, len(list))
	}
}
