package ai

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// 预定义错误
var (
	ErrNotConfigured = errors.New("ai oracle not configured")
	ErrEmptyResponse = errors.New("ai oracle returned empty response")
	ErrBadResponse   = errors.New("ai oracle returned unparseable response")
)

// VerificationInput 评价截图核验输入
type VerificationInput struct {
	ImageData       []byte            // 截图原始字节
	MIMEType        string            // image/jpeg 等
	ProductName     string            // 数据库内的商品授权名称
	MarketplaceURLs map[string]string // 各平台授权商品链接
}

// VerificationResult 评价截图核验结果
type VerificationResult struct {
	IsMatch              bool    `json:"is_match"`                  // 截图商品与授权商品是否一致
	ConfidenceScore      float64 `json:"confidence_score"`          // 商品匹配置信度（0-1）
	ExtractedReviewer    string  `json:"extracted_reviewer"`        // 识别出的评价人
	ExtractedTextSnippet string  `json:"extracted_text_snippet"`    // 识别出的评价文字片段
	DetectedRating       int     `json:"detected_rating"`           // 识别出的星级（1-5）
	DetectedPlatform     string  `json:"detected_platform"`         // 识别出的平台
	VerifiedBadgePresent bool    `json:"is_verified_badge_present"` // 是否带认证购买标识
	IsEditedOrFake       bool    `json:"is_edited_or_fake"`         // 是否存在 P 图/伪造痕迹
	DecisionReasoning    string  `json:"decision_reasoning"`        // 判定依据
}

// Oracle 评价截图核验接口
// AI 只给出识别事实，审批决策由调用方执行。
type Oracle interface {
	Verify(ctx context.Context, input VerificationInput) (*VerificationResult, error)
	Close() error
}

var jsonFenceRe = regexp.MustCompile("```(?:json)?")

// parseVerificationResult 解析模型输出，剥掉可能的 markdown 代码围栏。
func parseVerificationResult(raw string) (*VerificationResult, error) {
	cleaned := strings.TrimSpace(jsonFenceRe.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}
	var result VerificationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, ErrBadResponse
	}
	return &result, nil
}
