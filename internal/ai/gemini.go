package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fanxian-next/internal/config"
	"github.com/fanxian-next/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiOracle 基于 Google Gemini 的评价截图核验实现
type GeminiOracle struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiOracle 创建 Gemini 核验客户端
func NewGeminiOracle(ctx context.Context, cfg config.AIConfig) (*GeminiOracle, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(cfg.Temperature)
	model.ResponseMIMEType = "application/json"

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &GeminiOracle{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Close 关闭底层连接
func (o *GeminiOracle) Close() error {
	if o == nil || o.client == nil {
		return nil
	}
	return o.client.Close()
}

// Verify 对评价截图做自主核验
// 超时与网络失败统一向上返回错误，由调用方按「识别失败」处理。
func (o *GeminiOracle) Verify(ctx context.Context, input VerificationInput) (*VerificationResult, error) {
	if o == nil || o.model == nil {
		return nil, ErrNotConfigured
	}
	if len(input.ImageData) == 0 {
		return nil, ErrBadResponse
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	prompt := buildVerificationPrompt(input.ProductName, input.MarketplaceURLs)
	imageFormat := imageFormatFromMIME(input.MIMEType)

	resp, err := o.model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.ImageData(imageFormat, input.ImageData),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			raw.WriteString(string(text))
		}
	}

	result, err := parseVerificationResult(raw.String())
	if err != nil {
		logger.Warnw("ai_response_parse_failed", "error", err, "raw_len", raw.Len())
		return nil, err
	}
	return result, nil
}

// buildVerificationPrompt 构建核验提示词，要求模型做取证式审查并输出固定 JSON。
func buildVerificationPrompt(productName string, urls map[string]string) string {
	platforms := make([]string, 0, len(urls))
	for platform := range urls {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	var urlsContext strings.Builder
	for _, platform := range platforms {
		url := strings.TrimSpace(urls[platform])
		if url == "" {
			continue
		}
		urlsContext.WriteString(fmt.Sprintf("- %s: %s\n", titleCase(platform), url))
	}

	return fmt.Sprintf(`SYSTEM TASK: AUTONOMOUS REVIEW VERIFICATION
You are the final judge for a reward program. Verify whether this screenshot shows a GENUINE, 5-STAR review for a specific product.

TARGET PRODUCT DATA:
- Authorized Name: %q
- Authorized Store Links:
%s
INSTRUCTIONS (FORENSIC AUDIT):
1. Extract Reviewer Identity: find the name of the person who wrote the review.
2. Extract Unique Text Snippet: extract the first 2-3 sentences of the review text.
3. Verify Product Match: does the product name in the screenshot match the Authorized Name?
4. Verify Rating: is it a 5-star review?
5. Verify Marketplace: is it from Amazon, Flipkart, Meesho, Myntra, Nykaa, or JioMart?
6. FORGERY DETECTION (CRITICAL): look for editing markers, font mismatch between review text and surrounding UI, inconsistent lighting, blurry edges around text. If the text looks pasted or misaligned, flag it as fraudulent.

SAFETY NET LOGIC:
- On ANY sign of digital editing or font mismatch, set is_match to false.
- When unsure, lower confidence_score so that a human admin will check.

Return ONLY this JSON object:
{
  "is_match": true,
  "confidence_score": 0.95,
  "extracted_reviewer": "Name",
  "extracted_text_snippet": "Full text...",
  "detected_rating": 5,
  "detected_platform": "Amazon",
  "is_verified_badge_present": true,
  "is_edited_or_fake": false,
  "decision_reasoning": "Forensic reasoning. Mention whether fonts/UI look authentic or edited."
}`, productName, urlsContext.String())
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// imageFormatFromMIME 从 MIME 类型推断 genai 图片格式后缀。
func imageFormatFromMIME(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "jpeg"
	}
}
