package ai

import (
	"errors"
	"testing"
)

func TestParseVerificationResultPlainJSON(t *testing.T) {
	raw := `{"is_match": true, "confidence_score": 0.92, "detected_rating": 5, "detected_platform": "Amazon", "is_edited_or_fake": false, "decision_reasoning": "ok"}`
	result, err := parseVerificationResult(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !result.IsMatch || result.DetectedRating != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ConfidenceScore != 0.92 {
		t.Fatalf("unexpected confidence: %v", result.ConfidenceScore)
	}
}

func TestParseVerificationResultMarkdownFenced(t *testing.T) {
	raw := "```json\n{\"is_match\": false, \"detected_rating\": 4, \"is_edited_or_fake\": true}\n```"
	result, err := parseVerificationResult(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if result.IsMatch || result.DetectedRating != 4 || !result.IsEditedOrFake {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseVerificationResultBadPayload(t *testing.T) {
	if _, err := parseVerificationResult("   "); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if _, err := parseVerificationResult("not json at all"); !errors.Is(err, ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}
