package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/fanxian-next/internal/i18n"
	"github.com/fanxian-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildRewardStatusContent(t *testing.T) {
	tests := []struct {
		name                string
		locale              string
		status              string
		reason              string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:   "approved_zh",
			locale: i18n.LocaleZH,
			status: "approved",
			wantSubjectContains: []string{
				"返现审核状态更新",
				"已通过",
			},
			wantBodyContains: []string{
				"审核已通过",
				"商品：蓝牙耳机",
				"防伪码：AB12CD34EF56",
			},
		},
		{
			name:   "rejected_en",
			locale: i18n.LocaleEN,
			status: "rejected",
			reason: "Screenshot does not show a 5-star rating",
			wantSubjectContains: []string{
				"Cashback status updated",
				"Rejected",
			},
			wantBodyContains: []string{
				"has been rejected",
				"Reason: Screenshot does not show a 5-star rating",
			},
		},
		{
			name:   "rejected_no_reason_zh",
			locale: i18n.LocaleZH,
			status: "rejected",
			wantSubjectContains: []string{
				"已驳回",
			},
			wantBodyContains: []string{
				"原因：未说明",
			},
		},
		{
			name:   "paid_tw",
			locale: i18n.LocaleTW,
			status: "paid",
			wantSubjectContains: []string{
				"返現審核狀態更新",
				"已打款",
			},
			wantBodyContains: []string{
				"已完成打款",
				"19.8",
			},
		},
		{
			name:   "pending_en",
			locale: i18n.LocaleEN,
			status: "pending",
			wantSubjectContains: []string{
				"Cashback status updated",
				"Pending Review",
			},
			wantBodyContains: []string{
				"Coupon: AB12CD34EF56",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := RewardStatusEmailInput{
				ProductName:     "蓝牙耳机",
				CouponCode:      "AB12CD34EF56",
				Status:          tt.status,
				Amount:          models.NewMoneyFromDecimal(decimal.NewFromFloat(19.8)),
				RejectionReason: tt.reason,
			}
			subject, body := buildRewardStatusContent(input, tt.locale)
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "smtp_550_no_such_recipient",
			err:  errors.New("550 No such recipient here"),
			want: true,
		},
		{
			name: "smtp_user_unknown",
			err:  errors.New("SMTP 5.1.1 user unknown"),
			want: true,
		},
		{
			name: "smtp_550_mailbox_unavailable",
			err:  errors.New("550 mailbox unavailable"),
			want: true,
		},
		{
			name: "network_timeout",
			err:  errors.New("dial tcp timeout"),
			want: false,
		},
		{
			name: "nil_error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tt.err); got != tt.want {
				t.Fatalf("isEmailRecipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("normalizeEmailSendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := normalizeEmailSendError(networkErr); !errors.Is(got, networkErr) {
		t.Fatalf("normalizeEmailSendError() should keep original error, got %v", got)
	}

	if got := normalizeEmailSendError(nil); got != nil {
		t.Fatalf("normalizeEmailSendError(nil) should be nil, got %v", got)
	}
}
