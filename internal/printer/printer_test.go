package printer

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestEncodeQRPNG(t *testing.T) {
	data, err := EncodeQRPNG("https://example.com/qr/ABCDEF123456", 128)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty png data")
	}
	// PNG 魔数
	if !bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("expected png header, got % x", data[:4])
	}
}

func TestEncodeQRPNGEmptyContent(t *testing.T) {
	if _, err := EncodeQRPNG("   ", 128); !errors.Is(err, ErrNoCodes) {
		t.Fatalf("expected ErrNoCodes, got %v", err)
	}
}

func TestGenerateSheetPDF(t *testing.T) {
	items := make([]SheetItem, 0, 30)
	for i := 0; i < 30; i++ {
		items = append(items, SheetItem{
			Code: "CODE" + string(rune('A'+i%26)),
			URL:  "https://example.com/qr/CODE",
		})
	}
	data, err := GenerateSheetPDF(items, SheetConfig{
		ProductName: "Herbal Face Wash",
		BatchNumber: 3,
		GeneratedAt: time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected pdf header")
	}
}

func TestGenerateSheetPDFEmpty(t *testing.T) {
	if _, err := GenerateSheetPDF(nil, SheetConfig{}); !errors.Is(err, ErrNoCodes) {
		t.Fatalf("expected ErrNoCodes, got %v", err)
	}
}
