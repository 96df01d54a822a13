package printer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// 预定义错误
var (
	ErrNoCodes = errors.New("no codes to render")
)

// SheetItem 打印单元：一个防伪码及其落地链接
type SheetItem struct {
	Code string // 码值
	URL  string // 扫码落地链接
}

// SheetConfig 码表 PDF 配置
type SheetConfig struct {
	ProductName string
	BatchNumber int
	Cols        int
	Rows        int
	GeneratedAt time.Time
}

// EncodeQRPNG 渲染单个防伪码的 PNG 图片。
func EncodeQRPNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoCodes
	}
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(content, qrcode.High, size)
}

// GenerateSheetPDF 渲染 A4 网格码表 PDF（默认 4 列 6 行，15mm 页边距）。
func GenerateSheetPDF(items []SheetItem, cfg SheetConfig) ([]byte, error) {
	if len(items) == 0 {
		return nil, ErrNoCodes
	}
	cols := cfg.Cols
	if cols <= 0 {
		cols = 4
	}
	rows := cfg.Rows
	if rows <= 0 {
		rows = 6
	}
	generatedAt := cfg.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	const (
		pageWidth  = 210.0
		pageHeight = 297.0
		margin     = 15.0
	)
	usableWidth := pageWidth - 2*margin
	usableHeight := pageHeight - 2*margin
	cellWidth := usableWidth / float64(cols)
	cellHeight := usableHeight / float64(rows)

	qrSize := cellWidth
	if cellHeight < qrSize {
		qrSize = cellHeight
	}
	qrSize *= 0.65

	perPage := cols * rows
	totalPages := (len(items) + perPage - 1) / perPage

	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}

	for page := 0; page < totalPages; page++ {
		pdf.AddPage()

		// 页眉：商品名 + 批次/时间/页码
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(0, 6)
		pdf.CellFormat(pageWidth, 6, fmt.Sprintf("%s - Marketing Vectors", cfg.ProductName), "", 0, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(0, 12)
		subtitle := fmt.Sprintf("Batch #%d  |  Generated: %s  |  Page %d of %d",
			cfg.BatchNumber,
			generatedAt.Format("02 Jan 2006 | 15:04"),
			page+1,
			totalPages,
		)
		pdf.CellFormat(pageWidth, 4, subtitle, "", 0, "C", false, 0, "")

		startIdx := page * perPage
		endIdx := startIdx + perPage
		if endIdx > len(items) {
			endIdx = len(items)
		}

		for idx := startIdx; idx < endIdx; idx++ {
			item := items[idx]
			gridIdx := idx - startIdx
			col := gridIdx % cols
			row := gridIdx / cols

			cellX := margin + float64(col)*cellWidth
			cellY := margin + float64(row)*cellHeight
			qrX := cellX + (cellWidth-qrSize)/2
			qrY := cellY + (cellHeight-qrSize)/2 - 3

			qrPNG, err := qrcode.Encode(item.URL, qrcode.High, 256)
			if err != nil {
				return nil, fmt.Errorf("encode qr %s: %w", item.Code, err)
			}
			imgName := fmt.Sprintf("qr_%d", idx)
			pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(qrPNG))
			pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, imgOptions, 0, "")

			textY := qrY + qrSize + 1

			// 商品名缩写，便于分拣
			pdf.SetFont("Helvetica", "B", 7)
			pdf.SetXY(cellX, textY)
			pdf.CellFormat(cellWidth, 3, truncateLabel(cfg.ProductName, 30), "", 0, "C", false, 0, "")

			// 码值
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetXY(cellX, textY+3.5)
			pdf.CellFormat(cellWidth, 4, item.Code, "", 0, "C", false, 0, "")

			// 落地链接（极小号）
			pdf.SetFont("Helvetica", "", 5)
			pdf.SetXY(cellX, textY+8)
			pdf.CellFormat(cellWidth, 2.5, item.URL, "", 0, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncateLabel(label string, max int) string {
	runes := []rune(label)
	if len(runes) <= max {
		return label
	}
	return string(runes[:max]) + "..."
}
