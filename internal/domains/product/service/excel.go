package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pttech-backend/internal/domains/product/model"
)

const productSheet = "Products"

// ImportReport summarizes an Excel import: which rows became products and
// which were skipped with the reason.
type ImportReport struct {
	Created int          `json:"created"`
	Skipped []SkippedRow `json:"skipped,omitempty"`
}

type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (s *productService) ExportExcel(ctx context.Context) ([]byte, error) {
	products, _, err := s.repo.List(ctx, &model.Filter{IncludeHidden: true, Limit: 100, Page: 1})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName(f.GetSheetName(0), productSheet)

	headers := []string{
		"SKU", "Name", "Brand ID", "Category ID", "Original Price",
		"Current Price", "Total Stock", "Total Sold", "Rating", "Active",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(productSheet, cell, h)
	}

	for rowIdx, p := range products {
		values := []interface{}{
			p.SKU, p.Name, p.BrandID.String(), p.Category.String(),
			p.OriginalPrice.String(), p.CurrentPrice.String(),
			p.TotalStock(), p.TotalSold,
			fmt.Sprintf("%s (%d)", p.RatingAverage.StringFixed(1), p.RatingCount),
			p.IsActive,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(productSheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write product excel: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportExcel creates products from workbook rows. Expected columns:
// SKU, Name, Brand ID, Category ID, Original Price, Current Price, Stock.
// Each imported product gets one default variant holding the stock.
func (s *productService) ImportExcel(ctx context.Context, data []byte) (*ImportReport, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	report := &ImportReport{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rowNum := i + 1

		if len(row) < 7 {
			report.Skipped = append(report.Skipped, SkippedRow{rowNum, "too few columns"})
			continue
		}

		originalPrice, err1 := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		currentPrice, err2 := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		stock, err3 := strconv.Atoi(strings.TrimSpace(row[6]))
		if err1 != nil || err2 != nil || err3 != nil {
			report.Skipped = append(report.Skipped, SkippedRow{rowNum, "malformed numeric column"})
			continue
		}

		req := &model.CreateProductRequest{
			SKU:           row[0],
			Name:          row[1],
			BrandID:       strings.TrimSpace(row[2]),
			Category:      strings.TrimSpace(row[3]),
			OriginalPrice: originalPrice,
			CurrentPrice:  currentPrice,
			Variants: []model.CreateVariantRequest{
				{Condition: model.ConditionNew, Stock: stock},
			},
		}

		if _, err := s.Create(ctx, req); err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{rowNum, err.Error()})
			continue
		}
		report.Created++
	}

	return report, nil
}
