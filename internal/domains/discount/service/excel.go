package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportExcel renders every non-deleted code into an xlsx workbook.
func (s *discountService) ExportExcel(ctx context.Context) ([]byte, error) {
	codes, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "DiscountCodes"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{
		"Code", "Description", "Type", "Value", "Min Purchase", "Max Amount",
		"Applies To", "Start Date", "End Date", "Usage Limit", "Usage Count",
		"Active", "Scheduled Date",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, d := range codes {
		values := []interface{}{
			d.Code, d.Description, string(d.Type), d.Value.String(),
			decimalOrEmpty(d.MinimumPurchase), decimalOrEmpty(d.MaxAmount),
			string(d.Scope),
			d.StartDate.Format("2006-01-02"), d.EndDate.Format("2006-01-02"),
			intOrEmpty(d.UsageLimit), d.UsageCount,
			d.IsActive, timeOrEmpty(d.ScheduledDate),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write discount excel: %w", err)
	}
	return buf.Bytes(), nil
}
