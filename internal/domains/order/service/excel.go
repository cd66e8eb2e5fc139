package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"pttech-backend/internal/domains/order/model"
)

const orderSheet = "Orders"

func (s *orderService) ExportExcel(ctx context.Context, filter *model.Filter) ([]byte, error) {
	orders, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName(f.GetSheetName(0), orderSheet)

	headers := []string{
		"Order Number", "User ID", "Status", "Payment Method", "Payment Status",
		"Total Price", "Discount", "Shipping", "Final Price", "Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(orderSheet, cell, h)
	}

	for rowIdx, o := range orders {
		values := []interface{}{
			o.OrderNumber, o.UserID.String(), string(o.Status),
			o.PaymentMethod, o.PaymentStatus,
			o.TotalPrice.String(), o.DiscountAmount.String(),
			o.ShippingPrice.String(), o.FinalPrice.String(),
			o.CreatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(orderSheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write order excel: %w", err)
	}
	return buf.Bytes(), nil
}
