package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt statuses. A receipt is created as a draft and applied exactly once;
// applying is what moves stock.
const (
	StatusDraft   = "draft"
	StatusApplied = "applied"
)

// Receipt is a goods-received note: a batch of incoming stock from a
// supplier. Deleting a receipt is audit-only and never reverses stock.
type Receipt struct {
	ID              uuid.UUID       `json:"id"`
	ReceiptNumber   string          `json:"receipt_number"`
	SupplierName    string          `json:"supplier_name"`
	SupplierContact string          `json:"supplier_contact,omitempty"`
	Note            string          `json:"note,omitempty"`
	Status          string          `json:"status"`
	Items           []ReceiptItem   `json:"items"`
	TotalQuantity   int             `json:"total_quantity"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	AppliedAt       *time.Time      `json:"applied_at,omitempty"`
	IsDeleted       bool            `json:"is_deleted"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ReceiptItem records one variant's intake. StockBefore and StockAfter are
// filled when the receipt is applied.
type ReceiptItem struct {
	ID          uuid.UUID       `json:"id"`
	ReceiptID   uuid.UUID       `json:"receipt_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductName string          `json:"product_name"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Quantity    int             `json:"quantity"`
	StockBefore int             `json:"stock_before"`
	StockAfter  int             `json:"stock_after"`
}

func (i ReceiptItem) Total() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewReceiptNumber builds a human-readable receipt reference.
func NewReceiptNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("GRN-%s-%s", now.Format("20060102"), suffix)
}

// Filter narrows receipt listings.
type Filter struct {
	Supplier string
	Status   string
	Page     int
	Limit    int
}

func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

func (f *Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}
