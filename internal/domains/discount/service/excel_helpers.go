package service

import (
	"time"

	"github.com/shopspring/decimal"
)

func decimalOrEmpty(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func intOrEmpty(n *int) interface{} {
	if n == nil {
		return ""
	}
	return *n
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
