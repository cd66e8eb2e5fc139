package vnpay

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pttech-backend/internal/config"
)

// VNPay protocol constants.
const (
	version  = "2.1.0"
	command  = "pay"
	currCode = "VND"
	locale   = "vn"

	// Response codes the order flow distinguishes.
	CodeSuccess        = "00"
	CodeSuspectedFraud = "07"
	CodeUserCancelled  = "24"

	paymentWindow = 30 * time.Minute
)

// Client builds signed payment URLs and verifies callback signatures.
type Client struct {
	cfg config.VNPayConfig
	now func() time.Time
}

func NewClient(cfg config.VNPayConfig) (*Client, error) {
	if cfg.TmnCode == "" || cfg.HashSecret == "" || cfg.PayURL == "" {
		return nil, fmt.Errorf("vnpay config incomplete")
	}
	return &Client{cfg: cfg, now: time.Now}, nil
}

// PaymentRequest describes one payment to initiate.
type PaymentRequest struct {
	TxnRef    string // order number, echoed back in callbacks
	Amount    decimal.Decimal
	OrderInfo string
	ClientIP  string
}

// BuildPaymentURL returns the signed redirect URL for the hosted payment
// page.
func (c *Client) BuildPaymentURL(req PaymentRequest) (string, error) {
	if req.TxnRef == "" {
		return "", fmt.Errorf("txn ref is required")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return "", fmt.Errorf("amount must be positive")
	}

	ip := req.ClientIP
	if ip == "" || ip == "::1" {
		ip = "127.0.0.1"
	}

	now := c.now()
	params := map[string]string{
		"vnp_Version":    version,
		"vnp_Command":    command,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Amount":     FormatAmount(req.Amount),
		"vnp_CurrCode":   currCode,
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     locale,
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     ip,
		"vnp_CreateDate": now.Format("20060102150405"),
		"vnp_ExpireDate": now.Add(paymentWindow).Format("20060102150405"),
	}

	hash := Sign(params, c.cfg.HashSecret)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	query := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		if params[k] == "" {
			continue
		}
		query = append(query, encode(k)+"="+encode(params[k]))
	}
	query = append(query, "vnp_SecureHash="+hash)

	return c.cfg.PayURL + "?" + strings.Join(query, "&"), nil
}

// VerifyCallback checks a callback's signature.
func (c *Client) VerifyCallback(params map[string]string) bool {
	return Verify(params, c.cfg.HashSecret)
}

// ParseCallback extracts the vnp_* parameters from a callback query string
// and validates the required fields.
func ParseCallback(rawQuery string) (map[string]string, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid callback query: %w", err)
	}

	params := make(map[string]string)
	for key, vals := range values {
		if strings.HasPrefix(key, "vnp_") && len(vals) > 0 {
			params[key] = vals[0]
		}
	}

	for _, field := range []string{"vnp_TxnRef", "vnp_ResponseCode", "vnp_SecureHash"} {
		if params[field] == "" {
			return nil, fmt.Errorf("missing callback field %s", field)
		}
	}
	return params, nil
}

// FormatAmount renders a VND amount the way the gateway expects: integral
// VND times 100.
func FormatAmount(amount decimal.Decimal) string {
	return amount.Round(0).Mul(decimal.NewFromInt(100)).StringFixed(0)
}

// ParseAmount reverses FormatAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return decimal.NewFromInt(n).Div(decimal.NewFromInt(100)), nil
}
