package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Callback sources.
const (
	SourceIPN    = "ipn"    // server-to-server notification
	SourceReturn = "return" // browser redirect
)

// Outcome of a processed callback.
const (
	OutcomePaid           = "paid"
	OutcomeSuspectedFraud = "suspected_fraud"
	OutcomeCancelled      = "cancelled"
	OutcomeFailed         = "failed"
	OutcomeAlreadyPaid    = "already_paid"
)

// Transaction is the audit record of one gateway callback.
type Transaction struct {
	ID      uuid.UUID `json:"id"`
	OrderID uuid.UUID `json:"order_id"`
	TxnRef  string    `json:"txn_ref"`

	Amount            decimal.Decimal `json:"amount"`
	BankCode          string          `json:"bank_code,omitempty"`
	BankTranNo        string          `json:"bank_tran_no,omitempty"`
	CardType          string          `json:"card_type,omitempty"`
	PayDate           string          `json:"pay_date,omitempty"`
	ResponseCode      string          `json:"response_code"`
	TransactionNo     string          `json:"transaction_no,omitempty"`
	TransactionStatus string          `json:"transaction_status,omitempty"`

	Source  string `json:"source"`
	Outcome string `json:"outcome"`

	CreatedAt time.Time `json:"created_at"`
}

// CallbackResult is what handlers translate into the gateway's expected
// acknowledgement.
type CallbackResult struct {
	Outcome     string `json:"outcome"`
	OrderNumber string `json:"order_number"`
}

var (
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrOrderNotFound    = errors.New("order for transaction not found")
	ErrAmountMismatch   = errors.New("payment amount does not match order")
)
