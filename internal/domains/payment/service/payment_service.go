package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordermodel "pttech-backend/internal/domains/order/model"
	orderrepository "pttech-backend/internal/domains/order/repository"
	"pttech-backend/internal/domains/payment/gateway/vnpay"
	"pttech-backend/internal/domains/payment/model"
	"pttech-backend/internal/domains/payment/repository"
	"pttech-backend/pkg/logger"
)

type ServiceInterface interface {
	// CreatePaymentURL builds the signed gateway redirect for an order.
	CreatePaymentURL(ctx context.Context, orderID uuid.UUID, clientIP string) (string, error)

	// HandleCallback processes a verified gateway callback from either
	// entry point. Signature verification happens on both; a repeated
	// success callback for an already-paid order is a no-op.
	HandleCallback(ctx context.Context, params map[string]string, source string) (*model.CallbackResult, error)

	ListTransactions(ctx context.Context, orderID uuid.UUID) ([]model.Transaction, error)
}

type paymentService struct {
	gateway *vnpay.Client
	repo    repository.RepositoryInterface
	orders  orderrepository.RepositoryInterface
	now     func() time.Time
}

func NewPaymentService(gateway *vnpay.Client, repo repository.RepositoryInterface, orders orderrepository.RepositoryInterface) ServiceInterface {
	return &paymentService{gateway: gateway, repo: repo, orders: orders, now: time.Now}
}

func (s *paymentService) CreatePaymentURL(ctx context.Context, orderID uuid.UUID, clientIP string) (string, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if o.PaymentStatus == ordermodel.PaymentStatusPaid {
		return "", ordermodel.ErrAlreadyPaid
	}

	return s.gateway.BuildPaymentURL(vnpay.PaymentRequest{
		TxnRef:    o.OrderNumber,
		Amount:    o.FinalPrice,
		OrderInfo: fmt.Sprintf("Thanh toan don hang %s", o.OrderNumber),
		ClientIP:  clientIP,
	})
}

func (s *paymentService) HandleCallback(ctx context.Context, params map[string]string, source string) (*model.CallbackResult, error) {
	if !s.gateway.VerifyCallback(params) {
		return nil, model.ErrInvalidSignature
	}

	txnRef := params["vnp_TxnRef"]
	o, err := s.orders.GetByOrderNumber(ctx, txnRef)
	if err != nil {
		return nil, model.ErrOrderNotFound
	}

	amount := decimal.Zero
	if raw := params["vnp_Amount"]; raw != "" {
		parsed, err := vnpay.ParseAmount(raw)
		if err != nil {
			return nil, err
		}
		amount = parsed
		if !amount.Equal(o.FinalPrice.Round(0)) {
			return nil, model.ErrAmountMismatch
		}
	}

	// Idempotence guard: a second success callback changes nothing.
	if o.PaymentStatus == ordermodel.PaymentStatusPaid {
		return &model.CallbackResult{Outcome: model.OutcomeAlreadyPaid, OrderNumber: o.OrderNumber}, nil
	}

	outcome := s.applyOutcome(ctx, o, params)
	s.record(ctx, o.ID, txnRef, amount, params, source, outcome)

	return &model.CallbackResult{Outcome: outcome, OrderNumber: o.OrderNumber}, nil
}

// applyOutcome maps the gateway's response code pair onto the order's
// payment status. Success requires "00" on both vnp_ResponseCode and
// vnp_TransactionStatus; a missing status fails the callback.
func (s *paymentService) applyOutcome(ctx context.Context, o *ordermodel.Order, params map[string]string) string {
	responseCode := params["vnp_ResponseCode"]
	transactionStatus := params["vnp_TransactionStatus"]

	switch {
	case responseCode == vnpay.CodeSuccess && transactionStatus == vnpay.CodeSuccess:
		paid, err := s.orders.MarkPaid(ctx, o.ID, s.now())
		if err != nil {
			logger.Error("mark order paid", err)
			return model.OutcomeFailed
		}
		if !paid {
			return model.OutcomeAlreadyPaid
		}
		return model.OutcomePaid

	case responseCode == vnpay.CodeSuspectedFraud:
		s.setPaymentStatus(ctx, o.ID, ordermodel.PaymentStatusSuspectedFraud)
		return model.OutcomeSuspectedFraud

	case responseCode == vnpay.CodeUserCancelled:
		s.setPaymentStatus(ctx, o.ID, ordermodel.PaymentStatusCancelled)
		return model.OutcomeCancelled

	default:
		s.setPaymentStatus(ctx, o.ID, ordermodel.PaymentStatusFailed)
		return model.OutcomeFailed
	}
}

func (s *paymentService) setPaymentStatus(ctx context.Context, orderID uuid.UUID, status string) {
	if err := s.orders.SetPaymentStatus(ctx, orderID, status); err != nil {
		logger.Error("set payment status", err)
	}
}

func (s *paymentService) record(ctx context.Context, orderID uuid.UUID, txnRef string, amount decimal.Decimal, params map[string]string, source, outcome string) {
	t := &model.Transaction{
		ID:                uuid.New(),
		OrderID:           orderID,
		TxnRef:            txnRef,
		Amount:            amount,
		BankCode:          params["vnp_BankCode"],
		BankTranNo:        params["vnp_BankTranNo"],
		CardType:          params["vnp_CardType"],
		PayDate:           params["vnp_PayDate"],
		ResponseCode:      params["vnp_ResponseCode"],
		TransactionNo:     params["vnp_TransactionNo"],
		TransactionStatus: params["vnp_TransactionStatus"],
		Source:            source,
		Outcome:           outcome,
		CreatedAt:         s.now(),
	}
	if err := s.repo.Record(ctx, t); err != nil {
		logger.Error("record payment transaction", err)
	}
}

func (s *paymentService) ListTransactions(ctx context.Context, orderID uuid.UUID) ([]model.Transaction, error) {
	return s.repo.ListByOrder(ctx, orderID)
}
