package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pttech-backend/internal/config"
	ordermodel "pttech-backend/internal/domains/order/model"
	"pttech-backend/internal/domains/payment/gateway/vnpay"
	"pttech-backend/internal/domains/payment/model"
)

const testSecret = "TESTSECRET123"

type fakeOrderStore struct {
	orders map[string]*ordermodel.Order
}

func (r *fakeOrderStore) byID(id uuid.UUID) *ordermodel.Order {
	for _, o := range r.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (r *fakeOrderStore) Create(_ context.Context, o *ordermodel.Order) error {
	r.orders[o.OrderNumber] = o
	return nil
}

func (r *fakeOrderStore) GetByID(_ context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	if o := r.byID(id); o != nil {
		return o, nil
	}
	return nil, ordermodel.ErrNotFound
}

func (r *fakeOrderStore) GetByOrderNumber(_ context.Context, number string) (*ordermodel.Order, error) {
	o, ok := r.orders[number]
	if !ok {
		return nil, ordermodel.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderStore) List(context.Context, *ordermodel.Filter) ([]ordermodel.Order, int, error) {
	return nil, 0, nil
}

func (r *fakeOrderStore) UpdateStatus(context.Context, uuid.UUID, ordermodel.Status, ordermodel.Status, time.Time) (bool, error) {
	return false, nil
}

func (r *fakeOrderStore) SaveCancellation(context.Context, uuid.UUID, ordermodel.Status, string, time.Time) (bool, error) {
	return false, nil
}

func (r *fakeOrderStore) SaveReturnRequest(context.Context, uuid.UUID, string, []string, time.Time) (bool, error) {
	return false, nil
}

func (r *fakeOrderStore) ResolveReturn(context.Context, uuid.UUID, ordermodel.Status, time.Time) (bool, error) {
	return false, nil
}

func (r *fakeOrderStore) MarkPaid(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	o := r.byID(id)
	if o == nil || o.PaymentStatus == ordermodel.PaymentStatusPaid {
		return false, nil
	}
	o.PaymentStatus = ordermodel.PaymentStatusPaid
	o.PaidAt = &at
	return true, nil
}

func (r *fakeOrderStore) SetPaymentStatus(_ context.Context, id uuid.UUID, status string) error {
	o := r.byID(id)
	if o == nil {
		return ordermodel.ErrNotFound
	}
	o.PaymentStatus = status
	return nil
}

func (r *fakeOrderStore) StalePendingIDs(context.Context, time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

func (r *fakeOrderStore) MonthlySpending(context.Context, uuid.UUID, int) ([]ordermodel.MonthlySpending, error) {
	return nil, nil
}

type recordingPaymentRepo struct {
	recorded []model.Transaction
}

func (r *recordingPaymentRepo) Record(_ context.Context, t *model.Transaction) error {
	r.recorded = append(r.recorded, *t)
	return nil
}

func (r *recordingPaymentRepo) ListByOrder(context.Context, uuid.UUID) ([]model.Transaction, error) {
	return r.recorded, nil
}

func testPaymentService(t *testing.T) (*paymentService, *fakeOrderStore, *recordingPaymentRepo, *ordermodel.Order) {
	t.Helper()

	gateway, err := vnpay.NewClient(config.VNPayConfig{
		TmnCode:    "PTTECH01",
		HashSecret: testSecret,
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "http://localhost:8080/api/v1/orders/vnpay/return",
	})
	require.NoError(t, err)

	o := &ordermodel.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-20260829-abc12345",
		UserID:        uuid.New(),
		FinalPrice:    decimal.NewFromInt(50000),
		Status:        ordermodel.StatusPending,
		PaymentMethod: ordermodel.PaymentMethodVNPay,
		PaymentStatus: ordermodel.PaymentStatusPending,
	}
	orders := &fakeOrderStore{orders: map[string]*ordermodel.Order{o.OrderNumber: o}}
	repo := &recordingPaymentRepo{}

	svc := &paymentService{gateway: gateway, repo: repo, orders: orders, now: time.Now}
	return svc, orders, repo, o
}

func signedCallback(orderNumber, responseCode, transactionStatus string) map[string]string {
	params := map[string]string{
		"vnp_Amount":            "5000000",
		"vnp_BankCode":          "NCB",
		"vnp_ResponseCode":      responseCode,
		"vnp_TmnCode":           "PTTECH01",
		"vnp_TransactionNo":     "14226112",
		"vnp_TransactionStatus": transactionStatus,
		"vnp_TxnRef":            orderNumber,
	}
	params["vnp_SecureHash"] = vnpay.Sign(params, testSecret)
	return params
}

func TestCallbackSuccessMarksPaid(t *testing.T) {
	svc, _, repo, o := testPaymentService(t)

	result, err := svc.HandleCallback(context.Background(), signedCallback(o.OrderNumber, "00", "00"), model.SourceIPN)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomePaid, result.Outcome)
	assert.Equal(t, ordermodel.PaymentStatusPaid, o.PaymentStatus)
	require.NotNil(t, o.PaidAt)
	require.Len(t, repo.recorded, 1)
	assert.Equal(t, model.OutcomePaid, repo.recorded[0].Outcome)
}

func TestCallbackIdempotence(t *testing.T) {
	svc, _, repo, o := testPaymentService(t)
	ctx := context.Background()
	params := signedCallback(o.OrderNumber, "00", "00")

	_, err := svc.HandleCallback(ctx, params, model.SourceIPN)
	require.NoError(t, err)
	firstPaidAt := *o.PaidAt

	// The second identical success callback is a no-op.
	result, err := svc.HandleCallback(ctx, params, model.SourceIPN)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeAlreadyPaid, result.Outcome)
	assert.Equal(t, firstPaidAt, *o.PaidAt)
	assert.Len(t, repo.recorded, 1, "no duplicate transaction record")
}

func TestCallbackCodeMapping(t *testing.T) {
	tests := []struct {
		name          string
		responseCode  string
		txnStatus     string
		wantOutcome   string
		wantPayStatus string
	}{
		{"suspected fraud", "07", "02", model.OutcomeSuspectedFraud, ordermodel.PaymentStatusSuspectedFraud},
		{"buyer cancelled", "24", "02", model.OutcomeCancelled, ordermodel.PaymentStatusCancelled},
		{"other failure", "51", "02", model.OutcomeFailed, ordermodel.PaymentStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, o := testPaymentService(t)

			result, err := svc.HandleCallback(context.Background(),
				signedCallback(o.OrderNumber, tt.responseCode, tt.txnStatus), model.SourceReturn)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, tt.wantPayStatus, o.PaymentStatus)
		})
	}
}

func TestCallbackMissingTransactionStatusFails(t *testing.T) {
	svc, _, repo, o := testPaymentService(t)

	// Empty values are excluded from the signature, so this callback
	// verifies; success still needs "00" on both code fields.
	result, err := svc.HandleCallback(context.Background(), signedCallback(o.OrderNumber, "00", ""), model.SourceIPN)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFailed, result.Outcome)
	assert.Equal(t, ordermodel.PaymentStatusFailed, o.PaymentStatus)
	assert.Nil(t, o.PaidAt)
	require.Len(t, repo.recorded, 1)
	assert.Equal(t, model.OutcomeFailed, repo.recorded[0].Outcome)
}

func TestCallbackRejectsBadSignature(t *testing.T) {
	svc, _, _, o := testPaymentService(t)

	params := signedCallback(o.OrderNumber, "00", "00")
	params["vnp_Amount"] = "9999999"

	_, err := svc.HandleCallback(context.Background(), params, model.SourceIPN)
	assert.ErrorIs(t, err, model.ErrInvalidSignature)
	assert.Equal(t, ordermodel.PaymentStatusPending, o.PaymentStatus)
}

func TestCallbackRejectsAmountMismatch(t *testing.T) {
	svc, _, _, o := testPaymentService(t)
	o.FinalPrice = decimal.NewFromInt(99999)

	_, err := svc.HandleCallback(context.Background(), signedCallback(o.OrderNumber, "00", "00"), model.SourceIPN)
	assert.ErrorIs(t, err, model.ErrAmountMismatch)
}

func TestCallbackUnknownOrder(t *testing.T) {
	svc, _, _, _ := testPaymentService(t)

	_, err := svc.HandleCallback(context.Background(), signedCallback("ORD-UNKNOWN", "00", "00"), model.SourceIPN)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
