package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	discountmodel "pttech-backend/internal/domains/discount/model"
	ordermodel "pttech-backend/internal/domains/order/model"
	productmodel "pttech-backend/internal/domains/product/model"
	productservice "pttech-backend/internal/domains/product/service"
)

type fakeOrderRepo struct {
	orders map[uuid.UUID]*ordermodel.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*ordermodel.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *ordermodel.Order) error {
	clone := *o
	r.orders[o.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, ordermodel.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepo) GetByOrderNumber(_ context.Context, number string) (*ordermodel.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, ordermodel.ErrNotFound
}

func (r *fakeOrderRepo) List(_ context.Context, _ *ordermodel.Filter) ([]ordermodel.Order, int, error) {
	var out []ordermodel.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to ordermodel.Status, at time.Time) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = at
	return true, nil
}

func (r *fakeOrderRepo) SaveCancellation(_ context.Context, id uuid.UUID, from ordermodel.Status, reason string, at time.Time) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = ordermodel.StatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = at
	return true, nil
}

func (r *fakeOrderRepo) SaveReturnRequest(_ context.Context, id uuid.UUID, reason string, mediaURLs []string, at time.Time) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != ordermodel.StatusDelivered {
		return false, nil
	}
	o.Status = ordermodel.StatusReturnRequested
	o.ReturnReason = reason
	o.ReturnMediaURLs = mediaURLs
	o.ReturnRequestedAt = &at
	return true, nil
}

func (r *fakeOrderRepo) ResolveReturn(_ context.Context, id uuid.UUID, to ordermodel.Status, at time.Time) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != ordermodel.StatusReturnRequested {
		return false, nil
	}
	o.Status = to
	o.ReturnResolvedAt = &at
	return true, nil
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.PaymentStatus == ordermodel.PaymentStatusPaid {
		return false, nil
	}
	o.PaymentStatus = ordermodel.PaymentStatusPaid
	o.PaidAt = &at
	return true, nil
}

func (r *fakeOrderRepo) SetPaymentStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return ordermodel.ErrNotFound
	}
	o.PaymentStatus = status
	return nil
}

func (r *fakeOrderRepo) StalePendingIDs(_ context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, o := range r.orders {
		if o.Status == ordermodel.StatusPending && o.CreatedAt.Before(cutoff) {
			ids = append(ids, o.ID)
		}
	}
	return ids, nil
}

func (r *fakeOrderRepo) MonthlySpending(context.Context, uuid.UUID, int) ([]ordermodel.MonthlySpending, error) {
	return nil, nil
}

// stockProductService backs the product dependency with an in-memory
// catalog whose stock obeys the conditional-decrement rule.
type stockProductService struct {
	products map[uuid.UUID]*productmodel.Product
	variants map[uuid.UUID]*productmodel.Variant
	sales    map[uuid.UUID]int
}

func newStockProducts(products ...*productmodel.Product) *stockProductService {
	s := &stockProductService{
		products: make(map[uuid.UUID]*productmodel.Product),
		variants: make(map[uuid.UUID]*productmodel.Variant),
		sales:    make(map[uuid.UUID]int),
	}
	for _, p := range products {
		s.products[p.ID] = p
		for i := range p.Variants {
			s.variants[p.Variants[i].ID] = &p.Variants[i]
		}
	}
	return s
}

func (f *stockProductService) GetByID(_ context.Context, id uuid.UUID) (*productmodel.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, productmodel.ErrNotFound
	}
	return p, nil
}

func (f *stockProductService) AdjustStock(_ context.Context, req *productmodel.AdjustStockRequest) (*productmodel.Variant, error) {
	id, err := uuid.Parse(req.VariantID)
	if err != nil {
		return nil, err
	}
	v, ok := f.variants[id]
	if !ok {
		return nil, productmodel.ErrVariantNotFound
	}
	if v.Stock+req.Delta < 0 {
		return nil, productmodel.ErrOutOfStock
	}
	v.Stock += req.Delta
	return v, nil
}

func (f *stockProductService) RecordSale(_ context.Context, id uuid.UUID, quantity int) error {
	f.sales[id] += quantity
	return nil
}

func (f *stockProductService) Create(context.Context, *productmodel.CreateProductRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *stockProductService) Update(context.Context, uuid.UUID, *productmodel.UpdateProductRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *stockProductService) GetBySlug(context.Context, string) (*productmodel.Product, error) {
	return nil, nil
}
func (f *stockProductService) GetVariant(context.Context, uuid.UUID) (*productmodel.Variant, error) {
	return nil, nil
}
func (f *stockProductService) List(context.Context, *productmodel.Filter) ([]productmodel.Product, int, error) {
	return nil, 0, nil
}
func (f *stockProductService) Hide(context.Context, uuid.UUID) error   { return nil }
func (f *stockProductService) Show(context.Context, uuid.UUID) error   { return nil }
func (f *stockProductService) Delete(context.Context, uuid.UUID) error { return nil }
func (f *stockProductService) UpdatePrice(context.Context, uuid.UUID, *productmodel.UpdatePriceRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *stockProductService) PriceHistory(context.Context, uuid.UUID) ([]productmodel.PriceChange, error) {
	return nil, nil
}
func (f *stockProductService) AttachMedia(context.Context, uuid.UUID, []string, []string) error {
	return nil
}
func (f *stockProductService) RefreshRating(context.Context, uuid.UUID, decimal.Decimal, int) error {
	return nil
}
func (f *stockProductService) ExportExcel(context.Context) ([]byte, error) { return nil, nil }
func (f *stockProductService) ImportExcel(context.Context, []byte) (*productservice.ImportReport, error) {
	return nil, nil
}

// fixedDiscountService returns a constant amount for one known code.
type fixedDiscountService struct {
	code   string
	amount decimal.Decimal
}

func (f *fixedDiscountService) Apply(_ context.Context, code string, _ uuid.UUID, _ []discountmodel.OrderItemRef, _ decimal.Decimal) (decimal.Decimal, error) {
	if code != f.code {
		return decimal.Zero, discountmodel.ErrNotFound
	}
	return f.amount, nil
}

func (f *fixedDiscountService) Quote(_ context.Context, code string, _ uuid.UUID, _ []discountmodel.OrderItemRef, _ decimal.Decimal) (*discountmodel.DiscountCode, decimal.Decimal, error) {
	if code != f.code {
		return nil, decimal.Zero, discountmodel.ErrNotFound
	}
	return nil, f.amount, nil
}

func (f *fixedDiscountService) Create(context.Context, *discountmodel.CreateDiscountCodeRequest) (*discountmodel.DiscountCode, error) {
	return nil, nil
}
func (f *fixedDiscountService) Update(context.Context, uuid.UUID, *discountmodel.UpdateDiscountCodeRequest) (*discountmodel.DiscountCode, error) {
	return nil, nil
}
func (f *fixedDiscountService) GetByID(context.Context, uuid.UUID) (*discountmodel.DiscountCode, error) {
	return nil, nil
}
func (f *fixedDiscountService) List(context.Context, bool) ([]discountmodel.DiscountCode, error) {
	return nil, nil
}
func (f *fixedDiscountService) ListUsable(context.Context) ([]discountmodel.DiscountCode, error) {
	return nil, nil
}
func (f *fixedDiscountService) Search(context.Context, string) ([]discountmodel.DiscountCode, error) {
	return nil, nil
}
func (f *fixedDiscountService) Hide(context.Context, uuid.UUID) error        { return nil }
func (f *fixedDiscountService) Show(context.Context, uuid.UUID) error        { return nil }
func (f *fixedDiscountService) Delete(context.Context, uuid.UUID) error      { return nil }
func (f *fixedDiscountService) DeactivateExpired(context.Context) (int64, error) { return 0, nil }
func (f *fixedDiscountService) ExportExcel(context.Context) ([]byte, error)  { return nil, nil }

type recordingEnqueuer struct {
	tasks []*asynq.Task
}

func (e *recordingEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) error {
	e.tasks = append(e.tasks, task)
	return nil
}

func testOrderService(repo *fakeOrderRepo, products *stockProductService, amount decimal.Decimal) (*orderService, *recordingEnqueuer) {
	enq := &recordingEnqueuer{}
	return &orderService{
		repo:      repo,
		products:  products,
		discounts: &fixedDiscountService{code: "SAVE10", amount: amount},
		tasks:     enq,
		now:       time.Now,
	}, enq
}

func orderFixtureProduct(price float64, stock int) *productmodel.Product {
	p := &productmodel.Product{
		ID:           uuid.New(),
		Name:         "Phone",
		CurrentPrice: decimal.NewFromFloat(price),
		Category:     uuid.New(),
	}
	p.Variants = []productmodel.Variant{{
		ID:        uuid.New(),
		ProductID: p.ID,
		Stock:     stock,
		Condition: productmodel.ConditionNew,
	}}
	return p
}

func createReq(p *productmodel.Product, quantity int) *ordermodel.CreateOrderRequest {
	return &ordermodel.CreateOrderRequest{
		Items: []ordermodel.CreateOrderItemRequest{{
			ProductID: p.ID.String(),
			VariantID: p.Variants[0].ID.String(),
			Quantity:  quantity,
		}},
		ShippingPrice:   5,
		PaymentMethod:   ordermodel.PaymentMethodCOD,
		ShippingName:    "Nguyen Van A",
		ShippingPhone:   "0900000000",
		ShippingAddress: "1 Le Loi, Da Nang",
	}
}

func TestCreateOrderFinalPrice(t *testing.T) {
	p := orderFixtureProduct(50, 10)
	repo := newFakeOrderRepo()
	svc, enq := testOrderService(repo, newStockProducts(p), decimal.NewFromInt(5))

	req := createReq(p, 1)
	req.DiscountCode = "SAVE10"

	result, err := svc.Create(context.Background(), uuid.New(), "a@b.c", req)
	require.NoError(t, err)
	o := result.Order

	// final = total - discount + shipping
	assert.True(t, o.TotalPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, o.DiscountAmount.Equal(decimal.NewFromInt(5)))
	assert.True(t, o.ShippingPrice.Equal(decimal.NewFromInt(5)))
	assert.True(t, o.FinalPrice.Equal(decimal.NewFromInt(50)), "50 - 5 + 5")
	assert.True(t, o.FinalPrice.Equal(o.ComputeFinalPrice()))

	assert.Equal(t, ordermodel.StatusPending, o.Status)
	require.Len(t, enq.tasks, 1, "confirmation email enqueued")
}

func TestCreateOrderDecrementsStock(t *testing.T) {
	p := orderFixtureProduct(10, 3)
	repo := newFakeOrderRepo()
	products := newStockProducts(p)
	svc, _ := testOrderService(repo, products, decimal.Zero)

	_, err := svc.Create(context.Background(), uuid.New(), "", createReq(p, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Variants[0].Stock)
	assert.Equal(t, 2, products.sales[p.ID])
}

func TestCreateOrderFreezesVariantConfiguration(t *testing.T) {
	p := orderFixtureProduct(100, 5)
	p.Variants[0].Color = "Titanium"
	p.Variants[0].RAM = "16GB"
	p.Variants[0].Storage = "512GB"
	repo := newFakeOrderRepo()
	svc, _ := testOrderService(repo, newStockProducts(p), decimal.Zero)

	result, err := svc.Create(context.Background(), uuid.New(), "", createReq(p, 1))
	require.NoError(t, err)

	require.Len(t, result.Order.Items, 1)
	item := result.Order.Items[0]
	assert.Equal(t, "Titanium", item.Color)
	assert.Equal(t, "16GB", item.RAM)
	assert.Equal(t, "512GB", item.Storage)
	assert.Equal(t, productmodel.ConditionNew, item.Condition)
}

func TestCreateOrderRejectsWhenOutOfStock(t *testing.T) {
	p := orderFixtureProduct(10, 1)
	repo := newFakeOrderRepo()
	svc, _ := testOrderService(repo, newStockProducts(p), decimal.Zero)

	result, err := svc.Create(context.Background(), uuid.New(), "", createReq(p, 5))
	assert.ErrorIs(t, err, ordermodel.ErrItemsUnavailable)
	require.NotNil(t, result)
	require.Len(t, result.Unavailable, 1)
	assert.Equal(t, 5, result.Unavailable[0].Requested)
	assert.Equal(t, 1, result.Unavailable[0].Available)
	// Nothing was persisted and stock is untouched.
	assert.Empty(t, repo.orders)
	assert.Equal(t, 1, p.Variants[0].Stock)
}

func TestCreateOrderContinuesWithAvailableItems(t *testing.T) {
	inStock := orderFixtureProduct(20, 5)
	outOfStock := orderFixtureProduct(30, 0)
	repo := newFakeOrderRepo()
	svc, _ := testOrderService(repo, newStockProducts(inStock, outOfStock), decimal.Zero)

	req := createReq(inStock, 1)
	req.Items = append(req.Items, ordermodel.CreateOrderItemRequest{
		ProductID: outOfStock.ID.String(),
		VariantID: outOfStock.Variants[0].ID.String(),
		Quantity:  1,
	})
	req.ContinueWithAvailableItems = true

	result, err := svc.Create(context.Background(), uuid.New(), "", req)
	require.NoError(t, err)
	require.Len(t, result.Order.Items, 1)
	require.Len(t, result.Unavailable, 1)
	assert.True(t, result.Order.TotalPrice.Equal(decimal.NewFromInt(20)))
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ordermodel.Status
		ok       bool
	}{
		{ordermodel.StatusPending, ordermodel.StatusConfirmed, true},
		{ordermodel.StatusConfirmed, ordermodel.StatusShipped, true},
		{ordermodel.StatusShipped, ordermodel.StatusDelivered, true},
		{ordermodel.StatusPending, ordermodel.StatusShipped, false},
		{ordermodel.StatusDelivered, ordermodel.StatusPending, false},
		{ordermodel.StatusCancelled, ordermodel.StatusConfirmed, false},
		{ordermodel.StatusReturnRejected, ordermodel.StatusReturned, false},
		{ordermodel.StatusReturnApproved, ordermodel.StatusReturned, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCancelRestoresStock(t *testing.T) {
	p := orderFixtureProduct(10, 5)
	repo := newFakeOrderRepo()
	products := newStockProducts(p)
	svc, _ := testOrderService(repo, products, decimal.Zero)
	ctx := context.Background()

	result, err := svc.Create(ctx, uuid.New(), "", createReq(p, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Variants[0].Stock)

	o, err := svc.Cancel(ctx, result.Order.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, ordermodel.StatusCancelled, o.Status)
	assert.Equal(t, "changed my mind", o.CancelReason)
	assert.Equal(t, 5, p.Variants[0].Stock, "cancellation restores the stock")

	// A shipped order cannot be cancelled.
	result2, err := svc.Create(ctx, uuid.New(), "", createReq(p, 1))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, result2.Order.ID, ordermodel.StatusConfirmed, "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, result2.Order.ID, ordermodel.StatusShipped, "")
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, result2.Order.ID, "too late")
	assert.ErrorIs(t, err, ordermodel.ErrInvalidTransition)
}

func TestReturnFlow(t *testing.T) {
	p := orderFixtureProduct(10, 5)
	repo := newFakeOrderRepo()
	svc, _ := testOrderService(repo, newStockProducts(p), decimal.Zero)
	ctx := context.Background()
	userID := uuid.New()

	result, err := svc.Create(ctx, userID, "", createReq(p, 1))
	require.NoError(t, err)
	id := result.Order.ID

	// Not deliverable yet: return on a pending order is rejected.
	_, err = svc.RequestReturn(ctx, id, userID, &ordermodel.RequestReturnRequest{Reason: "broken screen"})
	assert.ErrorIs(t, err, ordermodel.ErrNotReturnable)

	for _, to := range []ordermodel.Status{ordermodel.StatusConfirmed, ordermodel.StatusShipped, ordermodel.StatusDelivered} {
		_, err = svc.UpdateStatus(ctx, id, to, "")
		require.NoError(t, err)
	}

	o, err := svc.RequestReturn(ctx, id, userID, &ordermodel.RequestReturnRequest{Reason: "broken screen"})
	require.NoError(t, err)
	assert.Equal(t, ordermodel.StatusReturnRequested, o.Status)

	o, err = svc.ApproveReturn(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ordermodel.StatusReturnApproved, o.Status)

	// Approval and rejection are mutually exclusive.
	_, err = svc.RejectReturn(ctx, id)
	assert.ErrorIs(t, err, ordermodel.ErrReturnResolved)

	o, err = svc.CompleteReturn(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, ordermodel.StatusReturned, o.Status)
	assert.Equal(t, 5, p.Variants[0].Stock, "completed return restores stock")
}

func TestAutoConfirmStale(t *testing.T) {
	p := orderFixtureProduct(10, 10)
	repo := newFakeOrderRepo()
	svc, _ := testOrderService(repo, newStockProducts(p), decimal.Zero)
	ctx := context.Background()

	stale, err := svc.Create(ctx, uuid.New(), "", createReq(p, 1))
	require.NoError(t, err)
	repo.orders[stale.Order.ID].CreatedAt = time.Now().Add(-time.Hour)

	fresh, err := svc.Create(ctx, uuid.New(), "", createReq(p, 1))
	require.NoError(t, err)

	n, err := svc.AutoConfirmStale(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	o, _ := repo.GetByID(ctx, stale.Order.ID)
	assert.Equal(t, ordermodel.StatusConfirmed, o.Status)
	o, _ = repo.GetByID(ctx, fresh.Order.ID)
	assert.Equal(t, ordermodel.StatusPending, o.Status)
}
