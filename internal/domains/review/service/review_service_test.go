package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordermodel "pttech-backend/internal/domains/order/model"
	productmodel "pttech-backend/internal/domains/product/model"
	productservice "pttech-backend/internal/domains/product/service"
	"pttech-backend/internal/domains/review/model"
)

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*model.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*model.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, rev *model.Review) error {
	for _, existing := range r.reviews {
		if existing.UserID == rev.UserID && existing.ProductID == rev.ProductID &&
			existing.OrderID == rev.OrderID && !existing.IsDeleted {
			return model.ErrAlreadyReviewed
		}
	}
	clone := *rev
	r.reviews[rev.ID] = &clone
	return nil
}

func (r *fakeReviewRepo) Update(_ context.Context, rev *model.Review) error {
	existing, ok := r.reviews[rev.ID]
	if !ok || existing.IsDeleted {
		return model.ErrNotFound
	}
	clone := *rev
	r.reviews[rev.ID] = &clone
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	rev, ok := r.reviews[id]
	if !ok || rev.IsDeleted {
		return nil, model.ErrNotFound
	}
	clone := *rev
	return &clone, nil
}

func (r *fakeReviewRepo) ListByProduct(_ context.Context, productID uuid.UUID, includeHidden bool) ([]model.Review, error) {
	var out []model.Review
	for _, rev := range r.reviews {
		if rev.ProductID == productID && !rev.IsDeleted && (includeHidden || rev.IsActive) {
			out = append(out, *rev)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Review, error) {
	var out []model.Review
	for _, rev := range r.reviews {
		if rev.UserID == userID && !rev.IsDeleted {
			out = append(out, *rev)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	rev, ok := r.reviews[id]
	if !ok || rev.IsDeleted {
		return model.ErrNotFound
	}
	rev.IsActive = active
	return nil
}

func (r *fakeReviewRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	rev, ok := r.reviews[id]
	if !ok || rev.IsDeleted {
		return model.ErrNotFound
	}
	rev.IsDeleted = true
	return nil
}

func (r *fakeReviewRepo) AggregateForProduct(_ context.Context, productID uuid.UUID) (*model.Aggregate, error) {
	sum, count := 0, 0
	for _, rev := range r.reviews {
		if rev.ProductID == productID && rev.IsActive && !rev.IsDeleted {
			sum += rev.Rating
			count++
		}
	}
	agg := &model.Aggregate{Count: count, Average: decimal.Zero}
	if count > 0 {
		agg.Average = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count)))
	}
	return agg, nil
}

type fixedOrderRepo struct {
	order *ordermodel.Order
}

func (r *fixedOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	if r.order != nil && r.order.ID == id {
		return r.order, nil
	}
	return nil, ordermodel.ErrNotFound
}

func (r *fixedOrderRepo) Create(context.Context, *ordermodel.Order) error { return nil }
func (r *fixedOrderRepo) GetByOrderNumber(context.Context, string) (*ordermodel.Order, error) {
	return nil, ordermodel.ErrNotFound
}
func (r *fixedOrderRepo) List(context.Context, *ordermodel.Filter) ([]ordermodel.Order, int, error) {
	return nil, 0, nil
}
func (r *fixedOrderRepo) UpdateStatus(context.Context, uuid.UUID, ordermodel.Status, ordermodel.Status, time.Time) (bool, error) {
	return false, nil
}
func (r *fixedOrderRepo) SaveCancellation(context.Context, uuid.UUID, ordermodel.Status, string, time.Time) (bool, error) {
	return false, nil
}
func (r *fixedOrderRepo) SaveReturnRequest(context.Context, uuid.UUID, string, []string, time.Time) (bool, error) {
	return false, nil
}
func (r *fixedOrderRepo) ResolveReturn(context.Context, uuid.UUID, ordermodel.Status, time.Time) (bool, error) {
	return false, nil
}
func (r *fixedOrderRepo) MarkPaid(context.Context, uuid.UUID, time.Time) (bool, error) {
	return false, nil
}
func (r *fixedOrderRepo) SetPaymentStatus(context.Context, uuid.UUID, string) error { return nil }
func (r *fixedOrderRepo) StalePendingIDs(context.Context, time.Time) ([]uuid.UUID, error) {
	return nil, nil
}
func (r *fixedOrderRepo) MonthlySpending(context.Context, uuid.UUID, int) ([]ordermodel.MonthlySpending, error) {
	return nil, nil
}

// ratingRecorder captures RefreshRating calls.
type ratingRecorder struct {
	lastAverage decimal.Decimal
	lastCount   int
	calls       int
}

func (f *ratingRecorder) RefreshRating(_ context.Context, _ uuid.UUID, average decimal.Decimal, count int) error {
	f.lastAverage = average
	f.lastCount = count
	f.calls++
	return nil
}

func (f *ratingRecorder) RecordSale(context.Context, uuid.UUID, int) error { return nil }

func (f *ratingRecorder) Create(context.Context, *productmodel.CreateProductRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *ratingRecorder) Update(context.Context, uuid.UUID, *productmodel.UpdateProductRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *ratingRecorder) GetByID(context.Context, uuid.UUID) (*productmodel.Product, error) {
	return nil, nil
}
func (f *ratingRecorder) GetBySlug(context.Context, string) (*productmodel.Product, error) {
	return nil, nil
}
func (f *ratingRecorder) GetVariant(context.Context, uuid.UUID) (*productmodel.Variant, error) {
	return nil, nil
}
func (f *ratingRecorder) List(context.Context, *productmodel.Filter) ([]productmodel.Product, int, error) {
	return nil, 0, nil
}
func (f *ratingRecorder) Hide(context.Context, uuid.UUID) error   { return nil }
func (f *ratingRecorder) Show(context.Context, uuid.UUID) error   { return nil }
func (f *ratingRecorder) Delete(context.Context, uuid.UUID) error { return nil }
func (f *ratingRecorder) UpdatePrice(context.Context, uuid.UUID, *productmodel.UpdatePriceRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *ratingRecorder) PriceHistory(context.Context, uuid.UUID) ([]productmodel.PriceChange, error) {
	return nil, nil
}
func (f *ratingRecorder) AdjustStock(context.Context, *productmodel.AdjustStockRequest) (*productmodel.Variant, error) {
	return nil, nil
}
func (f *ratingRecorder) AttachMedia(context.Context, uuid.UUID, []string, []string) error {
	return nil
}
func (f *ratingRecorder) ExportExcel(context.Context) ([]byte, error) { return nil, nil }
func (f *ratingRecorder) ImportExcel(context.Context, []byte) (*productservice.ImportReport, error) {
	return nil, nil
}

func deliveredOrder(userID, productID uuid.UUID) *ordermodel.Order {
	delivered := time.Now().Add(-24 * time.Hour)
	return &ordermodel.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Status:      ordermodel.StatusDelivered,
		DeliveredAt: &delivered,
		Items: []ordermodel.OrderItem{
			{ID: uuid.New(), ProductID: productID, Quantity: 1},
		},
	}
}

func testReviewService(order *ordermodel.Order) (*reviewService, *fakeReviewRepo, *ratingRecorder) {
	repo := newFakeReviewRepo()
	products := &ratingRecorder{}
	svc := &reviewService{
		repo:     repo,
		orders:   &fixedOrderRepo{order: order},
		products: products,
		now:      time.Now,
	}
	return svc, repo, products
}

func TestCreateReviewRequiresDeliveredPurchase(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	order := deliveredOrder(userID, productID)
	svc, _, products := testReviewService(order)
	ctx := context.Background()

	rev, err := svc.Create(ctx, userID, &model.CreateReviewRequest{
		ProductID: productID.String(),
		OrderID:   order.ID.String(),
		Rating:    5,
		Comment:   "Great phone",
	})
	require.NoError(t, err)
	assert.True(t, rev.IsActive)
	assert.Equal(t, 1, products.lastCount)
	assert.True(t, products.lastAverage.Equal(decimal.NewFromInt(5)))

	// Another user cannot review against this order.
	_, err = svc.Create(ctx, uuid.New(), &model.CreateReviewRequest{
		ProductID: productID.String(),
		OrderID:   order.ID.String(),
		Rating:    1,
	})
	assert.ErrorIs(t, err, model.ErrNotPurchased)

	// A product that was not in the order is rejected.
	_, err = svc.Create(ctx, userID, &model.CreateReviewRequest{
		ProductID: uuid.NewString(),
		OrderID:   order.ID.String(),
		Rating:    4,
	})
	assert.ErrorIs(t, err, model.ErrNotPurchased)
}

func TestCreateReviewRejectsUndelivered(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	order := deliveredOrder(userID, productID)
	order.Status = ordermodel.StatusShipped
	order.DeliveredAt = nil
	svc, _, _ := testReviewService(order)

	_, err := svc.Create(context.Background(), userID, &model.CreateReviewRequest{
		ProductID: productID.String(),
		OrderID:   order.ID.String(),
		Rating:    5,
	})
	assert.ErrorIs(t, err, model.ErrNotDelivered)
}

func TestCreateReviewOncePerOrder(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	order := deliveredOrder(userID, productID)
	svc, _, _ := testReviewService(order)
	ctx := context.Background()

	req := &model.CreateReviewRequest{
		ProductID: productID.String(),
		OrderID:   order.ID.String(),
		Rating:    4,
	}
	_, err := svc.Create(ctx, userID, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, userID, req)
	assert.ErrorIs(t, err, model.ErrAlreadyReviewed)
}

func TestHidingReviewDropsItFromAggregate(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	order := deliveredOrder(userID, productID)
	svc, _, products := testReviewService(order)
	ctx := context.Background()

	rev, err := svc.Create(ctx, userID, &model.CreateReviewRequest{
		ProductID: productID.String(),
		OrderID:   order.ID.String(),
		Rating:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, products.lastCount)

	require.NoError(t, svc.Hide(ctx, rev.ID))
	assert.Equal(t, 0, products.lastCount)
	assert.True(t, products.lastAverage.IsZero())
}

func TestUpdateReviewOwnership(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	order := deliveredOrder(userID, productID)
	svc, _, products := testReviewService(order)
	ctx := context.Background()

	rev, err := svc.Create(ctx, userID, &model.CreateReviewRequest{
		ProductID: productID.String(),
		OrderID:   order.ID.String(),
		Rating:    3,
	})
	require.NoError(t, err)

	newRating := 5
	_, err = svc.Update(ctx, uuid.New(), rev.ID, &model.UpdateReviewRequest{Rating: &newRating})
	assert.ErrorIs(t, err, model.ErrNotOwner)

	updated, err := svc.Update(ctx, userID, rev.ID, &model.UpdateReviewRequest{Rating: &newRating})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.True(t, products.lastAverage.Equal(decimal.NewFromInt(5)))
}
