package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pttech-backend/internal/domains/discount/model"
	"pttech-backend/internal/shared/lifecycle"
)

type fakeDiscountRepo struct {
	codes map[string]*model.DiscountCode
}

func newFakeDiscountRepo(codes ...*model.DiscountCode) *fakeDiscountRepo {
	r := &fakeDiscountRepo{codes: make(map[string]*model.DiscountCode)}
	for _, c := range codes {
		r.codes[c.Code] = c
	}
	return r
}

func (r *fakeDiscountRepo) Create(_ context.Context, d *model.DiscountCode) error {
	if _, ok := r.codes[d.Code]; ok {
		return model.ErrDuplicateCode
	}
	r.codes[d.Code] = d
	return nil
}

func (r *fakeDiscountRepo) Update(_ context.Context, d *model.DiscountCode) error {
	r.codes[d.Code] = d
	return nil
}

func (r *fakeDiscountRepo) GetByID(_ context.Context, id uuid.UUID) (*model.DiscountCode, error) {
	for _, c := range r.codes {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *fakeDiscountRepo) GetByCode(_ context.Context, code string) (*model.DiscountCode, error) {
	c, ok := r.codes[strings.ToUpper(code)]
	if !ok {
		return nil, model.ErrNotFound
	}
	return c, nil
}

func (r *fakeDiscountRepo) List(context.Context, bool) ([]model.DiscountCode, error) {
	var out []model.DiscountCode
	for _, c := range r.codes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeDiscountRepo) ListUsable(context.Context, time.Time) ([]model.DiscountCode, error) {
	return nil, nil
}

func (r *fakeDiscountRepo) Search(context.Context, string) ([]model.DiscountCode, error) {
	return nil, nil
}

func (r *fakeDiscountRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	for _, c := range r.codes {
		if c.ID == id {
			c.IsActive = active
			return nil
		}
	}
	return model.ErrNotFound
}

func (r *fakeDiscountRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	for _, c := range r.codes {
		if c.ID == id {
			c.IsDeleted = true
			return nil
		}
	}
	return model.ErrNotFound
}

// Redeem mirrors the production conditional update: all usability checks
// and the increment happen "atomically".
func (r *fakeDiscountRepo) Redeem(_ context.Context, id, userID uuid.UUID) (bool, error) {
	for _, c := range r.codes {
		if c.ID != id {
			continue
		}
		now := time.Now()
		if !c.Visible() || now.Before(c.StartDate) || now.After(c.EndDate) {
			return false, nil
		}
		if c.ExhaustedLimit() || c.UsedByUser(userID) {
			return false, nil
		}
		c.UsageCount++
		c.UsedBy = append(c.UsedBy, userID)
		return true, nil
	}
	return false, nil
}

func (r *fakeDiscountRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, c := range r.codes {
		if c.IsActive && !c.IsDeleted && c.EndDate.Before(now) {
			c.IsActive = false
			n++
		}
	}
	return n, nil
}

func activeCode(code string, opts func(*model.DiscountCode)) *model.DiscountCode {
	d := &model.DiscountCode{
		ID:        uuid.New(),
		Code:      code,
		Type:      model.TypePercentage,
		Value:     decimal.NewFromInt(10),
		Scope:     model.ScopeAll,
		StartDate: time.Now().Add(-24 * time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
		Lifecycle: lifecycle.Lifecycle{IsActive: true},
	}
	if opts != nil {
		opts(d)
	}
	return d
}

func newTestService(repo *fakeDiscountRepo) *discountService {
	return &discountService{repo: repo, now: time.Now}
}

func TestQuotePercentage(t *testing.T) {
	repo := newFakeDiscountRepo(activeCode("SAVE10", nil))
	svc := newTestService(repo)

	_, amount, err := svc.Quote(context.Background(), "SAVE10", uuid.New(), nil, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromFloat(5.00)), "10%% of $50 should be $5.00, got %s", amount)
}

func TestQuoteFixedClampedToSubtotal(t *testing.T) {
	repo := newFakeDiscountRepo(activeCode("FLAT20", func(d *model.DiscountCode) {
		d.Type = model.TypeFixed
		d.Value = decimal.NewFromInt(20)
	}))
	svc := newTestService(repo)

	_, amount, err := svc.Quote(context.Background(), "FLAT20", uuid.New(), nil, decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(15)), "fixed discount must not exceed subtotal")
}

func TestQuotePercentageCap(t *testing.T) {
	cap := decimal.NewFromInt(3)
	repo := newFakeDiscountRepo(activeCode("CAP3", func(d *model.DiscountCode) {
		d.MaxAmount = &cap
	}))
	svc := newTestService(repo)

	_, amount, err := svc.Quote(context.Background(), "CAP3", uuid.New(), nil, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, amount.Equal(cap))
}

func TestQuoteValidityWindow(t *testing.T) {
	repo := newFakeDiscountRepo(
		activeCode("FUTURE", func(d *model.DiscountCode) {
			d.StartDate = time.Now().Add(time.Hour)
		}),
		activeCode("PAST", func(d *model.DiscountCode) {
			d.EndDate = time.Now().Add(-time.Hour)
		}),
		activeCode("HIDDEN", func(d *model.DiscountCode) {
			d.IsActive = false
		}),
	)
	svc := newTestService(repo)
	ctx := context.Background()

	_, _, err := svc.Quote(ctx, "FUTURE", uuid.New(), nil, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, model.ErrNotStarted)

	_, _, err = svc.Quote(ctx, "PAST", uuid.New(), nil, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, model.ErrExpired)

	_, _, err = svc.Quote(ctx, "HIDDEN", uuid.New(), nil, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, model.ErrInactive)
}

func TestQuoteScope(t *testing.T) {
	inScope := uuid.New()
	repo := newFakeDiscountRepo(activeCode("PHONES", func(d *model.DiscountCode) {
		d.Scope = model.ScopeProducts
		d.ProductIDs = []uuid.UUID{inScope}
	}))
	svc := newTestService(repo)
	ctx := context.Background()

	_, _, err := svc.Quote(ctx, "PHONES", uuid.New(),
		[]model.OrderItemRef{{ProductID: uuid.New()}}, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, model.ErrScopeMismatch)

	_, amount, err := svc.Quote(ctx, "PHONES", uuid.New(),
		[]model.OrderItemRef{{ProductID: inScope}}, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromFloat(5.00)))
}

func TestApplySingleUsePerUser(t *testing.T) {
	repo := newFakeDiscountRepo(activeCode("ONCE", nil))
	svc := newTestService(repo)
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.Apply(ctx, "ONCE", user, nil, decimal.NewFromInt(50))
	require.NoError(t, err)

	_, err = svc.Apply(ctx, "ONCE", user, nil, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, model.ErrAlreadyUsed)
}

// SAVE10 (10%, no cap, limit 100, used 99 times) on a
// $50 order yields $5.00; the 100th use succeeds, the 101st is exhausted.
func TestApplyUsageLimitBoundary(t *testing.T) {
	limit := 100
	repo := newFakeDiscountRepo(activeCode("SAVE10", func(d *model.DiscountCode) {
		d.UsageLimit = &limit
		d.UsageCount = 99
	}))
	svc := newTestService(repo)
	ctx := context.Background()

	amount, err := svc.Apply(ctx, "SAVE10", uuid.New(), nil, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromFloat(5.00)))
	assert.Equal(t, 100, repo.codes["SAVE10"].UsageCount, "usage must rise by exactly one")

	_, err = svc.Apply(ctx, "SAVE10", uuid.New(), nil, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, model.ErrExhausted)
}

func TestApplyBelowMinimum(t *testing.T) {
	min := decimal.NewFromInt(100)
	repo := newFakeDiscountRepo(activeCode("BIG", func(d *model.DiscountCode) {
		d.MinimumPurchase = &min
	}))
	svc := newTestService(repo)

	_, err := svc.Apply(context.Background(), "BIG", uuid.New(), nil, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, model.ErrBelowMinimum)
}

func TestCreateSchedulesFuturePublish(t *testing.T) {
	repo := newFakeDiscountRepo()
	svc := newTestService(repo)

	future := time.Now().Add(48 * time.Hour)
	d, err := svc.Create(context.Background(), &model.CreateDiscountCodeRequest{
		Code:      "later10",
		Type:      "percentage",
		Value:     10,
		Scope:     "all",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(30 * 24 * time.Hour),
		ScheduledDate: &future,
	})
	require.NoError(t, err)
	assert.Equal(t, "LATER10", d.Code)
	assert.False(t, d.IsActive, "scheduled codes start inactive")
	require.NotNil(t, d.ScheduledDate)
}
