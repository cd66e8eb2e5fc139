package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pttech-backend/internal/domains/product/model"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "iPhone 15 Pro", "iphone-15-pro"},
		{"punctuation", "Galaxy S24 (Ultra) - 512GB", "galaxy-s24-ultra-512gb"},
		{"leading and trailing junk", "  MacBook Air!  ", "macbook-air"},
		{"collapses runs", "Tab   S9+", "tab-s9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

// salesRepo records RecordSale calls; everything else is inert.
type salesRepo struct {
	sales map[uuid.UUID]int
}

func newSalesRepo() *salesRepo {
	return &salesRepo{sales: make(map[uuid.UUID]int)}
}

func (r *salesRepo) RecordSale(_ context.Context, id uuid.UUID, quantity int) error {
	r.sales[id] += quantity
	return nil
}

func (r *salesRepo) Create(context.Context, *model.Product) error { return nil }
func (r *salesRepo) Update(context.Context, *model.Product) error { return nil }
func (r *salesRepo) GetByID(context.Context, uuid.UUID) (*model.Product, error) {
	return nil, model.ErrNotFound
}
func (r *salesRepo) GetBySlug(context.Context, string) (*model.Product, error) {
	return nil, model.ErrNotFound
}
func (r *salesRepo) GetVariant(context.Context, uuid.UUID) (*model.Variant, error) {
	return nil, model.ErrVariantNotFound
}
func (r *salesRepo) List(context.Context, *model.Filter) ([]model.Product, int, error) {
	return nil, 0, nil
}
func (r *salesRepo) SetActive(context.Context, uuid.UUID, bool) error { return nil }
func (r *salesRepo) SoftDelete(context.Context, uuid.UUID) error      { return nil }
func (r *salesRepo) UpdatePrice(context.Context, uuid.UUID, decimal.Decimal, time.Time) (*model.Product, error) {
	return nil, model.ErrNotFound
}
func (r *salesRepo) PriceHistory(context.Context, uuid.UUID) ([]model.PriceChange, error) {
	return nil, nil
}
func (r *salesRepo) AdjustStock(context.Context, uuid.UUID, int) (*model.Variant, error) {
	return nil, model.ErrVariantNotFound
}
func (r *salesRepo) AppendMedia(context.Context, uuid.UUID, []string, []string) error { return nil }
func (r *salesRepo) UpdateRating(context.Context, uuid.UUID, decimal.Decimal, int) error {
	return nil
}

// deleteTrackingCache remembers which keys were evicted.
type deleteTrackingCache struct {
	deleted []string
}

func (c *deleteTrackingCache) Get(context.Context, string, interface{}) (bool, error) {
	return false, nil
}
func (c *deleteTrackingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (c *deleteTrackingCache) Delete(_ context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return nil
}
func (c *deleteTrackingCache) DeletePattern(context.Context, string) error { return nil }
func (c *deleteTrackingCache) Ping(context.Context) error                  { return nil }

func TestRecordSaleBumpsTotalsAndEvictsCache(t *testing.T) {
	repo := newSalesRepo()
	evictions := &deleteTrackingCache{}
	svc := &productService{repo: repo, cache: evictions, now: time.Now}

	id := uuid.New()
	require.NoError(t, svc.RecordSale(context.Background(), id, 3))
	require.NoError(t, svc.RecordSale(context.Background(), id, 2))

	assert.Equal(t, 5, repo.sales[id])
	assert.Contains(t, evictions.deleted, productCacheKeyPrefix+id.String())
}
