package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmodel "pttech-backend/internal/domains/cart/model"
	productmodel "pttech-backend/internal/domains/product/model"
	productservice "pttech-backend/internal/domains/product/service"
)

// fakeCartRepo keeps carts in memory and recomputes totals after every
// mutation the same way the SQL layer does.
type fakeCartRepo struct {
	carts map[uuid.UUID]*cartmodel.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[uuid.UUID]*cartmodel.Cart)}
}

func (r *fakeCartRepo) recompute(c *cartmodel.Cart) {
	c.TotalItems = 0
	c.TotalPrice = decimal.Zero
	for _, item := range c.Items {
		c.TotalItems += item.Quantity
		c.TotalPrice = c.TotalPrice.Add(item.Total())
	}
}

func (r *fakeCartRepo) GetOrCreateByUser(_ context.Context, userID uuid.UUID) (*cartmodel.Cart, error) {
	for _, c := range r.carts {
		if c.UserID != nil && *c.UserID == userID && !c.IsDeleted {
			return c, nil
		}
	}
	c := &cartmodel.Cart{ID: uuid.New(), UserID: &userID, TotalPrice: decimal.Zero}
	r.carts[c.ID] = c
	return c, nil
}

func (r *fakeCartRepo) GetOrCreateBySession(_ context.Context, sessionID string) (*cartmodel.Cart, error) {
	for _, c := range r.carts {
		if c.UserID == nil && c.SessionID == sessionID && !c.IsDeleted {
			return c, nil
		}
	}
	c := &cartmodel.Cart{ID: uuid.New(), SessionID: sessionID, TotalPrice: decimal.Zero}
	r.carts[c.ID] = c
	return c, nil
}

func (r *fakeCartRepo) GetByID(_ context.Context, id uuid.UUID) (*cartmodel.Cart, error) {
	c, ok := r.carts[id]
	if !ok || c.IsDeleted {
		return nil, cartmodel.ErrNotFound
	}
	return c, nil
}

func (r *fakeCartRepo) AddItem(ctx context.Context, cartID uuid.UUID, item *cartmodel.CartItem) (*cartmodel.Cart, error) {
	c, err := r.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	merged := false
	for i := range c.Items {
		if c.Items[i].VariantID == item.VariantID {
			c.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, *item)
	}
	r.recompute(c)
	return c, nil
}

func (r *fakeCartRepo) ChangeQuantity(ctx context.Context, cartID, itemID uuid.UUID, delta int) (*cartmodel.Cart, error) {
	c, err := r.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for i := range c.Items {
		if c.Items[i].ID != itemID {
			continue
		}
		if c.Items[i].Quantity+delta <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity += delta
		}
		r.recompute(c)
		return c, nil
	}
	return nil, cartmodel.ErrItemNotFound
}

func (r *fakeCartRepo) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*cartmodel.Cart, error) {
	c, err := r.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			r.recompute(c)
			return c, nil
		}
	}
	return nil, cartmodel.ErrItemNotFound
}

func (r *fakeCartRepo) SwapVariant(ctx context.Context, cartID, itemID uuid.UUID, replacement *cartmodel.CartItem) (*cartmodel.Cart, error) {
	c, err := r.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			quantity := c.Items[i].Quantity
			c.Items[i] = *replacement
			c.Items[i].ID = itemID
			c.Items[i].Quantity = quantity
			r.recompute(c)
			return c, nil
		}
	}
	return nil, cartmodel.ErrItemNotFound
}

func (r *fakeCartRepo) Merge(ctx context.Context, srcID, dstID uuid.UUID) (*cartmodel.Cart, error) {
	src, err := r.GetByID(ctx, srcID)
	if err != nil {
		return nil, err
	}
	dst, err := r.GetByID(ctx, dstID)
	if err != nil {
		return nil, err
	}
	for _, item := range src.Items {
		if _, err := r.AddItem(ctx, dstID, &item); err != nil {
			return nil, err
		}
	}
	src.IsDeleted = true
	r.recompute(dst)
	return dst, nil
}

func (r *fakeCartRepo) Clear(ctx context.Context, cartID uuid.UUID) error {
	c, err := r.GetByID(ctx, cartID)
	if err != nil {
		return err
	}
	c.Items = nil
	r.recompute(c)
	return nil
}

func (r *fakeCartRepo) SoftDelete(ctx context.Context, cartID uuid.UUID) error {
	c, err := r.GetByID(ctx, cartID)
	if err != nil {
		return err
	}
	c.IsDeleted = true
	return nil
}

// fakeProductService serves a fixed catalog; only the methods the cart
// service touches do real work.
type fakeProductService struct {
	products map[uuid.UUID]*productmodel.Product
}

func (f *fakeProductService) GetByID(_ context.Context, id uuid.UUID) (*productmodel.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, productmodel.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductService) Create(context.Context, *productmodel.CreateProductRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *fakeProductService) Update(context.Context, uuid.UUID, *productmodel.UpdateProductRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *fakeProductService) GetBySlug(context.Context, string) (*productmodel.Product, error) {
	return nil, nil
}
func (f *fakeProductService) GetVariant(_ context.Context, variantID uuid.UUID) (*productmodel.Variant, error) {
	for _, p := range f.products {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				return &p.Variants[i], nil
			}
		}
	}
	return nil, productmodel.ErrVariantNotFound
}
func (f *fakeProductService) List(context.Context, *productmodel.Filter) ([]productmodel.Product, int, error) {
	return nil, 0, nil
}
func (f *fakeProductService) Hide(context.Context, uuid.UUID) error   { return nil }
func (f *fakeProductService) Show(context.Context, uuid.UUID) error   { return nil }
func (f *fakeProductService) Delete(context.Context, uuid.UUID) error { return nil }
func (f *fakeProductService) UpdatePrice(context.Context, uuid.UUID, *productmodel.UpdatePriceRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *fakeProductService) PriceHistory(context.Context, uuid.UUID) ([]productmodel.PriceChange, error) {
	return nil, nil
}
func (f *fakeProductService) AdjustStock(context.Context, *productmodel.AdjustStockRequest) (*productmodel.Variant, error) {
	return nil, nil
}
func (f *fakeProductService) AttachMedia(context.Context, uuid.UUID, []string, []string) error {
	return nil
}
func (f *fakeProductService) RefreshRating(context.Context, uuid.UUID, decimal.Decimal, int) error {
	return nil
}
func (f *fakeProductService) RecordSale(context.Context, uuid.UUID, int) error { return nil }
func (f *fakeProductService) ExportExcel(context.Context) ([]byte, error) { return nil, nil }
func (f *fakeProductService) ImportExcel(context.Context, []byte) (*productservice.ImportReport, error) {
	return nil, nil
}

func fixtureProduct(price float64, variants int) *productmodel.Product {
	p := &productmodel.Product{
		ID:           uuid.New(),
		Name:         "Test Phone",
		CurrentPrice: decimal.NewFromFloat(price),
	}
	for i := 0; i < variants; i++ {
		p.Variants = append(p.Variants, productmodel.Variant{
			ID:        uuid.New(),
			ProductID: p.ID,
			Stock:     10,
			Condition: productmodel.ConditionNew,
		})
	}
	return p
}

func assertTotalsInvariant(t *testing.T, c *cartmodel.Cart) {
	t.Helper()
	items := 0
	price := decimal.Zero
	for _, item := range c.Items {
		items += item.Quantity
		price = price.Add(item.Total())
	}
	assert.Equal(t, items, c.TotalItems, "total_items must equal the sum of quantities")
	assert.True(t, price.Equal(c.TotalPrice), "total_price must equal the sum of line totals")
}

func TestCartMutationsKeepTotalsConsistent(t *testing.T) {
	p := fixtureProduct(25.50, 2)
	repo := newFakeCartRepo()
	svc := &cartService{
		repo:     repo,
		products: &fakeProductService{products: map[uuid.UUID]*productmodel.Product{p.ID: p}},
		now:      time.Now,
	}
	ctx := context.Background()

	cart, err := svc.GetForUser(ctx, uuid.New())
	require.NoError(t, err)

	cart, err = svc.AddItem(ctx, cart.ID, &cartmodel.AddItemRequest{
		ProductID: p.ID.String(),
		VariantID: p.Variants[0].ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalItems)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromFloat(51.00)))
	assertTotalsInvariant(t, cart)

	// Adding the same variant merges into one row.
	cart, err = svc.AddItem(ctx, cart.ID, &cartmodel.AddItemRequest{
		ProductID: p.ID.String(),
		VariantID: p.Variants[0].ID.String(),
		Quantity:  1,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.TotalItems)
	assertTotalsInvariant(t, cart)

	itemID := cart.Items[0].ID

	cart, err = svc.ChangeQuantity(ctx, cart.ID, itemID, &cartmodel.ChangeQuantityRequest{Delta: -1})
	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalItems)
	assertTotalsInvariant(t, cart)

	// Decrementing to zero removes the row.
	cart, err = svc.ChangeQuantity(ctx, cart.ID, itemID, &cartmodel.ChangeQuantityRequest{Delta: -2})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems)
	assert.True(t, cart.TotalPrice.IsZero())
	assertTotalsInvariant(t, cart)
}

func TestChangeVariantCarriesQuantity(t *testing.T) {
	p := fixtureProduct(10, 2)
	repo := newFakeCartRepo()
	svc := &cartService{
		repo:     repo,
		products: &fakeProductService{products: map[uuid.UUID]*productmodel.Product{p.ID: p}},
		now:      time.Now,
	}
	ctx := context.Background()

	cart, err := svc.GetForUser(ctx, uuid.New())
	require.NoError(t, err)
	cart, err = svc.AddItem(ctx, cart.ID, &cartmodel.AddItemRequest{
		ProductID: p.ID.String(),
		VariantID: p.Variants[0].ID.String(),
		Quantity:  4,
	})
	require.NoError(t, err)

	cart, err = svc.ChangeVariant(ctx, cart.ID, cart.Items[0].ID, &cartmodel.ChangeVariantRequest{
		VariantID: p.Variants[1].ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, p.Variants[1].ID, cart.Items[0].VariantID)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assertTotalsInvariant(t, cart)

	// Swapping to a variant the product does not have fails.
	_, err = svc.ChangeVariant(ctx, cart.ID, cart.Items[0].ID, &cartmodel.ChangeVariantRequest{
		VariantID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, productmodel.ErrVariantNotFound)
}

func TestMergeGuestCart(t *testing.T) {
	p := fixtureProduct(10, 2)
	repo := newFakeCartRepo()
	svc := &cartService{
		repo:     repo,
		products: &fakeProductService{products: map[uuid.UUID]*productmodel.Product{p.ID: p}},
		now:      time.Now,
	}
	ctx := context.Background()
	userID := uuid.New()

	guest, err := svc.GetForSession(ctx, "sess-1")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, guest.ID, &cartmodel.AddItemRequest{
		ProductID: p.ID.String(),
		VariantID: p.Variants[0].ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	mine, err := svc.GetForUser(ctx, userID)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, mine.ID, &cartmodel.AddItemRequest{
		ProductID: p.ID.String(),
		VariantID: p.Variants[0].ID.String(),
		Quantity:  1,
	})
	require.NoError(t, err)

	merged, err := svc.MergeGuestCart(ctx, "sess-1", userID)
	require.NoError(t, err)
	require.Len(t, merged.Items, 1)
	assert.Equal(t, 3, merged.TotalItems)
	assertTotalsInvariant(t, merged)

	// The guest cart is retired.
	_, err = repo.GetByID(ctx, guest.ID)
	assert.ErrorIs(t, err, cartmodel.ErrNotFound)
}

func TestMergeGuestCartCapsQuantityAtStock(t *testing.T) {
	p := fixtureProduct(10, 1)
	p.Variants[0].Stock = 3
	repo := newFakeCartRepo()
	svc := &cartService{
		repo:     repo,
		products: &fakeProductService{products: map[uuid.UUID]*productmodel.Product{p.ID: p}},
		now:      time.Now,
	}
	ctx := context.Background()
	userID := uuid.New()

	guest, err := svc.GetForSession(ctx, "sess-2")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, guest.ID, &cartmodel.AddItemRequest{
		ProductID: p.ID.String(),
		VariantID: p.Variants[0].ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	mine, err := svc.GetForUser(ctx, userID)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, mine.ID, &cartmodel.AddItemRequest{
		ProductID: p.ID.String(),
		VariantID: p.Variants[0].ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	// 2 + 2 exceeds the 3 in stock, so the merged line holds exactly 3.
	merged, err := svc.MergeGuestCart(ctx, "sess-2", userID)
	require.NoError(t, err)
	require.Len(t, merged.Items, 1)
	assert.Equal(t, 3, merged.Items[0].Quantity)
	assertTotalsInvariant(t, merged)
}
