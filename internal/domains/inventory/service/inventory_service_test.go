package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pttech-backend/internal/domains/inventory/model"
	productmodel "pttech-backend/internal/domains/product/model"
	productservice "pttech-backend/internal/domains/product/service"
)

type fakeReceiptRepo struct {
	receipts map[uuid.UUID]*model.Receipt
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[uuid.UUID]*model.Receipt)}
}

func (r *fakeReceiptRepo) Create(_ context.Context, receipt *model.Receipt) error {
	clone := *receipt
	clone.Items = append([]model.ReceiptItem(nil), receipt.Items...)
	r.receipts[receipt.ID] = &clone
	return nil
}

func (r *fakeReceiptRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Receipt, error) {
	receipt, ok := r.receipts[id]
	if !ok || receipt.IsDeleted {
		return nil, model.ErrNotFound
	}
	clone := *receipt
	clone.Items = append([]model.ReceiptItem(nil), receipt.Items...)
	return &clone, nil
}

func (r *fakeReceiptRepo) List(context.Context, *model.Filter) ([]model.Receipt, int, error) {
	return nil, 0, nil
}

func (r *fakeReceiptRepo) MarkApplied(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	receipt, ok := r.receipts[id]
	if !ok || receipt.IsDeleted || receipt.Status != model.StatusDraft {
		return false, nil
	}
	receipt.Status = model.StatusApplied
	receipt.AppliedAt = &at
	return true, nil
}

func (r *fakeReceiptRepo) Reopen(_ context.Context, id uuid.UUID) error {
	receipt, ok := r.receipts[id]
	if !ok {
		return model.ErrNotFound
	}
	receipt.Status = model.StatusDraft
	receipt.AppliedAt = nil
	return nil
}

func (r *fakeReceiptRepo) SaveItemLevels(_ context.Context, itemID uuid.UUID, before, after int) error {
	for _, receipt := range r.receipts {
		for i := range receipt.Items {
			if receipt.Items[i].ID == itemID {
				receipt.Items[i].StockBefore = before
				receipt.Items[i].StockAfter = after
				return nil
			}
		}
	}
	return model.ErrNotFound
}

func (r *fakeReceiptRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	receipt, ok := r.receipts[id]
	if !ok || receipt.IsDeleted {
		return model.ErrNotFound
	}
	receipt.IsDeleted = true
	return nil
}

// stockCatalog tracks variant stock the way the conditional SQL update does.
type stockCatalog struct {
	products map[uuid.UUID]*productmodel.Product
	variants map[uuid.UUID]*productmodel.Variant
}

func newStockCatalog() *stockCatalog {
	return &stockCatalog{
		products: make(map[uuid.UUID]*productmodel.Product),
		variants: make(map[uuid.UUID]*productmodel.Variant),
	}
}

func (f *stockCatalog) add(name string, stock int) (*productmodel.Product, *productmodel.Variant) {
	p := &productmodel.Product{ID: uuid.New(), Name: name}
	v := &productmodel.Variant{ID: uuid.New(), ProductID: p.ID, Stock: stock}
	p.Variants = []productmodel.Variant{*v}
	f.products[p.ID] = p
	f.variants[v.ID] = v
	return p, v
}

func (f *stockCatalog) GetByID(_ context.Context, id uuid.UUID) (*productmodel.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, productmodel.ErrNotFound
	}
	return p, nil
}

func (f *stockCatalog) GetVariant(_ context.Context, id uuid.UUID) (*productmodel.Variant, error) {
	v, ok := f.variants[id]
	if !ok {
		return nil, productmodel.ErrVariantNotFound
	}
	return v, nil
}

func (f *stockCatalog) AdjustStock(_ context.Context, req *productmodel.AdjustStockRequest) (*productmodel.Variant, error) {
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
	clone := *v
	return &clone, nil
}

func (f *stockCatalog) Create(context.Context, *productmodel.CreateProductRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *stockCatalog) Update(context.Context, uuid.UUID, *productmodel.UpdateProductRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *stockCatalog) GetBySlug(context.Context, string) (*productmodel.Product, error) {
	return nil, nil
}
func (f *stockCatalog) List(context.Context, *productmodel.Filter) ([]productmodel.Product, int, error) {
	return nil, 0, nil
}
func (f *stockCatalog) Hide(context.Context, uuid.UUID) error   { return nil }
func (f *stockCatalog) Show(context.Context, uuid.UUID) error   { return nil }
func (f *stockCatalog) Delete(context.Context, uuid.UUID) error { return nil }
func (f *stockCatalog) UpdatePrice(context.Context, uuid.UUID, *productmodel.UpdatePriceRequest) (*productmodel.Product, error) {
	return nil, nil
}
func (f *stockCatalog) PriceHistory(context.Context, uuid.UUID) ([]productmodel.PriceChange, error) {
	return nil, nil
}
func (f *stockCatalog) AttachMedia(context.Context, uuid.UUID, []string, []string) error { return nil }
func (f *stockCatalog) RefreshRating(context.Context, uuid.UUID, decimal.Decimal, int) error {
	return nil
}
func (f *stockCatalog) RecordSale(context.Context, uuid.UUID, int) error { return nil }
func (f *stockCatalog) ExportExcel(context.Context) ([]byte, error) { return nil, nil }
func (f *stockCatalog) ImportExcel(context.Context, []byte) (*productservice.ImportReport, error) {
	return nil, nil
}

func TestCreateReceiptComputesTotals(t *testing.T) {
	catalog := newStockCatalog()
	p, v := catalog.add("Laptop", 5)
	svc := &inventoryService{repo: newFakeReceiptRepo(), products: catalog, now: time.Now}

	receipt, err := svc.Create(context.Background(), uuid.New(), &model.CreateReceiptRequest{
		SupplierName: "ACME Distribution",
		Items: []model.ReceiptItemRequest{
			{ProductID: p.ID.String(), VariantID: v.ID.String(), UnitCost: 450, Quantity: 10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, receipt.Status)
	assert.Equal(t, 10, receipt.TotalQuantity)
	assert.True(t, receipt.TotalCost.Equal(decimal.NewFromInt(4500)))
	assert.Equal(t, "Laptop", receipt.Items[0].ProductName)

	// Creating a draft never touches stock.
	assert.Equal(t, 5, catalog.variants[v.ID].Stock)
}

func TestApplyIncrementsStockAndRecordsLevels(t *testing.T) {
	catalog := newStockCatalog()
	p, v := catalog.add("Laptop", 5)
	svc := &inventoryService{repo: newFakeReceiptRepo(), products: catalog, now: time.Now}
	ctx := context.Background()

	receipt, err := svc.Create(ctx, uuid.New(), &model.CreateReceiptRequest{
		SupplierName: "ACME Distribution",
		Items: []model.ReceiptItemRequest{
			{ProductID: p.ID.String(), VariantID: v.ID.String(), UnitCost: 450, Quantity: 10},
		},
	})
	require.NoError(t, err)

	applied, err := svc.Apply(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApplied, applied.Status)
	require.NotNil(t, applied.AppliedAt)
	assert.Equal(t, 15, catalog.variants[v.ID].Stock)
	assert.Equal(t, 5, applied.Items[0].StockBefore)
	assert.Equal(t, 15, applied.Items[0].StockAfter)
}

func TestApplyTwiceFails(t *testing.T) {
	catalog := newStockCatalog()
	p, v := catalog.add("Laptop", 5)
	svc := &inventoryService{repo: newFakeReceiptRepo(), products: catalog, now: time.Now}
	ctx := context.Background()

	receipt, err := svc.Create(ctx, uuid.New(), &model.CreateReceiptRequest{
		SupplierName: "ACME Distribution",
		Items: []model.ReceiptItemRequest{
			{ProductID: p.ID.String(), VariantID: v.ID.String(), Quantity: 10},
		},
	})
	require.NoError(t, err)

	_, err = svc.Apply(ctx, receipt.ID)
	require.NoError(t, err)

	_, err = svc.Apply(ctx, receipt.ID)
	assert.ErrorIs(t, err, model.ErrAlreadyApplied)
	assert.Equal(t, 15, catalog.variants[v.ID].Stock, "stock moves exactly once")
}

func TestApplyUnwindsWhenAVariantDisappears(t *testing.T) {
	catalog := newStockCatalog()
	p1, v1 := catalog.add("Laptop", 5)
	p2, v2 := catalog.add("Phone", 3)
	repo := newFakeReceiptRepo()
	svc := &inventoryService{repo: repo, products: catalog, now: time.Now}
	ctx := context.Background()

	receipt, err := svc.Create(ctx, uuid.New(), &model.CreateReceiptRequest{
		SupplierName: "ACME Distribution",
		Items: []model.ReceiptItemRequest{
			{ProductID: p1.ID.String(), VariantID: v1.ID.String(), Quantity: 10},
			{ProductID: p2.ID.String(), VariantID: v2.ID.String(), Quantity: 7},
		},
	})
	require.NoError(t, err)

	// The second variant is gone by the time the receipt is applied.
	delete(catalog.variants, v2.ID)

	_, err = svc.Apply(ctx, receipt.ID)
	assert.ErrorIs(t, err, productmodel.ErrVariantNotFound)

	assert.Equal(t, 5, catalog.variants[v1.ID].Stock, "applied delta is compensated")

	reloaded, err := repo.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, reloaded.Status, "receipt can be retried after fixing the items")
}

func TestDeleteIsAuditOnly(t *testing.T) {
	catalog := newStockCatalog()
	p, v := catalog.add("Laptop", 5)
	repo := newFakeReceiptRepo()
	svc := &inventoryService{repo: repo, products: catalog, now: time.Now}
	ctx := context.Background()

	receipt, err := svc.Create(ctx, uuid.New(), &model.CreateReceiptRequest{
		SupplierName: "ACME Distribution",
		Items: []model.ReceiptItemRequest{
			{ProductID: p.ID.String(), VariantID: v.ID.String(), Quantity: 10},
		},
	})
	require.NoError(t, err)
	_, err = svc.Apply(ctx, receipt.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, receipt.ID))
	assert.Equal(t, 15, catalog.variants[v.ID].Stock, "deleting a receipt never reverses stock")
}
