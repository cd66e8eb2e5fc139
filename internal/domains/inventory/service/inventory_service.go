package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pttech-backend/internal/domains/inventory/model"
	"pttech-backend/internal/domains/inventory/repository"
	productmodel "pttech-backend/internal/domains/product/model"
	productservice "pttech-backend/internal/domains/product/service"
	"pttech-backend/pkg/logger"
)

type ServiceInterface interface {
	Create(ctx context.Context, createdBy uuid.UUID, req *model.CreateReceiptRequest) (*model.Receipt, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
	List(ctx context.Context, filter *model.Filter) ([]model.Receipt, int, error)

	// Apply moves the receipt's quantities into variant stock and snapshots
	// the before/after levels per item. A receipt applies at most once.
	Apply(ctx context.Context, id uuid.UUID) (*model.Receipt, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type inventoryService struct {
	repo     repository.RepositoryInterface
	products productservice.ServiceInterface
	now      func() time.Time
}

func NewInventoryService(repo repository.RepositoryInterface, products productservice.ServiceInterface) ServiceInterface {
	return &inventoryService{repo: repo, products: products, now: time.Now}
}

func (s *inventoryService) Create(ctx context.Context, createdBy uuid.UUID, req *model.CreateReceiptRequest) (*model.Receipt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	receipt := &model.Receipt{
		ID:              uuid.New(),
		ReceiptNumber:   model.NewReceiptNumber(now),
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
		Note:            req.Note,
		Status:          model.StatusDraft,
		TotalCost:       decimal.Zero,
		CreatedBy:       createdBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, ir := range req.Items {
		if err := ir.Validate(); err != nil {
			return nil, err
		}
		productID, err := uuid.Parse(ir.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id: %w", err)
		}
		variantID, err := uuid.Parse(ir.VariantID)
		if err != nil {
			return nil, fmt.Errorf("variant_id: %w", err)
		}

		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if _, err := s.products.GetVariant(ctx, variantID); err != nil {
			return nil, err
		}

		item := model.ReceiptItem{
			ID:          uuid.New(),
			ReceiptID:   receipt.ID,
			ProductID:   productID,
			VariantID:   variantID,
			ProductName: p.Name,
			UnitCost:    decimal.NewFromFloat(ir.UnitCost),
			Quantity:    ir.Quantity,
		}
		receipt.Items = append(receipt.Items, item)
		receipt.TotalQuantity += item.Quantity
		receipt.TotalCost = receipt.TotalCost.Add(item.Total())
	}

	if len(receipt.Items) == 0 {
		return nil, model.ErrEmptyReceipt
	}

	if err := s.repo.Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *inventoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *inventoryService) List(ctx context.Context, filter *model.Filter) ([]model.Receipt, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *inventoryService) Apply(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	receipt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(receipt.Items) == 0 {
		return nil, model.ErrEmptyReceipt
	}

	// The conditional flip is the gate: concurrent applies race on it and
	// only the winner touches stock.
	applied, err := s.repo.MarkApplied(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, model.ErrAlreadyApplied
	}

	type delta struct {
		variantID uuid.UUID
		quantity  int
	}
	var done []delta
	unwind := func() {
		for _, d := range done {
			_, err := s.products.AdjustStock(ctx, &productmodel.AdjustStockRequest{
				VariantID: d.variantID.String(),
				Delta:     -d.quantity,
			})
			if err != nil {
				logger.Error("unwind receipt stock delta", err)
			}
		}
		if err := s.repo.Reopen(ctx, id); err != nil {
			logger.Error("reopen receipt after failed apply", err)
		}
	}

	for i := range receipt.Items {
		item := &receipt.Items[i]
		v, err := s.products.AdjustStock(ctx, &productmodel.AdjustStockRequest{
			VariantID: item.VariantID.String(),
			Delta:     item.Quantity,
		})
		if err != nil {
			unwind()
			return nil, err
		}
		done = append(done, delta{variantID: item.VariantID, quantity: item.Quantity})

		item.StockBefore = v.Stock - item.Quantity
		item.StockAfter = v.Stock
		if err := s.repo.SaveItemLevels(ctx, item.ID, item.StockBefore, item.StockAfter); err != nil {
			unwind()
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, id)
}

func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	// Audit-only: applied stock stays applied.
	return s.repo.SoftDelete(ctx, id)
}
