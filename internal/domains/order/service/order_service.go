package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	discountmodel "pttech-backend/internal/domains/discount/model"
	discountservice "pttech-backend/internal/domains/discount/service"
	ordermodel "pttech-backend/internal/domains/order/model"
	"pttech-backend/internal/domains/order/repository"
	productmodel "pttech-backend/internal/domains/product/model"
	productservice "pttech-backend/internal/domains/product/service"
	"pttech-backend/internal/infrastructure/queue"
	"pttech-backend/pkg/logger"
)

// TaskEnqueuer is what the service needs from the queue client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) error
}

type ServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, email string, req *ordermodel.CreateOrderRequest) (*ordermodel.CreateOrderResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error)
	List(ctx context.Context, filter *ordermodel.Filter) ([]ordermodel.Order, int, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, to ordermodel.Status, email string) (*ordermodel.Order, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*ordermodel.Order, error)

	RequestReturn(ctx context.Context, id, userID uuid.UUID, req *ordermodel.RequestReturnRequest) (*ordermodel.Order, error)
	ApproveReturn(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error)
	RejectReturn(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error)
	CompleteReturn(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error)

	// AutoConfirmStale promotes pending orders older than the grace
	// period to confirmed. Run periodically by the worker.
	AutoConfirmStale(ctx context.Context, grace time.Duration) (int, error)

	MonthlySpending(ctx context.Context, userID uuid.UUID, months int) ([]ordermodel.MonthlySpending, error)
	ExportExcel(ctx context.Context, filter *ordermodel.Filter) ([]byte, error)
}

type orderService struct {
	repo      repository.RepositoryInterface
	products  productservice.ServiceInterface
	discounts discountservice.ServiceInterface
	tasks     TaskEnqueuer
	now       func() time.Time
}

func NewOrderService(
	repo repository.RepositoryInterface,
	products productservice.ServiceInterface,
	discounts discountservice.ServiceInterface,
	tasks TaskEnqueuer,
) ServiceInterface {
	return &orderService{
		repo:      repo,
		products:  products,
		discounts: discounts,
		tasks:     tasks,
		now:       time.Now,
	}
}

type reservedLine struct {
	item ordermodel.OrderItem
	ref  discountmodel.OrderItemRef
}

func (s *orderService) Create(ctx context.Context, userID uuid.UUID, email string, req *ordermodel.CreateOrderRequest) (*ordermodel.CreateOrderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	orderID := uuid.New()

	var (
		reserved    []reservedLine
		unavailable []ordermodel.UnavailableItem
	)

	// releaseAll undoes every stock decrement taken so far; used when the
	// order cannot proceed.
	releaseAll := func() {
		for _, line := range reserved {
			if _, err := s.products.AdjustStock(ctx, &productmodel.AdjustStockRequest{
				VariantID: line.item.VariantID.String(),
				Delta:     line.item.Quantity,
			}); err != nil {
				logger.Error("restore stock after failed order", err)
			}
		}
	}

	for _, ir := range req.Items {
		if err := ir.Validate(); err != nil {
			releaseAll()
			return nil, err
		}
		productID, err := uuid.Parse(ir.ProductID)
		if err != nil {
			releaseAll()
			return nil, fmt.Errorf("product_id: %w", err)
		}
		variantID, err := uuid.Parse(ir.VariantID)
		if err != nil {
			releaseAll()
			return nil, fmt.Errorf("variant_id: %w", err)
		}

		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			releaseAll()
			return nil, err
		}
		var variant *productmodel.Variant
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				variant = &p.Variants[i]
				break
			}
		}
		if variant == nil {
			releaseAll()
			return nil, productmodel.ErrVariantNotFound
		}

		// Conditional decrement: fails instead of going negative.
		_, err = s.products.AdjustStock(ctx, &productmodel.AdjustStockRequest{
			VariantID: ir.VariantID,
			Delta:     -ir.Quantity,
		})
		if err != nil {
			if errors.Is(err, productmodel.ErrOutOfStock) {
				unavailable = append(unavailable, ordermodel.UnavailableItem{
					ProductID: ir.ProductID,
					VariantID: ir.VariantID,
					Requested: ir.Quantity,
					Available: variant.Stock,
				})
				continue
			}
			releaseAll()
			return nil, err
		}

		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		reserved = append(reserved, reservedLine{
			item: ordermodel.OrderItem{
				ID:          uuid.New(),
				OrderID:     orderID,
				ProductID:   p.ID,
				VariantID:   variant.ID,
				ProductName: p.Name,
				ImageURL:    image,
				Color:       variant.Color,
				Size:        variant.Size,
				RAM:         variant.RAM,
				Storage:     variant.Storage,
				Condition:   variant.Condition,
				Price:       p.CurrentPrice,
				Quantity:    ir.Quantity,
				CreatedAt:   now,
			},
			ref: discountmodel.OrderItemRef{ProductID: p.ID, CategoryID: p.Category},
		})
	}

	if len(unavailable) > 0 && !req.ContinueWithAvailableItems {
		releaseAll()
		return &ordermodel.CreateOrderResult{Unavailable: unavailable}, ordermodel.ErrItemsUnavailable
	}
	if len(reserved) == 0 {
		return &ordermodel.CreateOrderResult{Unavailable: unavailable}, ordermodel.ErrItemsUnavailable
	}

	totalPrice := decimal.Zero
	items := make([]ordermodel.OrderItem, 0, len(reserved))
	refs := make([]discountmodel.OrderItemRef, 0, len(reserved))
	for _, line := range reserved {
		totalPrice = totalPrice.Add(line.item.Total())
		items = append(items, line.item)
		refs = append(refs, line.ref)
	}

	discountAmount := decimal.Zero
	if req.DiscountCode != "" {
		amount, err := s.discounts.Apply(ctx, req.DiscountCode, userID, refs, totalPrice)
		if err != nil {
			releaseAll()
			return nil, err
		}
		discountAmount = amount
	}

	shipping := decimal.NewFromFloat(req.ShippingPrice)
	o := &ordermodel.Order{
		ID:              orderID,
		OrderNumber:     ordermodel.NewOrderNumber(now),
		UserID:          userID,
		Items:           items,
		TotalPrice:      totalPrice,
		DiscountCode:    req.DiscountCode,
		DiscountAmount:  discountAmount,
		ShippingPrice:   shipping,
		Status:          ordermodel.StatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   ordermodel.PaymentStatusPending,
		ShippingName:    req.ShippingName,
		ShippingPhone:   req.ShippingPhone,
		ShippingAddress: req.ShippingAddress,
		Note:            req.Note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	o.FinalPrice = o.ComputeFinalPrice()

	if err := s.repo.Create(ctx, o); err != nil {
		releaseAll()
		return nil, err
	}

	for _, item := range items {
		if err := s.products.RecordSale(ctx, item.ProductID, item.Quantity); err != nil {
			logger.Error("record product sale", err)
		}
	}

	s.enqueueConfirmation(email, o)

	return &ordermodel.CreateOrderResult{Order: o, Unavailable: unavailable}, nil
}

func (s *orderService) enqueueConfirmation(email string, o *ordermodel.Order) {
	if email == "" {
		return
	}
	task, err := queue.NewOrderConfirmationTask(queue.OrderConfirmationPayload{
		Email:       email,
		OrderNumber: o.OrderNumber,
		FinalPrice:  o.FinalPrice.StringFixed(2),
	})
	if err != nil {
		logger.Error("build order confirmation task", err)
		return
	}
	if err := s.tasks.Enqueue(task, asynq.Queue(queue.QueueHigh)); err != nil {
		logger.Error("enqueue order confirmation", err)
	}
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *orderService) List(ctx context.Context, filter *ordermodel.Filter) ([]ordermodel.Order, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, to ordermodel.Status, email string) (*ordermodel.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ordermodel.ErrInvalidTransition, o.Status, to)
	}
	// Cancellation and the return flow have dedicated entry points
	// carrying their extra fields.
	switch to {
	case ordermodel.StatusCancelled, ordermodel.StatusReturnRequested,
		ordermodel.StatusReturnApproved, ordermodel.StatusReturnRejected,
		ordermodel.StatusReturned:
		return nil, fmt.Errorf("%w: %s requires its dedicated endpoint", ordermodel.ErrInvalidTransition, to)
	}

	moved, err := s.repo.UpdateStatus(ctx, id, o.Status, to, s.now())
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ordermodel.ErrInvalidTransition
	}

	if email != "" {
		s.enqueueStatusUpdate(email, o.OrderNumber, string(to))
	}
	return s.repo.GetByID(ctx, id)
}

func (s *orderService) enqueueStatusUpdate(email, orderNumber, status string) {
	task, err := queue.NewOrderStatusTask(queue.OrderStatusPayload{
		Email:       email,
		OrderNumber: orderNumber,
		Status:      status,
	})
	if err != nil {
		logger.Error("build order status task", err)
		return
	}
	if err := s.tasks.Enqueue(task); err != nil {
		logger.Error("enqueue order status update", err)
	}
}

func (s *orderService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*ordermodel.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(ordermodel.StatusCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel a %s order", ordermodel.ErrInvalidTransition, o.Status)
	}

	cancelled, err := s.repo.SaveCancellation(ctx, id, o.Status, reason, s.now())
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, ordermodel.ErrInvalidTransition
	}

	// Pre-shipment cancellation returns the reserved stock.
	s.restoreStock(ctx, o)

	return s.repo.GetByID(ctx, id)
}

func (s *orderService) restoreStock(ctx context.Context, o *ordermodel.Order) {
	for _, item := range o.Items {
		if _, err := s.products.AdjustStock(ctx, &productmodel.AdjustStockRequest{
			VariantID: item.VariantID.String(),
			Delta:     item.Quantity,
		}); err != nil {
			logger.Error("restore stock on cancellation", err)
		}
	}
}

func (s *orderService) RequestReturn(ctx context.Context, id, userID uuid.UUID, req *ordermodel.RequestReturnRequest) (*ordermodel.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ordermodel.ErrNotFound
	}
	if o.Status != ordermodel.StatusDelivered {
		return nil, ordermodel.ErrNotReturnable
	}

	saved, err := s.repo.SaveReturnRequest(ctx, id, req.Reason, req.MediaURLs, s.now())
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, ordermodel.ErrNotReturnable
	}
	return s.repo.GetByID(ctx, id)
}

func (s *orderService) ApproveReturn(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	return s.resolveReturn(ctx, id, ordermodel.StatusReturnApproved)
}

func (s *orderService) RejectReturn(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	return s.resolveReturn(ctx, id, ordermodel.StatusReturnRejected)
}

// resolveReturn moves a pending return request to exactly one of the two
// terminal resolutions.
func (s *orderService) resolveReturn(ctx context.Context, id uuid.UUID, to ordermodel.Status) (*ordermodel.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != ordermodel.StatusReturnRequested {
		return nil, ordermodel.ErrReturnResolved
	}

	resolved, err := s.repo.ResolveReturn(ctx, id, to, s.now())
	if err != nil {
		return nil, err
	}
	if !resolved {
		return nil, ordermodel.ErrReturnResolved
	}
	return s.repo.GetByID(ctx, id)
}

func (s *orderService) CompleteReturn(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != ordermodel.StatusReturnApproved {
		return nil, fmt.Errorf("%w: return not approved", ordermodel.ErrInvalidTransition)
	}

	moved, err := s.repo.UpdateStatus(ctx, id, ordermodel.StatusReturnApproved, ordermodel.StatusReturned, s.now())
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ordermodel.ErrInvalidTransition
	}

	// Returned goods go back on the shelf.
	s.restoreStock(ctx, o)

	return s.repo.GetByID(ctx, id)
}

func (s *orderService) AutoConfirmStale(ctx context.Context, grace time.Duration) (int, error) {
	cutoff := s.now().Add(-grace)
	ids, err := s.repo.StalePendingIDs(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	confirmed := 0
	for _, id := range ids {
		moved, err := s.repo.UpdateStatus(ctx, id, ordermodel.StatusPending, ordermodel.StatusConfirmed, s.now())
		if err != nil {
			logger.Error("auto-confirm order", err)
			continue
		}
		if moved {
			confirmed++
		}
	}
	return confirmed, nil
}

func (s *orderService) MonthlySpending(ctx context.Context, userID uuid.UUID, months int) ([]ordermodel.MonthlySpending, error) {
	if months < 1 || months > 24 {
		months = 12
	}
	return s.repo.MonthlySpending(ctx, userID, months)
}
