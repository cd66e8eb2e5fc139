package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	orderrepository "pttech-backend/internal/domains/order/repository"
	productservice "pttech-backend/internal/domains/product/service"
	"pttech-backend/internal/domains/review/model"
	"pttech-backend/internal/domains/review/repository"
	"pttech-backend/pkg/logger"
)

type ServiceInterface interface {
	// Create verifies the purchase before accepting the review: the order
	// must belong to the caller, have been delivered, and contain the
	// product. One review per user/product/order.
	Create(ctx context.Context, userID uuid.UUID, req *model.CreateReviewRequest) (*model.Review, error)

	Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateReviewRequest) (*model.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, includeHidden bool) ([]model.Review, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error)
	Hide(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID, isAdmin bool) error
}

type reviewService struct {
	repo     repository.RepositoryInterface
	orders   orderrepository.RepositoryInterface
	products productservice.ServiceInterface
	now      func() time.Time
}

func NewReviewService(
	repo repository.RepositoryInterface,
	orders orderrepository.RepositoryInterface,
	products productservice.ServiceInterface,
) ServiceInterface {
	return &reviewService{repo: repo, orders: orders, products: products, now: time.Now}
}

func (s *reviewService) Create(ctx context.Context, userID uuid.UUID, req *model.CreateReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product_id: %w", err)
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("order_id: %w", err)
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, model.ErrNotPurchased
	}
	if o.DeliveredAt == nil {
		return nil, model.ErrNotDelivered
	}
	purchased := false
	for _, item := range o.Items {
		if item.ProductID == productID {
			purchased = true
			break
		}
	}
	if !purchased {
		return nil, model.ErrNotPurchased
	}

	now := s.now()
	rev := &model.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		OrderID:   orderID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		ImageURLs: req.ImageURLs,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	s.refreshProductRating(ctx, productID)
	return rev, nil
}

func (s *reviewService) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rev.UserID != userID {
		return nil, model.ErrNotOwner
	}

	if req.Rating != nil {
		rev.Rating = *req.Rating
	}
	if req.Comment != nil {
		rev.Comment = *req.Comment
	}
	rev.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, rev); err != nil {
		return nil, err
	}
	s.refreshProductRating(ctx, rev.ProductID)
	return rev, nil
}

func (s *reviewService) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID, includeHidden bool) ([]model.Review, error) {
	return s.repo.ListByProduct(ctx, productID, includeHidden)
}

func (s *reviewService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *reviewService) Hide(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

func (s *reviewService) Show(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, true)
}

func (s *reviewService) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	// Hidden reviews drop out of the aggregate.
	s.refreshProductRating(ctx, rev.ProductID)
	return nil
}

func (s *reviewService) Delete(ctx context.Context, userID, id uuid.UUID, isAdmin bool) error {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && rev.UserID != userID {
		return model.ErrNotOwner
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.refreshProductRating(ctx, rev.ProductID)
	return nil
}

func (s *reviewService) refreshProductRating(ctx context.Context, productID uuid.UUID) {
	agg, err := s.repo.AggregateForProduct(ctx, productID)
	if err != nil {
		logger.Error("aggregate product reviews", err)
		return
	}
	if err := s.products.RefreshRating(ctx, productID, agg.Average, agg.Count); err != nil {
		logger.Error("refresh product rating", err)
	}
}
