package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pttech-backend/internal/domains/discount/model"
	"pttech-backend/internal/domains/discount/repository"
	"pttech-backend/internal/shared/lifecycle"
)

// ServiceInterface is the discount domain's business contract. Quote and
// Apply are what the order service consumes at checkout.
type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateDiscountCodeRequest) (*model.DiscountCode, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateDiscountCodeRequest) (*model.DiscountCode, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.DiscountCode, error)
	List(ctx context.Context, includeHidden bool) ([]model.DiscountCode, error)
	ListUsable(ctx context.Context) ([]model.DiscountCode, error)
	Search(ctx context.Context, keyword string) ([]model.DiscountCode, error)
	Hide(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Quote validates a code against a user and item set and computes the
	// amount without redeeming.
	Quote(ctx context.Context, code string, userID uuid.UUID, items []model.OrderItemRef, subtotal decimal.Decimal) (*model.DiscountCode, decimal.Decimal, error)

	// Apply quotes and then redeems atomically. On success the usage count
	// has increased by exactly one and the user is recorded.
	Apply(ctx context.Context, code string, userID uuid.UUID, items []model.OrderItemRef, subtotal decimal.Decimal) (decimal.Decimal, error)

	DeactivateExpired(ctx context.Context) (int64, error)
	ExportExcel(ctx context.Context) ([]byte, error)
}

type discountService struct {
	repo repository.RepositoryInterface
	now  func() time.Time
}

func NewDiscountService(repo repository.RepositoryInterface) ServiceInterface {
	return &discountService{repo: repo, now: time.Now}
}

func (s *discountService) Create(ctx context.Context, req *model.CreateDiscountCodeRequest) (*model.DiscountCode, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	productIDs, err := parseUUIDs(req.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("applicable_products: %w", err)
	}
	categoryIDs, err := parseUUIDs(req.CategoryIDs)
	if err != nil {
		return nil, fmt.Errorf("applicable_categories: %w", err)
	}

	now := s.now()
	d := &model.DiscountCode{
		ID:          uuid.New(),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Description: req.Description,
		Type:        model.DiscountType(req.Type),
		Value:       decimal.NewFromFloat(req.Value),
		Scope:       model.Scope(req.Scope),
		ProductIDs:  productIDs,
		CategoryIDs: categoryIDs,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		UsageLimit:  req.UsageLimit,
		UsedBy:      []uuid.UUID{},
		Lifecycle: lifecycle.Lifecycle{
			// Future schedule means the publish sweep activates it later.
			IsActive:      req.ScheduledDate == nil || !req.ScheduledDate.After(now),
			ScheduledDate: req.ScheduledDate,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.MinimumPurchase != nil {
		v := decimal.NewFromFloat(*req.MinimumPurchase)
		d.MinimumPurchase = &v
	}
	if req.MaxAmount != nil {
		v := decimal.NewFromFloat(*req.MaxAmount)
		d.MaxAmount = &v
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *discountService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDiscountCodeRequest) (*model.DiscountCode, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Value != nil {
		d.Value = decimal.NewFromFloat(*req.Value)
	}
	if req.MaxAmount != nil {
		v := decimal.NewFromFloat(*req.MaxAmount)
		d.MaxAmount = &v
	}
	if req.StartDate != nil {
		d.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		d.EndDate = *req.EndDate
	}
	if req.UsageLimit != nil {
		d.UsageLimit = req.UsageLimit
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *discountService) GetByID(ctx context.Context, id uuid.UUID) (*model.DiscountCode, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *discountService) List(ctx context.Context, includeHidden bool) ([]model.DiscountCode, error) {
	return s.repo.List(ctx, includeHidden)
}

func (s *discountService) ListUsable(ctx context.Context) ([]model.DiscountCode, error) {
	return s.repo.ListUsable(ctx, s.now())
}

func (s *discountService) Search(ctx context.Context, keyword string) ([]model.DiscountCode, error) {
	return s.repo.Search(ctx, keyword)
}

func (s *discountService) Hide(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *discountService) Show(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, true)
}

func (s *discountService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *discountService) Quote(ctx context.Context, code string, userID uuid.UUID, items []model.OrderItemRef, subtotal decimal.Decimal) (*model.DiscountCode, decimal.Decimal, error) {
	d, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := validate(d, userID, items, subtotal, s.now()); err != nil {
		return nil, decimal.Zero, err
	}

	return d, CalculateAmount(d, subtotal), nil
}

func (s *discountService) Apply(ctx context.Context, code string, userID uuid.UUID, items []model.OrderItemRef, subtotal decimal.Decimal) (decimal.Decimal, error) {
	d, amount, err := s.Quote(ctx, code, userID, items, subtotal)
	if err != nil {
		return decimal.Zero, err
	}

	// The conditional update re-checks everything racy (limit, reuse,
	// window); a lost race surfaces as exhausted.
	redeemed, err := s.repo.Redeem(ctx, d.ID, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if !redeemed {
		return decimal.Zero, model.ErrExhausted
	}

	return amount, nil
}

func (s *discountService) DeactivateExpired(ctx context.Context) (int64, error) {
	return s.repo.DeactivateExpired(ctx, s.now())
}

// validate applies every usability rule in order; the first failure wins.
func validate(d *model.DiscountCode, userID uuid.UUID, items []model.OrderItemRef, subtotal decimal.Decimal, now time.Time) error {
	if !d.Visible() {
		return model.ErrInactive
	}
	if now.Before(d.StartDate) {
		return model.ErrNotStarted
	}
	if now.After(d.EndDate) {
		return model.ErrExpired
	}
	if d.ExhaustedLimit() {
		return model.ErrExhausted
	}
	if d.UsedByUser(userID) {
		return model.ErrAlreadyUsed
	}
	if !d.MatchesScope(items) {
		return model.ErrScopeMismatch
	}
	if d.MinimumPurchase != nil && subtotal.LessThan(*d.MinimumPurchase) {
		return model.ErrBelowMinimum
	}
	return nil
}

// CalculateAmount computes the discount for a subtotal: percentage of the
// subtotal (clamped to the cap) or a fixed value, never above the subtotal.
func CalculateAmount(d *model.DiscountCode, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal

	switch d.Type {
	case model.TypePercentage:
		amount = subtotal.Mul(d.Value).Div(decimal.NewFromInt(100))
		if d.MaxAmount != nil && amount.GreaterThan(*d.MaxAmount) {
			amount = *d.MaxAmount
		}
	case model.TypeFixed:
		amount = d.Value
	}

	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return amount.Round(2)
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
