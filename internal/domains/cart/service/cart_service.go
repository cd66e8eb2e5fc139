package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	cartmodel "pttech-backend/internal/domains/cart/model"
	"pttech-backend/internal/domains/cart/repository"
	productmodel "pttech-backend/internal/domains/product/model"
	productservice "pttech-backend/internal/domains/product/service"
)

type ServiceInterface interface {
	GetForUser(ctx context.Context, userID uuid.UUID) (*cartmodel.Cart, error)
	GetForSession(ctx context.Context, sessionID string) (*cartmodel.Cart, error)

	AddItem(ctx context.Context, cartID uuid.UUID, req *cartmodel.AddItemRequest) (*cartmodel.Cart, error)
	ChangeQuantity(ctx context.Context, cartID, itemID uuid.UUID, req *cartmodel.ChangeQuantityRequest) (*cartmodel.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*cartmodel.Cart, error)
	ChangeVariant(ctx context.Context, cartID, itemID uuid.UUID, req *cartmodel.ChangeVariantRequest) (*cartmodel.Cart, error)

	// MergeGuestCart folds a guest session's cart into the user's cart,
	// called at login.
	MergeGuestCart(ctx context.Context, sessionID string, userID uuid.UUID) (*cartmodel.Cart, error)

	Clear(ctx context.Context, cartID uuid.UUID) error
	Delete(ctx context.Context, cartID uuid.UUID) error
}

type cartService struct {
	repo     repository.RepositoryInterface
	products productservice.ServiceInterface
	now      func() time.Time
}

func NewCartService(repo repository.RepositoryInterface, products productservice.ServiceInterface) ServiceInterface {
	return &cartService{repo: repo, products: products, now: time.Now}
}

func (s *cartService) GetForUser(ctx context.Context, userID uuid.UUID) (*cartmodel.Cart, error) {
	return s.repo.GetOrCreateByUser(ctx, userID)
}

func (s *cartService) GetForSession(ctx context.Context, sessionID string) (*cartmodel.Cart, error) {
	return s.repo.GetOrCreateBySession(ctx, sessionID)
}

func (s *cartService) AddItem(ctx context.Context, cartID uuid.UUID, req *cartmodel.AddItemRequest) (*cartmodel.Cart, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product_id: %w", err)
	}
	variantID, err := uuid.Parse(req.VariantID)
	if err != nil {
		return nil, fmt.Errorf("variant_id: %w", err)
	}

	item, err := s.snapshot(ctx, cartID, productID, variantID, req.Quantity)
	if err != nil {
		return nil, err
	}
	return s.repo.AddItem(ctx, cartID, item)
}

// snapshot captures product and variant state into a cart item row.
func (s *cartService) snapshot(ctx context.Context, cartID, productID, variantID uuid.UUID, quantity int) (*cartmodel.CartItem, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
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
		return nil, productmodel.ErrVariantNotFound
	}

	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}

	now := s.now()
	return &cartmodel.CartItem{
		ID:            uuid.New(),
		CartID:        cartID,
		ProductID:     p.ID,
		VariantID:     variant.ID,
		ProductName:   p.Name,
		ImageURL:      image,
		Color:         variant.Color,
		Size:          variant.Size,
		RAM:           variant.RAM,
		Storage:       variant.Storage,
		Condition:     variant.Condition,
		OriginalPrice: p.OriginalPrice,
		Price:         p.CurrentPrice,
		StockAtAdd:    variant.Stock,
		Quantity:      quantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (s *cartService) ChangeQuantity(ctx context.Context, cartID, itemID uuid.UUID, req *cartmodel.ChangeQuantityRequest) (*cartmodel.Cart, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ChangeQuantity(ctx, cartID, itemID, req.Delta)
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*cartmodel.Cart, error) {
	return s.repo.RemoveItem(ctx, cartID, itemID)
}

func (s *cartService) ChangeVariant(ctx context.Context, cartID, itemID uuid.UUID, req *cartmodel.ChangeVariantRequest) (*cartmodel.Cart, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	variantID, err := uuid.Parse(req.VariantID)
	if err != nil {
		return nil, fmt.Errorf("variant_id: %w", err)
	}

	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	var current *cartmodel.CartItem
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			current = &cart.Items[i]
			break
		}
	}
	if current == nil {
		return nil, cartmodel.ErrItemNotFound
	}

	replacement, err := s.snapshot(ctx, cartID, current.ProductID, variantID, current.Quantity)
	if err != nil {
		return nil, err
	}
	return s.repo.SwapVariant(ctx, cartID, itemID, replacement)
}

func (s *cartService) MergeGuestCart(ctx context.Context, sessionID string, userID uuid.UUID) (*cartmodel.Cart, error) {
	guest, err := s.repo.GetOrCreateBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	mine, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(guest.Items) == 0 {
		_ = s.repo.SoftDelete(ctx, guest.ID)
		return mine, nil
	}

	// Variants present in both carts sum their quantities on merge. Shrink
	// the guest line first so the combined quantity stays within current
	// stock; the user's own line is never reduced. A variant that no longer
	// resolves is left as-is for checkout to reject.
	for i := range guest.Items {
		gi := &guest.Items[i]
		for j := range mine.Items {
			if mine.Items[j].VariantID != gi.VariantID {
				continue
			}
			variant, err := s.products.GetVariant(ctx, gi.VariantID)
			if err != nil {
				break
			}
			if over := gi.Quantity + mine.Items[j].Quantity - variant.Stock; over > 0 {
				if _, err := s.repo.ChangeQuantity(ctx, guest.ID, gi.ID, -over); err != nil {
					return nil, err
				}
			}
			break
		}
	}
	return s.repo.Merge(ctx, guest.ID, mine.ID)
}

func (s *cartService) Clear(ctx context.Context, cartID uuid.UUID) error {
	return s.repo.Clear(ctx, cartID)
}

func (s *cartService) Delete(ctx context.Context, cartID uuid.UUID) error {
	return s.repo.SoftDelete(ctx, cartID)
}
