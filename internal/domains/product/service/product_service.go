package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pttech-backend/internal/domains/product/model"
	"pttech-backend/internal/domains/product/repository"
	"pttech-backend/internal/shared/lifecycle"
	"pttech-backend/pkg/cache"
)

const (
	productCacheTTL        = 10 * time.Minute
	productCacheKeyPrefix  = "product:"
	productCacheKeyPattern = "product:*"
)

type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetVariant(ctx context.Context, variantID uuid.UUID) (*model.Variant, error)
	List(ctx context.Context, filter *model.Filter) ([]model.Product, int, error)
	Hide(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	UpdatePrice(ctx context.Context, id uuid.UUID, req *model.UpdatePriceRequest) (*model.Product, error)
	PriceHistory(ctx context.Context, id uuid.UUID) ([]model.PriceChange, error)
	AdjustStock(ctx context.Context, req *model.AdjustStockRequest) (*model.Variant, error)

	AttachMedia(ctx context.Context, id uuid.UUID, imageURLs, videoURLs []string) error
	RefreshRating(ctx context.Context, id uuid.UUID, average decimal.Decimal, count int) error
	RecordSale(ctx context.Context, id uuid.UUID, quantity int) error

	ExportExcel(ctx context.Context) ([]byte, error)
	ImportExcel(ctx context.Context, data []byte) (*ImportReport, error)
}

type productService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	now   func() time.Time
}

func NewProductService(repo repository.RepositoryInterface, c cache.Cache) ServiceInterface {
	return &productService{repo: repo, cache: c, now: time.Now}
}

func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	brandID, err := uuid.Parse(req.BrandID)
	if err != nil {
		return nil, fmt.Errorf("brand_id: %w", err)
	}
	categoryID, err := uuid.Parse(req.Category)
	if err != nil {
		return nil, fmt.Errorf("category_id: %w", err)
	}

	now := s.now()
	p := &model.Product{
		ID:             uuid.New(),
		SKU:            strings.ToUpper(strings.TrimSpace(req.SKU)),
		Name:           req.Name,
		Slug:           Slugify(req.Name),
		BrandID:        brandID,
		Category:       categoryID,
		Description:    req.Description,
		Specifications: req.Specifications,
		OriginalPrice:  decimal.NewFromFloat(req.OriginalPrice),
		CurrentPrice:   decimal.NewFromFloat(req.CurrentPrice),
		Tags:           req.Tags,
		Images:         []string{},
		Videos:         []string{},
		RatingAverage:  decimal.Zero,
		Lifecycle: lifecycle.Lifecycle{
			IsActive:      req.ScheduledDate == nil || !req.ScheduledDate.After(now),
			ScheduledDate: req.ScheduledDate,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.Specifications == nil {
		p.Specifications = map[string]string{}
	}

	for _, vr := range req.Variants {
		if err := vr.Validate(); err != nil {
			return nil, err
		}
		p.Variants = append(p.Variants, model.Variant{
			ID:        uuid.New(),
			ProductID: p.ID,
			Color:     vr.Color,
			HexCode:   vr.HexCode,
			Size:      vr.Size,
			RAM:       vr.RAM,
			Storage:   vr.Storage,
			Condition: vr.Condition,
			Stock:     vr.Stock,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
		p.Slug = Slugify(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Specifications != nil {
		p.Specifications = *req.Specifications
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	key := productCacheKeyPrefix + id.String()

	var cached model.Product
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, p, productCacheTTL)
	return p, nil
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *productService) GetVariant(ctx context.Context, variantID uuid.UUID) (*model.Variant, error) {
	return s.repo.GetVariant(ctx, variantID)
}

func (s *productService) List(ctx context.Context, filter *model.Filter) ([]model.Product, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *productService) Hide(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) Show(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, true); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) UpdatePrice(ctx context.Context, id uuid.UUID, req *model.UpdatePriceRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.UpdatePrice(ctx, id, decimal.NewFromFloat(req.NewPrice), s.now())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *productService) PriceHistory(ctx context.Context, id uuid.UUID) ([]model.PriceChange, error) {
	return s.repo.PriceHistory(ctx, id)
}

func (s *productService) AdjustStock(ctx context.Context, req *model.AdjustStockRequest) (*model.Variant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	variantID, err := uuid.Parse(req.VariantID)
	if err != nil {
		return nil, fmt.Errorf("variant_id: %w", err)
	}

	v, err := s.repo.AdjustStock(ctx, variantID, req.Delta)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, v.ProductID)
	return v, nil
}

func (s *productService) AttachMedia(ctx context.Context, id uuid.UUID, imageURLs, videoURLs []string) error {
	if err := s.repo.AppendMedia(ctx, id, imageURLs, videoURLs); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) RefreshRating(ctx context.Context, id uuid.UUID, average decimal.Decimal, count int) error {
	if err := s.repo.UpdateRating(ctx, id, average, count); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) RecordSale(ctx context.Context, id uuid.UUID, quantity int) error {
	if err := s.repo.RecordSale(ctx, id, quantity); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, productCacheKeyPrefix+id.String())
}

// Slugify lowercases, strips non-alphanumerics and joins words with dashes.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
