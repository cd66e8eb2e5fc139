package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pttech-backend/internal/domains/catalog/model"
	"pttech-backend/internal/domains/catalog/repository"
	productservice "pttech-backend/internal/domains/product/service"
	"pttech-backend/internal/shared/lifecycle"
)

// ServiceInterface covers both brand and category management; the two share
// the same lifecycle and differ only in fields.
type ServiceInterface interface {
	CreateBrand(ctx context.Context, req *model.CreateBrandRequest) (*model.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, req *model.UpdateBrandRequest) (*model.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	ListBrands(ctx context.Context, includeHidden bool) ([]model.Brand, error)
	HideBrand(ctx context.Context, id uuid.UUID) error
	ShowBrand(ctx context.Context, id uuid.UUID) error
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	ListCategories(ctx context.Context, includeHidden bool) ([]model.Category, error)
	HideCategory(ctx context.Context, id uuid.UUID) error
	ShowCategory(ctx context.Context, id uuid.UUID) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	brands     repository.BrandRepositoryInterface
	categories repository.CategoryRepositoryInterface
	now        func() time.Time
}

func NewCatalogService(brands repository.BrandRepositoryInterface, categories repository.CategoryRepositoryInterface) ServiceInterface {
	return &catalogService{brands: brands, categories: categories, now: time.Now}
}

func (s *catalogService) CreateBrand(ctx context.Context, req *model.CreateBrandRequest) (*model.Brand, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	b := &model.Brand{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        productservice.Slugify(req.Name),
		Description: req.Description,
		LogoURL:     req.LogoURL,
		Website:     req.Website,
		Lifecycle: lifecycle.Lifecycle{
			IsActive:      req.ScheduledDate == nil || !req.ScheduledDate.After(now),
			ScheduledDate: req.ScheduledDate,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.brands.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *catalogService) UpdateBrand(ctx context.Context, id uuid.UUID, req *model.UpdateBrandRequest) (*model.Brand, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		b.Name = *req.Name
		b.Slug = productservice.Slugify(*req.Name)
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.LogoURL != nil {
		b.LogoURL = *req.LogoURL
	}
	if req.Website != nil {
		b.Website = *req.Website
	}
	b.UpdatedAt = s.now()

	if err := s.brands.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *catalogService) GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	return s.brands.GetByID(ctx, id)
}

func (s *catalogService) ListBrands(ctx context.Context, includeHidden bool) ([]model.Brand, error) {
	return s.brands.List(ctx, includeHidden)
}

func (s *catalogService) HideBrand(ctx context.Context, id uuid.UUID) error {
	return s.brands.SetActive(ctx, id, false)
}

func (s *catalogService) ShowBrand(ctx context.Context, id uuid.UUID) error {
	return s.brands.SetActive(ctx, id, true)
}

func (s *catalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return s.brands.SoftDelete(ctx, id)
}

func (s *catalogService) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	cat := &model.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        productservice.Slugify(req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Lifecycle: lifecycle.Lifecycle{
			IsActive:      req.ScheduledDate == nil || !req.ScheduledDate.After(now),
			ScheduledDate: req.ScheduledDate,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.ParentID != "" {
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent_id: %w", err)
		}
		if _, err := s.categories.GetByID(ctx, parentID); err != nil {
			return nil, model.ErrParentNotFound
		}
		cat.ParentID = &parentID
	}

	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cat, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		cat.Name = *req.Name
		cat.Slug = productservice.Slugify(*req.Name)
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.ImageURL != nil {
		cat.ImageURL = *req.ImageURL
	}
	cat.UpdatedAt = s.now()

	if err := s.categories.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *catalogService) ListCategories(ctx context.Context, includeHidden bool) ([]model.Category, error) {
	return s.categories.List(ctx, includeHidden)
}

func (s *catalogService) HideCategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.SetActive(ctx, id, false)
}

func (s *catalogService) ShowCategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.SetActive(ctx, id, true)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.SoftDelete(ctx, id)
}
