package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pttech-backend/internal/domains/content/model"
)

type PolicyRepositoryInterface interface {
	Create(ctx context.Context, p *model.Policy) error
	Update(ctx context.Context, p *model.Policy) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Policy, error)
	GetBySlug(ctx context.Context, slug string) (*model.Policy, error)
	List(ctx context.Context, includeHidden bool) ([]model.Policy, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type BannerRepositoryInterface interface {
	Create(ctx context.Context, b *model.AdBanner) error
	Update(ctx context.Context, b *model.AdBanner) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AdBanner, error)
	List(ctx context.Context, includeHidden bool) ([]model.AdBanner, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type ContactRepositoryInterface interface {
	Create(ctx context.Context, c *model.Contact) error
	Update(ctx context.Context, c *model.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	List(ctx context.Context, includeHidden bool) ([]model.Contact, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type MessageRepositoryInterface interface {
	Create(ctx context.Context, m *model.ContactMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ContactMessage, error)
	List(ctx context.Context, status string) ([]model.ContactMessage, error)
	MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
