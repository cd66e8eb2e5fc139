package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pttech-backend/internal/domains/content/model"
	"pttech-backend/internal/domains/content/repository"
	productservice "pttech-backend/internal/domains/product/service"
	"pttech-backend/internal/shared/lifecycle"
)

type ServiceInterface interface {
	CreatePolicy(ctx context.Context, req *model.CreatePolicyRequest) (*model.Policy, error)
	UpdatePolicy(ctx context.Context, id uuid.UUID, req *model.UpdatePolicyRequest) (*model.Policy, error)
	GetPolicy(ctx context.Context, id uuid.UUID) (*model.Policy, error)
	GetPolicyBySlug(ctx context.Context, slug string) (*model.Policy, error)
	ListPolicies(ctx context.Context, includeHidden bool) ([]model.Policy, error)
	HidePolicy(ctx context.Context, id uuid.UUID) error
	ShowPolicy(ctx context.Context, id uuid.UUID) error
	DeletePolicy(ctx context.Context, id uuid.UUID) error

	CreateBanner(ctx context.Context, req *model.CreateBannerRequest) (*model.AdBanner, error)
	UpdateBanner(ctx context.Context, id uuid.UUID, req *model.UpdateBannerRequest) (*model.AdBanner, error)
	ListBanners(ctx context.Context, includeHidden bool) ([]model.AdBanner, error)
	HideBanner(ctx context.Context, id uuid.UUID) error
	ShowBanner(ctx context.Context, id uuid.UUID) error
	DeleteBanner(ctx context.Context, id uuid.UUID) error

	CreateContact(ctx context.Context, req *model.CreateContactRequest) (*model.Contact, error)
	UpdateContact(ctx context.Context, id uuid.UUID, req *model.UpdateContactRequest) (*model.Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	ListContacts(ctx context.Context, includeHidden bool) ([]model.Contact, error)
	HideContact(ctx context.Context, id uuid.UUID) error
	ShowContact(ctx context.Context, id uuid.UUID) error
	DeleteContact(ctx context.Context, id uuid.UUID) error

	SubmitMessage(ctx context.Context, req *model.SubmitMessageRequest) (*model.ContactMessage, error)
	ListMessages(ctx context.Context, status string) ([]model.ContactMessage, error)
	ResolveMessage(ctx context.Context, id uuid.UUID) error
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}

type contentService struct {
	policies repository.PolicyRepositoryInterface
	banners  repository.BannerRepositoryInterface
	contacts repository.ContactRepositoryInterface
	messages repository.MessageRepositoryInterface
	now      func() time.Time
}

func NewContentService(
	policies repository.PolicyRepositoryInterface,
	banners repository.BannerRepositoryInterface,
	contacts repository.ContactRepositoryInterface,
	messages repository.MessageRepositoryInterface,
) ServiceInterface {
	return &contentService{
		policies: policies,
		banners:  banners,
		contacts: contacts,
		messages: messages,
		now:      time.Now,
	}
}

func (s *contentService) CreatePolicy(ctx context.Context, req *model.CreatePolicyRequest) (*model.Policy, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	p := &model.Policy{
		ID:      uuid.New(),
		Title:   req.Title,
		Slug:    productservice.Slugify(req.Title),
		Content: req.Content,
		Lifecycle: lifecycle.Lifecycle{
			IsActive:      req.ScheduledDate == nil || !req.ScheduledDate.After(now),
			ScheduledDate: req.ScheduledDate,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.policies.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *contentService) UpdatePolicy(ctx context.Context, id uuid.UUID, req *model.UpdatePolicyRequest) (*model.Policy, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.policies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		p.Title = *req.Title
		p.Slug = productservice.Slugify(*req.Title)
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	p.UpdatedAt = s.now()

	if err := s.policies.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *contentService) GetPolicy(ctx context.Context, id uuid.UUID) (*model.Policy, error) {
	return s.policies.GetByID(ctx, id)
}

func (s *contentService) GetPolicyBySlug(ctx context.Context, slug string) (*model.Policy, error) {
	return s.policies.GetBySlug(ctx, slug)
}

func (s *contentService) ListPolicies(ctx context.Context, includeHidden bool) ([]model.Policy, error) {
	return s.policies.List(ctx, includeHidden)
}

func (s *contentService) HidePolicy(ctx context.Context, id uuid.UUID) error {
	return s.policies.SetActive(ctx, id, false)
}

func (s *contentService) ShowPolicy(ctx context.Context, id uuid.UUID) error {
	return s.policies.SetActive(ctx, id, true)
}

func (s *contentService) DeletePolicy(ctx context.Context, id uuid.UUID) error {
	return s.policies.SoftDelete(ctx, id)
}

func (s *contentService) CreateBanner(ctx context.Context, req *model.CreateBannerRequest) (*model.AdBanner, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	b := &model.AdBanner{
		ID:       uuid.New(),
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		Lifecycle: lifecycle.Lifecycle{
			IsActive:      req.ScheduledDate == nil || !req.ScheduledDate.After(now),
			ScheduledDate: req.ScheduledDate,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.banners.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *contentService) UpdateBanner(ctx context.Context, id uuid.UUID, req *model.UpdateBannerRequest) (*model.AdBanner, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.banners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.ImageURL != nil {
		b.ImageURL = *req.ImageURL
	}
	if req.LinkURL != nil {
		b.LinkURL = *req.LinkURL
	}
	if req.Position != nil {
		b.Position = *req.Position
	}
	b.UpdatedAt = s.now()

	if err := s.banners.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *contentService) ListBanners(ctx context.Context, includeHidden bool) ([]model.AdBanner, error) {
	return s.banners.List(ctx, includeHidden)
}

func (s *contentService) HideBanner(ctx context.Context, id uuid.UUID) error {
	return s.banners.SetActive(ctx, id, false)
}

func (s *contentService) ShowBanner(ctx context.Context, id uuid.UUID) error {
	return s.banners.SetActive(ctx, id, true)
}

func (s *contentService) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	return s.banners.SoftDelete(ctx, id)
}

func (s *contentService) CreateContact(ctx context.Context, req *model.CreateContactRequest) (*model.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	c := &model.Contact{
		ID:           uuid.New(),
		CompanyName:  req.CompanyName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		SocialMedia:  req.SocialMedia,
		SupportHours: req.SupportHours,
		Lifecycle: lifecycle.Lifecycle{
			IsActive:      req.ScheduledDate == nil || !req.ScheduledDate.After(now),
			ScheduledDate: req.ScheduledDate,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contentService) UpdateContact(ctx context.Context, id uuid.UUID, req *model.UpdateContactRequest) (*model.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CompanyName != nil {
		c.CompanyName = *req.CompanyName
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.SocialMedia != nil {
		c.SocialMedia = *req.SocialMedia
	}
	if req.SupportHours != nil {
		c.SupportHours = *req.SupportHours
	}
	c.UpdatedAt = s.now()

	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contentService) GetContact(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	return s.contacts.GetByID(ctx, id)
}

func (s *contentService) ListContacts(ctx context.Context, includeHidden bool) ([]model.Contact, error) {
	return s.contacts.List(ctx, includeHidden)
}

func (s *contentService) HideContact(ctx context.Context, id uuid.UUID) error {
	return s.contacts.SetActive(ctx, id, false)
}

func (s *contentService) ShowContact(ctx context.Context, id uuid.UUID) error {
	return s.contacts.SetActive(ctx, id, true)
}

func (s *contentService) DeleteContact(ctx context.Context, id uuid.UUID) error {
	return s.contacts.SoftDelete(ctx, id)
}

func (s *contentService) SubmitMessage(ctx context.Context, req *model.SubmitMessageRequest) (*model.ContactMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m := &model.ContactMessage{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    model.MessageStatusNew,
		CreatedAt: s.now(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *contentService) ListMessages(ctx context.Context, status string) ([]model.ContactMessage, error) {
	return s.messages.List(ctx, status)
}

func (s *contentService) ResolveMessage(ctx context.Context, id uuid.UUID) error {
	return s.messages.MarkResolved(ctx, id, s.now())
}

func (s *contentService) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return s.messages.SoftDelete(ctx, id)
}
