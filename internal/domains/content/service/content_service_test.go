package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pttech-backend/internal/domains/content/model"
)

type fakeContactRepo struct {
	contacts map[uuid.UUID]*model.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[uuid.UUID]*model.Contact)}
}

func (r *fakeContactRepo) Create(_ context.Context, c *model.Contact) error {
	clone := *c
	r.contacts[c.ID] = &clone
	return nil
}

func (r *fakeContactRepo) Update(_ context.Context, c *model.Contact) error {
	stored, ok := r.contacts[c.ID]
	if !ok || stored.IsDeleted {
		return model.ErrContactNotFound
	}
	clone := *c
	r.contacts[c.ID] = &clone
	return nil
}

func (r *fakeContactRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Contact, error) {
	c, ok := r.contacts[id]
	if !ok || c.IsDeleted {
		return nil, model.ErrContactNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeContactRepo) List(_ context.Context, includeHidden bool) ([]model.Contact, error) {
	var out []model.Contact
	for _, c := range r.contacts {
		if c.IsDeleted || (!includeHidden && !c.IsActive) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeContactRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	c, ok := r.contacts[id]
	if !ok || c.IsDeleted {
		return model.ErrContactNotFound
	}
	c.IsActive = active
	return nil
}

func (r *fakeContactRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.contacts[id]
	if !ok || c.IsDeleted {
		return model.ErrContactNotFound
	}
	c.IsDeleted = true
	return nil
}

type fakeMessageRepo struct {
	messages map[uuid.UUID]*model.ContactMessage
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[uuid.UUID]*model.ContactMessage)}
}

func (r *fakeMessageRepo) Create(_ context.Context, m *model.ContactMessage) error {
	clone := *m
	r.messages[m.ID] = &clone
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*model.ContactMessage, error) {
	m, ok := r.messages[id]
	if !ok || m.IsDeleted {
		return nil, model.ErrMessageNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMessageRepo) List(_ context.Context, status string) ([]model.ContactMessage, error) {
	var out []model.ContactMessage
	for _, m := range r.messages {
		if m.IsDeleted || (status != "" && m.Status != status) {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkResolved(_ context.Context, id uuid.UUID, at time.Time) error {
	m, ok := r.messages[id]
	if !ok || m.IsDeleted {
		return model.ErrMessageNotFound
	}
	m.Status = model.MessageStatusResolved
	m.ResolvedAt = &at
	return nil
}

func (r *fakeMessageRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	m, ok := r.messages[id]
	if !ok || m.IsDeleted {
		return model.ErrMessageNotFound
	}
	m.IsDeleted = true
	return nil
}

func testContentService() (*contentService, *fakeContactRepo, *fakeMessageRepo) {
	contacts := newFakeContactRepo()
	messages := newFakeMessageRepo()
	svc := &contentService{
		contacts: contacts,
		messages: messages,
		now:      time.Now,
	}
	return svc, contacts, messages
}

func TestCreateContactPublishesImmediatelyWithoutSchedule(t *testing.T) {
	svc, _, _ := testContentService()

	c, err := svc.CreateContact(context.Background(), &model.CreateContactRequest{
		CompanyName: "PTTech",
		Email:       "support@example.com",
		Phone:       "19001234",
	})
	require.NoError(t, err)

	assert.True(t, c.IsActive)
	assert.Nil(t, c.ScheduledDate)
	assert.True(t, c.Visible())
}

func TestCreateContactWithFutureScheduleStartsHidden(t *testing.T) {
	svc, _, _ := testContentService()
	future := time.Now().Add(2 * time.Hour)

	c, err := svc.CreateContact(context.Background(), &model.CreateContactRequest{
		CompanyName:   "PTTech",
		Email:         "support@example.com",
		Phone:         "19001234",
		ScheduledDate: &future,
	})
	require.NoError(t, err)

	assert.False(t, c.IsActive)
	require.NotNil(t, c.ScheduledDate)
	assert.False(t, c.DueForPublish(time.Now()))
	assert.True(t, c.DueForPublish(future.Add(time.Minute)))
}

func TestHideContactDropsItFromPublicList(t *testing.T) {
	svc, _, _ := testContentService()

	c, err := svc.CreateContact(context.Background(), &model.CreateContactRequest{
		CompanyName: "PTTech",
		Email:       "support@example.com",
		Phone:       "19001234",
	})
	require.NoError(t, err)

	require.NoError(t, svc.HideContact(context.Background(), c.ID))

	public, err := svc.ListContacts(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := svc.ListContacts(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestResolveMessage(t *testing.T) {
	svc, _, messages := testContentService()

	m, err := svc.SubmitMessage(context.Background(), &model.SubmitMessageRequest{
		Name:    "Nguyen Van A",
		Email:   "a@example.com",
		Subject: "Order question",
		Message: "Where is my order?",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MessageStatusNew, m.Status)

	require.NoError(t, svc.ResolveMessage(context.Background(), m.ID))

	stored := messages.messages[m.ID]
	assert.Equal(t, model.MessageStatusResolved, stored.Status)
	require.NotNil(t, stored.ResolvedAt)
}
