package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pttech-backend/internal/config"
	"pttech-backend/internal/domains/user/model"
	"pttech-backend/internal/infrastructure/queue"
	"pttech-backend/pkg/jwt"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email && !existing.IsDeleted {
			return model.ErrEmailTaken
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	existing, ok := r.users[u.ID]
	if !ok || existing.IsDeleted {
		return model.ErrNotFound
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok || u.IsDeleted {
		return nil, model.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && !u.IsDeleted {
			clone := *u
			return &clone, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *fakeUserRepo) GetByVerificationToken(_ context.Context, token string) (*model.User, error) {
	for _, u := range r.users {
		if u.VerificationToken == token && token != "" && !u.IsDeleted {
			clone := *u
			return &clone, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *fakeUserRepo) List(context.Context, *model.Filter) ([]model.User, int, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	u, ok := r.users[id]
	if !ok || u.IsDeleted {
		return model.ErrNotFound
	}
	u.IsBlocked = blocked
	return nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok || u.IsDeleted {
		return model.ErrNotFound
	}
	u.IsDeleted = true
	return nil
}

type recordingEnqueuer struct {
	tasks []*asynq.Task
}

func (e *recordingEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) error {
	e.tasks = append(e.tasks, task)
	return nil
}

func testUserService() (*userService, *fakeUserRepo, *recordingEnqueuer) {
	repo := newFakeUserRepo()
	tasks := &recordingEnqueuer{}
	svc := &userService{
		repo:   repo,
		tokens: jwt.NewManager("test-secret", 15*time.Minute, 24*time.Hour),
		tasks:  tasks,
		app:    config.AppConfig{BaseURL: "http://localhost:8080"},
		now:    time.Now,
	}
	return svc, repo, tasks
}

func register(t *testing.T, svc *userService) *model.User {
	t.Helper()
	u, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "buyer@example.com",
		Password: "correct-horse",
		FullName: "Test Buyer",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterHashesPasswordAndQueuesVerification(t *testing.T) {
	svc, _, tasks := testUserService()

	u := register(t, svc)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")))
	assert.Equal(t, model.RoleCustomer, u.Role)
	assert.False(t, u.IsVerified)
	assert.NotEmpty(t, u.VerificationToken)

	require.Len(t, tasks.tasks, 1)
	assert.Equal(t, queue.TypeEmailVerification, tasks.tasks[0].Type())

	// Duplicate email is rejected.
	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "buyer@example.com",
		Password: "another-pass",
		FullName: "Impostor",
	})
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestVerifyEmail(t *testing.T) {
	svc, repo, _ := testUserService()
	ctx := context.Background()
	u := register(t, svc)

	require.NoError(t, svc.VerifyEmail(ctx, u.VerificationToken))

	verified, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Empty(t, verified.VerificationToken)

	// The token is single use.
	err = svc.VerifyEmail(ctx, u.VerificationToken)
	assert.ErrorIs(t, err, model.ErrInvalidToken)

	err = svc.VerifyEmail(ctx, "no-such-token")
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	svc, repo, _ := testUserService()
	ctx := context.Background()
	u := register(t, svc)

	expired := time.Now().Add(-time.Hour)
	stored := repo.users[u.ID]
	stored.VerificationExpiry = &expired

	err := svc.VerifyEmail(ctx, u.VerificationToken)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	svc, repo, _ := testUserService()
	ctx := context.Background()
	u := register(t, svc)

	loggedIn, tokens, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "buyer@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, loggedIn.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, _, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "buyer@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	repo.users[u.ID].IsBlocked = true
	_, _, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "buyer@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, model.ErrBlocked)
}

func TestRefreshRoundTrip(t *testing.T) {
	svc, _, _ := testUserService()
	ctx := context.Background()
	register(t, svc)

	_, tokens, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "buyer@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)

	// Access tokens cannot be used for refresh.
	_, err = svc.Refresh(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := testUserService()
	ctx := context.Background()
	u := register(t, svc)

	err := svc.ChangePassword(ctx, u.ID, &model.ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "brand-new-pass",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, &model.ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "brand-new-pass",
	}))

	_, _, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "buyer@example.com",
		Password: "brand-new-pass",
	})
	assert.NoError(t, err)
}
