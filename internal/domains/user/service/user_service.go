package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/crypto/bcrypt"

	"pttech-backend/internal/config"
	"pttech-backend/internal/domains/user/model"
	"pttech-backend/internal/domains/user/repository"
	"pttech-backend/internal/infrastructure/queue"
	"pttech-backend/pkg/jwt"
	"pttech-backend/pkg/logger"
)

const verificationTTL = 24 * time.Hour

// TaskEnqueuer is the slice of the queue client this service needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) error
}

type ServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error)

	GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req *model.ChangePasswordRequest) error

	List(ctx context.Context, filter *model.Filter) ([]model.User, int, error)
	Block(ctx context.Context, id uuid.UUID) error
	Unblock(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo   repository.RepositoryInterface
	tokens *jwt.Manager
	tasks  TaskEnqueuer
	app    config.AppConfig
	now    func() time.Time
}

func NewUserService(repo repository.RepositoryInterface, tokens *jwt.Manager, tasks TaskEnqueuer, app config.AppConfig) ServiceInterface {
	return &userService{repo: repo, tokens: tokens, tasks: tasks, app: app, now: time.Now}
}

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	expiry := now.Add(verificationTTL)
	u := &model.User{
		ID:                 uuid.New(),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:       string(hash),
		FullName:           req.FullName,
		Phone:              req.Phone,
		Role:               model.RoleCustomer,
		VerificationToken:  uuid.NewString(),
		VerificationExpiry: &expiry,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.enqueueVerification(u)
	return u, nil
}

func (s *userService) enqueueVerification(u *model.User) {
	task, err := queue.NewEmailVerificationTask(queue.EmailVerificationPayload{
		Email:      u.Email,
		VerifyLink: fmt.Sprintf("%s/api/v1/users/verify?token=%s", s.app.BaseURL, u.VerificationToken),
		ExpiresIn:  verificationTTL.String(),
	})
	if err != nil {
		logger.Error("build verification task", err)
		return
	}
	if err := s.tasks.Enqueue(task, asynq.Queue(queue.QueueHigh)); err != nil {
		logger.Error("enqueue verification email", err)
	}
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return model.ErrInvalidToken
	}

	u, err := s.repo.GetByVerificationToken(ctx, token)
	if err != nil {
		return model.ErrInvalidToken
	}
	if u.IsVerified {
		return model.ErrAlreadyVerified
	}
	if u.VerificationExpiry == nil || u.VerificationExpiry.Before(s.now()) {
		return model.ErrInvalidToken
	}

	u.IsVerified = true
	u.VerificationToken = ""
	u.VerificationExpiry = nil
	u.UpdatedAt = s.now()
	return s.repo.Update(ctx, u)
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, nil, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, model.ErrInvalidCredentials
	}
	if u.IsBlocked {
		return nil, nil, model.ErrBlocked
	}

	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, model.ErrInvalidToken
	}
	if u.IsBlocked {
		return nil, model.ErrBlocked
	}

	return s.issueTokens(u)
}

func (s *userService) issueTokens(u *model.User) (*model.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, req *model.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return model.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = s.now()
	return s.repo.Update(ctx, u)
}

func (s *userService) List(ctx context.Context, filter *model.Filter) ([]model.User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *userService) Block(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetBlocked(ctx, id, true)
}

func (s *userService) Unblock(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetBlocked(ctx, id, false)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
