package repository

import (
	"context"

	"github.com/google/uuid"

	"pttech-backend/internal/domains/user/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*model.User, error)
	List(ctx context.Context, filter *model.Filter) ([]model.User, int, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
