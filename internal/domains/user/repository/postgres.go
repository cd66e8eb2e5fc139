package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/internal/domains/user/model"
)

const userColumns = `id, email, password_hash, full_name, phone, role, avatar_url,
	is_verified, verification_token, verification_expiry,
	is_blocked, is_deleted, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Phone, u.Role, u.AvatarURL,
		u.IsVerified, u.VerificationToken, u.VerificationExpiry,
		u.IsBlocked, u.IsDeleted, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, u *model.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, full_name = $3, phone = $4, avatar_url = $5,
		    is_verified = $6, verification_token = $7, verification_expiry = $8,
		    updated_at = $9
		WHERE id = $1 AND is_deleted = FALSE`,
		u.ID, u.PasswordHash, u.FullName, u.Phone, u.AvatarURL,
		u.IsVerified, u.VerificationToken, u.VerificationExpiry,
		u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.get(ctx, "email = $1", email)
}

func (r *postgresRepository) GetByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	return r.get(ctx, "verification_token = $1", token)
}

func (r *postgresRepository) get(ctx context.Context, cond string, arg interface{}) (*model.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+cond+` AND is_deleted = FALSE`,
		arg,
	)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) List(ctx context.Context, filter *model.Filter) ([]model.User, int, error) {
	filter.Normalize()

	where := "WHERE is_deleted = FALSE"
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Keyword != "" {
		p := arg("%" + filter.Keyword + "%")
		where += fmt.Sprintf(" AND (email ILIKE %s OR full_name ILIKE %s)", p, p)
	}
	if filter.Role != "" {
		where += " AND role = " + arg(filter.Role)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users %s
		ORDER BY created_at DESC
		LIMIT %s OFFSET %s`,
		userColumns, where, arg(filter.Limit), arg(filter.Offset()),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *postgresRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_blocked = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id, blocked,
	)
	if err != nil {
		return fmt.Errorf("set user blocked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role, &u.AvatarURL,
		&u.IsVerified, &u.VerificationToken, &u.VerificationExpiry,
		&u.IsBlocked, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
