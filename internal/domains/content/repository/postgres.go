package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/internal/domains/content/model"
)

const policyColumns = `id, title, slug, content,
	is_active, is_deleted, scheduled_date, created_at, updated_at`

const bannerColumns = `id, title, image_url, link_url, position,
	is_active, is_deleted, scheduled_date, created_at, updated_at`

const contactColumns = `id, company_name, email, phone, address, social_media, support_hours,
	is_active, is_deleted, scheduled_date, created_at, updated_at`

const messageColumns = `id, name, email, phone, subject, message,
	status, resolved_at, is_deleted, created_at`

type policyPostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPolicyPostgresRepository(pool *pgxpool.Pool) PolicyRepositoryInterface {
	return &policyPostgresRepository{pool: pool}
}

func (r *policyPostgresRepository) Create(ctx context.Context, p *model.Policy) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO policies (`+policyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Title, p.Slug, p.Content,
		p.IsActive, p.IsDeleted, p.ScheduledDate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create policy: %w", err)
	}
	return nil
}

func (r *policyPostgresRepository) Update(ctx context.Context, p *model.Policy) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE policies
		SET title = $2, slug = $3, content = $4, updated_at = $5
		WHERE id = $1 AND is_deleted = FALSE`,
		p.ID, p.Title, p.Slug, p.Content, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPolicyNotFound
	}
	return nil
}

func (r *policyPostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Policy, error) {
	return r.getPolicy(ctx, "id = $1", id)
}

func (r *policyPostgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Policy, error) {
	return r.getPolicy(ctx, "slug = $1", slug)
}

func (r *policyPostgresRepository) getPolicy(ctx context.Context, cond string, arg interface{}) (*model.Policy, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+policyColumns+`
		FROM policies
		WHERE `+cond+` AND is_deleted = FALSE`,
		arg,
	)

	var p model.Policy
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content,
		&p.IsActive, &p.IsDeleted, &p.ScheduledDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("get policy: %w", err)
	}
	return &p, nil
}

func (r *policyPostgresRepository) List(ctx context.Context, includeHidden bool) ([]model.Policy, error) {
	where := "WHERE is_deleted = FALSE"
	if !includeHidden {
		where += " AND is_active = TRUE"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+policyColumns+`
		FROM policies `+where+`
		ORDER BY title`,
	)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	defer rows.Close()

	var policies []model.Policy
	for rows.Next() {
		var p model.Policy
		err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Content,
			&p.IsActive, &p.IsDeleted, &p.ScheduledDate, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func (r *policyPostgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return setActive(ctx, r.pool, "policies", id, active, model.ErrPolicyNotFound)
}

func (r *policyPostgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete(ctx, r.pool, "policies", id, model.ErrPolicyNotFound)
}

type bannerPostgresRepository struct {
	pool *pgxpool.Pool
}

func NewBannerPostgresRepository(pool *pgxpool.Pool) BannerRepositoryInterface {
	return &bannerPostgresRepository{pool: pool}
}

func (r *bannerPostgresRepository) Create(ctx context.Context, b *model.AdBanner) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ad_banners (`+bannerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.Title, b.ImageURL, b.LinkURL, b.Position,
		b.IsActive, b.IsDeleted, b.ScheduledDate, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create banner: %w", err)
	}
	return nil
}

func (r *bannerPostgresRepository) Update(ctx context.Context, b *model.AdBanner) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ad_banners
		SET title = $2, image_url = $3, link_url = $4, position = $5, updated_at = $6
		WHERE id = $1 AND is_deleted = FALSE`,
		b.ID, b.Title, b.ImageURL, b.LinkURL, b.Position, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update banner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBannerNotFound
	}
	return nil
}

func (r *bannerPostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AdBanner, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bannerColumns+`
		FROM ad_banners
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)

	var b model.AdBanner
	err := row.Scan(
		&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Position,
		&b.IsActive, &b.IsDeleted, &b.ScheduledDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBannerNotFound
		}
		return nil, fmt.Errorf("get banner: %w", err)
	}
	return &b, nil
}

func (r *bannerPostgresRepository) List(ctx context.Context, includeHidden bool) ([]model.AdBanner, error) {
	where := "WHERE is_deleted = FALSE"
	if !includeHidden {
		where += " AND is_active = TRUE"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+bannerColumns+`
		FROM ad_banners `+where+`
		ORDER BY position, created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	var banners []model.AdBanner
	for rows.Next() {
		var b model.AdBanner
		err := rows.Scan(
			&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Position,
			&b.IsActive, &b.IsDeleted, &b.ScheduledDate, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan banner: %w", err)
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

func (r *bannerPostgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return setActive(ctx, r.pool, "ad_banners", id, active, model.ErrBannerNotFound)
}

func (r *bannerPostgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete(ctx, r.pool, "ad_banners", id, model.ErrBannerNotFound)
}

type contactPostgresRepository struct {
	pool *pgxpool.Pool
}

func NewContactPostgresRepository(pool *pgxpool.Pool) ContactRepositoryInterface {
	return &contactPostgresRepository{pool: pool}
}

func (r *contactPostgresRepository) Create(ctx context.Context, c *model.Contact) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.CompanyName, c.Email, c.Phone, c.Address, c.SocialMedia, c.SupportHours,
		c.IsActive, c.IsDeleted, c.ScheduledDate, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (r *contactPostgresRepository) Update(ctx context.Context, c *model.Contact) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE contacts
		SET company_name = $2, email = $3, phone = $4, address = $5,
			social_media = $6, support_hours = $7, updated_at = $8
		WHERE id = $1 AND is_deleted = FALSE`,
		c.ID, c.CompanyName, c.Email, c.Phone, c.Address,
		c.SocialMedia, c.SupportHours, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrContactNotFound
	}
	return nil
}

func (r *contactPostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)

	var c model.Contact
	err := row.Scan(
		&c.ID, &c.CompanyName, &c.Email, &c.Phone, &c.Address, &c.SocialMedia, &c.SupportHours,
		&c.IsActive, &c.IsDeleted, &c.ScheduledDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrContactNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

func (r *contactPostgresRepository) List(ctx context.Context, includeHidden bool) ([]model.Contact, error) {
	where := "WHERE is_deleted = FALSE"
	if !includeHidden {
		where += " AND is_active = TRUE"
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts `+where+`
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		err := rows.Scan(
			&c.ID, &c.CompanyName, &c.Email, &c.Phone, &c.Address, &c.SocialMedia, &c.SupportHours,
			&c.IsActive, &c.IsDeleted, &c.ScheduledDate, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *contactPostgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return setActive(ctx, r.pool, "contacts", id, active, model.ErrContactNotFound)
}

func (r *contactPostgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete(ctx, r.pool, "contacts", id, model.ErrContactNotFound)
}

type messagePostgresRepository struct {
	pool *pgxpool.Pool
}

func NewMessagePostgresRepository(pool *pgxpool.Pool) MessageRepositoryInterface {
	return &messagePostgresRepository{pool: pool}
}

func (r *messagePostgresRepository) Create(ctx context.Context, m *model.ContactMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO contact_messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message,
		m.Status, m.ResolvedAt, m.IsDeleted, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

func (r *messagePostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ContactMessage, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+`
		FROM contact_messages
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)

	var m model.ContactMessage
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message,
		&m.Status, &m.ResolvedAt, &m.IsDeleted, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMessageNotFound
		}
		return nil, fmt.Errorf("get contact message: %w", err)
	}
	return &m, nil
}

func (r *messagePostgresRepository) List(ctx context.Context, status string) ([]model.ContactMessage, error) {
	where := "WHERE is_deleted = FALSE"
	args := []interface{}{}
	if status != "" {
		where += " AND status = $1"
		args = append(args, status)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM contact_messages `+where+`
		ORDER BY created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ContactMessage
	for rows.Next() {
		var m model.ContactMessage
		err := rows.Scan(
			&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message,
			&m.Status, &m.ResolvedAt, &m.IsDeleted, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messagePostgresRepository) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE contact_messages
		SET status = $2, resolved_at = $3
		WHERE id = $1 AND is_deleted = FALSE`,
		id, model.MessageStatusResolved, at,
	)
	if err != nil {
		return fmt.Errorf("resolve contact message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrMessageNotFound
	}
	return nil
}

func (r *messagePostgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete(ctx, r.pool, "contact_messages", id, model.ErrMessageNotFound)
}

// setActive and softDelete share the lifecycle updates across the
// content tables. Table names are compile-time constants.
func setActive(ctx context.Context, pool *pgxpool.Pool, table string, id uuid.UUID, active bool, notFound error) error {
	tag, err := pool.Exec(ctx, fmt.Sprintf(`
		UPDATE %s
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`, table),
		id, active,
	)
	if err != nil {
		return fmt.Errorf("set active on %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func softDelete(ctx context.Context, pool *pgxpool.Pool, table string, id uuid.UUID, notFound error) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE
		WHERE id = $1 AND is_deleted = FALSE`, table)

	tag, err := pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete on %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
