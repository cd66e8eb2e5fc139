package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/internal/domains/order/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const orderColumns = `
	id, order_number, user_id, total_price, discount_code, discount_amount,
	shipping_price, final_price, status, payment_method, payment_status,
	shipping_name, shipping_phone, shipping_address, note, cancel_reason,
	return_reason, return_media_urls, return_requested_at, return_resolved_at,
	paid_at, confirmed_at, delivered_at, is_deleted, created_at, updated_at
`

const orderItemColumns = `
	id, order_id, product_id, variant_id, product_name, image_url,
	color, size, ram, storage, condition, price, quantity, created_at
`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.TotalPrice, &o.DiscountCode, &o.DiscountAmount,
		&o.ShippingPrice, &o.FinalPrice, &o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&o.ShippingName, &o.ShippingPhone, &o.ShippingAddress, &o.Note, &o.CancelReason,
		&o.ReturnReason, &o.ReturnMediaURLs, &o.ReturnRequestedAt, &o.ReturnResolvedAt,
		&o.PaidAt, &o.ConfirmedAt, &o.DeliveredAt, &o.IsDeleted, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}

func scanOrderItem(row pgx.Row) (*model.OrderItem, error) {
	var i model.OrderItem
	err := row.Scan(
		&i.ID, &i.OrderID, &i.ProductID, &i.VariantID, &i.ProductName, &i.ImageURL,
		&i.Color, &i.Size, &i.RAM, &i.Storage, &i.Condition, &i.Price, &i.Quantity, &i.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan order item: %w", err)
	}
	return &i, nil
}

func (r *postgresRepository) Create(ctx context.Context, o *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (
			id, order_number, user_id, total_price, discount_code, discount_amount,
			shipping_price, final_price, status, payment_method, payment_status,
			shipping_name, shipping_phone, shipping_address, note, cancel_reason,
			return_reason, return_media_urls, return_requested_at, return_resolved_at,
			paid_at, confirmed_at, delivered_at, is_deleted, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		)`,
		o.ID, o.OrderNumber, o.UserID, o.TotalPrice, o.DiscountCode, o.DiscountAmount,
		o.ShippingPrice, o.FinalPrice, o.Status, o.PaymentMethod, o.PaymentStatus,
		o.ShippingName, o.ShippingPhone, o.ShippingAddress, o.Note, o.CancelReason,
		o.ReturnReason, o.ReturnMediaURLs, o.ReturnRequestedAt, o.ReturnResolvedAt,
		o.PaidAt, o.ConfirmedAt, o.DeliveredAt, o.IsDeleted, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, variant_id, product_name, image_url,
				color, size, ram, storage, condition, price, quantity, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			item.ID, item.OrderID, item.ProductID, item.VariantID, item.ProductName, item.ImageURL,
			item.Color, item.Size, item.RAM, item.Storage, item.Condition, item.Price, item.Quantity, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 AND is_deleted = FALSE`, orderColumns)
	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, o)
}

func (r *postgresRepository) GetByOrderNumber(ctx context.Context, number string) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_number = $1 AND is_deleted = FALSE`, orderColumns)
	o, err := scanOrder(r.pool.QueryRow(ctx, query, number))
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, o)
}

func (r *postgresRepository) withItems(ctx context.Context, o *model.Order) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM order_items WHERE order_id = $1 ORDER BY created_at`, orderItemColumns)
	rows, err := r.pool.Query(ctx, query, o.ID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, *item)
	}
	return o, rows.Err()
}

func (r *postgresRepository) List(ctx context.Context, filter *model.Filter) ([]model.Order, int, error) {
	filter.Normalize()

	where := `WHERE is_deleted = FALSE`
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != nil {
		where += ` AND user_id = ` + arg(*filter.UserID)
	}
	if filter.Status != nil {
		where += ` AND status = ` + arg(*filter.Status)
	}
	if filter.PaymentStatus != nil {
		where += ` AND payment_status = ` + arg(*filter.PaymentStatus)
	}
	if filter.From != nil {
		where += ` AND created_at >= ` + arg(*filter.From)
	}
	if filter.To != nil {
		where += ` AND created_at <= ` + arg(*filter.To)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		orderColumns, where, arg(filter.Limit), arg(filter.Offset()),
	)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		if _, err := r.withItems(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.Status, at time.Time) (bool, error) {
	set := `status = $3, updated_at = $4`
	switch to {
	case model.StatusConfirmed:
		set += `, confirmed_at = $4`
	case model.StatusDelivered:
		set += `, delivered_at = $4`
	}

	query := fmt.Sprintf(
		`UPDATE orders SET %s WHERE id = $1 AND status = $2 AND is_deleted = FALSE`, set)
	tag, err := r.pool.Exec(ctx, query, id, from, to, at)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) SaveCancellation(ctx context.Context, id uuid.UUID, from model.Status, reason string, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = $3, cancel_reason = $4, updated_at = $5
		WHERE id = $1 AND status = $2 AND is_deleted = FALSE`,
		id, from, model.StatusCancelled, reason, at,
	)
	if err != nil {
		return false, fmt.Errorf("cancel order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) SaveReturnRequest(ctx context.Context, id uuid.UUID, reason string, mediaURLs []string, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET
			status = $2, return_reason = $3, return_media_urls = $4,
			return_requested_at = $5, updated_at = $5
		WHERE id = $1 AND status = $6 AND is_deleted = FALSE`,
		id, model.StatusReturnRequested, reason, mediaURLs, at, model.StatusDelivered,
	)
	if err != nil {
		return false, fmt.Errorf("request order return: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) ResolveReturn(ctx context.Context, id uuid.UUID, to model.Status, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = $2, return_resolved_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4 AND is_deleted = FALSE`,
		id, to, at, model.StatusReturnRequested,
	)
	if err != nil {
		return false, fmt.Errorf("resolve order return: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkPaid succeeds at most once per order.
func (r *postgresRepository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET payment_status = $2, paid_at = $3, updated_at = $3
		WHERE id = $1 AND payment_status <> $2 AND is_deleted = FALSE`,
		id, model.PaymentStatusPaid, at,
	)
	if err != nil {
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) SetPaymentStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = $3 WHERE id = $1 AND is_deleted = FALSE`,
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set order payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) StalePendingIDs(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM orders
		WHERE status = $1 AND created_at < $2 AND is_deleted = FALSE`,
		model.StatusPending, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("list stale pending orders: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresRepository) MonthlySpending(ctx context.Context, userID uuid.UUID, months int) ([]model.MonthlySpending, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at)::int,
		       EXTRACT(MONTH FROM created_at)::int,
		       COALESCE(SUM(final_price), 0),
		       COUNT(*)
		FROM orders
		WHERE user_id = $1
		  AND status NOT IN ($2, $3)
		  AND is_deleted = FALSE
		  AND created_at >= date_trunc('month', now()) - ($4 || ' months')::interval
		GROUP BY 1, 2
		ORDER BY 1 DESC, 2 DESC`,
		userID, model.StatusCancelled, model.StatusReturned, months,
	)
	if err != nil {
		return nil, fmt.Errorf("monthly spending: %w", err)
	}
	defer rows.Close()

	var buckets []model.MonthlySpending
	for rows.Next() {
		var b model.MonthlySpending
		if err := rows.Scan(&b.Year, &b.Month, &b.Total, &b.Count); err != nil {
			return nil, fmt.Errorf("scan spending bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
