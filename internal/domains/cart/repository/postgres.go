package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/internal/domains/cart/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const cartColumns = `id, user_id, session_id, total_items, total_price, is_deleted, created_at, updated_at`

const cartItemColumns = `
	id, cart_id, product_id, variant_id, product_name, image_url,
	color, size, ram, storage, condition, original_price, price,
	stock_at_add, quantity, created_at, updated_at
`

func scanCart(row pgx.Row) (*model.Cart, error) {
	var c model.Cart
	err := row.Scan(
		&c.ID, &c.UserID, &c.SessionID, &c.TotalItems, &c.TotalPrice,
		&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("scan cart: %w", err)
	}
	return &c, nil
}

func scanCartItem(row pgx.Row) (*model.CartItem, error) {
	var i model.CartItem
	err := row.Scan(
		&i.ID, &i.CartID, &i.ProductID, &i.VariantID, &i.ProductName, &i.ImageURL,
		&i.Color, &i.Size, &i.RAM, &i.Storage, &i.Condition, &i.OriginalPrice, &i.Price,
		&i.StockAtAdd, &i.Quantity, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrItemNotFound
		}
		return nil, fmt.Errorf("scan cart item: %w", err)
	}
	return &i, nil
}

func (r *postgresRepository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	query := fmt.Sprintf(`SELECT %s FROM carts WHERE user_id = $1 AND is_deleted = FALSE`, cartColumns)
	c, err := scanCart(r.pool.QueryRow(ctx, query, userID))
	if err == nil {
		return r.withItems(ctx, c)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	return r.create(ctx, &userID, "")
}

func (r *postgresRepository) GetOrCreateBySession(ctx context.Context, sessionID string) (*model.Cart, error) {
	query := fmt.Sprintf(`SELECT %s FROM carts WHERE session_id = $1 AND user_id IS NULL AND is_deleted = FALSE`, cartColumns)
	c, err := scanCart(r.pool.QueryRow(ctx, query, sessionID))
	if err == nil {
		return r.withItems(ctx, c)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	return r.create(ctx, nil, sessionID)
}

func (r *postgresRepository) create(ctx context.Context, userID *uuid.UUID, sessionID string) (*model.Cart, error) {
	now := time.Now()
	c := &model.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO carts (id, user_id, session_id, total_items, total_price, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, FALSE, $4, $4)`,
		c.ID, c.UserID, c.SessionID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	query := fmt.Sprintf(`SELECT %s FROM carts WHERE id = $1 AND is_deleted = FALSE`, cartColumns)
	c, err := scanCart(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, c)
}

func (r *postgresRepository) withItems(ctx context.Context, c *model.Cart) (*model.Cart, error) {
	query := fmt.Sprintf(`SELECT %s FROM cart_items WHERE cart_id = $1 ORDER BY created_at`, cartItemColumns)
	rows, err := r.pool.Query(ctx, query, c.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		c.Items = append(c.Items, *item)
	}
	return c, rows.Err()
}

// mutate wraps a cart mutation in a transaction and recomputes the totals
// before committing.
func (r *postgresRepository) mutate(ctx context.Context, cartID uuid.UUID, fn func(tx pgx.Tx) error) (*model.Cart, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin cart mutation: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM carts WHERE id = $1 AND is_deleted = FALSE FOR UPDATE`,
		cartID,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("lock cart: %w", err)
	}

	if err := fn(tx); err != nil {
		return nil, err
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, cartID)
}

// recomputeTotals derives total_items and total_price from the item rows.
func recomputeTotals(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE carts SET
			total_items = COALESCE((SELECT SUM(quantity) FROM cart_items WHERE cart_id = $1), 0),
			total_price = COALESCE((SELECT SUM(price * quantity) FROM cart_items WHERE cart_id = $1), 0),
			updated_at = $2
		WHERE id = $1`,
		cartID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("recompute cart totals: %w", err)
	}
	return nil
}

func (r *postgresRepository) AddItem(ctx context.Context, cartID uuid.UUID, item *model.CartItem) (*model.Cart, error) {
	return r.mutate(ctx, cartID, func(tx pgx.Tx) error {
		// Same variant already in the cart just gains quantity.
		tag, err := tx.Exec(ctx, `
			UPDATE cart_items SET quantity = quantity + $3, updated_at = $4
			WHERE cart_id = $1 AND variant_id = $2`,
			cartID, item.VariantID, item.Quantity, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("bump cart item: %w", err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}
		return insertItem(ctx, tx, item)
	})
}

func insertItem(ctx context.Context, tx pgx.Tx, item *model.CartItem) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO cart_items (
			id, cart_id, product_id, variant_id, product_name, image_url,
			color, size, ram, storage, condition, original_price, price,
			stock_at_add, quantity, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		item.ID, item.CartID, item.ProductID, item.VariantID, item.ProductName, item.ImageURL,
		item.Color, item.Size, item.RAM, item.Storage, item.Condition, item.OriginalPrice, item.Price,
		item.StockAtAdd, item.Quantity, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

func (r *postgresRepository) ChangeQuantity(ctx context.Context, cartID, itemID uuid.UUID, delta int) (*model.Cart, error) {
	return r.mutate(ctx, cartID, func(tx pgx.Tx) error {
		var quantity int
		err := tx.QueryRow(ctx,
			`SELECT quantity FROM cart_items WHERE id = $1 AND cart_id = $2 FOR UPDATE`,
			itemID, cartID,
		).Scan(&quantity)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrItemNotFound
			}
			return fmt.Errorf("lock cart item: %w", err)
		}

		// Dropping to zero (or below) removes the row.
		if quantity+delta <= 0 {
			_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
			if err != nil {
				return fmt.Errorf("remove cart item: %w", err)
			}
			return nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE cart_items SET quantity = quantity + $2, updated_at = $3 WHERE id = $1`,
			itemID, delta, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("change cart item quantity: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*model.Cart, error) {
	return r.mutate(ctx, cartID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`,
			itemID, cartID,
		)
		if err != nil {
			return fmt.Errorf("remove cart item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrItemNotFound
		}
		return nil
	})
}

func (r *postgresRepository) SwapVariant(ctx context.Context, cartID, itemID uuid.UUID, replacement *model.CartItem) (*model.Cart, error) {
	return r.mutate(ctx, cartID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE cart_items SET
				variant_id = $3, color = $4, size = $5, ram = $6, storage = $7,
				condition = $8, original_price = $9, price = $10, stock_at_add = $11,
				updated_at = $12
			WHERE id = $1 AND cart_id = $2`,
			itemID, cartID,
			replacement.VariantID, replacement.Color, replacement.Size, replacement.RAM,
			replacement.Storage, replacement.Condition, replacement.OriginalPrice,
			replacement.Price, replacement.StockAtAdd, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("swap cart item variant: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrItemNotFound
		}
		return nil
	})
}

func (r *postgresRepository) Merge(ctx context.Context, srcID, dstID uuid.UUID) (*model.Cart, error) {
	return r.mutate(ctx, dstID, func(tx pgx.Tx) error {
		// Variants present in both carts sum their quantities.
		_, err := tx.Exec(ctx, `
			UPDATE cart_items dst
			SET quantity = dst.quantity + src.quantity, updated_at = $3
			FROM cart_items src
			WHERE dst.cart_id = $1 AND src.cart_id = $2 AND dst.variant_id = src.variant_id`,
			dstID, srcID, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("merge overlapping cart items: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE cart_items SET cart_id = $1, updated_at = $3
			WHERE cart_id = $2
			  AND variant_id NOT IN (SELECT variant_id FROM cart_items WHERE cart_id = $1)`,
			dstID, srcID, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("move cart items: %w", err)
		}

		_, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, srcID)
		if err != nil {
			return fmt.Errorf("drop merged cart items: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE carts SET is_deleted = TRUE, updated_at = $2 WHERE id = $1`,
			srcID, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("retire merged cart: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.mutate(ctx, cartID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	return err
}

func (r *postgresRepository) SoftDelete(ctx context.Context, cartID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE carts SET is_deleted = TRUE, updated_at = $2 WHERE id = $1 AND is_deleted = FALSE`,
		cartID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
