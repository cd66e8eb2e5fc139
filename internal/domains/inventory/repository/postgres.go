package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/internal/domains/inventory/model"
)

const receiptColumns = `id, receipt_number, supplier_name, supplier_contact, note, status,
	total_quantity, total_cost, created_by, applied_at, is_deleted, created_at, updated_at`

const receiptItemColumns = `id, receipt_id, product_id, variant_id, product_name,
	unit_cost, quantity, stock_before, stock_after`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, receipt *model.Receipt) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create receipt: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO inventory_receipts (`+receiptColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		receipt.ID, receipt.ReceiptNumber, receipt.SupplierName, receipt.SupplierContact,
		receipt.Note, receipt.Status, receipt.TotalQuantity, receipt.TotalCost,
		receipt.CreatedBy, receipt.AppliedAt, receipt.IsDeleted,
		receipt.CreatedAt, receipt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}

	for _, item := range receipt.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO inventory_receipt_items (`+receiptItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID, item.ReceiptID, item.ProductID, item.VariantID, item.ProductName,
			item.UnitCost, item.Quantity, item.StockBefore, item.StockAfter,
		)
		if err != nil {
			return fmt.Errorf("insert receipt item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+receiptColumns+`
		FROM inventory_receipts
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)

	receipt, err := scanReceipt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}

	if err := r.loadItems(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (r *postgresRepository) loadItems(ctx context.Context, receipt *model.Receipt) error {
	rows, err := r.pool.Query(ctx, `
		SELECT `+receiptItemColumns+`
		FROM inventory_receipt_items
		WHERE receipt_id = $1
		ORDER BY product_name`,
		receipt.ID,
	)
	if err != nil {
		return fmt.Errorf("load receipt items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.ReceiptItem
		err := rows.Scan(
			&item.ID, &item.ReceiptID, &item.ProductID, &item.VariantID, &item.ProductName,
			&item.UnitCost, &item.Quantity, &item.StockBefore, &item.StockAfter,
		)
		if err != nil {
			return fmt.Errorf("scan receipt item: %w", err)
		}
		receipt.Items = append(receipt.Items, item)
	}
	return rows.Err()
}

func (r *postgresRepository) List(ctx context.Context, filter *model.Filter) ([]model.Receipt, int, error) {
	filter.Normalize()

	where := "WHERE is_deleted = FALSE"
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Supplier != "" {
		where += " AND supplier_name ILIKE " + arg("%"+filter.Supplier+"%")
	}
	if filter.Status != "" {
		where += " AND status = " + arg(filter.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM inventory_receipts "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count receipts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM inventory_receipts %s
		ORDER BY created_at DESC
		LIMIT %s OFFSET %s`,
		receiptColumns, where, arg(filter.Limit), arg(filter.Offset()),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []model.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, *receipt)
	}
	return receipts, total, rows.Err()
}

func (r *postgresRepository) MarkApplied(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inventory_receipts
		SET status = $2, applied_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4 AND is_deleted = FALSE`,
		id, model.StatusApplied, at, model.StatusDraft,
	)
	if err != nil {
		return false, fmt.Errorf("mark receipt applied: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) Reopen(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE inventory_receipts
		SET status = $2, applied_at = NULL, updated_at = NOW()
		WHERE id = $1`,
		id, model.StatusDraft,
	)
	if err != nil {
		return fmt.Errorf("reopen receipt: %w", err)
	}
	return nil
}

func (r *postgresRepository) SaveItemLevels(ctx context.Context, itemID uuid.UUID, before, after int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE inventory_receipt_items
		SET stock_before = $2, stock_after = $3
		WHERE id = $1`,
		itemID, before, after,
	)
	if err != nil {
		return fmt.Errorf("save receipt item levels: %w", err)
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inventory_receipts
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanReceipt(row pgx.Row) (*model.Receipt, error) {
	var receipt model.Receipt
	err := row.Scan(
		&receipt.ID, &receipt.ReceiptNumber, &receipt.SupplierName, &receipt.SupplierContact,
		&receipt.Note, &receipt.Status, &receipt.TotalQuantity, &receipt.TotalCost,
		&receipt.CreatedBy, &receipt.AppliedAt, &receipt.IsDeleted,
		&receipt.CreatedAt, &receipt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}
