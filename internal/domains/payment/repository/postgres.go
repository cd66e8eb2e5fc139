package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/internal/domains/payment/model"
)

// RepositoryInterface records gateway callbacks for audit.
type RepositoryInterface interface {
	Record(ctx context.Context, t *model.Transaction) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Transaction, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Record(ctx context.Context, t *model.Transaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payment_transactions (
			id, order_id, txn_ref, amount, bank_code, bank_tran_no, card_type,
			pay_date, response_code, transaction_no, transaction_status,
			source, outcome, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		t.ID, t.OrderID, t.TxnRef, t.Amount, t.BankCode, t.BankTranNo, t.CardType,
		t.PayDate, t.ResponseCode, t.TransactionNo, t.TransactionStatus,
		t.Source, t.Outcome, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record payment transaction: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, txn_ref, amount, bank_code, bank_tran_no, card_type,
		       pay_date, response_code, transaction_no, transaction_status,
		       source, outcome, created_at
		FROM payment_transactions
		WHERE order_id = $1
		ORDER BY created_at DESC`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payment transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		err := rows.Scan(
			&t.ID, &t.OrderID, &t.TxnRef, &t.Amount, &t.BankCode, &t.BankTranNo, &t.CardType,
			&t.PayDate, &t.ResponseCode, &t.TransactionNo, &t.TransactionStatus,
			&t.Source, &t.Outcome, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
