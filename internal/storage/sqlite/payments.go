package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duka/loanbook/internal/models"
	"github.com/duka/loanbook/internal/storage"
)

// AddPayment records a payment and decrements the loan's remaining amount.
// The balance check, the insert and the decrement all run in one
// transaction, so the payment and the new balance are visible together or
// not at all.
func (s *SQLiteStore) AddPayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.Date == 0 {
		payment.Date = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var remaining float64
	err = tx.QueryRowContext(ctx,
		"SELECT remaining_amount FROM loans WHERE id = ?",
		payment.LoanID,
	).Scan(&remaining)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get loan balance: %w", err)
	}

	if payment.Amount > remaining {
		return storage.ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO payments (id, loan_id, amount, method, recorded_by, date) VALUES (?, ?, ?, ?, ?, ?)",
		payment.ID, payment.LoanID, payment.Amount, payment.Method, payment.RecordedBy, payment.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE loans SET remaining_amount = remaining_amount - ? WHERE id = ?",
		payment.Amount, payment.LoanID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
