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

// CreateLoan persists a client, its loan, and all items in one transaction.
func (s *SQLiteStore) CreateLoan(ctx context.Context, client *models.Client, loan *models.Loan, items []models.Item) error {
	// Generate IDs if not set
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if loan.ID == "" {
		loan.ID = uuid.New().String()
	}
	if loan.DateTaken == 0 {
		loan.DateTaken = time.Now().Unix()
	}
	loan.ClientID = client.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Insert client
	_, err = tx.ExecContext(ctx,
		"INSERT INTO clients (id, name, phone_number, business_name) VALUES (?, ?, ?, ?)",
		client.ID, client.Name, client.PhoneNumber, client.BusinessName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	// Insert loan
	_, err = tx.ExecContext(ctx,
		"INSERT INTO loans (id, client_id, date_taken, total_amount, remaining_amount) VALUES (?, ?, ?, ?, ?)",
		loan.ID, loan.ClientID, loan.DateTaken, loan.TotalAmount, loan.RemainingAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert loan: %w", err)
	}

	// Insert items
	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.LoanID = loan.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, loan_id, name, unit, quantity, price) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, item.LoanID, item.Name, item.Unit, item.Quantity, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	loan.Client = client
	loan.Items = items
	return nil
}

// GetLoan retrieves a loan by ID, including its client, items and payments.
func (s *SQLiteStore) GetLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	loan := &models.Loan{Client: &models.Client{}}
	err := s.db.QueryRowContext(ctx, `
		SELECT l.id, l.client_id, l.date_taken, l.total_amount, l.remaining_amount,
		       c.id, c.name, c.phone_number, c.business_name
		FROM loans l
		JOIN clients c ON c.id = l.client_id
		WHERE l.id = ?`,
		loanID,
	).Scan(
		&loan.ID, &loan.ClientID, &loan.DateTaken, &loan.TotalAmount, &loan.RemainingAmount,
		&loan.Client.ID, &loan.Client.Name, &loan.Client.PhoneNumber, &loan.Client.BusinessName,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}

	if err := s.loadItems(ctx, loan); err != nil {
		return nil, err
	}
	if err := s.loadPayments(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// ListLoans retrieves every loan with its client, items and payments,
// newest first.
func (s *SQLiteStore) ListLoans(ctx context.Context) ([]*models.Loan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.client_id, l.date_taken, l.total_amount, l.remaining_amount,
		       c.id, c.name, c.phone_number, c.business_name
		FROM loans l
		JOIN clients c ON c.id = l.client_id
		ORDER BY l.date_taken DESC, l.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan := &models.Loan{Client: &models.Client{}}
		if err := rows.Scan(
			&loan.ID, &loan.ClientID, &loan.DateTaken, &loan.TotalAmount, &loan.RemainingAmount,
			&loan.Client.ID, &loan.Client.Name, &loan.Client.PhoneNumber, &loan.Client.BusinessName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}

	for _, loan := range loans {
		if err := s.loadItems(ctx, loan); err != nil {
			return nil, err
		}
		if err := s.loadPayments(ctx, loan); err != nil {
			return nil, err
		}
	}

	return loans, nil
}

// loadItems populates loan.Items.
func (s *SQLiteStore) loadItems(ctx context.Context, loan *models.Loan) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, loan_id, name, unit, quantity, price FROM items WHERE loan_id = ?",
		loan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.LoanID, &item.Name, &item.Unit, &item.Quantity, &item.Price); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		loan.Items = append(loan.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}
	return nil
}

// loadPayments populates loan.Payments, oldest first.
func (s *SQLiteStore) loadPayments(ctx context.Context, loan *models.Loan) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, loan_id, amount, method, recorded_by, date FROM payments WHERE loan_id = ? ORDER BY date, id",
		loan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.Amount, &p.Method, &p.RecordedBy, &p.Date); err != nil {
			return fmt.Errorf("failed to scan payment: %w", err)
		}
		loan.Payments = append(loan.Payments, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payments: %w", err)
	}
	return nil
}
