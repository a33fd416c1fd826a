// Package service implements the loan domain operations on top of a
// storage.Store.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/duka/loanbook/internal/models"
	"github.com/duka/loanbook/internal/storage"
)

// ClientInput identifies the client a new loan is registered for.
type ClientInput struct {
	Name         string
	PhoneNumber  string
	BusinessName string
}

// ItemInput is one line item on a new loan. The web layer converts form
// text to these typed fields before the service sees them.
type ItemInput struct {
	Name     string
	Unit     string
	Quantity int
	Price    float64
}

// LoanService owns the loan lifecycle: registration, payment application,
// and reads for rendering.
type LoanService struct {
	store storage.Store
}

// NewLoanService creates a new LoanService with the given storage backend.
func NewLoanService(store storage.Store) *LoanService {
	return &LoanService{store: store}
}

// RegisterLoan creates a client, a loan, and its items in one transaction.
// The loan's total and remaining amounts are both set to the sum of item
// subtotals. An empty item list is accepted and yields a zero-amount loan.
func (s *LoanService) RegisterLoan(ctx context.Context, client ClientInput, items []ItemInput) (*models.Loan, error) {
	if client.Name == "" {
		return nil, validationErr("client_name", "client name is required")
	}

	total := 0.0
	loanItems := make([]models.Item, len(items))
	for i, in := range items {
		if in.Name == "" {
			return nil, validationErr("item_name", "item %d: name is required", i+1)
		}
		if in.Quantity <= 0 {
			return nil, validationErr("item_quantity", "item %d: quantity must be positive", i+1)
		}
		if in.Price < 0 {
			return nil, validationErr("item_price", "item %d: price must not be negative", i+1)
		}
		loanItems[i] = models.Item{
			Name:     in.Name,
			Unit:     in.Unit,
			Quantity: in.Quantity,
			Price:    in.Price,
		}
		total += loanItems[i].Subtotal()
	}

	loan := &models.Loan{
		TotalAmount:     total,
		RemainingAmount: total,
	}
	clientRec := &models.Client{
		Name:         client.Name,
		PhoneNumber:  client.PhoneNumber,
		BusinessName: client.BusinessName,
	}

	if err := s.store.CreateLoan(ctx, clientRec, loan, loanItems); err != nil {
		slog.Error("RegisterLoan failed", "client", client.Name, "error", err)
		return nil, fmt.Errorf("failed to register loan: %w", err)
	}

	slog.Info("Loan registered",
		"loan_id", loan.ID,
		"client", clientRec.Name,
		"items", len(loanItems),
		"total", loan.TotalAmount,
	)
	return loan, nil
}

// ApplyPayment records a payment against a loan and decrements its
// remaining balance. A payment larger than the remaining balance is
// rejected with storage.ErrInsufficientBalance and writes nothing; a
// payment equal to the balance drives it to exactly zero.
func (s *LoanService) ApplyPayment(ctx context.Context, loanID string, amount float64, method, recordedBy string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, validationErr("amount", "payment amount must be positive")
	}
	if method == "" {
		return nil, validationErr("payment_method", "payment method is required")
	}
	if recordedBy == "" {
		return nil, validationErr("removed_by", "processed-by is required")
	}

	payment := &models.Payment{
		LoanID:     loanID,
		Amount:     amount,
		Method:     method,
		RecordedBy: recordedBy,
	}

	if err := s.store.AddPayment(ctx, payment); err != nil {
		switch err {
		case storage.ErrNotFound, storage.ErrInsufficientBalance:
			slog.Warn("ApplyPayment rejected", "loan_id", loanID, "amount", amount, "error", err)
		default:
			slog.Error("ApplyPayment failed", "loan_id", loanID, "error", err)
		}
		return nil, err
	}

	slog.Info("Payment recorded",
		"loan_id", loanID,
		"payment_id", payment.ID,
		"amount", amount,
		"method", method,
	)
	return payment, nil
}

// GetLoan retrieves a loan with its client, items and payments.
// Returns storage.ErrNotFound for an unknown ID.
func (s *LoanService) GetLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	return s.store.GetLoan(ctx, loanID)
}

// ListLoans retrieves every loan for the dashboard, newest first.
func (s *LoanService) ListLoans(ctx context.Context) ([]*models.Loan, error) {
	return s.store.ListLoans(ctx)
}
