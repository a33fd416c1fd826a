// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/duka/loanbook/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientBalance is returned by AddPayment when the payment amount
// exceeds the loan's remaining balance. The check runs inside the payment
// transaction so the balance cannot change underneath it.
var ErrInsufficientBalance = errors.New("payment amount exceeds remaining loan balance")

// Store defines the interface for loan storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Returns an error if the username
	// is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user by login name.
	// Returns (nil, nil) if no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateLoan persists a client, its loan, and all items as one
	// transaction. IDs and timestamps are generated when unset. On any
	// failure no partial loan is visible.
	CreateLoan(ctx context.Context, client *models.Client, loan *models.Loan, items []models.Item) error

	// GetLoan retrieves a loan with its client, items and payments.
	// Returns ErrNotFound for an unknown ID.
	GetLoan(ctx context.Context, loanID string) (*models.Loan, error)

	// ListLoans retrieves every loan with its client, items and payments,
	// newest first.
	ListLoans(ctx context.Context) ([]*models.Loan, error)

	// AddPayment records a payment and decrements the loan's remaining
	// amount in one transaction. Returns ErrNotFound for an unknown loan
	// and ErrInsufficientBalance when the amount exceeds the balance; in
	// both cases nothing is written.
	AddPayment(ctx context.Context, payment *models.Payment) error

	// Close releases any resources held by the store.
	Close() error
}
