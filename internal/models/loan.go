package models

// Loan represents a credit extension to a single client for a bundle of
// line-item goods.
//
// Invariant: 0 <= RemainingAmount <= TotalAmount at all times after
// creation. TotalAmount is fixed once the loan is registered;
// RemainingAmount only ever decreases, by exactly the amount of each
// accepted payment.
type Loan struct {
	// ID is the unique identifier for the loan (UUID format).
	ID string

	// ClientID references the client the loan belongs to.
	ClientID string

	// DateTaken is the Unix timestamp when the loan was registered.
	DateTaken int64

	// TotalAmount is the sum of item subtotals at creation time.
	TotalAmount float64

	// RemainingAmount is the outstanding balance.
	RemainingAmount float64

	// Client is populated when the loan is loaded in full.
	Client *Client

	// Items are the goods the loan was taken for, fixed at creation.
	Items []Item

	// Payments are the repayments applied so far, oldest first.
	Payments []Payment
}

// Item is a single line-item good on a loan.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// LoanID references the loan this item belongs to.
	LoanID string

	// Name is the name of the good (e.g. "Rice").
	Name string

	// Unit is the unit of measure (e.g. "kg").
	Unit string

	// Quantity is the number of units, always positive.
	Quantity int

	// Price is the unit price, never negative.
	Price float64
}

// Subtotal returns this item's contribution to the loan total.
func (i Item) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}
