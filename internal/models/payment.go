package models

// Payment is a repayment recorded against a loan. Payments are immutable
// once created.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// LoanID references the loan this payment was applied to.
	LoanID string

	// Amount is the payment amount. Always positive and never more than
	// the loan's remaining balance at the time it was applied.
	Amount float64

	// Method is a free-text payment method (e.g. "cash", "mobile money").
	Method string

	// RecordedBy is the free-text identity of whoever processed the
	// payment. The legacy form field for it is named removed_by.
	RecordedBy string

	// Date is the Unix timestamp when the payment was recorded.
	Date int64
}
