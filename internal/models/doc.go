// Package models defines the core domain records for Loanbook.
//
// The entity graph is small:
//   - User: an operator account used to sign in.
//   - Client: the person a loan was extended to.
//   - Loan: a credit extension to one Client, tracked by total and
//     remaining balance.
//   - Item: a line-item good fixed at loan creation, contributing
//     quantity x price to the loan total.
//   - Payment: a partial or full repayment recorded against a loan.
//
// Relationships are expressed through ID strings rather than pointers to
// avoid circular references; a Loan loaded in full also carries its Client,
// Items and Payments for rendering and export.
//
// Nothing is ever edited or deleted after creation: Clients, Items and
// Payments are immutable, and a Loan only ever changes by having its
// remaining amount decremented when a payment is applied.
package models
