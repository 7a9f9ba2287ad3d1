// Package reconcile derives accounts-receivable views from a snapshot of
// order and payment records: per-order balances, per-customer balances,
// debtor rankings and period sales aggregates. It performs no I/O and never
// mutates its inputs; callers must hand it a consistent snapshot.
package reconcile

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailops/arledger/pkg/money"
)

// OrderLine is the normalized snapshot of one line within an order.
// UnitPrice is the effective price for reconciliation, already resolved
// against the fallback policy by the normalizer.
type OrderLine struct {
	ItemID    uuid.UUID
	ItemName  string
	Category  string
	Quantity  int
	UnitPrice money.Money
}

// Extension returns quantity × unit price, exact in minor units.
func (l OrderLine) Extension() money.Money {
	return l.UnitPrice.MulQty(l.Quantity)
}

// Order is the normalized snapshot of an order record.
type Order struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Date       time.Time
	Total      money.Money
	Lines      []OrderLine
}

// Payment is the normalized snapshot of a payment record.
type Payment struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	Date       time.Time
	Amount     money.Money
}

// OrderStatus is the derived lifecycle state of an order. There is no stored
// status column; the state is recomputed from payment totals on every read.
type OrderStatus string

const (
	OrderStatusCreated       OrderStatus = "created"
	OrderStatusPartiallyPaid OrderStatus = "partially_paid"
	OrderStatusPaid          OrderStatus = "paid"
)

// BalanceState classifies a customer balance. Settled and credit are
// distinct business states, not just signs.
type BalanceState string

const (
	BalanceStateDebt    BalanceState = "debt"
	BalanceStateCredit  BalanceState = "credit"
	BalanceStateSettled BalanceState = "settled"
)

// DefaultOverdueDays is the unpaid-age threshold after which an order is
// flagged overdue.
const DefaultOverdueDays = 7

// Engine computes derived ledger views. The zero value is not usable; use
// NewEngine.
type Engine struct {
	overdueDays int
}

// NewEngine returns an engine with the given overdue threshold in days.
// Non-positive values fall back to DefaultOverdueDays.
func NewEngine(overdueDays int) *Engine {
	if overdueDays <= 0 {
		overdueDays = DefaultOverdueDays
	}
	return &Engine{overdueDays: overdueDays}
}
