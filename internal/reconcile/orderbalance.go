package reconcile

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailops/arledger/pkg/money"
)

// OrderBalance is the derived payment position of one order. Remaining keeps
// its sign so overpayments net correctly during customer aggregation;
// DisplayRemaining is clamped at zero for presentation.
type OrderBalance struct {
	OrderID   uuid.UUID
	Total     money.Money
	Paid      money.Money
	Remaining money.Money
	IsPaid    bool
	IsOverdue bool
}

// DisplayRemaining is the remaining balance as shown on screens: never
// negative.
func (b OrderBalance) DisplayRemaining() money.Money {
	return b.Remaining.ClampZero()
}

// Status derives the order's lifecycle state from its payment totals.
func (b OrderBalance) Status() OrderStatus {
	switch {
	case b.IsPaid:
		return OrderStatusPaid
	case b.Paid.IsPositive():
		return OrderStatusPartiallyPaid
	default:
		return OrderStatusCreated
	}
}

// OrderBalance computes the payment position of one order against the
// payments attributed to it. Payments referencing a different order are
// ignored. The reference date is injected, never read from the wall clock.
func (e *Engine) OrderBalance(order Order, payments []Payment, today time.Time) OrderBalance {
	var paid money.Money
	for _, p := range payments {
		if p.OrderID != order.ID {
			continue
		}
		paid = paid.Add(p.Amount)
	}

	remaining := order.Total.Sub(paid)
	isPaid := !remaining.IsPositive()

	overdue := false
	if !isPaid {
		age := today.Sub(order.Date)
		overdue = age > time.Duration(e.overdueDays)*24*time.Hour
	}

	return OrderBalance{
		OrderID:   order.ID,
		Total:     order.Total,
		Paid:      paid,
		Remaining: remaining,
		IsPaid:    isPaid,
		IsOverdue: overdue,
	}
}
