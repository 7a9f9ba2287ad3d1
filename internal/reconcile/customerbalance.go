package reconcile

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/retailops/arledger/pkg/errors"
	"github.com/retailops/arledger/pkg/money"
)

// CustomerBalance is the derived debt position of one customer across all
// of their orders and the payments attributed to those orders.
type CustomerBalance struct {
	CustomerID    uuid.UUID
	TotalOrders   money.Money
	TotalPayments money.Money
	Balance       money.Money
	State         BalanceState
}

// CustomerBalance aggregates a customer's orders against all payments in the
// snapshot. Payments whose order reference does not resolve to one of the
// customer's orders are excluded rather than treated as an error; a deleted
// order or a stale payment must not block the ledger screen.
//
// Passing an order that belongs to a different customer is a caller bug and
// panics: silently aggregating foreign orders would corrupt the ledger.
func (e *Engine) CustomerBalance(customerID uuid.UUID, orders []Order, payments []Payment) CustomerBalance {
	ownedOrders := make(map[uuid.UUID]struct{}, len(orders))

	var totalOrders money.Money
	for _, o := range orders {
		if o.CustomerID != customerID {
			panic(pkgerrors.New(pkgerrors.CodePrecondition,
				fmt.Sprintf("reconcile: order %s belongs to customer %s, not %s", o.ID, o.CustomerID, customerID)))
		}
		totalOrders = totalOrders.Add(o.Total)
		ownedOrders[o.ID] = struct{}{}
	}

	var totalPayments money.Money
	for _, p := range payments {
		if _, ok := ownedOrders[p.OrderID]; !ok {
			continue
		}
		totalPayments = totalPayments.Add(p.Amount)
	}

	balance := totalOrders.Sub(totalPayments)

	return CustomerBalance{
		CustomerID:    customerID,
		TotalOrders:   totalOrders,
		TotalPayments: totalPayments,
		Balance:       balance,
		State:         classify(balance),
	}
}

func classify(balance money.Money) BalanceState {
	switch {
	case balance.IsPositive():
		return BalanceStateDebt
	case balance.IsNegative():
		return BalanceStateCredit
	default:
		return BalanceStateSettled
	}
}
