package reconcile

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/arledger/pkg/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pay(orderID uuid.UUID, cents int64) Payment {
	return Payment{ID: uuid.New(), OrderID: orderID, Amount: money.FromCents(cents)}
}

func TestOrderBalancePartiallyPaid(t *testing.T) {
	engine := NewEngine(7)
	orderID := uuid.New()
	order := Order{ID: orderID, CustomerID: uuid.New(), Date: day(2024, 5, 1), Total: money.FromCents(10000)}
	payments := []Payment{pay(orderID, 4000), pay(orderID, 3500)}

	balance := engine.OrderBalance(order, payments, day(2024, 5, 3))

	assert.Equal(t, int64(7500), balance.Paid.Cents())
	assert.Equal(t, int64(2500), balance.Remaining.Cents())
	assert.False(t, balance.IsPaid)
	assert.Equal(t, OrderStatusPartiallyPaid, balance.Status())
	assert.Equal(t, "25.00", balance.DisplayRemaining().String())
}

func TestOrderBalanceOverpaymentIsCredit(t *testing.T) {
	engine := NewEngine(7)
	orderID := uuid.New()
	order := Order{ID: orderID, CustomerID: uuid.New(), Date: day(2024, 5, 1), Total: money.FromCents(5000)}

	balance := engine.OrderBalance(order, []Payment{pay(orderID, 6000)}, day(2024, 5, 3))

	assert.Equal(t, int64(-1000), balance.Remaining.Cents())
	assert.True(t, balance.IsPaid)
	assert.Equal(t, OrderStatusPaid, balance.Status())
	// display clamps, the signed value survives for aggregation
	assert.Equal(t, "0.00", balance.DisplayRemaining().String())
}

func TestOrderBalanceAbsentPayments(t *testing.T) {
	engine := NewEngine(7)
	order := Order{ID: uuid.New(), Date: day(2024, 5, 1), Total: money.FromCents(4200)}

	balance := engine.OrderBalance(order, nil, day(2024, 5, 2))

	assert.True(t, balance.Paid.IsZero())
	assert.Equal(t, order.Total, balance.Remaining)
	assert.Equal(t, OrderStatusCreated, balance.Status())
}

func TestOrderBalanceIgnoresForeignPayments(t *testing.T) {
	engine := NewEngine(7)
	orderID := uuid.New()
	order := Order{ID: orderID, Date: day(2024, 5, 1), Total: money.FromCents(1000)}
	payments := []Payment{pay(orderID, 300), pay(uuid.New(), 9999)}

	balance := engine.OrderBalance(order, payments, day(2024, 5, 2))

	assert.Equal(t, int64(300), balance.Paid.Cents())
}

func TestOrderBalanceOverdue(t *testing.T) {
	engine := NewEngine(7)
	orderID := uuid.New()
	order := Order{ID: orderID, Date: day(2024, 5, 1), Total: money.FromCents(10000)}

	// 10 days old with remaining > 0
	balance := engine.OrderBalance(order, nil, day(2024, 5, 11))
	assert.True(t, balance.IsOverdue)

	// same age, fully paid: never overdue
	balance = engine.OrderBalance(order, []Payment{pay(orderID, 10000)}, day(2024, 5, 11))
	assert.False(t, balance.IsOverdue)

	// exactly at the threshold is not yet overdue
	balance = engine.OrderBalance(order, nil, day(2024, 5, 8))
	assert.False(t, balance.IsOverdue)

	// one day past the threshold is
	balance = engine.OrderBalance(order, nil, day(2024, 5, 9))
	assert.True(t, balance.IsOverdue)
}

func TestOrderBalanceConfigurableThreshold(t *testing.T) {
	engine := NewEngine(30)
	order := Order{ID: uuid.New(), Date: day(2024, 5, 1), Total: money.FromCents(100)}

	assert.False(t, engine.OrderBalance(order, nil, day(2024, 5, 20)).IsOverdue)
	assert.True(t, engine.OrderBalance(order, nil, day(2024, 6, 5)).IsOverdue)
}

func TestOrderBalanceRemainingIsExact(t *testing.T) {
	engine := NewEngine(7)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		orderID := uuid.New()
		total := money.FromCents(rng.Int63n(10_000_000))
		order := Order{ID: orderID, Date: day(2024, 1, 1), Total: total}

		var payments []Payment
		var sum int64
		for j := 0; j < rng.Intn(20); j++ {
			cents := rng.Int63n(1_000_000)
			sum += cents
			payments = append(payments, pay(orderID, cents))
		}

		balance := engine.OrderBalance(order, payments, day(2024, 1, 2))
		require.Equal(t, total.Cents()-sum, balance.Remaining.Cents(), "iteration %d", i)
	}
}

func TestOrderBalanceIdempotent(t *testing.T) {
	engine := NewEngine(7)
	orderID := uuid.New()
	order := Order{ID: orderID, Date: day(2024, 5, 1), Total: money.FromCents(12345)}
	payments := []Payment{pay(orderID, 111), pay(orderID, 222)}
	today := day(2024, 5, 20)

	first := engine.OrderBalance(order, payments, today)
	second := engine.OrderBalance(order, payments, today)
	assert.Equal(t, first, second)
}
