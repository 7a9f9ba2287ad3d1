package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/retailops/arledger/internal/customers"
	"github.com/retailops/arledger/internal/orders"
	"github.com/retailops/arledger/internal/payments"
	"github.com/retailops/arledger/internal/reconcile"
	"github.com/retailops/arledger/pkg/clock"
	"github.com/retailops/arledger/pkg/config"
	"github.com/retailops/arledger/pkg/db/models"
	pkgerrors "github.com/retailops/arledger/pkg/errors"
	"github.com/retailops/arledger/pkg/pagination"
	"github.com/retailops/arledger/pkg/period"
)

type fakeOrdersRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeOrdersRepo(rows ...*models.Order) *fakeOrdersRepo {
	repo := &fakeOrdersRepo{orders: map[uuid.UUID]*models.Order{}}
	for _, row := range rows {
		repo.orders[row.ID] = row
	}
	return repo
}

func (f *fakeOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return f }

func (f *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeOrdersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.orders, id)
	return nil
}

func (f *fakeOrdersRepo) List(ctx context.Context, params pagination.Params, filters orders.OrderFilters) ([]models.Order, string, error) {
	return nil, "", nil
}

func (f *fakeOrdersRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range f.orders {
		if order.CustomerID == customerID {
			rows = append(rows, *order)
		}
	}
	return rows, nil
}

func (f *fakeOrdersRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range f.orders {
		if !order.Date.Before(from) && !order.Date.After(to) {
			rows = append(rows, *order)
		}
	}
	return rows, nil
}

func (f *fakeOrdersRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range f.orders {
		rows = append(rows, *order)
	}
	return rows, nil
}

type fakePaymentsRepo struct {
	payments []models.Payment
}

func (f *fakePaymentsRepo) WithTx(tx *gorm.DB) payments.Repository { return f }

func (f *fakePaymentsRepo) Create(ctx context.Context, payment *models.Payment) error {
	f.payments = append(f.payments, *payment)
	return nil
}

func (f *fakePaymentsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentsRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakePaymentsRepo) List(ctx context.Context, params pagination.Params, filters payments.PaymentFilters) ([]models.Payment, string, error) {
	return nil, "", nil
}

func (f *fakePaymentsRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	var rows []models.Payment
	for _, payment := range f.payments {
		if payment.OrderID == orderID {
			rows = append(rows, payment)
		}
	}
	return rows, nil
}

func (f *fakePaymentsRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Payment, error) {
	return nil, nil
}

func (f *fakePaymentsRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	var rows []models.Payment
	for _, payment := range f.payments {
		if !payment.Date.Before(from) && !payment.Date.After(to) {
			rows = append(rows, payment)
		}
	}
	return rows, nil
}

func (f *fakePaymentsRepo) ListAll(ctx context.Context) ([]models.Payment, error) {
	return f.payments, nil
}

type fakeCustomersRepo struct {
	customers map[uuid.UUID]*models.Customer
}

func newFakeCustomersRepo(rows ...*models.Customer) *fakeCustomersRepo {
	repo := &fakeCustomersRepo{customers: map[uuid.UUID]*models.Customer{}}
	for _, row := range rows {
		repo.customers[row.ID] = row
	}
	return repo
}

func (f *fakeCustomersRepo) WithTx(tx *gorm.DB) customers.Repository { return f }

func (f *fakeCustomersRepo) Create(ctx context.Context, customer *models.Customer) error { return nil }

func (f *fakeCustomersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (f *fakeCustomersRepo) Update(ctx context.Context, customer *models.Customer) error { return nil }

func (f *fakeCustomersRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeCustomersRepo) List(ctx context.Context, params pagination.Params, query string) ([]models.Customer, string, error) {
	return nil, "", nil
}

func (f *fakeCustomersRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func testConfig() config.LedgerConfig {
	return config.LedgerConfig{
		OverdueDays:     7,
		TopDebtors:      5,
		TopItems:        5,
		RecentUnpaidMax: 5,
	}
}

func intPtr(v int64) *int64 { return &v }

func TestOrderSummaryDerivesStatus(t *testing.T) {
	today := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	customerID := uuid.New()
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		Date:       today.AddDate(0, 0, -3),
		TotalCents: 10000,
		Payments: []models.Payment{
			{ID: uuid.New(), OrderID: uuid.Nil, CustomerID: customerID, Date: today, AmountCents: 4000},
		},
	}
	order.Payments[0].OrderID = order.ID

	svc, err := NewService(
		newFakeOrdersRepo(order),
		&fakePaymentsRepo{},
		newFakeCustomersRepo(),
		testConfig(),
		clock.Fixed{At: today},
		nil,
		nil,
	)
	require.NoError(t, err)

	summary, err := svc.OrderSummary(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", summary.Total.String())
	assert.Equal(t, "40.00", summary.Paid.String())
	assert.Equal(t, "60.00", summary.Remaining.String())
	assert.Equal(t, reconcile.OrderStatusPartiallyPaid, summary.Status)
	assert.False(t, summary.IsOverdue)

	_, err = svc.OrderSummary(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestCustomerStatementExcludesDanglingPayments(t *testing.T) {
	today := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	customer := &models.Customer{ID: uuid.New(), FirstName: "Maria", LastName: "Santos"}
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		Date:       today.AddDate(0, 0, -10),
		TotalCents: 15000,
	}

	paymentsRepo := &fakePaymentsRepo{payments: []models.Payment{
		{ID: uuid.New(), OrderID: order.ID, CustomerID: customer.ID, Date: today, AmountCents: 3000},
		// dangling: references an order that no longer exists
		{ID: uuid.New(), OrderID: uuid.New(), CustomerID: customer.ID, Date: today, AmountCents: 9999},
	}}

	svc, err := NewService(
		newFakeOrdersRepo(order),
		paymentsRepo,
		newFakeCustomersRepo(customer),
		testConfig(),
		clock.Fixed{At: today},
		nil,
		nil,
	)
	require.NoError(t, err)

	statement, err := svc.CustomerStatement(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", statement.CustomerName)
	assert.Equal(t, "150.00", statement.TotalOrders.String())
	assert.Equal(t, "30.00", statement.TotalPayments.String())
	assert.Equal(t, "120.00", statement.Balance.String())
	assert.Equal(t, reconcile.BalanceStateDebt, statement.State)
	require.Len(t, statement.Orders, 1)
	assert.True(t, statement.Orders[0].IsOverdue)
}

func TestDashboardAggregatesAndRanks(t *testing.T) {
	today := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	alice := &models.Customer{ID: uuid.New(), FirstName: "Alice", LastName: "Big"}
	bob := &models.Customer{ID: uuid.New(), FirstName: "Bob", LastName: "Small"}

	aliceOrder := &models.Order{
		ID: uuid.New(), CustomerID: alice.ID, Customer: alice,
		Date: today, TotalCents: 50000,
	}
	bobOrder := &models.Order{
		ID: uuid.New(), CustomerID: bob.ID, Customer: bob,
		Date: today.AddDate(0, 0, -1), TotalCents: 20000,
	}
	paidOrder := &models.Order{
		ID: uuid.New(), CustomerID: bob.ID, Customer: bob,
		Date: today, TotalCents: 1000,
	}

	paymentsRepo := &fakePaymentsRepo{payments: []models.Payment{
		{ID: uuid.New(), OrderID: bobOrder.ID, CustomerID: bob.ID, Date: today, AmountCents: 5000},
		{ID: uuid.New(), OrderID: paidOrder.ID, CustomerID: bob.ID, Date: today, AmountCents: 1000},
	}}

	svc, err := NewService(
		newFakeOrdersRepo(aliceOrder, bobOrder, paidOrder),
		paymentsRepo,
		newFakeCustomersRepo(alice, bob),
		testConfig(),
		clock.Fixed{At: today},
		nil,
		nil,
	)
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	// today: alice 500.00 + bob's paid 10.00 order
	assert.Equal(t, "510.00", dashboard.SalesTotal.String())
	assert.Equal(t, "60.00", dashboard.PaymentsTotal.String())
	assert.Equal(t, 2, dashboard.OrderCount)
	assert.Equal(t, 2, dashboard.PaymentCount)

	require.Len(t, dashboard.TopDebtors, 2)
	assert.Equal(t, "Alice Big", dashboard.TopDebtors[0].CustomerName)
	assert.Equal(t, "500.00", dashboard.TopDebtors[0].Balance.String())
	assert.Equal(t, "150.00", dashboard.TopDebtors[1].Balance.String())

	// paid order never shows up in recent unpaid
	require.Len(t, dashboard.RecentUnpaid, 2)
	assert.Equal(t, aliceOrder.ID, dashboard.RecentUnpaid[0].OrderID)
}

func TestDashboardUsesCache(t *testing.T) {
	today := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	cache := NewCache(store, time.Minute, nil)

	svc, err := NewService(
		newFakeOrdersRepo(),
		&fakePaymentsRepo{},
		newFakeCustomersRepo(),
		testConfig(),
		clock.Fixed{At: today},
		cache,
		nil,
	)
	require.NoError(t, err)

	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	firstSets := store.sets

	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, firstSets, store.sets, "second read should come from cache")
}

func TestTopItemsAndSalesReport(t *testing.T) {
	today := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	customerID := uuid.New()

	coffee := "coffee"
	beans := models.Item{ID: uuid.New(), Name: "Beans", Category: &coffee, UnitPriceCents: 1000}
	mug := models.Item{ID: uuid.New(), Name: "Mug", UnitPriceCents: 800}

	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		Date:       today,
		TotalCents: 6800,
		Lines: []models.OrderLine{
			{ID: uuid.New(), ItemID: beans.ID, Quantity: 6, UnitPriceCents: intPtr(1000), Item: &beans},
			{ID: uuid.New(), ItemID: mug.ID, Quantity: 1, UnitPriceCents: intPtr(800), Item: &mug},
		},
	}

	svc, err := NewService(
		newFakeOrdersRepo(order),
		&fakePaymentsRepo{},
		newFakeCustomersRepo(),
		testConfig(),
		clock.Fixed{At: today},
		nil,
		nil,
	)
	require.NoError(t, err)

	window := period.Month(today.Year(), today.Month())

	top, err := svc.TopItems(context.Background(), window, "", RankByQuantity, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Beans", top[0].ItemName)
	assert.Equal(t, 6, top[0].Quantity)

	// category filter applies per line
	top, err = svc.TopItems(context.Background(), window, "coffee", RankByTotal, 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Beans", top[0].ItemName)

	report, err := svc.SalesReport(context.Background(), window, "")
	require.NoError(t, err)
	assert.Equal(t, "68.00", report.TotalRevenue.String())
	assert.Equal(t, 7, report.TotalQuantity)
	require.Len(t, report.Items, 2)
	assert.Equal(t, "Beans", report.Items[0].ItemName)
}
