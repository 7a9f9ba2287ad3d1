package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailops/arledger/internal/customers"
	"github.com/retailops/arledger/internal/orders"
	"github.com/retailops/arledger/internal/payments"
	"github.com/retailops/arledger/internal/reconcile"
	"github.com/retailops/arledger/pkg/clock"
	"github.com/retailops/arledger/pkg/config"
	"github.com/retailops/arledger/pkg/db/models"
	pkgerrors "github.com/retailops/arledger/pkg/errors"
	"github.com/retailops/arledger/pkg/logger"
	"github.com/retailops/arledger/pkg/money"
	"github.com/retailops/arledger/pkg/period"
)

const dashboardView = "summary"

// RankBy selects the ordering of an item sales ranking.
type RankBy string

const (
	RankByQuantity RankBy = "quantity"
	RankByTotal    RankBy = "total"
)

// Service serves the derived accounts-receivable views. It reads raw rows,
// normalizes them and hands them to the reconciliation engine; it never
// writes.
type Service interface {
	OrderSummary(ctx context.Context, orderID uuid.UUID) (*OrderSummaryDTO, error)
	CustomerStatement(ctx context.Context, customerID uuid.UUID) (*CustomerStatementDTO, error)
	Dashboard(ctx context.Context) (*DashboardDTO, error)
	TopItems(ctx context.Context, window period.Window, category string, by RankBy, topN int) ([]TopItemDTO, error)
	SalesReport(ctx context.Context, window period.Window, category string) (*SalesReportDTO, error)
}

type service struct {
	orderRepo   orders.Repository
	paymentRepo payments.Repository
	custRepo    customers.Repository
	engine      *reconcile.Engine
	clk         clock.Clock
	cache       *Cache
	cfg         config.LedgerConfig
	logg        *logger.Logger
}

// NewService wires the ledger read service. The cache may be nil.
func NewService(
	orderRepo orders.Repository,
	paymentRepo payments.Repository,
	custRepo customers.Repository,
	cfg config.LedgerConfig,
	clk clock.Clock,
	cache *Cache,
	logg *logger.Logger,
) (Service, error) {
	if orderRepo == nil {
		return nil, errors.New("order repository required")
	}
	if paymentRepo == nil {
		return nil, errors.New("payment repository required")
	}
	if custRepo == nil {
		return nil, errors.New("customer repository required")
	}
	if clk == nil {
		clk = clock.System{}
	}
	overdueDays := cfg.OverdueDays
	if overdueDays <= 0 {
		overdueDays = reconcile.DefaultOverdueDays
	}
	return &service{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		custRepo:    custRepo,
		engine:      reconcile.NewEngine(overdueDays),
		clk:         clk,
		cache:       cache,
		cfg:         cfg,
		logg:        logg,
	}, nil
}

func (s *service) OrderSummary(ctx context.Context, orderID uuid.UUID) (*OrderSummaryDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	row, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	norm := reconcile.NewNormalizer()
	order := norm.OrderFromModel(*row)
	pays := norm.PaymentsFromModels(row.Payments)
	s.logDiagnostics(ctx, norm)

	balance := s.engine.OrderBalance(order, pays, clock.Today(s.clk))
	return &OrderSummaryDTO{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Date:       formatDate(order.Date),
		Total:      balance.Total,
		Paid:       balance.Paid,
		Remaining:  balance.DisplayRemaining(),
		Status:     balance.Status(),
		IsOverdue:  balance.IsOverdue,
	}, nil
}

func (s *service) CustomerStatement(ctx context.Context, customerID uuid.UUID) (*CustomerStatementDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	customer, err := s.custRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}

	orderRows, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customer orders")
	}
	paymentRows, err := s.paymentRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list payments")
	}

	norm := reconcile.NewNormalizer()
	custOrders := norm.OrdersFromModels(orderRows)
	allPayments := norm.PaymentsFromModels(paymentRows)
	s.logDiagnostics(ctx, norm)

	balance := s.engine.CustomerBalance(customerID, custOrders, allPayments)
	today := clock.Today(s.clk)

	statements := make([]StatementOrderDTO, 0, len(custOrders))
	for _, order := range custOrders {
		ob := s.engine.OrderBalance(order, allPayments, today)
		statements = append(statements, StatementOrderDTO{
			OrderID:   order.ID,
			Date:      formatDate(order.Date),
			Total:     ob.Total,
			Paid:      ob.Paid,
			Remaining: ob.DisplayRemaining(),
			Status:    ob.Status(),
			IsOverdue: ob.IsOverdue,
		})
	}

	return &CustomerStatementDTO{
		CustomerID:    customerID,
		CustomerName:  customer.FullName(),
		TotalOrders:   balance.TotalOrders,
		TotalPayments: balance.TotalPayments,
		Balance:       balance.Balance,
		State:         balance.State,
		Orders:        statements,
	}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	if payload, ok := s.cache.GetView(ctx, dashboardView); ok {
		var dto DashboardDTO
		if err := json.Unmarshal([]byte(payload), &dto); err == nil {
			return &dto, nil
		}
		// fall through and recompute on a corrupt cache entry
	}

	dto, err := s.computeDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(dto); err == nil {
		s.cache.SetView(ctx, dashboardView, string(payload))
	}
	return dto, nil
}

func (s *service) computeDashboard(ctx context.Context) (*DashboardDTO, error) {
	today := clock.Today(s.clk)

	todayOrders, err := s.orderRepo.ListByDateRange(ctx, today, today)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list today's orders")
	}
	todayPayments, err := s.paymentRepo.ListByDateRange(ctx, today, today)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list today's payments")
	}

	var salesTotal, paymentsTotal money.Money
	for _, order := range todayOrders {
		salesTotal = salesTotal.Add(money.FromCents(order.TotalCents))
	}
	for _, payment := range todayPayments {
		paymentsTotal = paymentsTotal.Add(money.FromCents(payment.AmountCents))
	}

	allOrders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	allPaymentRows, err := s.paymentRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list payments")
	}

	norm := reconcile.NewNormalizer()
	snapshot := norm.OrdersFromModels(allOrders)
	allPayments := norm.PaymentsFromModels(allPaymentRows)
	s.logDiagnostics(ctx, norm)

	names := customerNames(allOrders)

	debtors := s.topDebtors(snapshot, allPayments, names)
	unpaid := s.recentUnpaid(snapshot, allPayments, names, today)

	return &DashboardDTO{
		Date:          formatDate(today),
		SalesTotal:    salesTotal,
		PaymentsTotal: paymentsTotal,
		OrderCount:    len(todayOrders),
		PaymentCount:  len(todayPayments),
		TopDebtors:    debtors,
		RecentUnpaid:  unpaid,
	}, nil
}

func (s *service) topDebtors(snapshot []reconcile.Order, allPayments []reconcile.Payment, names map[uuid.UUID]string) []DebtorDTO {
	byCustomer := make(map[uuid.UUID][]reconcile.Order)
	for _, order := range snapshot {
		byCustomer[order.CustomerID] = append(byCustomer[order.CustomerID], order)
	}

	balances := make([]reconcile.CustomerBalance, 0, len(byCustomer))
	for customerID, custOrders := range byCustomer {
		balances = append(balances, s.engine.CustomerBalance(customerID, custOrders, allPayments))
	}

	topN := s.cfg.TopDebtors
	ranked := s.engine.RankDebtors(balances, topN)
	debtors := make([]DebtorDTO, 0, len(ranked))
	for _, balance := range ranked {
		debtors = append(debtors, DebtorDTO{
			CustomerID:   balance.CustomerID,
			CustomerName: names[balance.CustomerID],
			Balance:      balance.Balance,
		})
	}
	return debtors
}

// recentUnpaid lists the newest orders still carrying a balance.
func (s *service) recentUnpaid(snapshot []reconcile.Order, allPayments []reconcile.Payment, names map[uuid.UUID]string, today time.Time) []UnpaidOrderDTO {
	unpaid := make([]UnpaidOrderDTO, 0)
	for _, order := range snapshot {
		balance := s.engine.OrderBalance(order, allPayments, today)
		if balance.IsPaid {
			continue
		}
		unpaid = append(unpaid, UnpaidOrderDTO{
			OrderID:      order.ID,
			CustomerID:   order.CustomerID,
			CustomerName: names[order.CustomerID],
			Date:         formatDate(order.Date),
			Total:        balance.Total,
			Remaining:    balance.DisplayRemaining(),
			IsOverdue:    balance.IsOverdue,
		})
	}

	sort.Slice(unpaid, func(i, j int) bool {
		if unpaid[i].Date != unpaid[j].Date {
			return unpaid[i].Date > unpaid[j].Date
		}
		return unpaid[i].OrderID.String() < unpaid[j].OrderID.String()
	})

	max := s.cfg.RecentUnpaidMax
	if max > 0 && len(unpaid) > max {
		unpaid = unpaid[:max]
	}
	return unpaid
}

func customerNames(rows []models.Order) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	for _, row := range rows {
		if row.Customer != nil {
			names[row.CustomerID] = row.Customer.FullName()
		}
	}
	return names
}

func (s *service) TopItems(ctx context.Context, window period.Window, category string, by RankBy, topN int) ([]TopItemDTO, error) {
	orderRows, err := s.orderRepo.ListByDateRange(ctx, window.From, window.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders in window")
	}

	norm := reconcile.NewNormalizer()
	snapshot := norm.OrdersFromModels(orderRows)
	s.logDiagnostics(ctx, norm)

	sales := s.engine.AggregateSales(snapshot, window, category)
	if topN <= 0 {
		topN = s.cfg.TopItems
	}

	var ranked []reconcile.RankedItemSales
	if by == RankByTotal {
		ranked = reconcile.TopItemsByTotal(sales, topN)
	} else {
		ranked = reconcile.TopItemsByQuantity(sales, topN)
	}

	items := make([]TopItemDTO, 0, len(ranked))
	for _, row := range ranked {
		items = append(items, TopItemDTO{
			ItemName: row.ItemName,
			Quantity: row.Quantity,
			Total:    row.Total,
		})
	}
	return items, nil
}

func (s *service) SalesReport(ctx context.Context, window period.Window, category string) (*SalesReportDTO, error) {
	orderRows, err := s.orderRepo.ListByDateRange(ctx, window.From, window.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders in window")
	}

	norm := reconcile.NewNormalizer()
	snapshot := norm.OrdersFromModels(orderRows)
	s.logDiagnostics(ctx, norm)

	sales := s.engine.AggregateSales(snapshot, window, category)

	var revenue money.Money
	var quantity int
	items := make([]TopItemDTO, 0, len(sales))
	for name, row := range sales {
		revenue = revenue.Add(row.Total)
		quantity += row.Quantity
		items = append(items, TopItemDTO{ItemName: name, Quantity: row.Quantity, Total: row.Total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Total != items[j].Total {
			return items[i].Total > items[j].Total
		}
		return strings.Compare(items[i].ItemName, items[j].ItemName) < 0
	})

	return &SalesReportDTO{
		From:          formatDate(window.From),
		To:            formatDate(window.To),
		Category:      category,
		TotalRevenue:  revenue,
		TotalQuantity: quantity,
		Items:         items,
	}, nil
}

func (s *service) logDiagnostics(ctx context.Context, norm *reconcile.Normalizer) {
	if s.logg == nil {
		return
	}
	for _, diag := range norm.Diagnostics() {
		s.logg.Warn(ctx, "ledger normalization: "+diag.String())
	}
}
