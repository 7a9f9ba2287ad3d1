package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailops/arledger/internal/reconcile"
	"github.com/retailops/arledger/pkg/money"
)

// OrderSummaryDTO is the payment position of one order as served to clients.
// Remaining is clamped at zero; overpayment shows up on the customer
// statement as credit instead.
type OrderSummaryDTO struct {
	OrderID    uuid.UUID             `json:"order_id"`
	CustomerID uuid.UUID             `json:"customer_id"`
	Date       string                `json:"date"`
	Total      money.Money           `json:"total"`
	Paid       money.Money           `json:"paid"`
	Remaining  money.Money           `json:"remaining"`
	Status     reconcile.OrderStatus `json:"status"`
	IsOverdue  bool                  `json:"is_overdue"`
}

// StatementOrderDTO is one order row on a customer statement.
type StatementOrderDTO struct {
	OrderID   uuid.UUID             `json:"order_id"`
	Date      string                `json:"date"`
	Total     money.Money           `json:"total"`
	Paid      money.Money           `json:"paid"`
	Remaining money.Money           `json:"remaining"`
	Status    reconcile.OrderStatus `json:"status"`
	IsOverdue bool                  `json:"is_overdue"`
}

// CustomerStatementDTO is the full debt position of one customer.
type CustomerStatementDTO struct {
	CustomerID    uuid.UUID              `json:"customer_id"`
	CustomerName  string                 `json:"customer_name"`
	TotalOrders   money.Money            `json:"total_orders"`
	TotalPayments money.Money            `json:"total_payments"`
	Balance       money.Money            `json:"balance"`
	State         reconcile.BalanceState `json:"state"`
	Orders        []StatementOrderDTO    `json:"orders"`
}

// DebtorDTO is one row of the debtor ranking.
type DebtorDTO struct {
	CustomerID   uuid.UUID   `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	Balance      money.Money `json:"balance"`
}

// UnpaidOrderDTO is one row of the recent-unpaid list on the dashboard.
type UnpaidOrderDTO struct {
	OrderID      uuid.UUID   `json:"order_id"`
	CustomerID   uuid.UUID   `json:"customer_id"`
	CustomerName string      `json:"customer_name"`
	Date         string      `json:"date"`
	Total        money.Money `json:"total"`
	Remaining    money.Money `json:"remaining"`
	IsOverdue    bool        `json:"is_overdue"`
}

// DashboardDTO is the landing-screen summary for one business day.
type DashboardDTO struct {
	Date          string           `json:"date"`
	SalesTotal    money.Money      `json:"sales_total"`
	PaymentsTotal money.Money      `json:"payments_total"`
	OrderCount    int              `json:"order_count"`
	PaymentCount  int              `json:"payment_count"`
	TopDebtors    []DebtorDTO      `json:"top_debtors"`
	RecentUnpaid  []UnpaidOrderDTO `json:"recent_unpaid"`
}

// TopItemDTO is one row of an item sales ranking.
type TopItemDTO struct {
	ItemName string      `json:"item_name"`
	Quantity int         `json:"quantity"`
	Total    money.Money `json:"total"`
}

// SalesReportDTO is the per-item sales breakdown for a period.
type SalesReportDTO struct {
	From          string       `json:"from"`
	To            string       `json:"to"`
	Category      string       `json:"category,omitempty"`
	TotalRevenue  money.Money  `json:"total_revenue"`
	TotalQuantity int          `json:"total_quantity"`
	Items         []TopItemDTO `json:"items"`
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
