package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	customersvc "github.com/retailops/arledger/internal/customers"
	itemsvc "github.com/retailops/arledger/internal/items"
	"github.com/retailops/arledger/internal/ledger"
	ordersvc "github.com/retailops/arledger/internal/orders"
	paymentsvc "github.com/retailops/arledger/internal/payments"
	"github.com/retailops/arledger/pkg/clock"
	"github.com/retailops/arledger/pkg/config"
	"github.com/retailops/arledger/pkg/db/models"
	"github.com/retailops/arledger/pkg/logger"
	"github.com/retailops/arledger/pkg/metrics"
	"github.com/retailops/arledger/pkg/pagination"
	"github.com/retailops/arledger/pkg/period"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
	}
}

func newTestRouter(cfg *config.Config, registry *prometheus.Registry) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}
	clk := clock.Fixed{At: time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)}
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		registry,
		httpMetrics,
		clk,
		stubCustomerService{},
		stubItemService{},
		stubOrderService{},
		stubPaymentService{},
		stubLedgerService{},
	)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready got %d", resp.Code)
	}
}

func TestMetricsEndpointMountedWithRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	router := newTestRouter(testConfig(), registry)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}

	bare := newTestRouter(testConfig(), nil)
	resp = httptest.NewRecorder()
	bare.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without registry got %d", resp.Code)
	}
}

func TestLedgerRoutesDispatch(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	paths := []string{
		"/api/v1/dashboard",
		"/api/v1/reports/sales",
		"/api/v1/items/top-selling",
		"/api/v1/orders/" + uuid.NewString() + "/summary",
		"/api/v1/customers/" + uuid.NewString() + "/statement",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCustomerService struct{}

func (stubCustomerService) Create(ctx context.Context, input customersvc.CreateCustomerInput) (*models.Customer, error) {
	return &models.Customer{ID: uuid.New()}, nil
}

func (stubCustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return &models.Customer{ID: id}, nil
}

func (stubCustomerService) Update(ctx context.Context, id uuid.UUID, input customersvc.UpdateCustomerInput) (*models.Customer, error) {
	return &models.Customer{ID: id}, nil
}

func (stubCustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubCustomerService) List(ctx context.Context, params pagination.Params, query string) (*customersvc.CustomerList, error) {
	return &customersvc.CustomerList{}, nil
}

type stubItemService struct{}

func (stubItemService) Create(ctx context.Context, input itemsvc.CreateItemInput) (*models.Item, error) {
	return &models.Item{ID: uuid.New()}, nil
}

func (stubItemService) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return &models.Item{ID: id}, nil
}

func (stubItemService) Update(ctx context.Context, id uuid.UUID, input itemsvc.UpdateItemInput) (*models.Item, error) {
	return &models.Item{ID: id}, nil
}

func (stubItemService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubItemService) List(ctx context.Context, params pagination.Params, filters itemsvc.ItemFilters) (*itemsvc.ItemList, error) {
	return &itemsvc.ItemList{}, nil
}

type stubOrderService struct{}

func (stubOrderService) Create(ctx context.Context, input ordersvc.CreateOrderInput) (*models.Order, error) {
	return &models.Order{ID: uuid.New()}, nil
}

func (stubOrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: id}, nil
}

func (stubOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubOrderService) List(ctx context.Context, params pagination.Params, filters ordersvc.OrderFilters) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

type stubPaymentService struct{}

func (stubPaymentService) Create(ctx context.Context, input paymentsvc.CreatePaymentInput) (*models.Payment, error) {
	return &models.Payment{ID: uuid.New()}, nil
}

func (stubPaymentService) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return &models.Payment{ID: id}, nil
}

func (stubPaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubPaymentService) List(ctx context.Context, params pagination.Params, filters paymentsvc.PaymentFilters) (*paymentsvc.PaymentList, error) {
	return &paymentsvc.PaymentList{}, nil
}

type stubLedgerService struct{}

func (stubLedgerService) OrderSummary(ctx context.Context, orderID uuid.UUID) (*ledger.OrderSummaryDTO, error) {
	return &ledger.OrderSummaryDTO{OrderID: orderID}, nil
}

func (stubLedgerService) CustomerStatement(ctx context.Context, customerID uuid.UUID) (*ledger.CustomerStatementDTO, error) {
	return &ledger.CustomerStatementDTO{CustomerID: customerID}, nil
}

func (stubLedgerService) Dashboard(ctx context.Context) (*ledger.DashboardDTO, error) {
	return &ledger.DashboardDTO{}, nil
}

func (stubLedgerService) TopItems(ctx context.Context, window period.Window, category string, by ledger.RankBy, topN int) ([]ledger.TopItemDTO, error) {
	return nil, nil
}

func (stubLedgerService) SalesReport(ctx context.Context, window period.Window, category string) (*ledger.SalesReportDTO, error) {
	return &ledger.SalesReportDTO{}, nil
}
