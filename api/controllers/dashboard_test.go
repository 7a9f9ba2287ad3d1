package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/retailops/arledger/internal/ledger"
	"github.com/retailops/arledger/pkg/clock"
)

func TestDashboard(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubLedgerService{dashboard: &ledger.DashboardDTO{Date: "2026-08-15", OrderCount: 3}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		rec := httptest.NewRecorder()
		Dashboard(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("nil service", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		rec := httptest.NewRecorder()
		Dashboard(nil, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500 for nil service, got %d", rec.Code)
		}
	})
}

func TestSalesReport(t *testing.T) {
	logg := testLogger()
	clk := clock.Fixed{At: time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)}

	t.Run("defaults to current month", func(t *testing.T) {
		stub := &stubLedgerService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales", nil)
		rec := httptest.NewRecorder()
		SalesReport(stub, clk, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := stub.reportWin.From; got.Month() != time.August || got.Day() != 1 {
			t.Fatalf("expected window to start on Aug 1, got %v", got)
		}
	})

	t.Run("forwards month and category", func(t *testing.T) {
		stub := &stubLedgerService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?month=2026-07&category=beverages", nil)
		rec := httptest.NewRecorder()
		SalesReport(stub, clk, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.reportWin.From.Month() != time.July {
			t.Fatalf("expected July window, got %v", stub.reportWin.From)
		}
		if stub.reportCat != "beverages" {
			t.Fatalf("expected category to be forwarded, got %q", stub.reportCat)
		}
	})

	t.Run("invalid month", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?month=July", nil)
		rec := httptest.NewRecorder()
		SalesReport(&stubLedgerService{}, clk, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad month, got %d", rec.Code)
		}
	})

	t.Run("mismatched range", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?from=2026-07-01", nil)
		rec := httptest.NewRecorder()
		SalesReport(&stubLedgerService{}, clk, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 when to is missing, got %d", rec.Code)
		}
	})
}

func TestItemsTopSelling(t *testing.T) {
	logg := testLogger()
	clk := clock.Fixed{At: time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)}

	t.Run("ranks by total when requested", func(t *testing.T) {
		stub := &stubLedgerService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/items/top-selling?by=total&limit=5", nil)
		rec := httptest.NewRecorder()
		ItemsTopSelling(stub, clk, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.topBy != ledger.RankByTotal {
			t.Fatalf("expected total ranking, got %q", stub.topBy)
		}
		if stub.topN != 5 {
			t.Fatalf("expected limit 5, got %d", stub.topN)
		}
	})

	t.Run("defaults to quantity ranking", func(t *testing.T) {
		stub := &stubLedgerService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/items/top-selling", nil)
		rec := httptest.NewRecorder()
		ItemsTopSelling(stub, clk, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.topBy != ledger.RankByQuantity {
			t.Fatalf("expected quantity ranking, got %q", stub.topBy)
		}
	})

	t.Run("rejects unknown ranking", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/items/top-selling?by=popularity", nil)
		rec := httptest.NewRecorder()
		ItemsTopSelling(&stubLedgerService{}, clk, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown ranking, got %d", rec.Code)
		}
	})
}
