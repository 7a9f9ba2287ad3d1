package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	paymentsvc "github.com/retailops/arledger/internal/payments"
	"github.com/retailops/arledger/pkg/db/models"
	"github.com/retailops/arledger/pkg/pagination"
)

func TestPaymentCreate(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubPaymentService{}
		body := `{"order_id":"` + orderID.String() + `","amount":"25.50"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		PaymentCreate(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.created == nil || stub.created.OrderID != orderID {
			t.Fatalf("expected order id to be forwarded")
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		body := `{"order_id":"` + orderID.String() + `","amount":"25.50","surprise":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		PaymentCreate(&stubPaymentService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})

	t.Run("missing amount rejected", func(t *testing.T) {
		body := `{"order_id":"` + orderID.String() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		stub := &stubPaymentService{}
		PaymentCreate(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 when amount missing, got %d", rec.Code)
		}
		if stub.created != nil {
			t.Fatalf("service must not be called on validation failure")
		}
	})
}

func TestPaymentList(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()

	t.Run("forwards filters", func(t *testing.T) {
		stub := &stubPaymentService{}
		target := "/api/v1/payments?order_id=" + orderID.String() + "&from=2026-08-01"
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		PaymentList(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.listFilters.OrderID == nil || *stub.listFilters.OrderID != orderID {
			t.Fatalf("expected order filter to be forwarded")
		}
		if stub.listFilters.From == nil {
			t.Fatalf("expected from filter to be parsed")
		}
		if stub.listFilters.To != nil {
			t.Fatalf("expected absent to filter to stay nil")
		}
	})

	t.Run("invalid date filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments?from=august", nil)
		rec := httptest.NewRecorder()
		PaymentList(&stubPaymentService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad date, got %d", rec.Code)
		}
	})
}

func TestPaymentDelete(t *testing.T) {
	logg := testLogger()
	paymentID := uuid.New()

	stub := &stubPaymentService{}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/payments/"+paymentID.String(), nil)
	req = withURLParam(req, "paymentID", paymentID.String())
	rec := httptest.NewRecorder()
	PaymentDelete(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !stub.deleted {
		t.Fatalf("expected Delete to be invoked")
	}
}

type stubPaymentService struct {
	created     *paymentsvc.CreatePaymentInput
	listFilters paymentsvc.PaymentFilters
	deleted     bool
}

func (s *stubPaymentService) Create(ctx context.Context, input paymentsvc.CreatePaymentInput) (*models.Payment, error) {
	s.created = &input
	return &models.Payment{ID: uuid.New(), OrderID: input.OrderID}, nil
}

func (s *stubPaymentService) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return &models.Payment{ID: id}, nil
}

func (s *stubPaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = true
	return nil
}

func (s *stubPaymentService) List(ctx context.Context, params pagination.Params, filters paymentsvc.PaymentFilters) (*paymentsvc.PaymentList, error) {
	s.listFilters = filters
	return &paymentsvc.PaymentList{}, nil
}
