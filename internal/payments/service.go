package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailops/arledger/internal/orders"
	"github.com/retailops/arledger/pkg/clock"
	"github.com/retailops/arledger/pkg/db/models"
	pkgerrors "github.com/retailops/arledger/pkg/errors"
	"github.com/retailops/arledger/pkg/money"
	"github.com/retailops/arledger/pkg/pagination"
)

const dateLayout = "2006-01-02"

// Service defines the payment operations.
type Service interface {
	Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params, filters PaymentFilters) (*PaymentList, error)
}

// SnapshotInvalidator bumps the ledger snapshot version after writes so
// cached derived views are recomputed.
type SnapshotInvalidator interface {
	Bump(ctx context.Context)
}

// CreatePaymentInput records money received against an order. Amount accepts
// a decimal amount ("25.00") or a number. Date defaults to today when empty.
// Overpayment is allowed and surfaces as customer credit.
type CreatePaymentInput struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Amount  any       `json:"amount" validate:"required"`
	Date    string    `json:"date,omitempty"`
}

// PaymentList is one page of payments plus the cursor for the next page.
type PaymentList struct {
	Payments   []models.Payment `json:"payments"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

type service struct {
	repo      Repository
	orderRepo orders.Repository
	clk       clock.Clock
	snapshots SnapshotInvalidator
}

// NewService wires a payment service. The snapshot invalidator is optional.
func NewService(repo Repository, orderRepo orders.Repository, clk clock.Clock, snapshots SnapshotInvalidator) (Service, error) {
	if repo == nil {
		return nil, errors.New("payment repository required")
	}
	if orderRepo == nil {
		return nil, errors.New("order repository required")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &service{
		repo:      repo,
		orderRepo: orderRepo,
		clk:       clk,
		snapshots: snapshots,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}

	amount, err := money.Parse(input.Amount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
	}
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	date := clock.Today(s.clk)
	if input.Date != "" {
		parsed, err := time.Parse(dateLayout, input.Date)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date (expected YYYY-MM-DD)")
		}
		date = parsed
	}

	order, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	payment := &models.Payment{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		Date:        date,
		AmountCents: amount.Cents(),
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert payment")
	}

	if s.snapshots != nil {
		s.snapshots.Bump(ctx)
	}
	return payment, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load payment")
	}
	return payment, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete payment")
	}
	if s.snapshots != nil {
		s.snapshots.Bump(ctx)
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters PaymentFilters) (*PaymentList, error) {
	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list payments")
	}
	return &PaymentList{Payments: rows, NextCursor: next}, nil
}
