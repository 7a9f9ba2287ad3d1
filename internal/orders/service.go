package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailops/arledger/internal/customers"
	"github.com/retailops/arledger/internal/items"
	"github.com/retailops/arledger/pkg/clock"
	"github.com/retailops/arledger/pkg/db/models"
	pkgerrors "github.com/retailops/arledger/pkg/errors"
	"github.com/retailops/arledger/pkg/money"
	"github.com/retailops/arledger/pkg/pagination"
)

const dateLayout = "2006-01-02"

// Service defines the order operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SnapshotInvalidator bumps the ledger snapshot version after writes so
// cached derived views are recomputed.
type SnapshotInvalidator interface {
	Bump(ctx context.Context)
}

// CreateOrderInput captures a new order. Date defaults to today when empty.
// Line prices accept decimal amounts; a missing price freezes the item's
// current list price onto the line.
type CreateOrderInput struct {
	CustomerID uuid.UUID        `json:"customer_id" validate:"required"`
	Date       string           `json:"date,omitempty"`
	Lines      []OrderLineInput `json:"lines" validate:"required,min=1,dive"`
}

// OrderLineInput is one item purchase inside a new order.
type OrderLineInput struct {
	ItemID    uuid.UUID `json:"item_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	UnitPrice any       `json:"unit_price,omitempty"`
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

type service struct {
	repo      Repository
	custRepo  customers.Repository
	itemRepo  items.Repository
	tx        TxRunner
	clk       clock.Clock
	snapshots SnapshotInvalidator
}

// NewService wires an order service. The snapshot invalidator is optional.
func NewService(repo Repository, custRepo customers.Repository, itemRepo items.Repository, tx TxRunner, clk clock.Clock, snapshots SnapshotInvalidator) (Service, error) {
	if repo == nil {
		return nil, errors.New("order repository required")
	}
	if custRepo == nil {
		return nil, errors.New("customer repository required")
	}
	if itemRepo == nil {
		return nil, errors.New("item repository required")
	}
	if tx == nil {
		return nil, errors.New("tx runner required")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &service{
		repo:      repo,
		custRepo:  custRepo,
		itemRepo:  itemRepo,
		tx:        tx,
		clk:       clk,
		snapshots: snapshots,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}

	date := clock.Today(s.clk)
	if input.Date != "" {
		parsed, err := time.Parse(dateLayout, input.Date)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date (expected YYYY-MM-DD)")
		}
		date = parsed
	}

	if _, err := s.custRepo.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}

	lines, total, err := s.buildLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID: input.CustomerID,
		Date:       date,
		TotalCents: total.Cents(),
		Lines:      lines,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	if s.snapshots != nil {
		s.snapshots.Bump(ctx)
	}
	return s.Get(ctx, order.ID)
}

// buildLines resolves item references and freezes the line prices. An
// explicit price wins over the item's current list price.
func (s *service) buildLines(ctx context.Context, inputs []OrderLineInput) ([]models.OrderLine, money.Money, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, line := range inputs {
		if line.ItemID == uuid.Nil {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "item_id is required on every line")
		}
		if line.Quantity <= 0 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		ids = append(ids, line.ItemID)
	}

	catalog, err := s.itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load items")
	}
	byID := make(map[uuid.UUID]models.Item, len(catalog))
	for _, item := range catalog {
		byID[item.ID] = item
	}

	lines := make([]models.OrderLine, 0, len(inputs))
	var total money.Money
	for _, input := range inputs {
		item, ok := byID[input.ItemID]
		if !ok {
			return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}

		price := money.FromCents(item.UnitPriceCents)
		if input.UnitPrice != nil {
			parsed, err := money.ParseNonNegative(input.UnitPrice)
			if err != nil {
				return nil, 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit_price")
			}
			price = parsed
		}

		cents := price.Cents()
		lines = append(lines, models.OrderLine{
			ItemID:         input.ItemID,
			Quantity:       input.Quantity,
			UnitPriceCents: &cents,
		})
		total = total.Add(price.MulQty(input.Quantity))
	}
	return lines, total, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
	}
	if s.snapshots != nil {
		s.snapshots.Bump(ctx)
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return &OrderList{Orders: rows, NextCursor: next}, nil
}
