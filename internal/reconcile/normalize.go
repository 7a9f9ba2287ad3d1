package reconcile

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/retailops/arledger/pkg/db/models"
	"github.com/retailops/arledger/pkg/money"
)

// Diagnostic records one coercion or fallback the normalizer applied.
// Diagnostics are advisory: they reach operator logs, never end users.
type Diagnostic struct {
	Record string
	Field  string
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s.%s: %s", d.Record, d.Field, d.Reason)
}

// Normalizer converts raw, loosely-typed records and stored models into the
// engine's snapshot types. Malformed or missing numeric and date fields
// degrade to zero values instead of failing the record; every degradation
// is recorded as a diagnostic. A Normalizer is not safe for concurrent use.
type Normalizer struct {
	diags []Diagnostic
}

// NewNormalizer returns an empty normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Diagnostics returns every coercion recorded so far.
func (n *Normalizer) Diagnostics() []Diagnostic {
	return n.diags
}

// Err folds the diagnostics into a single error for logging, or nil when
// every record normalized cleanly.
func (n *Normalizer) Err() error {
	var err error
	for _, d := range n.diags {
		err = multierr.Append(err, fmt.Errorf("%s", d))
	}
	return err
}

func (n *Normalizer) report(record, field, reason string) {
	n.diags = append(n.diags, Diagnostic{Record: record, Field: field, Reason: reason})
}

// Order normalizes a raw order record. Field aliases tolerate both the
// compact and the expanded upstream shapes.
func (n *Normalizer) Order(raw map[string]any) Order {
	id := n.id(raw, "order", "id")
	record := "order " + id.String()

	order := Order{
		ID:         id,
		CustomerID: n.idAlias(raw, record, "customer_id", "customer"),
		Date:       n.date(raw, record, "date"),
		Total:      n.amount(raw, record, "total_amount"),
	}

	lines, ok := raw["items"].([]any)
	if !ok && raw["items"] != nil {
		n.report(record, "items", fmt.Sprintf("expected list, got %T", raw["items"]))
	}
	for i, entry := range lines {
		lineRaw, ok := entry.(map[string]any)
		if !ok {
			n.report(record, fmt.Sprintf("items[%d]", i), fmt.Sprintf("expected object, got %T", entry))
			continue
		}
		order.Lines = append(order.Lines, n.orderLine(lineRaw, record, i))
	}
	return order
}

func (n *Normalizer) orderLine(raw map[string]any, record string, index int) OrderLine {
	field := fmt.Sprintf("items[%d]", index)

	line := OrderLine{
		Quantity: n.quantity(raw, record, "quantity", field+".quantity"),
	}

	item, _ := raw["item"].(map[string]any)
	if item != nil {
		line.ItemID = n.idAlias(item, record, "id")
		if name, ok := item["name"].(string); ok {
			line.ItemName = name
		} else {
			n.report(record, field+".item.name", "missing item name")
		}
		if category, ok := item["category"].(string); ok {
			line.Category = category
		}
	} else {
		n.report(record, field+".item", "missing item reference")
	}

	// Price frozen at order time wins; the item's current price is the
	// documented degradation when the snapshot is absent.
	if price, ok := raw["price"]; ok && price != nil {
		line.UnitPrice = n.parseAmount(price, record, field+".price")
		return line
	}
	if item != nil {
		if price, ok := item["price"]; ok && price != nil {
			n.report(record, field+".price", "frozen price absent, using current item price")
			line.UnitPrice = n.parseAmount(price, record, field+".item.price")
			return line
		}
	}
	n.report(record, field+".price", "no price available, treating as zero")
	return line
}

// Payment normalizes a raw payment record.
func (n *Normalizer) Payment(raw map[string]any) Payment {
	id := n.id(raw, "payment", "id")
	record := "payment " + id.String()

	return Payment{
		ID:         id,
		OrderID:    n.idAlias(raw, record, "order_id", "order"),
		CustomerID: n.idAlias(raw, record, "customer_id", "customer"),
		Date:       n.date(raw, record, "date"),
		Amount:     n.amount(raw, record, "amount"),
	}
}

// OrderFromModel converts a stored order into a snapshot, resolving the
// line-price fallback policy against each line's item.
func (n *Normalizer) OrderFromModel(m models.Order) Order {
	record := "order " + m.ID.String()

	order := Order{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Date:       m.Date,
		Total:      money.FromCents(m.TotalCents),
		Lines:      make([]OrderLine, 0, len(m.Lines)),
	}

	for i, line := range m.Lines {
		normalized := OrderLine{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
		}
		if line.Item != nil {
			normalized.ItemName = line.Item.Name
			if line.Item.Category != nil {
				normalized.Category = *line.Item.Category
			}
		} else {
			n.report(record, fmt.Sprintf("lines[%d].item", i), "item not loaded")
		}

		switch {
		case line.UnitPriceCents != nil:
			normalized.UnitPrice = money.FromCents(*line.UnitPriceCents)
		case line.Item != nil:
			n.report(record, fmt.Sprintf("lines[%d].unit_price", i), "frozen price absent, using current item price")
			normalized.UnitPrice = money.FromCents(line.Item.UnitPriceCents)
		default:
			n.report(record, fmt.Sprintf("lines[%d].unit_price", i), "no price available, treating as zero")
		}
		order.Lines = append(order.Lines, normalized)
	}
	return order
}

// PaymentFromModel converts a stored payment into a snapshot.
func (n *Normalizer) PaymentFromModel(m models.Payment) Payment {
	return Payment{
		ID:         m.ID,
		OrderID:    m.OrderID,
		CustomerID: m.CustomerID,
		Date:       m.Date,
		Amount:     money.FromCents(m.AmountCents),
	}
}

// OrdersFromModels converts a slice of stored orders.
func (n *Normalizer) OrdersFromModels(ms []models.Order) []Order {
	orders := make([]Order, 0, len(ms))
	for _, m := range ms {
		orders = append(orders, n.OrderFromModel(m))
	}
	return orders
}

// PaymentsFromModels converts a slice of stored payments.
func (n *Normalizer) PaymentsFromModels(ms []models.Payment) []Payment {
	payments := make([]Payment, 0, len(ms))
	for _, m := range ms {
		payments = append(payments, n.PaymentFromModel(m))
	}
	return payments
}

func (n *Normalizer) id(raw map[string]any, kind, key string) uuid.UUID {
	value, ok := raw[key]
	if !ok || value == nil {
		n.report(kind, key, "missing id")
		return uuid.Nil
	}
	s, ok := value.(string)
	if !ok {
		n.report(kind, key, fmt.Sprintf("expected string id, got %T", value))
		return uuid.Nil
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		n.report(kind, key, "unparseable id "+s)
		return uuid.Nil
	}
	return parsed
}

func (n *Normalizer) idAlias(raw map[string]any, record string, keys ...string) uuid.UUID {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		s, ok := value.(string)
		if !ok {
			n.report(record, key, fmt.Sprintf("expected string id, got %T", value))
			return uuid.Nil
		}
		parsed, err := uuid.Parse(s)
		if err != nil {
			n.report(record, key, "unparseable id "+s)
			return uuid.Nil
		}
		return parsed
	}
	n.report(record, keys[0], "missing reference")
	return uuid.Nil
}

func (n *Normalizer) amount(raw map[string]any, record, key string) money.Money {
	value, ok := raw[key]
	if !ok || value == nil {
		n.report(record, key, "missing amount, treating as zero")
		return 0
	}
	return n.parseAmount(value, record, key)
}

func (n *Normalizer) parseAmount(value any, record, key string) money.Money {
	parsed, err := money.Parse(value)
	if err != nil {
		n.report(record, key, fmt.Sprintf("unparseable amount %v, treating as zero", value))
		return 0
	}
	return parsed
}

// quantity reads raw[key] and reports degradations under label, which
// carries the line position for operator logs.
func (n *Normalizer) quantity(raw map[string]any, record, key, label string) int {
	value, ok := raw[key]
	if !ok || value == nil {
		n.report(record, label, "missing quantity, treating as zero")
		return 0
	}
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v != math.Trunc(v) {
			n.report(record, label, fmt.Sprintf("fractional quantity %v, truncating", v))
		}
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	n.report(record, label, fmt.Sprintf("unparseable quantity %v, treating as zero", value))
	return 0
}

func (n *Normalizer) date(raw map[string]any, record, key string) time.Time {
	value, ok := raw[key]
	if !ok || value == nil {
		n.report(record, key, "missing date")
		return time.Time{}
	}
	s, ok := value.(string)
	if !ok {
		n.report(record, key, fmt.Sprintf("expected date string, got %T", value))
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	n.report(record, key, "unparseable date "+s)
	return time.Time{}
}
