package models

import (
	"time"

	"github.com/google/uuid"
)

// Order groups the line items a customer bought on a given date.
// TotalCents is denormalized from the line extensions at creation time.
type Order struct {
	ID         uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID uuid.UUID   `gorm:"column:customer_id;type:uuid;not null" json:"customer_id"`
	Date       time.Time   `gorm:"column:date;type:date;not null" json:"date"`
	TotalCents int64       `gorm:"column:total_cents;not null" json:"total_cents"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Lines      []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
	Payments   []Payment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// OrderLine snapshots one item within an order. UnitPriceCents is the price
// frozen at order creation; when it is absent the engine falls back to the
// item's current price and reports a diagnostic.
type OrderLine struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	ItemID         uuid.UUID  `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	Quantity       int        `gorm:"column:quantity;not null" json:"quantity"`
	UnitPriceCents *int64     `gorm:"column:unit_price_cents" json:"unit_price_cents,omitempty"`
	Item           *Item      `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
