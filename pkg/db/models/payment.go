package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment records money received against an order. CustomerID is stored
// redundantly for payment-screen filtering; the order reference is
// authoritative for reconciliation.
type Payment struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	CustomerID  uuid.UUID `gorm:"column:customer_id;type:uuid;not null" json:"customer_id"`
	Date        time.Time `gorm:"column:date;type:date;not null" json:"date"`
	AmountCents int64     `gorm:"column:amount_cents;not null" json:"amount_cents"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
