package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a sellable catalog entry. UnitPriceCents is the current list
// price; order lines snapshot their own price at order time.
type Item struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	Description    *string   `gorm:"column:description" json:"description,omitempty"`
	Category       *string   `gorm:"column:category" json:"category,omitempty"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null" json:"unit_price_cents"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
