package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer is a ledger account holder. The engine treats customers as
// immutable reference data.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName string    `gorm:"column:first_name;not null" json:"first_name"`
	LastName  string    `gorm:"column:last_name;not null" json:"last_name"`
	TaxID     *string   `gorm:"column:tax_id" json:"tax_id,omitempty"`
	Email     *string   `gorm:"column:email" json:"email,omitempty"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// FullName renders the display name used on ledger screens.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
