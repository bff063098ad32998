package models

import (
	"time"

	"github.com/google/uuid"
)

// Catalog groups course versions for a single customer. Customer name/type are
// joined from the customers table on read rather than stored on the row.
type Catalog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	SKU         string    `json:"sku,omitempty" db:"sku"`
	Description string    `json:"description,omitempty" db:"description"`
	IsDefault   bool      `json:"isDefault" db:"is_default"`
	CustomerID  uuid.UUID `json:"customerId" db:"customer_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Customer *CustomerRef `json:"customer,omitempty"`
	Versions []Course     `json:"versions,omitempty"`
}

// CustomerRef is the customer annotation attached to catalog reads.
type CustomerRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
