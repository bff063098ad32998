package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CustomerTypeReseller = "reseller"
	CustomerTypeCompany  = "company"
)

type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
