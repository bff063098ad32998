package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Webhook struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	CustomerID uuid.UUID       `json:"customerId" db:"customer_id"`
	URL        string          `json:"url" db:"url"`
	Events     json.RawMessage `json:"events" db:"events"`
	Secret     string          `json:"secret,omitempty" db:"-"`
	IsActive   bool            `json:"isActive" db:"is_active"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

type WebhookDelivery struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	WebhookID      uuid.UUID  `json:"webhookId" db:"webhook_id"`
	Event          string     `json:"event" db:"event"`
	Payload        []byte     `json:"-" db:"payload"`
	ResponseStatus int        `json:"responseStatus" db:"response_status"`
	Attempts       int        `json:"attempts" db:"attempts"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty" db:"delivered_at"`
}
