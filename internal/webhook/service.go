// Package webhook lets customers subscribe to catalog and course mutation
// events. Deliveries are queued for the worker process rather than sent
// inline with the request.
package webhook

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openlms/lmsadmin/internal/database"
	"github.com/openlms/lmsadmin/internal/models"
	"github.com/openlms/lmsadmin/internal/queue"
)

// Enqueuer hands deliveries to the background queue. *queue.Client satisfies
// it; tests substitute a recorder.
type Enqueuer interface {
	EnqueueWebhookDeliver(payload queue.WebhookDeliverPayload) error
}

type Service struct {
	db       database.Querier
	enqueuer Enqueuer
}

func NewService(db database.Querier, enqueuer Enqueuer) *Service {
	return &Service{db: db, enqueuer: enqueuer}
}

type CreateRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

func (s *Service) Create(ctx context.Context, customerID uuid.UUID, req CreateRequest) (*models.Webhook, error) {
	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	eventsJSON, _ := json.Marshal(req.Events)

	var wh models.Webhook
	err = s.db.QueryRow(ctx,
		`INSERT INTO webhooks (customer_id, url, events, secret, is_active)
		 VALUES ($1, $2, $3, $4, true)
		 RETURNING id, customer_id, url, events, is_active, created_at`,
		customerID, req.URL, eventsJSON, secret,
	).Scan(&wh.ID, &wh.CustomerID, &wh.URL, &wh.Events, &wh.IsActive, &wh.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert webhook: %w", err)
	}

	// Secret is returned once, on creation only.
	wh.Secret = secret
	return &wh, nil
}

func (s *Service) List(ctx context.Context, customerID uuid.UUID) ([]models.Webhook, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, customer_id, url, events, is_active, created_at
		 FROM webhooks WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []models.Webhook
	for rows.Next() {
		var wh models.Webhook
		if err := rows.Scan(&wh.ID, &wh.CustomerID, &wh.URL, &wh.Events, &wh.IsActive, &wh.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan webhook: %w", err)
		}
		webhooks = append(webhooks, wh)
	}
	return webhooks, rows.Err()
}

func (s *Service) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM webhooks WHERE id = $1 AND customer_id = $2`, id, customerID)
	return err
}

// Dispatch queues event deliveries for every active subscription of the
// customer matching the event. Failures are logged, never surfaced to the
// mutating request.
func (s *Service) Dispatch(ctx context.Context, customerID uuid.UUID, event string, payload interface{}) {
	if s.enqueuer == nil {
		return
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, url, secret FROM webhooks
		 WHERE customer_id = $1 AND is_active = true AND events @> $2::jsonb`,
		customerID, fmt.Sprintf(`["%s"]`, event),
	)
	if err != nil {
		slog.Error("find matching webhooks failed", "event", event, "error", err)
		return
	}
	defer rows.Close()

	payloadJSON, _ := json.Marshal(payload)

	for rows.Next() {
		var id uuid.UUID
		var url, secret string
		if err := rows.Scan(&id, &url, &secret); err != nil {
			continue
		}

		err := s.enqueuer.EnqueueWebhookDeliver(queue.WebhookDeliverPayload{
			WebhookID: id.String(),
			URL:       url,
			Secret:    secret,
			Event:     event,
			Payload:   string(payloadJSON),
		})
		if err != nil {
			slog.Error("enqueue webhook delivery failed", "webhook_id", id, "event", event, "error", err)
		}
	}
}

func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "whsec_" + hex.EncodeToString(b), nil
}
