package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hibiken/asynq"

	"github.com/openlms/lmsadmin/internal/database"
	"github.com/openlms/lmsadmin/internal/queue"
)

// Dispatcher performs signed webhook deliveries. It runs inside the worker
// process as the handler for webhook:deliver tasks.
type Dispatcher struct {
	db         database.Querier
	httpClient *http.Client
}

func NewDispatcher(db database.Querier) *Dispatcher {
	return &Dispatcher{
		db: db,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (d *Dispatcher) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var req queue.WebhookDeliverPayload
	if err := json.Unmarshal(task.Payload(), &req); err != nil {
		return fmt.Errorf("unmarshal webhook delivery payload: %w", err)
	}
	return d.Deliver(ctx, req)
}

func (d *Dispatcher) Deliver(ctx context.Context, req queue.WebhookDeliverPayload) error {
	body := []byte(req.Payload)
	signature := sign(body, req.Secret)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(body))
	if err != nil {
		d.recordDelivery(ctx, req, 0)
		return fmt.Errorf("build webhook request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Webhook-Event", req.Event)
	httpReq.Header.Set("X-Webhook-Signature", signature)
	httpReq.Header.Set("X-Webhook-ID", req.WebhookID)

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		d.recordDelivery(ctx, req, 0)
		return fmt.Errorf("deliver webhook %s: %w", req.WebhookID, err)
	}
	defer resp.Body.Close()

	d.recordDelivery(ctx, req, resp.StatusCode)

	if resp.StatusCode >= 400 {
		// Returning an error lets asynq retry with backoff.
		return fmt.Errorf("webhook %s responded %d", req.WebhookID, resp.StatusCode)
	}
	return nil
}

func (d *Dispatcher) recordDelivery(ctx context.Context, req queue.WebhookDeliverPayload, status int) {
	var deliveredAt *time.Time
	if status > 0 && status < 400 {
		now := time.Now()
		deliveredAt = &now
	}

	_, err := d.db.Exec(ctx,
		`INSERT INTO webhook_deliveries (webhook_id, event, payload, response_status, attempts, delivered_at)
		 VALUES ($1, $2, $3, $4, 1, $5)`,
		req.WebhookID, req.Event, []byte(req.Payload), status, deliveredAt,
	)
	if err != nil {
		slog.Error("failed to record webhook delivery", "webhook_id", req.WebhookID, "error", err)
	}
}

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return fmt.Sprintf("sha256=%s", hex.EncodeToString(mac.Sum(nil)))
}
