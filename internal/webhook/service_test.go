package webhook

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/lmsadmin/internal/queue"
)

type fakeEnqueuer struct {
	payloads []queue.WebhookDeliverPayload
	err      error
}

func (f *fakeEnqueuer) EnqueueWebhookDeliver(p queue.WebhookDeliverPayload) error {
	f.payloads = append(f.payloads, p)
	return f.err
}

func TestCreateReturnsSecretOnce(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	customerID := uuid.New()
	webhookID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO webhooks`)).
		WithArgs(customerID, "https://example.com/hook", []byte(`["catalog.created"]`), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "url", "events", "is_active", "created_at"}).
			AddRow(webhookID, customerID, "https://example.com/hook", []byte(`["catalog.created"]`), true, time.Now()))

	svc := NewService(mock, &fakeEnqueuer{})
	wh, err := svc.Create(context.Background(), customerID, CreateRequest{
		URL:    "https://example.com/hook",
		Events: []string{"catalog.created"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(wh.Secret, "whsec_"))
	assert.True(t, wh.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchEnqueuesMatchingSubscriptions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	customerID := uuid.New()
	hookA := uuid.New()
	hookB := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "url", "secret"}).
		AddRow(hookA, "https://a.example.com", "whsec_a").
		AddRow(hookB, "https://b.example.com", "whsec_b")

	mock.ExpectQuery(`SELECT id, url, secret FROM webhooks`).
		WithArgs(customerID, `["catalog.created"]`).
		WillReturnRows(rows)

	enq := &fakeEnqueuer{}
	svc := NewService(mock, enq)
	svc.Dispatch(context.Background(), customerID, "catalog.created", map[string]string{"name": "Default"})

	require.Len(t, enq.payloads, 2)
	assert.Equal(t, hookA.String(), enq.payloads[0].WebhookID)
	assert.Equal(t, "catalog.created", enq.payloads[0].Event)
	assert.JSONEq(t, `{"name":"Default"}`, enq.payloads[0].Payload)
	assert.Equal(t, "whsec_b", enq.payloads[1].Secret)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchNoSubscriptions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	customerID := uuid.New()

	mock.ExpectQuery(`SELECT id, url, secret FROM webhooks`).
		WithArgs(customerID, `["course.deleted"]`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "url", "secret"}))

	enq := &fakeEnqueuer{}
	svc := NewService(mock, enq)
	svc.Dispatch(context.Background(), customerID, "course.deleted", nil)

	assert.Empty(t, enq.payloads)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteScopedToCustomer(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	customerID := uuid.New()
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM webhooks WHERE id = $1 AND customer_id = $2`)).
		WithArgs(id, customerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	svc := NewService(mock, nil)
	require.NoError(t, svc.Delete(context.Background(), customerID, id))
	require.NoError(t, mock.ExpectationsWereMet())
}
