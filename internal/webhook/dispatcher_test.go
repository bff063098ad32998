package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/lmsadmin/internal/queue"
)

func TestDeliverSignsAndRecords(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	var gotSignature, gotEvent, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Webhook-Signature")
		gotEvent = r.Header.Get("X-Webhook-Event")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	webhookID := uuid.NewString()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO webhook_deliveries`)).
		WithArgs(webhookID, "catalog.created", []byte(`{"id":"x"}`), http.StatusOK, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	d := NewDispatcher(mock)
	err = d.Deliver(context.Background(), queue.WebhookDeliverPayload{
		WebhookID: webhookID,
		URL:       srv.URL,
		Secret:    "whsec_test",
		Event:     "catalog.created",
		Payload:   `{"id":"x"}`,
	})
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte("whsec_test"))
	mac.Write([]byte(`{"id":"x"}`))
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), gotSignature)
	assert.Equal(t, "catalog.created", gotEvent)
	assert.JSONEq(t, `{"id":"x"}`, gotBody)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliverErrorStatusTriggersRetry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO webhook_deliveries`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	d := NewDispatcher(mock)
	err = d.Deliver(context.Background(), queue.WebhookDeliverPayload{
		WebhookID: uuid.NewString(),
		URL:       srv.URL,
		Secret:    "whsec_test",
		Event:     "catalog.deleted",
		Payload:   `{}`,
	})
	assert.Error(t, err)
}
