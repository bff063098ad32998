package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/lmsadmin/internal/apperr"
	"github.com/openlms/lmsadmin/internal/auth"
	"github.com/openlms/lmsadmin/internal/models"
)

type fakeUsers struct {
	user *models.User
	err  error
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func ctxWithClaims(userID uuid.UUID, customerID *uuid.UUID) context.Context {
	return auth.WithClaims(context.Background(), &auth.Claims{
		UserID:     userID,
		Username:   "alice",
		CustomerID: customerID,
	})
}

func TestRequireCustomerResolvesFromStore(t *testing.T) {
	userID := uuid.New()
	customerID := uuid.New()
	r := NewResolver(&fakeUsers{user: &models.User{ID: userID, CustomerID: &customerID}})

	got, err := r.RequireCustomer(ctxWithClaims(userID, &customerID))
	require.NoError(t, err)
	assert.Equal(t, customerID, got)
}

func TestRequireCustomerIgnoresStaleClaim(t *testing.T) {
	// Claim says customer A, the persisted row says customer B. The row wins.
	userID := uuid.New()
	claimCustomer := uuid.New()
	rowCustomer := uuid.New()
	r := NewResolver(&fakeUsers{user: &models.User{ID: userID, CustomerID: &rowCustomer}})

	got, err := r.RequireCustomer(ctxWithClaims(userID, &claimCustomer))
	require.NoError(t, err)
	assert.Equal(t, rowCustomer, got)
}

func TestRequireCustomerNoClaims(t *testing.T) {
	r := NewResolver(&fakeUsers{})

	_, err := r.RequireCustomer(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestRequireCustomerUserMissing(t *testing.T) {
	r := NewResolver(&fakeUsers{err: errors.New("no rows")})

	_, err := r.RequireCustomer(ctxWithClaims(uuid.New(), nil))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	assert.Equal(t, "User is not associated with a customer.", apperr.Message(err))
}

func TestRequireCustomerNoAssociation(t *testing.T) {
	userID := uuid.New()
	r := NewResolver(&fakeUsers{user: &models.User{ID: userID}})

	_, err := r.RequireCustomer(ctxWithClaims(userID, nil))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
}
