package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/lmsadmin/internal/apperr"
	"github.com/openlms/lmsadmin/internal/models"
)

func testUser() *models.User {
	customerID := uuid.New()
	return &models.User{
		ID:         uuid.New(),
		Username:   "alice",
		CustomerID: &customerID,
	}
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := testUser()

	token, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	require.NotNil(t, claims.CustomerID)
	assert.Equal(t, *user.CustomerID, *claims.CustomerID)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewTokenIssuer("test-secret", time.Hour).Verify("not.a.token")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestIssueWithoutCustomer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(&models.User{ID: uuid.New(), Username: "orphan"})
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Nil(t, claims.CustomerID)
}
