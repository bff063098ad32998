package tenant

import (
	"context"

	"github.com/google/uuid"

	"github.com/openlms/lmsadmin/internal/apperr"
	"github.com/openlms/lmsadmin/internal/auth"
	"github.com/openlms/lmsadmin/internal/models"
)

// UserGetter is the slice of the user store the resolver needs.
type UserGetter interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Resolver turns verified token claims into the acting customer. The token's
// embedded customer id is treated as a hint only; the user row is re-fetched
// so a reassigned user is never authorized against stale claims.
type Resolver struct {
	users UserGetter
}

func NewResolver(users UserGetter) *Resolver {
	return &Resolver{users: users}
}

// RequireCustomer returns the caller's customer id, or Forbidden when the
// user row is missing or carries no customer association.
func (r *Resolver) RequireCustomer(ctx context.Context) (uuid.UUID, error) {
	claims := auth.ClaimsFromContext(ctx)
	if claims == nil {
		return uuid.Nil, apperr.New(apperr.CodeUnauthorized, "No token, authorization denied")
	}

	user, err := r.users.GetUserByID(ctx, claims.UserID)
	if err != nil || user.CustomerID == nil {
		return uuid.Nil, apperr.New(apperr.CodeForbidden, "User is not associated with a customer.")
	}

	return *user.CustomerID, nil
}
