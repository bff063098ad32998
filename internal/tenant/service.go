// Package tenant resolves the acting customer for authenticated requests and
// provides the customer registry. Catalog-level operations must only touch
// rows belonging to the caller's customer; the resolver derives that customer
// from the persisted user row, never from the token alone.
package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openlms/lmsadmin/internal/apperr"
	"github.com/openlms/lmsadmin/internal/database"
	"github.com/openlms/lmsadmin/internal/models"
)

type Service struct {
	db database.Querier
}

func NewService(db database.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, password_hash, customer_id, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CustomerID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *Service) GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	err := s.db.QueryRow(ctx,
		`SELECT id, name, type, created_at FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "Customer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// CreateCustomer provisions a customer explicitly, outside the registration
// flow.
func (s *Service) CreateCustomer(ctx context.Context, name, customerType string) (*models.Customer, error) {
	if customerType != models.CustomerTypeReseller && customerType != models.CustomerTypeCompany {
		return nil, apperr.Newf(apperr.CodeInvalid, "customer type must be %q or %q", models.CustomerTypeReseller, models.CustomerTypeCompany)
	}

	var c models.Customer
	err := s.db.QueryRow(ctx,
		`INSERT INTO customers (name, type) VALUES ($1, $2) RETURNING id, name, type, created_at`,
		name, customerType,
	).Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &c, nil
}
