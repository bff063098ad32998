package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openlms/lmsadmin/internal/apperr"
	"github.com/openlms/lmsadmin/internal/database"
	"github.com/openlms/lmsadmin/internal/models"
)

type Service struct {
	db     database.Querier
	issuer *TokenIssuer
}

func NewService(db database.Querier, issuer *TokenIssuer) *Service {
	return &Service{db: db, issuer: issuer}
}

// Register validates the password policy, then creates the customer, the user
// and its security profile in a single transaction. A new customer named
// "{username}'s Company" of type company is provisioned for every
// registration.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if username == "" {
		return apperr.New(apperr.CodeInvalid, "Username is required.")
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var customerID string
	err = tx.QueryRow(ctx,
		`INSERT INTO customers (name, type) VALUES ($1, $2) RETURNING id`,
		fmt.Sprintf("%s's Company", username), models.CustomerTypeCompany,
	).Scan(&customerID)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	var userID string
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, customer_id) VALUES ($1, $2, $3) RETURNING id`,
		username, hash, customerID,
	).Scan(&userID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.New(apperr.CodeConflict, "Username already exists.")
		}
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO security_profiles (user_id) VALUES ($1)`, userID)
	if err != nil {
		return fmt.Errorf("insert security profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Login verifies credentials against the stored hash and issues a bearer
// token embedding {id, username, customerId}.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, password_hash, customer_id, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CustomerID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.New(apperr.CodeUnauthorized, "Authentication failed. User not found.")
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	if !CheckPassword(u.PasswordHash, password) {
		return "", apperr.New(apperr.CodeUnauthorized, "Authentication failed. Wrong password.")
	}

	token, err := s.issuer.Issue(&u)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
