// Package audit records who changed what. Every authenticated mutation writes
// one row; reads are scoped to the caller's customer.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/openlms/lmsadmin/internal/database"
	"github.com/openlms/lmsadmin/internal/models"
)

type Service struct {
	db database.Querier
}

func NewService(db database.Querier) *Service {
	return &Service{db: db}
}

type LogEntry struct {
	CustomerID   *uuid.UUID
	UserID       *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	Details      map[string]interface{}
}

func (s *Service) Log(ctx context.Context, entry LogEntry) error {
	details, _ := json.Marshal(entry.Details)

	_, err := s.db.Exec(ctx,
		`INSERT INTO audit_logs (customer_id, user_id, action, resource_type, resource_id, details)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.CustomerID, entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID, details,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

type Query struct {
	Action string
	Limit  int
	Offset int
}

func (s *Service) List(ctx context.Context, customerID uuid.UUID, q Query) ([]models.AuditLog, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	query := `SELECT id, customer_id, user_id, action, resource_type, resource_id, details, created_at
			  FROM audit_logs WHERE customer_id = $1`
	args := []interface{}{customerID}
	argIdx := 2

	if q.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, q.Action)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.UserID, &l.Action, &l.ResourceType, &l.ResourceID, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
