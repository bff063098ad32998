// Package catalog manages customer-scoped catalogs and their course-version
// association. Listing and creation are tenant-scoped: the caller's customer
// is resolved from the persisted user row and assigned server-side,
// regardless of anything in the request body. Single-record operations by id
// intentionally carry no tenant check (see DESIGN.md).
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openlms/lmsadmin/internal/apperr"
	"github.com/openlms/lmsadmin/internal/cache"
	"github.com/openlms/lmsadmin/internal/database"
	"github.com/openlms/lmsadmin/internal/models"
)

const listCacheTTL = 5 * time.Minute

type Service struct {
	db    database.Querier
	cache *cache.Cache
}

func NewService(db database.Querier, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

func listCacheKey(customerID uuid.UUID) string {
	return "catalogs:" + customerID.String()
}

// List returns the catalogs belonging to customerID, each annotated with its
// customer's name and type.
func (s *Service) List(ctx context.Context, customerID uuid.UUID) ([]models.Catalog, error) {
	key := listCacheKey(customerID)
	var cached []models.Catalog
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT cat.id, cat.name, cat.sku, cat.description, cat.is_default, cat.customer_id,
		        cat.created_at, cat.updated_at, cust.name, cust.type
		 FROM catalogs cat
		 JOIN customers cust ON cust.id = cat.customer_id
		 WHERE cat.customer_id = $1
		 ORDER BY cat.created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	defer rows.Close()

	var catalogs []models.Catalog
	for rows.Next() {
		var c models.Catalog
		var ref models.CustomerRef
		if err := rows.Scan(&c.ID, &c.Name, &c.SKU, &c.Description, &c.IsDefault, &c.CustomerID,
			&c.CreatedAt, &c.UpdatedAt, &ref.Name, &ref.Type); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		c.Customer = &ref
		catalogs = append(catalogs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, catalogs, listCacheTTL); err != nil {
		slog.Warn("catalog list cache set failed", "error", err)
	}
	return catalogs, nil
}

// GetByID returns one catalog with its customer annotation and full Versions
// course list.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Catalog, error) {
	var c models.Catalog
	var ref models.CustomerRef
	err := s.db.QueryRow(ctx,
		`SELECT cat.id, cat.name, cat.sku, cat.description, cat.is_default, cat.customer_id,
		        cat.created_at, cat.updated_at, cust.name, cust.type
		 FROM catalogs cat
		 JOIN customers cust ON cust.id = cat.customer_id
		 WHERE cat.id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.SKU, &c.Description, &c.IsDefault, &c.CustomerID,
		&c.CreatedAt, &c.UpdatedAt, &ref.Name, &ref.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "Catalog not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	c.Customer = &ref

	rows, err := s.db.Query(ctx,
		`SELECT co.id, co.title, co.description, co.created_at, co.updated_at
		 FROM catalog_course_xref x
		 JOIN courses co ON co.id = x.course_id
		 WHERE x.catalog_id = $1
		 ORDER BY co.title`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("get catalog versions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Title, &course.Description, &course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan catalog version: %w", err)
		}
		c.Versions = append(c.Versions, course)
	}
	return &c, rows.Err()
}

type CreateRequest struct {
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	IsDefault   bool   `json:"isDefault"`
	// CustomerID in the body is ignored; the caller's resolved customer is
	// authoritative.
	CustomerID *uuid.UUID `json:"customerId"`
}

// Create inserts a catalog owned by customerID. The request body's customer
// id never reaches the insert.
func (s *Service) Create(ctx context.Context, customerID uuid.UUID, req CreateRequest) (*models.Catalog, error) {
	if req.Name == "" {
		return nil, apperr.New(apperr.CodeInvalid, "name is required")
	}

	var c models.Catalog
	err := s.db.QueryRow(ctx,
		`INSERT INTO catalogs (name, sku, description, is_default, customer_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, sku, description, is_default, customer_id, created_at, updated_at`,
		req.Name, req.SKU, req.Description, req.IsDefault, customerID,
	).Scan(&c.ID, &c.Name, &c.SKU, &c.Description, &c.IsDefault, &c.CustomerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert catalog: %w", err)
	}

	s.invalidate(ctx, customerID)
	return &c, nil
}

type UpdateRequest struct {
	Name        *string `json:"name"`
	SKU         *string `json:"sku"`
	Description *string `json:"description"`
	IsDefault   *bool   `json:"isDefault"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.Catalog, error) {
	var c models.Catalog
	err := s.db.QueryRow(ctx,
		`UPDATE catalogs SET
		   name = COALESCE($2, name),
		   sku = COALESCE($3, sku),
		   description = COALESCE($4, description),
		   is_default = COALESCE($5, is_default),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING id, name, sku, description, is_default, customer_id, created_at, updated_at`,
		id, req.Name, req.SKU, req.Description, req.IsDefault,
	).Scan(&c.ID, &c.Name, &c.SKU, &c.Description, &c.IsDefault, &c.CustomerID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "Catalog not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update catalog: %w", err)
	}

	s.invalidate(ctx, c.CustomerID)
	return &c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	var customerID uuid.UUID
	err := s.db.QueryRow(ctx,
		`DELETE FROM catalogs WHERE id = $1 RETURNING customer_id`, id,
	).Scan(&customerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.New(apperr.CodeNotFound, "Catalog not found")
	}
	if err != nil {
		return fmt.Errorf("delete catalog: %w", err)
	}

	s.invalidate(ctx, customerID)
	return nil
}

// AddVersion links a course into a catalog. Both ids must resolve; linking an
// already-linked pair is a no-op.
func (s *Service) AddVersion(ctx context.Context, catalogID, courseID uuid.UUID) error {
	if err := s.checkPair(ctx, catalogID, courseID); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO catalog_course_xref (catalog_id, course_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		catalogID, courseID,
	)
	if err != nil {
		return fmt.Errorf("add version to catalog: %w", err)
	}
	return nil
}

// RemoveVersion unlinks a course from a catalog. Both ids must resolve;
// removing an absent link is a no-op.
func (s *Service) RemoveVersion(ctx context.Context, catalogID, courseID uuid.UUID) error {
	if err := s.checkPair(ctx, catalogID, courseID); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx,
		`DELETE FROM catalog_course_xref WHERE catalog_id = $1 AND course_id = $2`,
		catalogID, courseID,
	)
	if err != nil {
		return fmt.Errorf("remove version from catalog: %w", err)
	}
	return nil
}

func (s *Service) checkPair(ctx context.Context, catalogID, courseID uuid.UUID) error {
	var catalogExists, courseExists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM catalogs WHERE id = $1),
		        EXISTS(SELECT 1 FROM courses WHERE id = $2)`,
		catalogID, courseID,
	).Scan(&catalogExists, &courseExists)
	if err != nil {
		return fmt.Errorf("check catalog/course: %w", err)
	}
	if !catalogExists || !courseExists {
		return apperr.New(apperr.CodeNotFound, "Catalog or Course not found")
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, customerID uuid.UUID) {
	if err := s.cache.Delete(ctx, listCacheKey(customerID)); err != nil {
		slog.Warn("catalog list cache invalidation failed", "customer_id", customerID, "error", err)
	}
}
