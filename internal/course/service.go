// Package course manages courses and their SCORM package association. The
// junction is treated as a set: adding an existing link or removing an absent
// one succeeds and changes nothing.
package course

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

type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Course, error) {
	if req.Title == "" {
		return nil, apperr.New(apperr.CodeInvalid, "title is required")
	}

	var c models.Course
	err := s.db.QueryRow(ctx,
		`INSERT INTO courses (title, description) VALUES ($1, $2)
		 RETURNING id, title, description, created_at, updated_at`,
		req.Title, req.Description,
	).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", err)
	}
	return &c, nil
}

// List returns all courses, each including its associated packages as
// {id, title} only.
func (s *Service) List(ctx context.Context) ([]models.Course, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, description, created_at, updated_at FROM courses ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		index[c.ID] = len(courses)
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return courses, nil
	}

	pkgRows, err := s.db.Query(ctx,
		`SELECT x.course_id, p.id, p.title
		 FROM course_scorm_package_xref x
		 JOIN scorm_packages p ON p.id = x.scorm_package_id
		 ORDER BY p.title`,
	)
	if err != nil {
		return nil, fmt.Errorf("list course packages: %w", err)
	}
	defer pkgRows.Close()

	for pkgRows.Next() {
		var courseID uuid.UUID
		var ref models.ScormPackageRef
		if err := pkgRows.Scan(&courseID, &ref.ID, &ref.Title); err != nil {
			return nil, fmt.Errorf("scan course package: %w", err)
		}
		if i, ok := index[courseID]; ok {
			courses[i].ScormPackages = append(courses[i].ScormPackages, ref)
		}
	}
	return courses, pkgRows.Err()
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var c models.Course
	err := s.db.QueryRow(ctx,
		`SELECT id, title, description, created_at, updated_at FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "Course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT p.id, p.title
		 FROM course_scorm_package_xref x
		 JOIN scorm_packages p ON p.id = x.scorm_package_id
		 WHERE x.course_id = $1
		 ORDER BY p.title`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("get course packages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref models.ScormPackageRef
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, fmt.Errorf("scan course package: %w", err)
		}
		c.ScormPackages = append(c.ScormPackages, ref)
	}
	return &c, rows.Err()
}

type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.Course, error) {
	var c models.Course
	err := s.db.QueryRow(ctx,
		`UPDATE courses SET
		   title = COALESCE($2, title),
		   description = COALESCE($3, description),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING id, title, description, created_at, updated_at`,
		id, req.Title, req.Description,
	).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "Course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return &c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.CodeNotFound, "Course not found")
	}
	return nil
}

// AddPackage links a SCORM package to a course. Both ids must resolve; an
// already-linked pair is a no-op.
func (s *Service) AddPackage(ctx context.Context, courseID, packageID uuid.UUID) error {
	if err := s.checkPair(ctx, courseID, packageID); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO course_scorm_package_xref (course_id, scorm_package_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		courseID, packageID,
	)
	if err != nil {
		return fmt.Errorf("add package to course: %w", err)
	}
	return nil
}

// RemovePackage unlinks a SCORM package from a course. Both ids must resolve;
// removing an absent link is a no-op.
func (s *Service) RemovePackage(ctx context.Context, courseID, packageID uuid.UUID) error {
	if err := s.checkPair(ctx, courseID, packageID); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx,
		`DELETE FROM course_scorm_package_xref WHERE course_id = $1 AND scorm_package_id = $2`,
		courseID, packageID,
	)
	if err != nil {
		return fmt.Errorf("remove package from course: %w", err)
	}
	return nil
}

func (s *Service) checkPair(ctx context.Context, courseID, packageID uuid.UUID) error {
	var courseExists, packageExists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1),
		        EXISTS(SELECT 1 FROM scorm_packages WHERE id = $2)`,
		courseID, packageID,
	).Scan(&courseExists, &packageExists)
	if err != nil {
		return fmt.Errorf("check course/package: %w", err)
	}
	if !courseExists || !packageExists {
		return apperr.New(apperr.CodeNotFound, "Course or SCORM package not found")
	}
	return nil
}
