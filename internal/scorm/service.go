// Package scorm manages SCORM package metadata records. Packages are inert
// pointers at externally stored content; nothing here launches or parses the
// content itself.
package scorm

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
	ScoObjectID      string `json:"scoObjectId"`
	Title            string `json:"title"`
	Path             string `json:"path"`
	PathType         string `json:"pathType"`
	ScoContainerName string `json:"scoContainerName"`
	ScoEntryFile     string `json:"scoEntryFile"`
	LaunchData       string `json:"launchData"`
	MasteryScore     int    `json:"masteryScore"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.ScormPackage, error) {
	if req.ScoObjectID == "" {
		return nil, apperr.New(apperr.CodeInvalid, "scoObjectId is required")
	}
	if req.Title == "" {
		return nil, apperr.New(apperr.CodeInvalid, "title is required")
	}

	if req.Path == "" {
		req.Path = models.ScormDefaultPath
	}
	if req.PathType == "" {
		req.PathType = models.ScormDefaultPathType
	}
	if req.ScoEntryFile == "" {
		req.ScoEntryFile = models.ScormDefaultEntryFile
	}

	var p models.ScormPackage
	err := s.db.QueryRow(ctx,
		`INSERT INTO scorm_packages (sco_object_id, title, path, path_type, sco_container_name, sco_entry_file, launch_data, mastery_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, sco_object_id, title, path, path_type, sco_container_name, sco_entry_file, launch_data, mastery_score, created_at, updated_at`,
		req.ScoObjectID, req.Title, req.Path, req.PathType, req.ScoContainerName, req.ScoEntryFile, req.LaunchData, req.MasteryScore,
	).Scan(&p.ID, &p.ScoObjectID, &p.Title, &p.Path, &p.PathType, &p.ScoContainerName, &p.ScoEntryFile, &p.LaunchData, &p.MasteryScore, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Newf(apperr.CodeConflict, "SCORM package with scoObjectId %q already exists", req.ScoObjectID)
		}
		return nil, fmt.Errorf("insert scorm package: %w", err)
	}
	return &p, nil
}

func (s *Service) List(ctx context.Context) ([]models.ScormPackage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, sco_object_id, title, path, path_type, sco_container_name, sco_entry_file, launch_data, mastery_score, created_at, updated_at
		 FROM scorm_packages ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list scorm packages: %w", err)
	}
	defer rows.Close()

	var packages []models.ScormPackage
	for rows.Next() {
		var p models.ScormPackage
		if err := rows.Scan(&p.ID, &p.ScoObjectID, &p.Title, &p.Path, &p.PathType, &p.ScoContainerName, &p.ScoEntryFile, &p.LaunchData, &p.MasteryScore, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan scorm package: %w", err)
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ScormPackage, error) {
	var p models.ScormPackage
	err := s.db.QueryRow(ctx,
		`SELECT id, sco_object_id, title, path, path_type, sco_container_name, sco_entry_file, launch_data, mastery_score, created_at, updated_at
		 FROM scorm_packages WHERE id = $1`, id,
	).Scan(&p.ID, &p.ScoObjectID, &p.Title, &p.Path, &p.PathType, &p.ScoContainerName, &p.ScoEntryFile, &p.LaunchData, &p.MasteryScore, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "SCORM package not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get scorm package: %w", err)
	}
	return &p, nil
}

type UpdateRequest struct {
	ScoObjectID      *string `json:"scoObjectId"`
	Title            *string `json:"title"`
	Path             *string `json:"path"`
	PathType         *string `json:"pathType"`
	ScoContainerName *string `json:"scoContainerName"`
	ScoEntryFile     *string `json:"scoEntryFile"`
	LaunchData       *string `json:"launchData"`
	MasteryScore     *int    `json:"masteryScore"`
}

// Update merges the supplied fields into the row; absent fields keep their
// stored value.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.ScormPackage, error) {
	var p models.ScormPackage
	err := s.db.QueryRow(ctx,
		`UPDATE scorm_packages SET
		   sco_object_id = COALESCE($2, sco_object_id),
		   title = COALESCE($3, title),
		   path = COALESCE($4, path),
		   path_type = COALESCE($5, path_type),
		   sco_container_name = COALESCE($6, sco_container_name),
		   sco_entry_file = COALESCE($7, sco_entry_file),
		   launch_data = COALESCE($8, launch_data),
		   mastery_score = COALESCE($9, mastery_score),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING id, sco_object_id, title, path, path_type, sco_container_name, sco_entry_file, launch_data, mastery_score, created_at, updated_at`,
		id, req.ScoObjectID, req.Title, req.Path, req.PathType, req.ScoContainerName, req.ScoEntryFile, req.LaunchData, req.MasteryScore,
	).Scan(&p.ID, &p.ScoObjectID, &p.Title, &p.Path, &p.PathType, &p.ScoContainerName, &p.ScoEntryFile, &p.LaunchData, &p.MasteryScore, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "SCORM package not found")
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.CodeConflict, "SCORM package with that scoObjectId already exists")
		}
		return nil, fmt.Errorf("update scorm package: %w", err)
	}
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM scorm_packages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scorm package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.CodeNotFound, "SCORM package not found")
	}
	return nil
}
