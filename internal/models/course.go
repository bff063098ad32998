package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	ScormPackages []ScormPackageRef `json:"scormPackages,omitempty"`
}

// ScormPackageRef is the trimmed package view included on course reads:
// id and title only, junction attributes excluded.
type ScormPackageRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}
