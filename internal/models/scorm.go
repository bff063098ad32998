package models

import (
	"time"

	"github.com/google/uuid"
)

// ScormPackage is an inert metadata record pointing at externally hosted
// SCORM content.
type ScormPackage struct {
	ID               uuid.UUID `json:"id" db:"id"`
	ScoObjectID      string    `json:"scoObjectId" db:"sco_object_id"`
	Title            string    `json:"title" db:"title"`
	Path             string    `json:"path" db:"path"`
	PathType         string    `json:"pathType" db:"path_type"`
	ScoContainerName string    `json:"scoContainerName,omitempty" db:"sco_container_name"`
	ScoEntryFile     string    `json:"scoEntryFile" db:"sco_entry_file"`
	LaunchData       string    `json:"launchData,omitempty" db:"launch_data"`
	MasteryScore     int       `json:"masteryScore" db:"mastery_score"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

const (
	ScormDefaultPath      = "ScoObjects"
	ScormDefaultPathType  = "relative"
	ScormDefaultEntryFile = "index_lms.html"
)
