package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type JobType string

// Closed set. New job kinds are added here, never inferred at runtime.
const (
	JobProcessSession JobType = "PROCESS_SESSION"
	JobProcessPage    JobType = "PROCESS_PAGE"
	JobUploadImage    JobType = "UPLOAD_IMAGE"
	JobDeleteImage    JobType = "DELETE_IMAGE"
)

func (t JobType) Valid() bool {
	switch t {
	case JobProcessSession, JobProcessPage, JobUploadImage, JobDeleteImage:
		return true
	}
	return false
}

// Job is one unit of background work. Data is opaque to the store;
// its shape is determined by Type and interpreted by the matching handler.
type Job struct {
	ID        uuid.UUID       `json:"id"`
	Type      JobType         `json:"type"`
	SessionID string          `json:"session_id"`
	UserID    string          `json:"user_id"`
	Status    Status          `json:"status"`
	Data      json.RawMessage `json:"job_data"`
	Retries   int             `json:"retries"`
	LastError *string         `json:"last_error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
