package kafka

import "github.com/google/uuid"

// JobEventPayload is the wire shape of a "job inserted" event. The row itself
// stays in postgres; consumers rehydrate the job by id.
type JobEventPayload struct {
	JobID uuid.UUID `json:"job_id"`
}
