package entity

import "time"

const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

type Job struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Request   GenerationRequest `json:"request"`
	MemeIDs   []string          `json:"meme_ids,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// JobTask is the Kafka message consumed by the worker.
type JobTask struct {
	JobID   string            `json:"job_id"`
	Request GenerationRequest `json:"request"`
}

type JobResponse struct {
	ID      string   `json:"id"`
	Status  string   `json:"status"`
	MemeIDs []string `json:"meme_ids,omitempty"`
	Error   string   `json:"error,omitempty"`
}
