package models

type ScoreRequest struct {
	JobDescription string `json:"jobDescription" validate:"required,min=10,max=200"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ScoreJobStatus string

const (
	JobProcessing ScoreJobStatus = "processing"
	JobCompleted  ScoreJobStatus = "completed"
	JobError      ScoreJobStatus = "error"
)

// ScoreJob tracks an async scoring request. Jobs live in memory only; a
// restart forgets them, which is acceptable for a polling convenience API.
type ScoreJob struct {
	ID      string            `json:"jobId"`
	Status  ScoreJobStatus    `json:"status"`
	Results []ScoredCandidate `json:"results,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type ScoreJobResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}
