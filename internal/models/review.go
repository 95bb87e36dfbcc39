package models

type WorkerReview struct {
	ID           int64  `json:"id,omitempty"`
	WorkerID     int64  `json:"worker_id"`
	ClientID     int64  `json:"client_id"`
	ExpressJobID int64  `json:"express_job_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
}

type ReviewStats struct {
	WorkerID int64   `json:"worker_id"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

// Report is a moderation report filed against an ad.
type Report struct {
	TargetID   int64  `json:"target_id"`
	TargetType string `json:"target_type"`
	Reason     string `json:"reason"`
}
