package models

// ApplicationStatus is the status of a worker's bid on an express job.
type ApplicationStatus string

const (
	ApplicationSent     ApplicationStatus = "enviada"
	ApplicationAccepted ApplicationStatus = "aceptada"
	// ApplicationRejected is part of the API vocabulary; this client never sets it.
	ApplicationRejected ApplicationStatus = "rechazada"
)

type Application struct {
	ID            int64             `json:"id"`
	ExpressJobID  int64             `json:"express_job_id"`
	WorkerID      int64             `json:"worker_id"`
	UserID        int64             `json:"user_id,omitempty"`
	ProposedPrice Number            `json:"proposed_price,omitempty"`
	EstimatedTime string            `json:"estimated_time,omitempty"`
	Message       string            `json:"message,omitempty"`
	Status        ApplicationStatus `json:"status"`
}

// NewApplication is the create payload for an application.
type NewApplication struct {
	ExpressJobID  int64             `json:"express_job_id"`
	WorkerID      int64             `json:"worker_id"`
	ProposedPrice float64           `json:"proposed_price"`
	EstimatedTime string            `json:"estimated_time,omitempty"`
	Message       string            `json:"message,omitempty"`
	Status        ApplicationStatus `json:"status"`
}

// ApplicationPatch is the update payload for an application.
type ApplicationPatch struct {
	Status        ApplicationStatus `json:"status"`
	ProposedPrice float64           `json:"proposed_price"`
	EstimatedTime string            `json:"estimated_time,omitempty"`
	Message       string            `json:"message,omitempty"`
}
