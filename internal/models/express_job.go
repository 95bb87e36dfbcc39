package models

// JobStatus is the lifecycle status of an express job.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "abierto"
	JobStatusInProgress JobStatus = "en_proceso"
	JobStatusCompleted  JobStatus = "completado"
	JobStatusCancelled  JobStatus = "cancelado"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// ExpressJob is a short-term, locally scoped task posted by a client.
type ExpressJob struct {
	ID                int64     `json:"id"`
	ClientID          int64     `json:"client_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Status            JobStatus `json:"status"`
	BudgetMin         Number    `json:"budget_min,omitempty"`
	BudgetMax         Number    `json:"budget_max,omitempty"`
	Currency          string    `json:"currency,omitempty"`
	TradeCategoryID   int64     `json:"trade_category_id,omitempty"`
	LocationID        int64     `json:"location_id,omitempty"`
	Department        string    `json:"department,omitempty"`
	Municipality      string    `json:"municipality,omitempty"`
	Urgency           string    `json:"urgency,omitempty"`
	PreferredDate     string    `json:"preferred_date,omitempty"`
	EstimatedDuration string    `json:"estimated_duration,omitempty"`
	PaymentMethod     string    `json:"payment_method,omitempty"`
	ApplicationCount  int       `json:"application_count,omitempty"`
}

// Location renders "municipality, department" skipping empty parts.
func (j *ExpressJob) Location() string {
	switch {
	case j.Municipality != "" && j.Department != "":
		return j.Municipality + ", " + j.Department
	case j.Municipality != "":
		return j.Municipality
	default:
		return j.Department
	}
}

// JobPatch is a partial update of an express job. Nil fields are not sent.
type JobPatch struct {
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Status            *JobStatus `json:"status,omitempty"`
	BudgetMin         *float64   `json:"budget_min,omitempty"`
	BudgetMax         *float64   `json:"budget_max,omitempty"`
	Department        *string    `json:"department,omitempty"`
	Municipality      *string    `json:"municipality,omitempty"`
	Urgency           *string    `json:"urgency,omitempty"`
	PreferredDate     *string    `json:"preferred_date,omitempty"`
	EstimatedDuration *string    `json:"estimated_duration,omitempty"`
	PaymentMethod     *string    `json:"payment_method,omitempty"`
}

// StatusPatch builds a patch that only changes the status.
func StatusPatch(status JobStatus) JobPatch {
	return JobPatch{Status: &status}
}
