// internal/workers/expressjob/load-express-job/models.go
package loadexpressjob

import (
	"outy-workers/internal/common/validation"
	"outy-workers/internal/models"
	"outy-workers/internal/workflow/expressjob"
)

type Input struct {
	AuthToken    string `json:"authToken"`
	ExpressJobID int64  `json:"expressJobId"`
}

// Applicant is an application with the display data a client shows next
// to it.
type Applicant struct {
	models.Application
	PhotoURL      string  `json:"photo_url,omitempty"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

type Output struct {
	Job        models.ExpressJob `json:"job"`
	Applicants []Applicant       `json:"applicants"`
	Status     expressjob.Status `json:"status"`
	JobStatus  string            `json:"jobStatus"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["authToken", "expressJobId"],
	"properties": {
		"authToken":    {"type": "string", "minLength": 1},
		"expressJobId": {"type": "integer", "minimum": 1}
	}
}`)
