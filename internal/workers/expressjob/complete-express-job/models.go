// internal/workers/expressjob/complete-express-job/models.go
package completeexpressjob

import "outy-workers/internal/common/validation"

type Input struct {
	AuthToken    string `json:"authToken"`
	ExpressJobID int64  `json:"expressJobId"`
}

// Output.RatingMarker is the "[OUTY_RATE ...]" tag embedded in the chat
// message; clients use it to open the rating dialog.
type Output struct {
	JobStatus     string `json:"jobStatus"`
	HiredWorkerID int64  `json:"hiredWorkerId"`
	Notified      bool   `json:"notified"`
	RatingMarker  string `json:"ratingMarker"`
	CanReview     bool   `json:"canReview"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["authToken", "expressJobId"],
	"properties": {
		"authToken":    {"type": "string", "minLength": 1},
		"expressJobId": {"type": "integer", "minimum": 1}
	}
}`)
