// internal/workers/expressjob/review-worker/models.go
package reviewworker

import "outy-workers/internal/common/validation"

type Input struct {
	AuthToken    string `json:"authToken"`
	ExpressJobID int64  `json:"expressJobId"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

type Output struct {
	ReviewID      int64   `json:"reviewId"`
	WorkerID      int64   `json:"workerId"`
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// Rating bounds are checked by the workflow, not the schema, so an
// out-of-range rating gets the user-facing message.
var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["authToken", "expressJobId", "rating"],
	"properties": {
		"authToken":    {"type": "string", "minLength": 1},
		"expressJobId": {"type": "integer", "minimum": 1},
		"rating":       {"type": "integer"},
		"comment":      {"type": "string", "maxLength": 1000}
	}
}`)
