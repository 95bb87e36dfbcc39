// internal/workers/profile/ensure-worker-profile/models.go
package ensureworkerprofile

import "outy-workers/internal/common/validation"

// Input.ExpressJobID is optional; when set, the job seeds the new
// profile's trade category and location.
type Input struct {
	AuthToken    string `json:"authToken"`
	ExpressJobID int64  `json:"expressJobId"`
}

type Output struct {
	WorkerProfileID int64 `json:"workerProfileId"`
	Created         bool  `json:"workerProfileCreated"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["authToken"],
	"properties": {
		"authToken":    {"type": "string", "minLength": 1},
		"expressJobId": {"type": "integer", "minimum": 0}
	}
}`)
