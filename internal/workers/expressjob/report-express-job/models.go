// internal/workers/expressjob/report-express-job/models.go
package reportexpressjob

import "outy-workers/internal/common/validation"

type Input struct {
	AuthToken    string `json:"authToken"`
	ExpressJobID int64  `json:"expressJobId"`
	Reason       string `json:"reason"`
}

type Output struct {
	Reported     bool `json:"reported"`
	ListedReason bool `json:"listedReason"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["authToken", "expressJobId", "reason"],
	"properties": {
		"authToken":    {"type": "string", "minLength": 1},
		"expressJobId": {"type": "integer", "minimum": 1},
		"reason":       {"type": "string", "maxLength": 500}
	}
}`)
