// internal/workers/expressjob/apply-express-job/models.go
package applyexpressjob

import "outy-workers/internal/common/validation"

// Input: with interest set, the price/time/message fields are ignored and
// the job's minimum budget is offered.
type Input struct {
	AuthToken     string `json:"authToken"`
	ExpressJobID  int64  `json:"expressJobId"`
	Interest      bool   `json:"interest"`
	ProposedPrice string `json:"proposedPrice"`
	EstimatedTime string `json:"estimatedTime"`
	Message       string `json:"message"`
}

type Output struct {
	ApplicationID     int64  `json:"applicationId"`
	ApplicationStatus string `json:"applicationStatus"`
	WorkerProfileID   int64  `json:"workerProfileId"`
	ApplicationCount  int    `json:"applicationCount"`
	AlreadyApplied    bool   `json:"alreadyApplied"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["authToken", "expressJobId"],
	"properties": {
		"authToken":     {"type": "string", "minLength": 1},
		"expressJobId":  {"type": "integer", "minimum": 1},
		"interest":      {"type": "boolean"},
		"proposedPrice": {"type": "string"},
		"estimatedTime": {"type": "string", "maxLength": 100},
		"message":       {"type": "string", "maxLength": 2000}
	},
	"if":   {"properties": {"interest": {"const": true}}, "required": ["interest"]},
	"else": {"required": ["proposedPrice"]}
}`)
