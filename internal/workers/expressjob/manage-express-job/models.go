// internal/workers/expressjob/manage-express-job/models.go
package manageexpressjob

import (
	"outy-workers/internal/common/validation"
	"outy-workers/internal/models"
)

const (
	ActionDelete = "delete"
	ActionUpdate = "update"
)

type Input struct {
	AuthToken    string          `json:"authToken"`
	ExpressJobID int64           `json:"expressJobId"`
	Action       string          `json:"action"`
	Patch        models.JobPatch `json:"patch"`
}

type Output struct {
	Action    string             `json:"action"`
	Deleted   bool               `json:"deleted"`
	Job       *models.ExpressJob `json:"job,omitempty"`
	JobStatus string             `json:"jobStatus,omitempty"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["authToken", "expressJobId", "action"],
	"properties": {
		"authToken":    {"type": "string", "minLength": 1},
		"expressJobId": {"type": "integer", "minimum": 1},
		"action":       {"type": "string", "enum": ["delete", "update"]},
		"patch": {
			"type": "object",
			"properties": {
				"title":       {"type": "string", "minLength": 1, "maxLength": 200},
				"description": {"type": "string"},
				"budget_min":  {"type": "number"},
				"budget_max":  {"type": "number"}
			}
		}
	},
	"if":   {"properties": {"action": {"const": "update"}}},
	"then": {"required": ["patch"]}
}`)
