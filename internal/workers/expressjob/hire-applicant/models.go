// internal/workers/expressjob/hire-applicant/models.go
package hireapplicant

import "outy-workers/internal/common/validation"

type Input struct {
	AuthToken     string `json:"authToken"`
	ExpressJobID  int64  `json:"expressJobId"`
	ApplicationID int64  `json:"applicationId"`
}

type Output struct {
	ApplicationID     int64  `json:"applicationId"`
	ApplicationStatus string `json:"applicationStatus"`
	HiredUserID       int64  `json:"hiredUserId"`
	HiredWorkerID     int64  `json:"hiredWorkerId"`
	JobStatus         string `json:"jobStatus"`
	ConversationID    int64  `json:"conversationId"`
	Notified          bool   `json:"notified"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["authToken", "expressJobId", "applicationId"],
	"properties": {
		"authToken":     {"type": "string", "minLength": 1},
		"expressJobId":  {"type": "integer", "minimum": 1},
		"applicationId": {"type": "integer", "minimum": 1}
	}
}`)
