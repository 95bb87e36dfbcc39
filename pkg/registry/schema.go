// pkg/registry/schema.go
package registry

// ActivityRegistry describes every task type the worker manager can serve.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity is one Outy task type. InputSchema is the JSON schema the
// worker validates job variables against; ErrorCodes are the OUTY_* BPMN
// codes it may throw. RequiresToken marks activities acting for a user,
// whose input must carry authToken.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	RequiresToken        bool                   `json:"requiresToken"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}

const (
	CategoryExpressJob = "expressjob"
	CategoryProfile    = "profile"
	CategoryLocations  = "locations"
)

// Categories mirror the internal/workers sub-packages.
var Categories = []string{CategoryExpressJob, CategoryProfile, CategoryLocations}

// Implementation statuses accepted by Validate.
var Statuses = []string{"planned", "in-progress", "completed", "verified"}
