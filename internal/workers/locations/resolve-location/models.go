// internal/workers/locations/resolve-location/models.go
package resolvelocation

import "outy-workers/internal/common/validation"

// Input names a department and a (possibly partial) municipality typed by
// the user. Either may be empty.
type Input struct {
	Department   string `json:"department"`
	Municipality string `json:"municipality"`
	Limit        int    `json:"limit"`
}

type Output struct {
	Department         string   `json:"department"`
	DepartmentInferred bool     `json:"departmentInferred"`
	Valid              bool     `json:"locationValid"`
	Suggestions        []string `json:"suggestions"`
	Cities             []string `json:"cities"`
	Departments        []string `json:"departments"`
}

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"properties": {
		"department":   {"type": "string"},
		"municipality": {"type": "string"},
		"limit":        {"type": "integer", "minimum": 0, "maximum": 500}
	}
}`)
