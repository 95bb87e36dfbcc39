// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/validation"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// SaveRegistry stamps LastUpdated and writes reg as indented JSON.
func SaveRegistry(reg *ActivityRegistry, path string) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Find returns the activity with id, or nil.
func (r *ActivityRegistry) Find(id string) *Activity {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i]
		}
	}
	return nil
}

// Add appends a, rejecting duplicate ids and task types.
func (r *ActivityRegistry) Add(a Activity) error {
	for _, existing := range r.Activities {
		if existing.ID == a.ID {
			return fmt.Errorf("activity with ID %s already exists", a.ID)
		}
		if existing.TaskType == a.TaskType {
			return fmt.Errorf("task type %s already registered by %s", a.TaskType, existing.ID)
		}
	}
	r.Activities = append(r.Activities, a)
	return nil
}

// Validate checks required fields, uniqueness, statuses, timeouts and that
// every input schema compiles.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, a := range r.Activities {
		switch {
		case a.ID == "":
			return fmt.Errorf("activity missing required field: ID")
		case a.DisplayName == "":
			return fmt.Errorf("activity %s missing required field: DisplayName", a.ID)
		case a.TaskType == "":
			return fmt.Errorf("activity %s missing required field: TaskType", a.ID)
		case a.Category == "":
			return fmt.Errorf("activity %s missing required field: Category", a.ID)
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		}
		ids[a.ID] = true
		if taskTypes[a.TaskType] {
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		taskTypes[a.TaskType] = true

		if !contains(Categories, a.Category) {
			return fmt.Errorf("activity %s has unknown category %q", a.ID, a.Category)
		}
		if !contains(Statuses, a.ImplementationStatus) {
			return fmt.Errorf("activity %s has unknown status %q", a.ID, a.ImplementationStatus)
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q: %w", a.ID, a.Timeout, err)
			}
		}
		if a.Retries < 0 {
			return fmt.Errorf("activity %s has negative retries", a.ID)
		}
		for _, code := range a.ErrorCodes {
			if !knownBPMNCode(code) {
				return fmt.Errorf("activity %s declares unknown error code %s", a.ID, code)
			}
		}
		if len(a.InputSchema) > 0 {
			raw, err := json.Marshal(a.InputSchema)
			if err != nil {
				return fmt.Errorf("activity %s input schema: %w", a.ID, err)
			}
			if _, err := validation.Compile(a.ID, string(raw)); err != nil {
				return fmt.Errorf("activity %s: %w", a.ID, err)
			}
		}
		if a.RequiresToken && !requiresField(a.InputSchema, "authToken") {
			return fmt.Errorf("activity %s requires a token but its input schema does not require authToken", a.ID)
		}
	}
	return nil
}

// Diff compares the registry with the task types a worker manager serves.
// missing are served but unregistered; stale are registered but not served.
func (r *ActivityRegistry) Diff(served []string) (missing, stale []string) {
	registered := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		registered[a.TaskType] = true
	}
	servedSet := make(map[string]bool, len(served))
	for _, t := range served {
		servedSet[t] = true
		if !registered[t] {
			missing = append(missing, t)
		}
	}
	for _, a := range r.Activities {
		if !servedSet[a.TaskType] {
			stale = append(stale, a.TaskType)
		}
	}
	sort.Strings(missing)
	sort.Strings(stale)
	return missing, stale
}

func knownBPMNCode(code string) bool {
	for _, known := range errors.BPMNErrorMapping {
		if code == known {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, known := range list {
		if s == known {
			return true
		}
	}
	return false
}

// requiresField reports whether a decoded JSON schema lists field in its
// top-level "required" array.
func requiresField(schema map[string]interface{}, field string) bool {
	required, _ := schema["required"].([]interface{})
	for _, r := range required {
		if name, ok := r.(string); ok && name == field {
			return true
		}
	}
	return false
}
