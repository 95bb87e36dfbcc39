// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"outy-workers/pkg/registry"

	aej "outy-workers/internal/workers/expressjob/apply-express-job"
	cej "outy-workers/internal/workers/expressjob/complete-express-job"
	ha "outy-workers/internal/workers/expressjob/hire-applicant"
	lej "outy-workers/internal/workers/expressjob/load-express-job"
	mej "outy-workers/internal/workers/expressjob/manage-express-job"
	rej "outy-workers/internal/workers/expressjob/report-express-job"
	rw "outy-workers/internal/workers/expressjob/review-worker"
	rl "outy-workers/internal/workers/locations/resolve-location"
	ewp "outy-workers/internal/workers/profile/ensure-worker-profile"
)

// servedTaskTypes are the task types the worker manager registers.
var servedTaskTypes = []string{
	aej.TaskType, ha.TaskType, cej.TaskType, rw.TaskType, rej.TaskType,
	mej.TaskType, lej.TaskType, ewp.TaskType, rl.TaskType,
}

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	default:
		help()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	id := fs.String("id", "", "Activity ID (e.g., resolve-location)")
	displayName := fs.String("displayName", "", "Display Name (e.g., Resolve Location)")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category (expressjob, profile, locations)")
	taskType := fs.String("taskType", "", "Camunda Task Type (e.g., outy-resolve-location)")
	version := fs.String("version", "1.0.0", "Version")
	status := fs.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
	timeout := fs.String("timeout", "30s", "Job timeout")
	_ = fs.Parse(args)

	if *id == "" || *displayName == "" || *category == "" || *taskType == "" {
		fs.Usage()
		return fmt.Errorf("id, displayName, category and taskType are required for add")
	}

	reg, err := registry.LoadRegistry(*path)
	if os.IsNotExist(err) {
		reg, err = &registry.ActivityRegistry{Version: "1.0.0"}, nil
	}
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	err = reg.Add(registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{},
		OutputSchema:         map[string]interface{}{},
		ErrorCodes:           []string{},
		Timeout:              *timeout,
		Workflows:            []string{},
		Tags:                 []string{},
	})
	if err != nil {
		return err
	}
	if err := registry.SaveRegistry(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "Field to update (status, version, timeout, retries, requiresToken, ...)")
	value := fs.String("value", "", "New value for the field")
	_ = fs.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("id, field and value are required for update")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	a := reg.Find(*id)
	if a == nil {
		return fmt.Errorf("activity with ID %s not found", *id)
	}

	switch *field {
	case "status":
		a.ImplementationStatus = *value
	case "version":
		a.Version = *value
	case "displayName":
		a.DisplayName = *value
	case "description":
		a.Description = *value
	case "category":
		a.Category = *value
	case "taskType":
		a.TaskType = *value
	case "timeout":
		a.Timeout = *value
	case "retries":
		retries, err := strconv.Atoi(*value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	case "requiresToken":
		requires, err := strconv.ParseBool(*value)
		if err != nil {
			return fmt.Errorf("invalid requiresToken value: %w", err)
		}
		a.RequiresToken = requires
	case "tags":
		a.Tags = strings.Split(*value, ",")
	default:
		return fmt.Errorf("unknown field: %s", *field)
	}

	if err := reg.Validate(); err != nil {
		return fmt.Errorf("update rejected: %w", err)
	}
	if err := registry.SaveRegistry(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	_ = fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

// runCheck reports drift between the registry and the compiled-in workers.
func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	_ = fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	missing, stale := reg.Diff(servedTaskTypes)
	for _, t := range missing {
		fmt.Printf("  unregistered worker: %s\n", t)
	}
	for _, t := range stale {
		fmt.Printf("  registered but not served: %s\n", t)
	}
	if len(missing)+len(stale) > 0 {
		return fmt.Errorf("registry out of sync with worker manager")
	}
	fmt.Printf("Registry in sync: %d task types.\n", len(servedTaskTypes))
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add       Add a new activity to the registry
  update    Update an existing activity's field
  validate  Validate the registry file
  check     Compare the registry with the workers built into worker-manager
  help      Show this help message

Examples:
  registry-updater add -id resolve-location -displayName "Resolve Location" -category locations -taskType outy-resolve-location
  registry-updater update -id resolve-location -field status -value completed
  registry-updater validate -path configs/activity-registry.json
  registry-updater check

Use 'registry-updater <command> -h' for more information about a command.
`)
}
