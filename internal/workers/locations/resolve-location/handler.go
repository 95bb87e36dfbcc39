// internal/workers/locations/resolve-location/handler.go
package resolvelocation

import (
	"context"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/locations"
	"outy-workers/internal/workers/scope"
)

const (
	TaskType = "outy-resolve-location"
)

// Handler answers location picker queries from the shared catalog. It
// needs no user token.
type Handler struct {
	config *Config
	deps   *scope.Deps
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, deps *scope.Deps, log logger.Logger) *Handler {
	log = logger.OrNop(log).WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		deps:   deps,
		errors: errors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := scope.ParseVariables(job, inputSchema, &input); err != nil {
		h.errors.HandleJobError(context.Background(), client, job, err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(context.Background(), client, job, err)
		return err
	}

	return scope.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	catalog, err := h.deps.Locations(ctx)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}

	dept := strings.TrimSpace(input.Department)
	city := strings.TrimSpace(input.Municipality)

	output := &Output{
		Departments: catalog.Departments(),
		Suggestions: []string{},
		Cities:      []string{},
	}

	if dept == "" && city != "" {
		if inferred := catalog.InferDepartment(city); inferred != "" {
			dept = inferred
			output.DepartmentInferred = true
		}
	}
	if dept == "" {
		return output, nil
	}

	for _, known := range output.Departments {
		if locations.Normalize(known) == locations.Normalize(dept) {
			dept = known
			break
		}
	}

	output.Department = dept
	output.Cities = catalog.CitiesOf(dept)
	output.Suggestions = catalog.Suggest(dept, city, limit)
	output.Valid = city != "" && catalog.Contains(dept, city)
	return output, nil
}
