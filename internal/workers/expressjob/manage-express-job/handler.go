// internal/workers/expressjob/manage-express-job/handler.go
package manageexpressjob

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/workers/scope"
)

const (
	TaskType = "outy-manage-express-job"
)

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
		h.failJob(client, job, err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return err
	}

	return scope.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	sc, err := h.deps.For(input.AuthToken)
	if err != nil {
		return nil, err
	}

	state, err := sc.LoadState(ctx, input.ExpressJobID)
	if err != nil {
		return nil, err
	}

	switch input.Action {
	case ActionDelete:
		if err := sc.Workflow.DeleteJob(ctx, state); err != nil {
			return nil, err
		}
		return &Output{Action: ActionDelete, Deleted: true}, nil

	case ActionUpdate:
		job, err := sc.Workflow.UpdateJob(ctx, state, input.Patch)
		if err != nil {
			return nil, err
		}
		return &Output{Action: ActionUpdate, Job: job, JobStatus: string(job.Status)}, nil

	default:
		return nil, errors.NewValidationError("Acción no soportada", fmt.Sprintf("unknown action %q", input.Action))
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	h.errors.HandleJobError(context.Background(), client, job, err)
}
