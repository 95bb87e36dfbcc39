// internal/workers/expressjob/report-express-job/handler.go
package reportexpressjob

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/models"
	"outy-workers/internal/workers/scope"
	"outy-workers/internal/workflow/expressjob"
)

const (
	TaskType = "outy-report-express-job"
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

// execute does not load the job: a report only needs its id, and the API
// rejects reports against jobs that no longer exist.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	sc, err := h.deps.For(input.AuthToken)
	if err != nil {
		return nil, err
	}

	state := expressjob.State{
		Job:   models.ExpressJob{ID: input.ExpressJobID},
		Actor: sc.Actor,
	}
	if err := sc.Workflow.ReportJob(ctx, state, input.Reason); err != nil {
		return nil, err
	}

	return &Output{
		Reported:     true,
		ListedReason: expressjob.IsListedReason(input.Reason),
	}, nil
}
