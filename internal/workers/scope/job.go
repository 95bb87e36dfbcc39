package scope

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"outy-workers/internal/common/camunda"
	"outy-workers/internal/common/errors"
	"outy-workers/internal/common/logger"
	"outy-workers/internal/common/validation"
)

// ParseVariables validates the job variables against schema and decodes
// them into out.
func ParseVariables(job entities.Job, schema *validation.Schema, out interface{}) error {
	variables := job.Variables
	if variables == "" {
		variables = "{}"
	}
	if res := schema.ValidateJSON(variables); !res.Valid {
		return res.Err()
	}
	if err := json.Unmarshal([]byte(variables), out); err != nil {
		return errors.NewValidationError("Datos de entrada inválidos", err.Error())
	}
	return nil
}

// CompleteJob completes job with output as its variables, retrying
// transient gateway failures. A failure is logged against the job key.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) error {
	err := completeJob(ctx, client, job, output)
	if err != nil {
		logger.OrNop(log).Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
	}
	return err
}

func completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return errors.NewEngineError("completeJob", false, err)
	}
	return camunda.Retry(ctx, nil, "completeJob", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
}
