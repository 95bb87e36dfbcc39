package expressjob

import (
	"context"
	"time"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
)

func checkOwnerCanEdit(s State) error {
	if !IsOwner(s) {
		return errors.NewForbiddenError("Solo el dueño puede modificar este trabajo")
	}
	if s.Job.Status != models.JobStatusOpen {
		return errors.NewValidationError("Solo puedes modificar trabajos abiertos", "job status is "+string(s.Job.Status))
	}
	return nil
}

// DeleteJob removes an open job owned by the actor.
func (w *Workflow) DeleteJob(ctx context.Context, s State) (err error) {
	start := time.Now()
	defer func() { w.observe(ctx, "deleteJob", s, start, &err, nil) }()

	if err := checkOwnerCanEdit(s); err != nil {
		return err
	}
	if err := w.api.DeleteExpressJob(ctx, s.Job.ID); err != nil {
		return errors.NewOperationError("deleteJob", outy.ErrorMessage(err, "No se pudo eliminar el trabajo"), err)
	}
	return nil
}

// UpdateJob edits an open job owned by the actor. Status changes go through
// Hire and MarkCompleted, never through an edit.
func (w *Workflow) UpdateJob(ctx context.Context, s State, patch models.JobPatch) (res *models.ExpressJob, err error) {
	start := time.Now()
	defer func() { w.observe(ctx, "updateJob", s, start, &err, nil) }()

	if err := checkOwnerCanEdit(s); err != nil {
		return nil, err
	}
	if patch.Status != nil {
		return nil, errors.NewValidationError("El estado del trabajo no se puede editar directamente", "status in edit patch")
	}
	if err := validateBudget(s.Job, patch); err != nil {
		return nil, err
	}

	job, err := w.api.UpdateExpressJob(ctx, s.Job.ID, patch)
	if err != nil {
		return nil, errors.NewOperationError("updateJob", outy.ErrorMessage(err, "No se pudo actualizar el trabajo"), err)
	}
	return job, nil
}

func validateBudget(job models.ExpressJob, patch models.JobPatch) error {
	min, max := job.BudgetMin.Float64(), job.BudgetMax.Float64()
	if patch.BudgetMin != nil {
		min = *patch.BudgetMin
	}
	if patch.BudgetMax != nil {
		max = *patch.BudgetMax
	}
	if min < 0 || max < 0 {
		return errors.NewValidationError("El presupuesto no puede ser negativo", "negative budget")
	}
	if min > 0 && max > 0 && min > max {
		return errors.NewValidationError("El presupuesto mínimo no puede ser mayor que el máximo", "budget_min > budget_max")
	}
	return nil
}
