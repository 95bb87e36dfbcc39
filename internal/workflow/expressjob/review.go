package expressjob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/models"
	"outy-workers/internal/outy"
)

const (
	MinRating = 1
	MaxRating = 5
)

// SubmitOwnerReview rates the hired worker. Resubmitting creates another
// review unless the API honors the idempotency key the client sends.
func (w *Workflow) SubmitOwnerReview(ctx context.Context, s State, rating int, comment string) (res *models.WorkerReview, err error) {
	start := time.Now()
	defer func() {
		w.observe(ctx, "submitOwnerReview", s, start, &err, map[string]interface{}{"rating": rating})
	}()

	if !IsOwner(s) {
		return nil, errors.NewForbiddenError("Solo el dueño del trabajo puede calificar")
	}
	accepted := AcceptedApplication(s)
	if accepted == nil {
		return nil, errors.NewNotHiredError(s.Job.ID)
	}
	if rating < MinRating || rating > MaxRating {
		return nil, errors.NewValidationError("La calificación debe estar entre 1 y 5",
			fmt.Sprintf("rating %d out of range", rating))
	}

	review, err := w.api.CreateWorkerReview(ctx, models.WorkerReview{
		WorkerID:     accepted.WorkerID,
		ClientID:     s.Actor.UserID,
		ExpressJobID: s.Job.ID,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
	})
	if err != nil {
		return nil, errors.NewReviewError(outy.ErrorMessage(err, "No se pudo enviar tu calificación"), err)
	}
	return review, nil
}
