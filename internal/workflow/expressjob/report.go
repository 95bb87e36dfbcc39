package expressjob

import (
	"context"
	"strings"
	"time"

	"outy-workers/internal/common/errors"
	"outy-workers/internal/models"
)

const ReportTargetExpressJob = "express_job"

// ReportReasons are the reasons offered in the report dialog. Free text is
// accepted as well.
var ReportReasons = []string{
	"Contenido inapropiado",
	"Fraude o estafa",
	"Información falsa o engañosa",
	"Spam",
	"Trabajo ilegal o peligroso",
	"Otro",
}

// IsListedReason reports whether reason is one of ReportReasons.
func IsListedReason(reason string) bool {
	reason = strings.TrimSpace(reason)
	for _, r := range ReportReasons {
		if strings.EqualFold(r, reason) {
			return true
		}
	}
	return false
}

// ReportJob files a moderation report. Only validation errors are
// returned; API failures are logged.
func (w *Workflow) ReportJob(ctx context.Context, s State, reason string) (err error) {
	start := time.Now()
	reason = strings.TrimSpace(reason)
	defer func() {
		w.observe(ctx, "reportJob", s, start, &err, map[string]interface{}{"listedReason": IsListedReason(reason)})
	}()

	if reason == "" {
		return errors.NewValidationError("Selecciona o escribe un motivo", "report reason is empty")
	}

	if apiErr := w.api.ReportAd(ctx, models.Report{
		TargetID:   s.Job.ID,
		TargetType: ReportTargetExpressJob,
		Reason:     reason,
	}); apiErr != nil {
		w.secondaryFailure("reportJob", "report", s.Job.ID, apiErr)
	}
	return nil
}
