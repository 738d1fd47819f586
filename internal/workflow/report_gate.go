package workflow

import (
	"strings"
	"time"

	"pathfinder_backend/internal/model"
)

// SubmitReport appends the single report a claim accepts. The status is left
// as is; callers run Promote afterwards.
func SubmitReport(a *model.SpecialtyAssociation, text string, at time.Time) error {
	if !a.IsQuizApproved {
		return ErrPreconditionFailed
	}
	if len(a.Reports) > 0 {
		return ErrAlreadySubmitted
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyReport
	}
	a.Reports = append(a.Reports, model.ReportEntry{
		AssociationID: a.ID,
		Text:          text,
		SubmittedAt:   at,
	})
	return nil
}
