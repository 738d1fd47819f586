package workflow

import "pathfinder_backend/internal/model"

// RecordQuizResult marks the quiz prerequisite as satisfied when the attempt
// was approved. A failed attempt leaves the association untouched, and a flag
// that is already set is never cleared. It reports whether anything changed.
func RecordQuizResult(a *model.SpecialtyAssociation, attempt *model.QuizAttempt) bool {
	if attempt == nil || !attempt.Passed() || a.IsQuizApproved {
		return false
	}
	a.IsQuizApproved = true
	return true
}
