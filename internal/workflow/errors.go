package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when the acting role does not match the
	// current stage, or the association is not in an actionable state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrPreconditionFailed is returned when a report is submitted before the
	// quiz prerequisite is satisfied.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrAlreadySubmitted is returned for a second report on the same claim.
	ErrAlreadySubmitted = errors.New("report already submitted")
	// ErrEmptyReport rejects a blank report once the quiz is passed; it maps to
	// a validation failure, not a state error.
	ErrEmptyReport = errors.New("report text is empty")
)
