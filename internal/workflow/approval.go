// Package workflow holds the specialty approval state machine and its gates.
// Every function here is free of I/O and ambient state: the acting role,
// actor and clock are passed in explicitly.
package workflow

import (
	"fmt"
	"time"

	"pathfinder_backend/internal/model"
)

type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == Approve || d == Reject
}

// Actor is whoever records a decision.
type Actor struct {
	ID   uint
	Name string
	Role model.UserRole
}

type stage struct {
	roles    []model.UserRole
	approved model.ApprovalStatus
	rejected model.ApprovalStatus
}

// stageFor returns the decision table row for a status. Partial approval
// markers resolve to the stage they are equivalent to.
func stageFor(status model.ApprovalStatus) (stage, bool) {
	switch status.Canonical() {
	case model.StatusWaitingByCounselor:
		return stage{
			roles:    []model.UserRole{model.Counselor},
			approved: model.StatusWaitingByLead,
			rejected: model.StatusRejectedByCounselor,
		}, true
	case model.StatusWaitingByLead:
		return stage{
			roles:    []model.UserRole{model.Lead},
			approved: model.StatusWaitingByDirector,
			rejected: model.StatusRejectedByLead,
		}, true
	case model.StatusWaitingByDirector:
		return stage{
			roles:    []model.UserRole{model.Director, model.Admin},
			approved: model.StatusApproved,
			rejected: model.StatusRejectedByDirector,
		}, true
	}
	return stage{}, false
}

func roleAllowed(s stage, role model.UserRole) bool {
	switch role {
	case model.Member, model.Counselor, model.Lead, model.Director, model.Admin:
		for _, r := range s.roles {
			if r == role {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Decide computes the next status for a role-scoped decision. It depends only
// on its arguments.
func Decide(status model.ApprovalStatus, role model.UserRole, decision Decision) (model.ApprovalStatus, error) {
	if !decision.Valid() {
		return status, fmt.Errorf("%w: unknown decision %q", ErrInvalidTransition, decision)
	}
	s, ok := stageFor(status)
	if !ok {
		return status, fmt.Errorf("%w: no decision possible in state %s", ErrInvalidTransition, status)
	}
	if !roleAllowed(s, role) {
		return status, fmt.Errorf("%w: role %s cannot decide in state %s", ErrInvalidTransition, role, status)
	}
	if decision == Approve {
		return s.approved, nil
	}
	return s.rejected, nil
}

// ApplyDecision validates the decision and, only if it is legal, records it on
// the association: new status, stage flag and timestamp on approval, and one
// comment entry in either log.
func ApplyDecision(a *model.SpecialtyAssociation, actor Actor, decision Decision, comment string, now time.Time) error {
	from := a.ApprovalStatus.Canonical()
	next, err := Decide(from, actor.Role, decision)
	if err != nil {
		return err
	}

	entry := model.DecisionComment{
		AssociationID: a.ID,
		Stage:         from,
		Text:          comment,
		Timestamp:     now,
		ActorID:       actor.ID,
		ActorName:     actor.Name,
	}

	if decision == Approve {
		stamp := now
		switch from {
		case model.StatusWaitingByCounselor:
			a.CounselorApproval = true
			a.CounselorApprovalAt = &stamp
		case model.StatusWaitingByLead:
			a.LeadApproval = true
			a.LeadApprovalAt = &stamp
		case model.StatusWaitingByDirector:
			a.DirectorApproval = true
			a.DirectorApprovalAt = &stamp
		}
		entry.Kind = model.CommentApproval
		a.ApprovalComments = append(a.ApprovalComments, entry)
	} else {
		entry.Kind = model.CommentRejection
		a.RejectionComments = append(a.RejectionComments, entry)
	}

	a.ApprovalStatus = next
	return nil
}

// RequiredRoles lists the roles allowed to decide in the given status.
func RequiredRoles(status model.ApprovalStatus) []model.UserRole {
	s, ok := stageFor(status)
	if !ok {
		return nil
	}
	return append([]model.UserRole(nil), s.roles...)
}

func IsTerminal(status model.ApprovalStatus) bool {
	switch status.Canonical() {
	case model.StatusApproved,
		model.StatusRejectedByCounselor,
		model.StatusRejectedByLead,
		model.StatusRejectedByDirector:
		return true
	}
	return false
}

// IsRejected reports whether a stage rejected the claim.
func IsRejected(status model.ApprovalStatus) bool {
	switch status.Canonical() {
	case model.StatusRejectedByCounselor, model.StatusRejectedByLead, model.StatusRejectedByDirector:
		return true
	}
	return false
}

// Promote applies the implicit pending -> waiting_by_counselor rule once the
// quiz has been passed and a report exists.
func Promote(a *model.SpecialtyAssociation) bool {
	if a.ApprovalStatus != model.StatusPending {
		return false
	}
	if !a.IsQuizApproved || len(a.Reports) == 0 {
		return false
	}
	a.ApprovalStatus = model.StatusWaitingByCounselor
	return true
}

// CanSubmitReport reports whether the report action should be offered. The
// server re-checks on submission.
func CanSubmitReport(a *model.SpecialtyAssociation) bool {
	return a.IsQuizApproved && len(a.Reports) == 0
}

// CanDecide reports whether role may approve or reject right now.
func CanDecide(a *model.SpecialtyAssociation, role model.UserRole) bool {
	if IsTerminal(a.ApprovalStatus) {
		return false
	}
	s, ok := stageFor(a.ApprovalStatus)
	return ok && roleAllowed(s, role)
}

// CheckInvariants verifies that an actionable association carries its evidence.
func CheckInvariants(a *model.SpecialtyAssociation) error {
	if !a.ApprovalStatus.Valid() {
		return fmt.Errorf("unknown approval status %q", a.ApprovalStatus)
	}
	if _, actionable := stageFor(a.ApprovalStatus); !actionable {
		return nil
	}
	if !a.IsQuizApproved {
		return fmt.Errorf("association %s is %s without an approved quiz", a.ID, a.ApprovalStatus)
	}
	if len(a.Reports) == 0 {
		return fmt.Errorf("association %s is %s without a report", a.ID, a.ApprovalStatus)
	}
	return nil
}
