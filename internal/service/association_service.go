package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/repository"
	"pathfinder_backend/internal/util"
	"pathfinder_backend/internal/workflow"
	"pathfinder_backend/pkg/logger"
	"pathfinder_backend/pkg/monitoring"
	"pathfinder_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AssociationService owns the lifecycle of specialty claims. All workflow
// changes go through the pure gates in package workflow and are persisted with
// a version compare-and-set.
type AssociationService struct {
	Repo          *repository.AssociationRepository
	UserRepo      *repository.UserRepository
	SpecialtyRepo *repository.SpecialtyRepository
	AttemptRepo   *repository.QuizAttemptRepository
	Notifier      WorkflowNotifier
	Now           func() time.Time
}

func NewAssociationService(
	repo *repository.AssociationRepository,
	userRepo *repository.UserRepository,
	specialtyRepo *repository.SpecialtyRepository,
	attemptRepo *repository.QuizAttemptRepository,
	notifier WorkflowNotifier,
) *AssociationService {
	return &AssociationService{
		Repo:          repo,
		UserRepo:      userRepo,
		SpecialtyRepo: specialtyRepo,
		AttemptRepo:   attemptRepo,
		Notifier:      notifier,
		Now:           time.Now,
	}
}

// Actions are the guard predicates for one caller on one association.
type Actions struct {
	Status          model.ApprovalStatus `json:"status"`
	CanSubmitReport bool                 `json:"canSubmitReport"`
	CanApprove      bool                 `json:"canApprove"`
	CanReject       bool                 `json:"canReject"`
	CanDelete       bool                 `json:"canDelete"`
	RequiredRoles   []model.UserRole     `json:"requiredRoles"`
	Terminal        bool                 `json:"terminal"`
	Rejected        bool                 `json:"rejected"`
}

func (s *AssociationService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func canCreate(role model.UserRole) bool {
	switch role {
	case model.Admin, model.Director, model.Lead:
		return true
	}
	return false
}

func canDelete(actor workflow.Actor, a *model.SpecialtyAssociation) bool {
	if actor.Role == model.Admin {
		return true
	}
	return actor.ID == a.MemberID && a.ApprovalStatus.Canonical() != model.StatusApproved
}

func ownsClaim(actor workflow.Actor, a *model.SpecialtyAssociation) bool {
	return actor.Role == model.Admin || actor.ID == a.MemberID
}

func (s *AssociationService) Create(ctx context.Context, actor workflow.Actor, memberID, specialtyID uint) (a *model.SpecialtyAssociation, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssociationService.Create",
		attribute.Int64("member_id", int64(memberID)),
		attribute.Int64("specialty_id", int64(specialtyID)))
	defer func() { tracing.End(span, err) }()

	if !canCreate(actor.Role) {
		return nil, fmt.Errorf("%w: role %s cannot create associations", util.ErrPermissionDenied, actor.Role)
	}
	if _, err := s.UserRepo.FindByID(ctx, memberID); err != nil {
		return nil, err
	}
	specialty, err := s.SpecialtyRepo.FindByID(ctx, specialtyID)
	if err != nil {
		return nil, err
	}

	a = &model.SpecialtyAssociation{
		MemberID:       memberID,
		SpecialtyID:    specialtyID,
		ApprovalStatus: model.StatusPending,
	}

	// an earlier passing attempt for the gating quiz counts immediately
	if specialty.QuizID != nil {
		attempt, err := s.AttemptRepo.LatestApproved(ctx, memberID, *specialty.QuizID)
		switch {
		case err == nil:
			workflow.RecordQuizResult(a, attempt)
		case !errors.Is(err, util.ErrNotFound):
			return nil, err
		}
	}

	if err := s.Repo.CreateUnique(ctx, a); err != nil {
		return nil, err
	}

	monitoring.AssociationCounter.WithLabelValues("create").Inc()
	logger.Log.Info("Association created",
		zap.String("association_id", a.ID),
		zap.Uint("member_id", memberID),
		zap.Uint("specialty_id", specialtyID),
		zap.Uint("actor_id", actor.ID),
		zap.Bool("quiz_approved", a.IsQuizApproved),
	)
	s.notify(ctx, newEvent(a, "create", "", actor, s.now()))
	return a, nil
}

func (s *AssociationService) Get(ctx context.Context, id string) (*model.SpecialtyAssociation, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *AssociationService) ListByMember(ctx context.Context, memberID uint) ([]model.SpecialtyAssociation, error) {
	return s.Repo.ListByMember(ctx, memberID)
}

func (s *AssociationService) Actions(ctx context.Context, actor workflow.Actor, id string) (*Actions, error) {
	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	decide := workflow.CanDecide(a, actor.Role)
	return &Actions{
		Status:          a.ApprovalStatus.Canonical(),
		CanSubmitReport: ownsClaim(actor, a) && workflow.CanSubmitReport(a),
		CanApprove:      decide,
		CanReject:       decide,
		CanDelete:       canDelete(actor, a),
		RequiredRoles:   workflow.RequiredRoles(a.ApprovalStatus),
		Terminal:        workflow.IsTerminal(a.ApprovalStatus),
		Rejected:        workflow.IsRejected(a.ApprovalStatus),
	}, nil
}

func (s *AssociationService) Delete(ctx context.Context, actor workflow.Actor, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "AssociationService.Delete", attribute.String("association_id", id))
	defer func() { tracing.End(span, err) }()

	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canDelete(actor, a) {
		return fmt.Errorf("%w: cannot delete association in state %s", util.ErrPermissionDenied, a.ApprovalStatus)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	monitoring.AssociationCounter.WithLabelValues("delete").Inc()
	logger.Log.Info("Association deleted", zap.String("association_id", id), zap.Uint("actor_id", actor.ID))
	s.notify(ctx, newEvent(a, "delete", a.ApprovalStatus, actor, s.now()))
	return nil
}

// SubmitReport attaches the member's single report and promotes the claim to
// the counselor when the quiz was already passed.
func (s *AssociationService) SubmitReport(ctx context.Context, actor workflow.Actor, id, text string) (a *model.SpecialtyAssociation, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssociationService.SubmitReport", attribute.String("association_id", id))
	defer func() { tracing.End(span, err) }()

	a, err = s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ownsClaim(actor, a) {
		return nil, fmt.Errorf("%w: only the member can report on this claim", util.ErrPermissionDenied)
	}

	expected := a.Version
	from := a.ApprovalStatus
	if err := workflow.SubmitReport(a, text, s.now()); err != nil {
		return nil, err
	}
	workflow.Promote(a)

	report := a.Reports[len(a.Reports)-1:]
	if err := s.Repo.SaveTransition(ctx, a, expected, repository.Transition{Reports: report}); err != nil {
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		monitoring.TransitionConflicts.Inc()
		return nil, s.explainReportConflict(ctx, id, text)
	}

	logger.Log.Info("Report submitted",
		zap.String("association_id", a.ID),
		zap.String("from", string(from)),
		zap.String("to", string(a.ApprovalStatus)),
		zap.Uint("actor_id", actor.ID),
	)
	s.notify(ctx, newEvent(a, "report", from, actor, s.now()))
	return a, nil
}

// explainReportConflict reloads a claim whose report write lost a race and
// reports why the submission no longer applies.
func (s *AssociationService) explainReportConflict(ctx context.Context, id, text string) error {
	fresh, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := workflow.SubmitReport(fresh, text, s.now()); err != nil {
		return err
	}
	return fmt.Errorf("%w: association %s changed concurrently", workflow.ErrInvalidTransition, id)
}

// Decide records an approval or rejection from actor on the claim identified
// by member and specialty.
func (s *AssociationService) Decide(ctx context.Context, actor workflow.Actor, memberID, specialtyID uint, decision workflow.Decision, comment string) (a *model.SpecialtyAssociation, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssociationService.Decide",
		attribute.Int64("member_id", int64(memberID)),
		attribute.Int64("specialty_id", int64(specialtyID)),
		attribute.String("decision", string(decision)),
		attribute.String("role", string(actor.Role)))
	defer func() { tracing.End(span, err) }()

	a, err = s.Repo.FindByMemberAndSpecialty(ctx, memberID, specialtyID)
	if err != nil {
		return nil, err
	}

	expected := a.Version
	from := a.ApprovalStatus.Canonical()
	if err := workflow.ApplyDecision(a, actor, decision, comment, s.now()); err != nil {
		return nil, err
	}

	var entry model.DecisionComment
	if decision == workflow.Approve {
		entry = a.ApprovalComments[len(a.ApprovalComments)-1]
	} else {
		entry = a.RejectionComments[len(a.RejectionComments)-1]
	}
	err = s.Repo.SaveTransition(ctx, a, expected, repository.Transition{Comments: []model.DecisionComment{entry}})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			monitoring.TransitionConflicts.Inc()
			return nil, fmt.Errorf("%w: association %s changed concurrently", workflow.ErrInvalidTransition, a.ID)
		}
		return nil, err
	}

	monitoring.DecisionCounter.WithLabelValues(string(from), string(decision)).Inc()
	logger.Log.Info("Decision recorded",
		zap.String("association_id", a.ID),
		zap.String("from", string(from)),
		zap.String("to", string(a.ApprovalStatus)),
		zap.String("role", string(actor.Role)),
		zap.Uint("actor_id", actor.ID),
	)
	s.notify(ctx, newEvent(a, string(decision), from, actor, s.now()))
	return a, nil
}

// RecordQuizResult applies a stored attempt to a claim. The attempt must
// belong to the claim's member and to the quiz gating its specialty.
func (s *AssociationService) RecordQuizResult(ctx context.Context, associationID, attemptID string) (a *model.SpecialtyAssociation, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssociationService.RecordQuizResult",
		attribute.String("association_id", associationID),
		attribute.String("attempt_id", attemptID))
	defer func() { tracing.End(span, err) }()

	a, err = s.Repo.FindByID(ctx, associationID)
	if err != nil {
		return nil, err
	}
	attempt, err := s.AttemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.MemberID != a.MemberID {
		return nil, fmt.Errorf("%w: attempt belongs to another member", util.ErrInvalidInput)
	}
	specialty, err := s.SpecialtyRepo.FindByID(ctx, a.SpecialtyID)
	if err != nil {
		return nil, err
	}
	if specialty.QuizID == nil || *specialty.QuizID != attempt.QuizID {
		return nil, fmt.Errorf("%w: attempt is not for this specialty's quiz", util.ErrInvalidInput)
	}

	if err := s.applyQuizGate(ctx, a, attempt); err != nil {
		return nil, err
	}
	return a, nil
}

// applyQuizGate records attempt on a and persists the change, if any. A lost
// race is harmless when the winner already set the flag.
func (s *AssociationService) applyQuizGate(ctx context.Context, a *model.SpecialtyAssociation, attempt *model.QuizAttempt) error {
	expected := a.Version
	from := a.ApprovalStatus
	if !workflow.RecordQuizResult(a, attempt) {
		return nil
	}
	workflow.Promote(a)

	if err := s.Repo.SaveTransition(ctx, a, expected, repository.Transition{}); err != nil {
		if !errors.Is(err, repository.ErrVersionConflict) {
			return err
		}
		fresh, ferr := s.Repo.FindByID(ctx, a.ID)
		if ferr != nil {
			return ferr
		}
		if fresh.IsQuizApproved {
			*a = *fresh
			return nil
		}
		monitoring.TransitionConflicts.Inc()
		return fmt.Errorf("%w: association %s changed concurrently", workflow.ErrInvalidTransition, a.ID)
	}

	logger.Log.Info("Quiz gate passed",
		zap.String("association_id", a.ID),
		zap.String("attempt_id", attempt.ID),
		zap.String("from", string(from)),
		zap.String("to", string(a.ApprovalStatus)),
	)
	s.notify(ctx, newEvent(a, "quiz", from, workflow.Actor{ID: attempt.MemberID, Role: model.Member}, s.now()))
	return nil
}

func (s *AssociationService) notify(ctx context.Context, ev WorkflowEvent) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(ctx, ev)
}
