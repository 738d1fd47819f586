package service

import (
	"context"
	"fmt"
	"math"
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

// Scorer grades submitted answers against a quiz. It marks each answer's
// IsCorrect and returns the number of correct answers and the question count.
type Scorer interface {
	Score(quiz *model.Quiz, answers []model.QuizAttemptAnswer) (score, total int)
}

// CorrectAnswerScorer gives one point per question answered with one of its
// correct answers. Only the first answer per question counts; answers for
// questions outside the quiz are ignored.
type CorrectAnswerScorer struct{}

func (CorrectAnswerScorer) Score(quiz *model.Quiz, answers []model.QuizAttemptAnswer) (int, int) {
	correct := make(map[uint]map[uint]bool, len(quiz.Questions))
	for _, q := range quiz.Questions {
		set := make(map[uint]bool)
		for _, a := range q.Answers {
			if a.IsCorrect {
				set[a.ID] = true
			}
		}
		correct[q.ID] = set
	}

	score := 0
	seen := make(map[uint]bool, len(answers))
	for i := range answers {
		ans := &answers[i]
		set, ok := correct[ans.QuestionID]
		if !ok || seen[ans.QuestionID] {
			continue
		}
		seen[ans.QuestionID] = true
		if set[ans.AnswerID] {
			ans.IsCorrect = true
			score++
		}
	}
	return score, len(quiz.Questions)
}

type QuizAttemptService struct {
	QuizRepo         *repository.QuizRepository
	AttemptRepo      *repository.QuizAttemptRepository
	AssociationRepo  *repository.AssociationRepository
	Associations     *AssociationService
	Scorer           Scorer
	DefaultPassRatio float64
	Now              func() time.Time
}

func NewQuizAttemptService(
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.QuizAttemptRepository,
	associationRepo *repository.AssociationRepository,
	associations *AssociationService,
	defaultPassRatio float64,
) *QuizAttemptService {
	return &QuizAttemptService{
		QuizRepo:         quizRepo,
		AttemptRepo:      attemptRepo,
		AssociationRepo:  associationRepo,
		Associations:     associations,
		Scorer:           CorrectAnswerScorer{},
		DefaultPassRatio: defaultPassRatio,
		Now:              time.Now,
	}
}

// Quiz returns the quiz with its questions. Answer correctness is never
// serialised.
func (s *QuizAttemptService) Quiz(ctx context.Context, id uint) (*model.Quiz, error) {
	return s.QuizRepo.FindWithQuestions(ctx, id)
}

// History lists a member's scored attempts. Members only see their own.
func (s *QuizAttemptService) History(ctx context.Context, actor workflow.Actor, memberID, quizID uint) ([]model.QuizAttempt, error) {
	if actor.Role == model.Member && actor.ID != memberID {
		return nil, fmt.Errorf("%w: attempts of another member", util.ErrPermissionDenied)
	}
	return s.AttemptRepo.ListByMember(ctx, memberID, quizID)
}

// PassMark is the minimum score that passes quiz. It is never below one, so
// a pass always needs at least one correct answer.
func (s *QuizAttemptService) PassMark(quiz *model.Quiz) int {
	mark := quiz.PassingScore
	if mark <= 0 {
		mark = int(math.Ceil(float64(len(quiz.Questions)) * s.DefaultPassRatio))
	}
	if mark < 1 {
		return 1
	}
	return mark
}

// Submit scores and stores an attempt, then applies the quiz gate to every
// active claim of the member whose specialty uses this quiz.
func (s *QuizAttemptService) Submit(ctx context.Context, actor workflow.Actor, memberID, quizID uint, answers []model.QuizAttemptAnswer) (attempt *model.QuizAttempt, err error) {
	ctx, span := tracing.StartSpan(ctx, "QuizAttemptService.Submit",
		attribute.Int64("member_id", int64(memberID)),
		attribute.Int64("quiz_id", int64(quizID)))
	defer func() { tracing.End(span, err) }()

	if actor.Role != model.Admin && actor.ID != memberID {
		return nil, fmt.Errorf("%w: attempts are submitted by the member", util.ErrPermissionDenied)
	}
	quiz, err := s.QuizRepo.FindWithQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz %d has no questions", util.ErrInvalidInput, quizID)
	}

	score, total := s.Scorer.Score(quiz, answers)
	status := model.AttemptFailed
	if score >= s.PassMark(quiz) {
		status = model.AttemptApproved
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	attempt = &model.QuizAttempt{
		MemberID:    memberID,
		QuizID:      quizID,
		Score:       score,
		Total:       total,
		Status:      status,
		AttemptDate: now(),
		Answers:     answers,
	}
	if err := s.AttemptRepo.CreateScored(ctx, attempt); err != nil {
		return nil, err
	}

	monitoring.QuizAttemptCounter.WithLabelValues(string(status)).Inc()
	logger.Log.Info("Quiz attempt scored",
		zap.String("attempt_id", attempt.ID),
		zap.Uint("member_id", memberID),
		zap.Uint("quiz_id", quizID),
		zap.Int("score", score),
		zap.Int("total", total),
		zap.String("status", string(status)),
	)

	if attempt.Passed() {
		s.applyToClaims(ctx, attempt)
	}
	return attempt, nil
}

// applyToClaims is best effort: the attempt is already stored and the gate can
// be replayed through AssociationService.RecordQuizResult.
func (s *QuizAttemptService) applyToClaims(ctx context.Context, attempt *model.QuizAttempt) {
	claims, err := s.AssociationRepo.ListByMemberAndQuiz(ctx, attempt.MemberID, attempt.QuizID)
	if err != nil {
		logger.Log.Warn("Cannot list claims for quiz gate", zap.Error(err), zap.String("attempt_id", attempt.ID))
		return
	}
	for i := range claims {
		if err := s.Associations.applyQuizGate(ctx, &claims[i], attempt); err != nil {
			logger.Log.Warn("Quiz gate not applied",
				zap.Error(err),
				zap.String("association_id", claims[i].ID),
				zap.String("attempt_id", attempt.ID),
			)
		}
	}
}
