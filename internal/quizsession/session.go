// Package quizsession runs a timed quiz attempt on the client side: a short
// countdown, one time budget per question, a select-then-confirm answer step
// and exactly one submission at the end.
package quizsession

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pathfinder_backend/internal/config"
	"pathfinder_backend/internal/model"
	"pathfinder_backend/pkg/logger"

	"go.uber.org/zap"
)

type Phase string

const (
	PhaseIntro      Phase = "intro"
	PhaseCountdown  Phase = "countdown"
	PhaseAnswering  Phase = "answering"
	PhaseConfirming Phase = "confirming"
	PhaseSubmitting Phase = "submitting"
	PhaseResult     Phase = "result"
)

var (
	ErrWrongPhase    = errors.New("action not allowed in current phase")
	ErrUnknownAnswer = errors.New("answer does not belong to the current question")
	ErrNotRetryable  = errors.New("no failed submission to retry")
	ErrRetryUsed     = errors.New("submission already retried; start a new session")
)

// Submitter sends the collected answers and returns the scored attempt.
type Submitter interface {
	SubmitAttempt(ctx context.Context, memberID, quizID uint, answers []model.QuizAttemptAnswer) (*model.QuizAttempt, error)
}

type Question struct {
	ID      uint
	Answers []uint
}

// QuestionsFrom keeps the quiz's question order.
func QuestionsFrom(quiz *model.Quiz) []Question {
	out := make([]Question, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		ids := make([]uint, 0, len(q.Answers))
		for _, a := range q.Answers {
			ids = append(ids, a.ID)
		}
		out = append(out, Question{ID: q.ID, Answers: ids})
	}
	return out
}

// Options are counted in ticks; Run maps one tick to its interval.
type Options struct {
	QuestionTicks  int
	CountdownTicks int
}

func OptionsFrom(cfg config.QuizConfig) Options {
	return Options{QuestionTicks: cfg.QuestionSeconds, CountdownTicks: cfg.CountdownSeconds}
}

// State is a copy of the session's observable state.
type State struct {
	Phase     Phase
	Index     int
	Remaining int
	Selected  uint
	Answered  int
	Err       error
	CanRetry  bool
	Result    *model.QuizAttempt
}

type Session struct {
	mu        sync.Mutex
	submitter Submitter
	memberID  uint
	quizID    uint
	questions []Question
	opts      Options

	phase     Phase
	index     int
	remaining int
	pending   uint
	hasPend   bool
	answers   map[uint]uint

	inFlight bool
	retried  bool
	lastErr  error
	result   *model.QuizAttempt

	restart chan struct{}
	done    chan struct{}
}

func New(submitter Submitter, memberID, quizID uint, questions []Question, opts Options) *Session {
	if opts.QuestionTicks <= 0 {
		opts.QuestionTicks = 30
	}
	if opts.CountdownTicks < 0 {
		opts.CountdownTicks = 0
	}
	return &Session{
		submitter: submitter,
		memberID:  memberID,
		quizID:    quizID,
		questions: questions,
		opts:      opts,
		phase:     PhaseIntro,
		answers:   make(map[uint]uint, len(questions)),
		restart:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Phase:     s.phase,
		Index:     s.index,
		Remaining: s.remaining,
		Answered:  len(s.answers),
		Err:       s.lastErr,
		CanRetry:  s.phase == PhaseSubmitting && !s.inFlight && s.lastErr != nil && !s.retried,
		Result:    s.result,
	}
	if s.hasPend {
		st.Selected = s.pending
	}
	return st
}

// Done is closed once a submission succeeded.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Start leaves the intro and begins the countdown. Questions start directly
// when there is no countdown.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseIntro {
		s.mu.Unlock()
		return fmt.Errorf("%w: start from %s", ErrWrongPhase, s.phase)
	}
	s.phase = PhaseCountdown
	s.remaining = s.opts.CountdownTicks
	s.signalRestart()
	fire := false
	if s.remaining == 0 {
		fire = s.enterQuestion(0)
	}
	s.mu.Unlock()
	return s.maybeSubmit(ctx, fire)
}

// Tick advances whichever countdown is live by one unit. Phases without a
// countdown ignore it.
func (s *Session) Tick(ctx context.Context) error {
	s.mu.Lock()
	fire := false
	switch s.phase {
	case PhaseCountdown:
		s.remaining--
		if s.remaining <= 0 {
			fire = s.enterQuestion(0)
		}
	case PhaseAnswering, PhaseConfirming:
		s.remaining--
		if s.remaining <= 0 {
			// a selection that was never confirmed still counts
			if s.hasPend {
				s.answers[s.questions[s.index].ID] = s.pending
			}
			fire = s.enterQuestion(s.index + 1)
		}
	}
	s.mu.Unlock()
	return s.maybeSubmit(ctx, fire)
}

func (s *Session) Select(answerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseAnswering && s.phase != PhaseConfirming {
		return fmt.Errorf("%w: select in %s", ErrWrongPhase, s.phase)
	}
	if !contains(s.questions[s.index].Answers, answerID) {
		return ErrUnknownAnswer
	}
	s.pending = answerID
	s.hasPend = true
	s.phase = PhaseConfirming
	return nil
}

func (s *Session) Unselect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseConfirming {
		return fmt.Errorf("%w: unselect in %s", ErrWrongPhase, s.phase)
	}
	s.hasPend = false
	s.pending = 0
	s.phase = PhaseAnswering
	return nil
}

// Confirm records the selected answer and moves on. Confirming the last
// question submits.
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseConfirming {
		s.mu.Unlock()
		return fmt.Errorf("%w: confirm in %s", ErrWrongPhase, s.phase)
	}
	s.answers[s.questions[s.index].ID] = s.pending
	fire := s.enterQuestion(s.index + 1)
	s.mu.Unlock()
	return s.maybeSubmit(ctx, fire)
}

// Retry resubmits after a failed submission. A session gets one retry; when
// that fails too the attempt has to be taken again in a new session.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseSubmitting || s.inFlight || s.lastErr == nil {
		s.mu.Unlock()
		return ErrNotRetryable
	}
	if s.retried {
		s.mu.Unlock()
		return ErrRetryUsed
	}
	s.retried = true
	s.inFlight = true
	s.lastErr = nil
	s.mu.Unlock()
	return s.submit(ctx)
}

// Run drives Tick from a single ticker until the attempt is submitted, a
// submission fails or ctx ends. The ticker is reset whenever a question
// starts so every question gets its full budget.
func (s *Session) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-s.restart:
			ticker.Reset(interval)
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

// enterQuestion moves to question i, or to submitting past the last one. It
// reports whether the caller must fire the submission. Callers hold mu.
func (s *Session) enterQuestion(i int) bool {
	s.hasPend = false
	s.pending = 0
	if i >= len(s.questions) {
		s.phase = PhaseSubmitting
		s.remaining = 0
		if s.inFlight || s.result != nil {
			return false
		}
		s.inFlight = true
		return true
	}
	s.phase = PhaseAnswering
	s.index = i
	s.remaining = s.opts.QuestionTicks
	s.signalRestart()
	return false
}

func (s *Session) signalRestart() {
	select {
	case s.restart <- struct{}{}:
	default:
	}
}

func (s *Session) maybeSubmit(ctx context.Context, fire bool) error {
	if !fire {
		return nil
	}
	return s.submit(ctx)
}

func (s *Session) submit(ctx context.Context) error {
	s.mu.Lock()
	answers := make([]model.QuizAttemptAnswer, 0, len(s.answers))
	for _, q := range s.questions {
		if a, ok := s.answers[q.ID]; ok {
			answers = append(answers, model.QuizAttemptAnswer{QuestionID: q.ID, AnswerID: a})
		}
	}
	s.mu.Unlock()

	res, err := s.submitter.SubmitAttempt(ctx, s.memberID, s.quizID, answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.lastErr = err
		logger.Log.Warn("Quiz submission failed",
			zap.Error(err),
			zap.Uint("member_id", s.memberID),
			zap.Uint("quiz_id", s.quizID))
		return err
	}
	s.result = res
	s.phase = PhaseResult
	close(s.done)
	return nil
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
