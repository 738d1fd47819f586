package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/repository"
	"pathfinder_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var clock = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []WorkflowEvent
}

func (n *recordingNotifier) Notify(_ context.Context, ev WorkflowEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Action)
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	assoc     *AssociationService
	attempts  *QuizAttemptService
	notifier  *recordingNotifier
	member    *model.User
	counselor *model.User
	lead      *model.User
	director  *model.User
	admin     *model.User
	quiz      *model.Quiz
	specialty *model.Specialty
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "service.sqlite")
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(dsn)), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection serialises writers the way a row lock would
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	f := &fixture{db: db, notifier: &recordingNotifier{}}
	users := []**model.User{&f.member, &f.counselor, &f.lead, &f.director, &f.admin}
	roles := []model.UserRole{model.Member, model.Counselor, model.Lead, model.Director, model.Admin}
	for i, role := range roles {
		u := &model.User{Name: string(role) + " user", Email: string(role) + "@club.test", Role: role}
		require.NoError(t, db.Create(u).Error)
		*users[i] = u
	}

	f.quiz = &model.Quiz{
		Title: "Knots",
		Questions: []model.QuizQuestion{
			{Content: "q1", Order: 1, Answers: []model.QuizAnswer{{Content: "right", IsCorrect: true}, {Content: "wrong"}}},
			{Content: "q2", Order: 2, Answers: []model.QuizAnswer{{Content: "right", IsCorrect: true}, {Content: "wrong"}}},
			{Content: "q3", Order: 3, Answers: []model.QuizAnswer{{Content: "right", IsCorrect: true}, {Content: "wrong"}}},
		},
	}
	require.NoError(t, db.Create(f.quiz).Error)
	f.specialty = &model.Specialty{Name: "Knots", Category: "camping", QuizID: &f.quiz.ID}
	require.NoError(t, db.Create(f.specialty).Error)

	assocRepo := repository.NewAssociationRepository(db)
	attemptRepo := repository.NewQuizAttemptRepository(db)
	f.assoc = NewAssociationService(
		assocRepo,
		repository.NewUserRepository(db),
		repository.NewSpecialtyRepository(db),
		attemptRepo,
		f.notifier,
	)
	f.assoc.Now = func() time.Time { return clock }
	f.attempts = NewQuizAttemptService(repository.NewQuizRepository(db), attemptRepo, assocRepo, f.assoc, 0.7)
	f.attempts.Now = func() time.Time { return clock }
	return f
}

// answers picks the correct answer for the first n questions and a wrong one
// for the rest.
func (f *fixture) answers(n int) []model.QuizAttemptAnswer {
	var out []model.QuizAttemptAnswer
	for i, q := range f.quiz.Questions {
		pick := q.Answers[1]
		if i < n {
			pick = q.Answers[0]
		}
		out = append(out, model.QuizAttemptAnswer{QuestionID: q.ID, AnswerID: pick.ID})
	}
	return out
}
