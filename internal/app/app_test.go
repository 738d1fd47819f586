package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"pathfinder_backend/internal/config"
	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/util"
	"pathfinder_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSecret = "integration-secret-integration-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type APISuite struct {
	suite.Suite
	app       *App
	users     map[model.UserRole]*model.User
	quiz      *model.Quiz
	specialty *model.Specialty
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Database:  config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(s.T().TempDir(), "api.sqlite")},
		JWT:       config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		Quiz:      config.QuizConfig{QuestionSeconds: 30, CountdownSeconds: 3, DefaultPassRatio: 0.7},
	}
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.users = map[model.UserRole]*model.User{}
	for _, role := range []model.UserRole{model.Member, model.Counselor, model.Lead, model.Director, model.Admin} {
		u := &model.User{Name: "The " + string(role), Email: string(role) + "@club.test", Role: role}
		s.Require().NoError(db.Create(u).Error)
		s.users[role] = u
	}
	s.quiz = &model.Quiz{
		Title: "First aid",
		Questions: []model.QuizQuestion{
			{Content: "Pressure?", Order: 1, Answers: []model.QuizAnswer{{Content: "yes", IsCorrect: true}, {Content: "no"}}},
			{Content: "Call?", Order: 2, Answers: []model.QuizAnswer{{Content: "112", IsCorrect: true}, {Content: "nobody"}}},
		},
	}
	s.Require().NoError(db.Create(s.quiz).Error)
	s.specialty = &model.Specialty{Name: "First aid", Category: "health", QuizID: &s.quiz.ID}
	s.Require().NoError(db.Create(s.specialty).Error)

	gin.SetMode(gin.TestMode)
	s.app = &App{Config: cfg, DB: db}
	s.app.build(gin.New())
}

func (s *APISuite) TearDownTest() {
	s.app.Close(context.Background())
}

func (s *APISuite) token(role model.UserRole) string {
	tok, err := util.GenerateJWT(s.users[role], testSecret, time.Hour)
	s.Require().NoError(err)
	return tok
}

func (s *APISuite) call(role model.UserRole, method, path string, body interface{}) (int, envelope) {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			s.Require().NoError(json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(role))
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func (s *APISuite) createClaim() model.SpecialtyAssociation {
	code, env := s.call(model.Director, http.MethodPost, "/api/associations",
		map[string]uint{"memberId": s.users[model.Member].ID, "specialtyId": s.specialty.ID})
	s.Require().Equal(http.StatusCreated, code, env.Message)
	var a model.SpecialtyAssociation
	s.Require().NoError(json.Unmarshal(env.Data, &a))
	return a
}

func (s *APISuite) passQuiz() {
	answers := []map[string]uint{}
	for _, q := range s.quiz.Questions {
		answers = append(answers, map[string]uint{"questionId": q.ID, "answerId": q.Answers[0].ID})
	}
	code, env := s.call(model.Member, http.MethodPost, "/api/quiz-attempts", map[string]interface{}{
		"memberId": s.users[model.Member].ID,
		"quizId":   s.quiz.ID,
		"answers":  answers,
	})
	s.Require().Equal(http.StatusCreated, code, env.Message)
	var res struct {
		Status string `json:"status"`
		Score  int    `json:"score"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	s.Require().Equal("approved", res.Status)
	s.Require().Equal(2, res.Score)
}

func (s *APISuite) decisionPath(verb string) string {
	return fmt.Sprintf("/api/associations/%s/member/%d/specialty/%d", verb, s.users[model.Member].ID, s.specialty.ID)
}

func (s *APISuite) TestPublicEndpoints() {
	code, env := s.call("", http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, code)
	s.Contains(string(env.Data), `"database":"up"`)

	code, _ = s.call("", http.MethodGet, "/api/associations/x", nil)
	s.Equal(http.StatusUnauthorized, code)
}

func (s *APISuite) TestHappyPathOverHTTP() {
	claim := s.createClaim()
	s.Equal(model.StatusPending, claim.ApprovalStatus)

	reportPath := "/api/associations/" + claim.ID + "/report"
	code, _ := s.call(model.Member, http.MethodPut, reportPath, `{"report": ["I can do CPR", "2026-03-14T10:00:00Z"]}`)
	s.Equal(http.StatusPreconditionFailed, code)

	s.passQuiz()

	code, env := s.call(model.Member, http.MethodPut, reportPath, `{"report": ["I can do CPR", "2026-03-14T10:00:00Z"]}`)
	s.Require().Equal(http.StatusOK, code, env.Message)
	var a model.SpecialtyAssociation
	s.Require().NoError(json.Unmarshal(env.Data, &a))
	s.Equal(model.StatusWaitingByCounselor, a.ApprovalStatus)
	s.Require().Len(a.Reports, 1)
	s.WithinDuration(time.Now(), a.Reports[0].SubmittedAt, time.Minute)

	code, _ = s.call(model.Member, http.MethodPut, reportPath, `{"report": {"text": "second"}}`)
	s.Equal(http.StatusConflict, code)

	code, _ = s.call(model.Lead, http.MethodPut, s.decisionPath("approve"), `{"comment": ["early", "t", "Lead"]}`)
	s.Equal(http.StatusConflict, code)

	for _, role := range []model.UserRole{model.Counselor, model.Lead, model.Director} {
		body := fmt.Sprintf(`{"actorId": %d, "comment": ["ok", "t", "someone"]}`, s.users[role].ID)
		code, env = s.call(role, http.MethodPut, s.decisionPath("approve"), body)
		s.Require().Equal(http.StatusOK, code, env.Message)
	}
	s.Require().NoError(json.Unmarshal(env.Data, &a))
	s.Equal(model.StatusApproved, a.ApprovalStatus)
	s.Require().Len(a.ApprovalComments, 3)
	s.Equal("The director", a.ApprovalComments[2].ActorName)

	code, _ = s.call(model.Member, http.MethodDelete, "/api/associations/"+claim.ID, nil)
	s.Equal(http.StatusForbidden, code)
	code, _ = s.call(model.Admin, http.MethodDelete, "/api/associations/"+claim.ID, nil)
	s.Equal(http.StatusOK, code)
}

func (s *APISuite) TestDecisionGuards() {
	s.passQuiz()
	claim := s.createClaim()
	s.True(claim.IsQuizApproved)

	code, _ := s.call(model.Member, http.MethodPut, s.decisionPath("approve"), `{"comment": ["self", "t", "me"]}`)
	s.Equal(http.StatusForbidden, code)

	body := fmt.Sprintf(`{"actorId": %d, "comment": ["x", "t", "x"]}`, s.users[model.Lead].ID)
	code, _ = s.call(model.Counselor, http.MethodPut, s.decisionPath("reject"), body)
	s.Equal(http.StatusForbidden, code, "actorId must match the token")

	code, _ = s.call(model.Counselor, http.MethodPut, s.decisionPath("reject"), `{"comment": ["no report yet", "t", "c"]}`)
	s.Equal(http.StatusConflict, code)

	code, _ = s.call(model.Counselor, http.MethodPut, "/api/associations/reject/member/abc/specialty/1", `{}`)
	s.Equal(http.StatusBadRequest, code)
}

func (s *APISuite) TestReadEndpoints() {
	claim := s.createClaim()

	code, env := s.call(model.Member, http.MethodGet, "/api/associations/"+claim.ID+"/actions", nil)
	s.Require().Equal(http.StatusOK, code)
	var actions map[string]interface{}
	s.Require().NoError(json.Unmarshal(env.Data, &actions))
	s.Equal(false, actions["canSubmitReport"])
	s.Equal(true, actions["canDelete"])

	code, env = s.call(model.Member, http.MethodGet, fmt.Sprintf("/api/members/%d/associations", s.users[model.Member].ID), nil)
	s.Require().Equal(http.StatusOK, code)
	var list []model.SpecialtyAssociation
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.Len(list, 1)

	code, _ = s.call(model.Member, http.MethodGet, fmt.Sprintf("/api/members/%d/associations", s.users[model.Lead].ID), nil)
	s.Equal(http.StatusForbidden, code)

	code, env = s.call(model.Member, http.MethodGet, fmt.Sprintf("/api/quizzes/%d", s.quiz.ID), nil)
	s.Require().Equal(http.StatusOK, code)
	s.NotContains(string(env.Data), "isCorrect")
	s.NotContains(string(env.Data), "IsCorrect")

	code, _ = s.call(model.Lead, http.MethodGet, "/api/associations/does-not-exist", nil)
	s.Equal(http.StatusNotFound, code)

	code, _ = s.call(model.Director, http.MethodPost, "/api/associations",
		map[string]uint{"memberId": s.users[model.Member].ID, "specialtyId": s.specialty.ID})
	s.Equal(http.StatusConflict, code)

	code, _ = s.call(model.Counselor, http.MethodPost, "/api/associations",
		map[string]uint{"memberId": s.users[model.Member].ID, "specialtyId": s.specialty.ID})
	s.Equal(http.StatusForbidden, code)
}

func (s *APISuite) TestAttemptHistory() {
	s.passQuiz()
	member := s.users[model.Member].ID

	code, env := s.call(model.Member, http.MethodGet, fmt.Sprintf("/api/members/%d/quiz-attempts", member), nil)
	s.Require().Equal(http.StatusOK, code, env.Message)
	var list []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Score  int    `json:"score"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.Require().Len(list, 1)
	s.Equal("approved", list[0].Status)
	s.Equal(2, list[0].Score)

	code, env = s.call(model.Counselor, http.MethodGet, fmt.Sprintf("/api/members/%d/quiz-attempts?quizId=%d", member, s.quiz.ID+100), nil)
	s.Require().Equal(http.StatusOK, code)
	s.JSONEq(`[]`, string(env.Data))

	code, _ = s.call(model.Member, http.MethodGet, fmt.Sprintf("/api/members/%d/quiz-attempts", s.users[model.Lead].ID), nil)
	s.Equal(http.StatusForbidden, code)

	code, _ = s.call(model.Member, http.MethodGet, fmt.Sprintf("/api/members/%d/quiz-attempts?quizId=abc", member), nil)
	s.Equal(http.StatusBadRequest, code)

	code, env = s.call(model.Member, http.MethodGet, "/api/associations/"+s.createClaim().ID+"/actions", nil)
	s.Require().Equal(http.StatusOK, code)
	var actions map[string]interface{}
	s.Require().NoError(json.Unmarshal(env.Data, &actions))
	s.Equal(false, actions["rejected"])
}

func TestConfigCallbacksRun(t *testing.T) {
	a := &App{}
	var got *config.Config
	a.RegisterConfigCallback(func(c *config.Config) { got = c })
	cfg := &config.Config{Server: config.ServerConfig{Mode: "release"}}
	a.applyConfig(cfg)
	assert.Same(t, cfg, got)
	require.NotNil(t, got)
}
