package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/quizsession"
	"pathfinder_backend/internal/util"
	"pathfinder_backend/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newServer(t *testing.T, register func(r *gin.Engine)) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	c := New(srv.URL+"/api/", "tok")
	c.Now = func() time.Time { return fixed }
	return c
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status  int
		message string
		want    error
	}{
		{http.StatusConflict, "report already submitted", workflow.ErrAlreadySubmitted},
		{http.StatusConflict, "association already exists", util.ErrDuplicate},
		{http.StatusConflict, "invalid transition: role lead cannot decide", workflow.ErrInvalidTransition},
		{http.StatusPreconditionFailed, "precondition failed", workflow.ErrPreconditionFailed},
		{http.StatusNotFound, "association x: not found", util.ErrNotFound},
		{http.StatusForbidden, "Forbidden", util.ErrPermissionDenied},
		{http.StatusBadRequest, "report text is empty", workflow.ErrEmptyReport},
		{http.StatusBadRequest, "bad id", util.ErrInvalidInput},
		{http.StatusUnauthorized, "Unauthorized", ErrUnauthorized},
	}
	for _, tc := range cases {
		c := newServer(t, func(r *gin.Engine) {
			r.GET("/api/associations/:id", func(ctx *gin.Context) {
				util.Error(ctx, tc.status, tc.message)
			})
		})
		_, err := c.GetAssociation(context.Background(), "x")
		assert.ErrorIs(t, err, tc.want, tc.message)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, tc.status, apiErr.Status)
	}
}

func TestUnexpectedStatusHasNoSentinel(t *testing.T) {
	c := newServer(t, func(r *gin.Engine) {
		r.DELETE("/api/associations/:id", func(ctx *gin.Context) { util.InternalServerError(ctx) })
	})
	err := c.DeleteAssociation(context.Background(), "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Nil(t, apiErr.Unwrap())
}

func TestDecisionSendsPositionalComment(t *testing.T) {
	var got map[string]json.RawMessage
	var path, auth string
	c := newServer(t, func(r *gin.Engine) {
		r.PUT("/api/associations/:verb/member/:memberId/specialty/:specialtyId", func(ctx *gin.Context) {
			path = ctx.Request.URL.Path
			auth = ctx.GetHeader("Authorization")
			require.NoError(t, ctx.ShouldBindJSON(&got))
			util.Success(ctx, model.SpecialtyAssociation{ApprovalStatus: model.StatusWaitingByLead})
		})
	})

	a, err := c.Approve(context.Background(), workflow.Actor{ID: 3, Name: "Ana"}, 7, 2, "well done")
	require.NoError(t, err)
	assert.Equal(t, model.StatusWaitingByLead, a.ApprovalStatus)
	assert.Equal(t, "/api/associations/approve/member/7/specialty/2", path)
	assert.Equal(t, "Bearer tok", auth)
	assert.JSONEq(t, `3`, string(got["actorId"]))
	assert.JSONEq(t, `["well done", "2026-03-14T10:00:00Z", "Ana"]`, string(got["comment"]))
}

func TestSubmitReportSendsTuple(t *testing.T) {
	var got map[string]json.RawMessage
	c := newServer(t, func(r *gin.Engine) {
		r.PUT("/api/associations/:id/report", func(ctx *gin.Context) {
			require.NoError(t, ctx.ShouldBindJSON(&got))
			util.Success(ctx, model.SpecialtyAssociation{
				MemberID:       7,
				ApprovalStatus: model.StatusWaitingByCounselor,
				Reports:        []model.ReportEntry{{Text: "done", SubmittedAt: fixed}},
			})
		})
	})

	a, err := c.SubmitReport(context.Background(), "abc", 7, 2, "done")
	require.NoError(t, err)
	require.Len(t, a.Reports, 1)
	assert.Equal(t, "done", a.Reports[0].Text)
	assert.JSONEq(t, `["done", "2026-03-14T10:00:00Z"]`, string(got["report"]))
}

func TestClientDrivesQuizSession(t *testing.T) {
	var submitted struct {
		MemberID uint `json:"memberId"`
		QuizID   uint `json:"quizId"`
		Answers  []struct {
			QuestionID uint `json:"questionId"`
			AnswerID   uint `json:"answerId"`
		} `json:"answers"`
	}
	c := newServer(t, func(r *gin.Engine) {
		r.GET("/api/quizzes/:id", func(ctx *gin.Context) {
			util.Success(ctx, model.Quiz{
				BaseModel: model.BaseModel{ID: 4},
				Questions: []model.QuizQuestion{
					{BaseModel: model.BaseModel{ID: 1}, Answers: []model.QuizAnswer{{BaseModel: model.BaseModel{ID: 10}}}},
				},
			})
		})
		r.POST("/api/quiz-attempts", func(ctx *gin.Context) {
			require.NoError(t, ctx.ShouldBindJSON(&submitted))
			util.Created(ctx, gin.H{"id": "att-1", "score": 1, "total": 1, "status": "approved", "failedAttempts": 0})
		})
	})

	ctx := context.Background()
	quiz, err := c.GetQuiz(ctx, 4)
	require.NoError(t, err)

	s := quizsession.New(c, 7, quiz.ID, quizsession.QuestionsFrom(quiz), quizsession.Options{QuestionTicks: 30})
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Select(10))
	require.NoError(t, s.Confirm(ctx))

	st := s.State()
	require.Equal(t, quizsession.PhaseResult, st.Phase)
	assert.Equal(t, "att-1", st.Result.ID)
	assert.True(t, st.Result.Passed())
	assert.Equal(t, uint(7), submitted.MemberID)
	require.Len(t, submitted.Answers, 1)
	assert.Equal(t, uint(10), submitted.Answers[0].AnswerID)
}

func TestListMemberAttemptsFiltersByQuiz(t *testing.T) {
	var queries []string
	c := newServer(t, func(r *gin.Engine) {
		r.GET("/api/members/:memberId/quiz-attempts", func(ctx *gin.Context) {
			queries = append(queries, ctx.Query("quizId"))
			util.Success(ctx, []gin.H{{"id": "a1", "score": 2, "total": 3, "status": "failed", "failedAttempts": 1}})
		})
	})

	list, err := c.ListMemberAttempts(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(7), list[0].MemberID)
	assert.Equal(t, model.AttemptFailed, list[0].Status)
	assert.False(t, list[0].Passed())

	_, err = c.ListMemberAttempts(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "3"}, queries)
}
