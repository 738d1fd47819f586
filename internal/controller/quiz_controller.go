package controller

import (
	"time"

	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/service"
	"pathfinder_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	service *service.QuizAttemptService
}

func NewQuizController(s *service.QuizAttemptService) *QuizController {
	return &QuizController{service: s}
}

type AttemptAnswer struct {
	QuestionID uint `json:"questionId" binding:"required"`
	AnswerID   uint `json:"answerId"`
}

type SubmitAttemptRequest struct {
	MemberID uint            `json:"memberId" binding:"required"`
	QuizID   uint            `json:"quizId" binding:"required"`
	Answers  []AttemptAnswer `json:"answers" binding:"dive"`
}

type AttemptResult struct {
	ID             string              `json:"id"`
	Score          int                 `json:"score"`
	Total          int                 `json:"total"`
	Status         model.AttemptStatus `json:"status"`
	FailedAttempts int                 `json:"failedAttempts"`
	AttemptDate    time.Time           `json:"attemptDate"`
}

func toResult(a *model.QuizAttempt) AttemptResult {
	return AttemptResult{
		ID:             a.ID,
		Score:          a.Score,
		Total:          a.Total,
		Status:         a.Status,
		FailedAttempts: a.FailedAttempts,
		AttemptDate:    a.AttemptDate,
	}
}

// GetQuiz godoc
// @Summary Get a quiz with its questions
// @Description Answer correctness is not included.
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id, err := util.ParseID(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.service.Quiz(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// SubmitAttempt godoc
// @Summary Score a quiz attempt
// @Description A passing attempt marks the quiz prerequisite on the member's claims for specialties using this quiz.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SubmitAttemptRequest true "answers"
// @Success 201 {object} util.Response{data=AttemptResult}
// @Router /api/quiz-attempts [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answers := make([]model.QuizAttemptAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, model.QuizAttemptAnswer{QuestionID: a.QuestionID, AnswerID: a.AnswerID})
	}

	attempt, err := c.service.Submit(ctx.Request.Context(), actorFrom(user), req.MemberID, req.QuizID, answers)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, toResult(attempt))
}

// ListMemberAttempts godoc
// @Summary List a member's quiz attempts
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param memberId path int true "member id"
// @Param quizId query int false "only attempts of this quiz"
// @Success 200 {object} util.Response{data=[]AttemptResult}
// @Failure 403 {object} util.Response
// @Router /api/members/{memberId}/quiz-attempts [get]
func (c *QuizController) ListMemberAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	memberID, err := util.ParseID(ctx.Param("memberId"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	var quizID uint
	if raw := ctx.Query("quizId"); raw != "" {
		if quizID, err = util.ParseID(raw); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	attempts, err := c.service.History(ctx.Request.Context(), actorFrom(user), memberID, quizID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	out := make([]AttemptResult, 0, len(attempts))
	for i := range attempts {
		out = append(out, toResult(&attempts[i]))
	}
	util.Success(ctx, out)
}
