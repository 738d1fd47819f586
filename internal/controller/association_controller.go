package controller

import (
	"pathfinder_backend/internal/model"
	"pathfinder_backend/internal/service"
	"pathfinder_backend/internal/util"
	"pathfinder_backend/internal/workflow"
	"pathfinder_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssociationController struct {
	service *service.AssociationService
	hub     *service.WorkflowHub
}

func NewAssociationController(s *service.AssociationService, hub *service.WorkflowHub) *AssociationController {
	return &AssociationController{service: s, hub: hub}
}

type CreateAssociationRequest struct {
	MemberID    uint `json:"memberId" binding:"required"`
	SpecialtyID uint `json:"specialtyId" binding:"required"`
}

type SubmitReportRequest struct {
	MemberID    uint          `json:"memberId"`
	SpecialtyID uint          `json:"specialtyId"`
	Report      ReportPayload `json:"report"`
}

type DecisionRequest struct {
	ActorID *uint          `json:"actorId"`
	Comment CommentPayload `json:"comment"`
}

type RecordQuizResultRequest struct {
	AttemptID string `json:"attemptId" binding:"required"`
}

func actorFrom(claims *util.Claims) workflow.Actor {
	return workflow.Actor{ID: claims.UserID, Name: claims.Name, Role: claims.Role}
}

// CreateAssociation godoc
// @Summary Open a specialty claim for a member
// @Tags associations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateAssociationRequest true "member and specialty"
// @Success 201 {object} util.Response{data=model.SpecialtyAssociation}
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/associations [post]
func (c *AssociationController) CreateAssociation(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateAssociationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.service.Create(ctx.Request.Context(), actorFrom(user), req.MemberID, req.SpecialtyID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// GetAssociation godoc
// @Summary Get a specialty claim
// @Tags associations
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "association id"
// @Success 200 {object} util.Response{data=model.SpecialtyAssociation}
// @Failure 404 {object} util.Response
// @Router /api/associations/{id} [get]
func (c *AssociationController) GetAssociation(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	a, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if user.Role == model.Member && a.MemberID != user.UserID {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, a)
}

// GetActions godoc
// @Summary Actions the caller may take on a claim
// @Tags associations
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "association id"
// @Success 200 {object} util.Response{data=service.Actions}
// @Router /api/associations/{id}/actions [get]
func (c *AssociationController) GetActions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	actions, err := c.service.Actions(ctx.Request.Context(), actorFrom(user), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, actions)
}

// ListMemberAssociations godoc
// @Summary List a member's specialty claims
// @Tags associations
// @Produce json
// @Security ApiKeyAuth
// @Param memberId path int true "member id"
// @Success 200 {object} util.Response{data=[]model.SpecialtyAssociation}
// @Router /api/members/{memberId}/associations [get]
func (c *AssociationController) ListMemberAssociations(ctx *gin.Context) {
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
	if user.Role == model.Member && memberID != user.UserID {
		util.Forbidden(ctx)
		return
	}

	list, err := c.service.ListByMember(ctx.Request.Context(), memberID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// DeleteAssociation godoc
// @Summary Delete a specialty claim
// @Description Admins may delete any claim; members may delete their own until it is approved.
// @Tags associations
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "association id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/associations/{id} [delete]
func (c *AssociationController) DeleteAssociation(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), actorFrom(user), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SubmitReport godoc
// @Summary Submit the member's report
// @Description report is [text, timestamp] or {"text": ...}. Requires a passed quiz.
// @Tags associations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "association id"
// @Param body body SubmitReportRequest true "report"
// @Success 200 {object} util.Response{data=model.SpecialtyAssociation}
// @Failure 409 {object} util.Response
// @Failure 412 {object} util.Response
// @Router /api/associations/{id}/report [put]
func (c *AssociationController) SubmitReport(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := ctx.Param("id")
	if req.MemberID != 0 || req.SpecialtyID != 0 {
		current, err := c.service.Get(ctx.Request.Context(), id)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		if (req.MemberID != 0 && req.MemberID != current.MemberID) ||
			(req.SpecialtyID != 0 && req.SpecialtyID != current.SpecialtyID) {
			util.BadRequest(ctx, "memberId/specialtyId do not match the association")
			return
		}
	}
	if len(req.Report.ClientTimestamp) > 0 {
		logger.Log.Debug("Client report timestamp ignored",
			zap.String("association_id", id),
			zap.ByteString("client_timestamp", req.Report.ClientTimestamp))
	}

	a, err := c.service.SubmitReport(ctx.Request.Context(), actorFrom(user), id, req.Report.Text)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// Approve godoc
// @Summary Approve the current stage of a claim
// @Tags associations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param memberId path int true "member id"
// @Param specialtyId path int true "specialty id"
// @Param body body DecisionRequest true "comment as [text, timestamp, actorName]"
// @Success 200 {object} util.Response{data=model.SpecialtyAssociation}
// @Failure 409 {object} util.Response
// @Router /api/associations/approve/member/{memberId}/specialty/{specialtyId} [put]
func (c *AssociationController) Approve(ctx *gin.Context) {
	c.decide(ctx, workflow.Approve)
}

// Reject godoc
// @Summary Reject a claim at its current stage
// @Tags associations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param memberId path int true "member id"
// @Param specialtyId path int true "specialty id"
// @Param body body DecisionRequest true "comment as [text, timestamp, actorName]"
// @Success 200 {object} util.Response{data=model.SpecialtyAssociation}
// @Failure 409 {object} util.Response
// @Router /api/associations/reject/member/{memberId}/specialty/{specialtyId} [put]
func (c *AssociationController) Reject(ctx *gin.Context) {
	c.decide(ctx, workflow.Reject)
}

func (c *AssociationController) decide(ctx *gin.Context, decision workflow.Decision) {
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
	specialtyID, err := util.ParseID(ctx.Param("specialtyId"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var req DecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	// the role comes from the token; a body naming someone else is refused
	if req.ActorID != nil && *req.ActorID != user.UserID {
		util.Forbidden(ctx)
		return
	}

	actor := actorFrom(user)
	if actor.Name == "" {
		actor.Name = req.Comment.ActorName
	}

	a, err := c.service.Decide(ctx.Request.Context(), actor, memberID, specialtyID, decision, req.Comment.Text)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// RecordQuizResult godoc
// @Summary Apply a stored quiz attempt to a claim
// @Tags associations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "association id"
// @Param body body RecordQuizResultRequest true "attempt"
// @Success 200 {object} util.Response{data=model.SpecialtyAssociation}
// @Router /api/associations/{id}/quiz-result [put]
func (c *AssociationController) RecordQuizResult(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RecordQuizResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := ctx.Param("id")
	if user.Role == model.Member {
		current, err := c.service.Get(ctx.Request.Context(), id)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		if current.MemberID != user.UserID {
			util.Forbidden(ctx)
			return
		}
	}

	a, err := c.service.RecordQuizResult(ctx.Request.Context(), id, req.AttemptID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// Events godoc
// @Summary Stream workflow events over a websocket
// @Description Members receive events for their own claims; staff receive all.
// @Tags associations
// @Security ApiKeyAuth
// @Param token query string false "bearer token when headers cannot be set"
// @Success 101
// @Router /api/events [get]
func (c *AssociationController) Events(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.hub.Serve(ctx.Writer, ctx.Request, user.UserID, user.Role); err != nil {
		logger.Log.Warn("Event stream upgrade failed", zap.Error(err), zap.Uint("user_id", user.UserID))
	}
}
