package app

import (
	"pathfinder_backend/docs"
	"pathfinder_backend/internal/config"
	"pathfinder_backend/internal/middleware"
	"pathfinder_backend/internal/model"
	"pathfinder_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerAssociationRoutes(authGroup, c)
		a.registerQuizRoutes(authGroup, c)
		authGroup.GET("/events", c.association.Events)
	}
}

func (a *App) registerAssociationRoutes(group *gin.RouterGroup, c *controllers) {
	associations := group.Group("/associations")
	{
		associations.POST("", middleware.RoleMiddleware(model.Director, model.Lead), c.association.CreateAssociation)
		associations.GET("/:id", c.association.GetAssociation)
		associations.GET("/:id/actions", c.association.GetActions)
		associations.DELETE("/:id", c.association.DeleteAssociation)
		associations.PUT("/:id/report", c.association.SubmitReport)
		associations.PUT("/:id/quiz-result", c.association.RecordQuizResult)

		staff := associations.Group("")
		staff.Use(middleware.RoleMiddleware(model.Counselor, model.Lead, model.Director))
		{
			staff.PUT("/approve/member/:memberId/specialty/:specialtyId", c.association.Approve)
			staff.PUT("/reject/member/:memberId/specialty/:specialtyId", c.association.Reject)
		}
	}

	group.GET("/members/:memberId/associations", c.association.ListMemberAssociations)
}

func (a *App) registerQuizRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/quizzes/:id", c.quiz.GetQuiz)
	group.POST("/quiz-attempts", c.quiz.SubmitAttempt)
	group.GET("/members/:memberId/quiz-attempts", c.quiz.ListMemberAttempts)
}
