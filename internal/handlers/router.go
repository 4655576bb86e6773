package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hirelens/assessment-service/internal/services"
	"github.com/hirelens/assessment-service/internal/utils"
)

type HandlerManager struct {
	jobHandler         *JobHandler
	sessionHandler     *SessionHandler
	leaderboardHandler *LeaderboardHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		jobHandler:         NewJobHandler(serviceManager.Job(), validator, logger),
		sessionHandler:     NewSessionHandler(serviceManager.Session(), serviceManager.Scoring(), validator, logger),
		leaderboardHandler: NewLeaderboardHandler(serviceManager.Leaderboard(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Job routes
		jobs := v1.Group("/jobs")
		{
			jobs.POST("", hm.jobHandler.CreateJob)
			jobs.GET("", hm.jobHandler.ListJobs)
			jobs.GET("/:id", hm.jobHandler.GetJob)
			jobs.GET("/:id/questions", hm.jobHandler.GetJobQuestions)

			jobs.GET("/:id/leaderboard", hm.leaderboardHandler.GetLeaderboard)
			jobs.GET("/:id/leaderboard/export", hm.leaderboardHandler.ExportLeaderboard)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.GET("/:id/questions", hm.sessionHandler.GetSessionQuestions)
			sessions.PUT("/:id/answers", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/complete", hm.sessionHandler.CompleteSession)
			sessions.GET("/:id/progress", hm.sessionHandler.GetSessionProgress)
			sessions.GET("/:id/results", hm.sessionHandler.GetSessionResults)
			sessions.POST("/:id/rescore", hm.sessionHandler.RescoreSession)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "assessment-service",
		})
	})
}
