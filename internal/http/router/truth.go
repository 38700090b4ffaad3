package router

import (
	"github.com/gin-gonic/gin"

	"colloquy.app/server/internal/http/handler"
)

func TruthRouter(router *gin.RouterGroup, handler *handler.TruthHandler, adminOnly gin.HandlerFunc) {
	router.POST("/analyze", handler.Analyze)
	router.POST("/analyze-batch", handler.AnalyzeBatch)
	router.GET("/assessments", handler.GetAssessments)
	router.GET("/alerts", handler.ListAlerts)
	router.GET("/issues", handler.ListIssues)

	// Lifecycle actions are moderator operations.
	router.PUT("/alerts/:id", adminOnly, handler.AlertAction)
	router.PUT("/issues/:id", adminOnly, handler.IssueAction)
}
