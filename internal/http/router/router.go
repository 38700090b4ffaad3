package router

import (
	"github.com/gin-gonic/gin"

	"colloquy.app/server/internal/http/handler"
	"colloquy.app/server/internal/http/middleware"
	"colloquy.app/server/internal/service"
)

// RouterConfig carries deployment settings into route setup.
type RouterConfig struct {
	AdminAPIKey string
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	adminOnly := middleware.RequireAdminAPIKey(cfg.AdminAPIKey)

	v1 := router.Group("/api/v1")
	{
		participantHandler := handler.NewParticipantHandler(services.Participants())
		ParticipantRouter(v1.Group("/participants"), participantHandler)

		conversationHandler := handler.NewConversationHandler(services.Conversations())
		ConversationRouter(v1.Group("/conversations"), conversationHandler, adminOnly)

		roundTableHandler := handler.NewRoundTableHandler(services.Scheduler())
		RoundTableRouter(v1.Group("/roundtables"), roundTableHandler)

		truthHandler := handler.NewTruthHandler(services.Analysis(), services.Assessments(), services.Lifecycle())
		TruthRouter(v1.Group("/truth"), truthHandler, adminOnly)
	}
}
