package router

import (
	"github.com/gin-gonic/gin"

	"colloquy.app/server/internal/http/handler"
)

func ConversationRouter(router *gin.RouterGroup, handler *handler.ConversationHandler, adminOnly gin.HandlerFunc) {
	router.POST("", handler.Create)
	router.GET("/:id", handler.Get)
	router.POST("/:id/messages", handler.PostMessage)
	router.GET("/:id/messages", handler.ListMessages)

	// Archival is a moderator operation.
	router.POST("/:id/archive", adminOnly, handler.Archive)
	router.POST("/:id/unarchive", adminOnly, handler.Unarchive)
}
