package router

import (
	"github.com/gin-gonic/gin"

	"colloquy.app/server/internal/http/handler"
)

func ParticipantRouter(router *gin.RouterGroup, handler *handler.ParticipantHandler) {
	router.GET("", handler.List)
	router.GET("/:id", handler.Get)
}
