package router

import (
	"github.com/gin-gonic/gin"

	"colloquy.app/server/internal/http/handler"
)

func RoundTableRouter(router *gin.RouterGroup, handler *handler.RoundTableHandler) {
	router.GET("/:id/speaker", handler.CurrentSpeaker)
	router.POST("/:id/advance", handler.Advance)
}
