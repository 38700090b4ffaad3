package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"colloquy.app/server/internal/http/dto"
	"colloquy.app/server/internal/service"
)

type RoundTableHandler struct {
	scheduler service.SchedulerService
}

func NewRoundTableHandler(scheduler service.SchedulerService) *RoundTableHandler {
	return &RoundTableHandler{scheduler: scheduler}
}

func (h *RoundTableHandler) CurrentSpeaker(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	state, err := h.scheduler.CurrentSpeaker(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "fetch current speaker")
		return
	}
	c.JSON(http.StatusOK, dto.SpeakerStateFromService(state))
}

func (h *RoundTableHandler) Advance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	state, err := h.scheduler.Advance(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "advance speaker")
		return
	}
	c.JSON(http.StatusOK, dto.SpeakerStateFromService(state))
}
