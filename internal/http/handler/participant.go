package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"colloquy.app/server/internal/service"
)

type ParticipantHandler struct {
	service service.ParticipantService
}

func NewParticipantHandler(service service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{service: service}
}

func (h *ParticipantHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	participant, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "fetch participant")
		return
	}
	c.JSON(http.StatusOK, participant)
}

func (h *ParticipantHandler) List(c *gin.Context) {
	participants, err := h.service.ListActive(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeServiceError(c, err, "list participants")
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": participants})
}
