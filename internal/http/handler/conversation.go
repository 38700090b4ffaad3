package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"colloquy.app/server/internal/http/dto"
	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/service"
)

type ConversationHandler struct {
	service service.ConversationService
}

func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

func (h *ConversationHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid create conversation request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := service.CreateConversationParams{
		Title:             req.Title,
		TruthCheckEnabled: req.TruthCheckEnabled,
		TruthCheckConfig:  req.TruthCheckConfig,
	}
	if req.RoundTable != nil {
		params.RoundTable = &service.RoundTableParams{
			MaxParticipants: req.RoundTable.MaxParticipants,
			ModerationStyle: req.RoundTable.ModerationStyle,
		}
		for _, seat := range req.RoundTable.Seats {
			params.RoundTable.Seats = append(params.RoundTable.Seats, service.RoundTableSeat{
				ParticipantID: seat.ParticipantID,
			})
		}
	}

	conv, rt, err := h.service.Create(ctx, params)
	if err != nil {
		writeServiceError(c, err, "create conversation")
		return
	}

	c.JSON(http.StatusCreated, dto.ConversationResponse{Conversation: conv, RoundTable: rt})
}

func (h *ConversationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	conv, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "fetch conversation")
		return
	}
	c.JSON(http.StatusOK, dto.ConversationResponse{Conversation: conv})
}

func (h *ConversationHandler) Archive(c *gin.Context) {
	h.setArchived(c, true)
}

func (h *ConversationHandler) Unarchive(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *ConversationHandler) setArchived(c *gin.Context, archived bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.SetArchived(c.Request.Context(), id, archived); err != nil {
		writeServiceError(c, err, "update conversation status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": archived})
}

func (h *ConversationHandler) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid post message request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var author model.Author
	switch model.AuthorKind(req.AuthorKind) {
	case model.AuthorKindParticipant:
		if req.ParticipantID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "participant_id is required for participant authors"})
			return
		}
		author = model.ParticipantAuthor(*req.ParticipantID)
	case model.AuthorKindModerator:
		author = model.ModeratorAuthor()
	default:
		author = model.HumanAuthor()
	}

	msg, err := h.service.PostMessage(ctx, service.PostMessageParams{
		ConversationID: id,
		Author:         author,
		Content:        req.Content,
	})
	if err != nil {
		writeServiceError(c, err, "post message")
		return
	}

	c.JSON(http.StatusCreated, dto.MessageFromModel(msg))
}

func (h *ConversationHandler) ListMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "list messages")
		return
	}

	out := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, dto.MessageFromModel(&messages[i]))
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}
