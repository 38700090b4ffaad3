package dto

import (
	"time"

	"colloquy.app/server/internal/model"
	"colloquy.app/server/internal/service"
)

type SeatResponse struct {
	ID            int64      `json:"id"`
	ParticipantID *int64     `json:"participant_id,omitempty"`
	Type          string     `json:"type"`
	SpeakingOrder int        `json:"speaking_order"`
	IsActive      bool       `json:"is_active"`
	MessageCount  int        `json:"message_count"`
	LastSpokeAt   *time.Time `json:"last_spoke_at,omitempty"`
}

type SpeakerStateResponse struct {
	RoundTableID    int64          `json:"round_table_id"`
	ModerationStyle string         `json:"moderation_style"`
	RoundNumber     int            `json:"round_number"`
	CurrentSpeaker  *SeatResponse  `json:"current_speaker,omitempty"`
	Participants    []SeatResponse `json:"participants"`
}

func SpeakerStateFromService(state *service.SpeakerState) SpeakerStateResponse {
	resp := SpeakerStateResponse{
		RoundTableID:    state.RoundTable.ID,
		ModerationStyle: string(state.RoundTable.ModerationStyle),
		RoundNumber:     state.RoundTable.RoundNumber,
		Participants:    make([]SeatResponse, 0, len(state.Participants)),
	}
	for _, p := range state.Participants {
		resp.Participants = append(resp.Participants, seatFromModel(p))
	}
	if state.CurrentSpeaker != nil {
		seat := seatFromModel(*state.CurrentSpeaker)
		resp.CurrentSpeaker = &seat
	}
	return resp
}

func seatFromModel(p model.RoundTableParticipant) SeatResponse {
	return SeatResponse{
		ID:            p.ID,
		ParticipantID: p.ParticipantID,
		Type:          string(p.Type),
		SpeakingOrder: p.SpeakingOrder,
		IsActive:      p.IsActive,
		MessageCount:  p.MessageCount,
		LastSpokeAt:   p.LastSpokeAt,
	}
}
