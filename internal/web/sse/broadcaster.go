package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/blockdrop/internal/api/response"
	"github.com/mcoot/blockdrop/internal/model"
)

// Broadcaster forwards game controller events to the hub watching each game
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// GameEvent implements game.Listener
func (b *Broadcaster) GameEvent(_ context.Context, e model.Event) {
	hub := b.hubManager.GetHub(e.GameID)
	if hub == nil {
		return
	}

	msg, err := EncodeEvent(e)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("game_id", string(e.GameID)),
			slog.String("event", string(e.Type)),
			slog.Any("error", err))
		return
	}
	hub.Broadcast(msg)

	if e.Type == model.EventGameAbandoned {
		b.hubManager.RemoveHub(e.GameID)
	}
}

// EncodeEvent renders a game event as a complete SSE message
func EncodeEvent(e model.Event) ([]byte, error) {
	data, err := json.Marshal(response.EventFromModel(e))
	if err != nil {
		return nil, err
	}
	return FormatEvent(string(e.Type), data), nil
}
