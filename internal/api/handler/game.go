package handler

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/blockdrop/internal/api/middleware"
	"github.com/mcoot/blockdrop/internal/api/request"
	"github.com/mcoot/blockdrop/internal/api/response"
	"github.com/mcoot/blockdrop/internal/model"
	"github.com/mcoot/blockdrop/internal/services/game"
	"github.com/mcoot/blockdrop/internal/web/sse"
)

// GameHandler handles game endpoints
type GameHandler struct {
	games      game.ControllerInterface
	hubManager *sse.HubManager
	logger     *slog.Logger
}

// NewGameHandler creates a new game handler. hubManager may be nil, in
// which case the events stream is unavailable.
func NewGameHandler(games game.ControllerInterface, hubManager *sse.HubManager, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		games:      games,
		hubManager: hubManager,
		logger:     logger,
	}
}

// Largest elapsed_ms that still fits in a time.Duration
const maxTickElapsedMS = int64(math.MaxInt64 / time.Millisecond)

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateGameRequest
	if err := decodeBody(r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.games.CreateGame(r.Context(), player.ID, req.Seed)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	games, err := h.games.ListGames(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.games.GetGame(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Command handles POST /api/v1/games/{id}/commands
func (h *GameHandler) Command(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CommandRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Command == "" {
		WriteError(w, NewInvalidRequestError("command is required"))
		return
	}

	accepted, g, err := h.games.Apply(r.Context(), gameID(r), player.ID, model.Command(req.Command))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CommandResponse{
		Accepted: accepted,
		Game:     response.GameFromModel(g),
	})
}

// Tick handles POST /api/v1/games/{id}/tick
func (h *GameHandler) Tick(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.TickRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	if req.ElapsedMS > maxTickElapsedMS {
		WriteError(w, fmt.Errorf("%w: %d ms is too large", model.ErrInvalidElapsed, req.ElapsedMS))
		return
	}

	elapsed := time.Duration(req.ElapsedMS) * time.Millisecond
	g, err := h.games.Tick(r.Context(), gameID(r), player.ID, elapsed)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// NewGame handles POST /api/v1/games/{id}/new
func (h *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.games.NewGame(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Abandon handles DELETE /api/v1/games/{id}
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.games.AbandonGame(r.Context(), gameID(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Events handles GET /api/v1/games/{id}/events. The stream opens with the
// current state and then follows every change until the game is abandoned.
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if h.hubManager == nil {
		WriteError(w, NewInvalidRequestError("event streaming is disabled"))
		return
	}

	g, err := h.games.GetGame(r.Context(), gameID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if g.Status == model.GameStatusAbandoned {
		WriteError(w, model.ErrGameAbandoned)
		return
	}

	initial, err := sse.EncodeEvent(model.Event{
		Type:      model.EventStateChanged,
		Timestamp: g.UpdatedAt,
		GameID:    g.ID,
		PlayerID:  g.PlayerID,
		Payload:   model.StateChangedPayload{Status: g.Status, Snapshot: g.Snapshot},
	})
	if err != nil {
		h.logger.Error("failed to encode initial state", slog.String("game_id", string(g.ID)), slog.Any("error", err))
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, h.hubManager.Connect(g.ID, player.ID), initial)
}
