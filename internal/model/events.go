package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameStarted   EventType = "game_started"
	EventStateChanged  EventType = "state"
	EventLinesCleared  EventType = "lines_cleared"
	EventGameOver      EventType = "game_over"
	EventGameAbandoned EventType = "game_abandoned"
)

// Event is published by the game controller whenever a game changes
type Event struct {
	Type      EventType
	Timestamp time.Time
	GameID    GameID
	PlayerID  PlayerID
	Payload   any // Type-specific data
}

// StateChangedPayload carries the latest snapshot
type StateChangedPayload struct {
	Status   GameStatus
	Snapshot Snapshot
}

// LinesClearedPayload carries the lock that cleared lines
type LinesClearedPayload struct {
	Clear ClearResult
}

// GameOverPayload carries the final tallies
type GameOverPayload struct {
	Score int
	Lines int
	Level int
}
