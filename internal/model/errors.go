package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Game errors
	ErrGameNotFound   = errors.New("game not found")
	ErrNotGameOwner   = errors.New("player does not own this game")
	ErrGameAbandoned  = errors.New("game has been abandoned")
	ErrGameNotLive    = errors.New("game is not running on this server")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidElapsed = errors.New("elapsed time out of range")
)
