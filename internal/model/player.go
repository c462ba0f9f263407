package model

import "time"

// PlayerID uniquely identifies a player
type PlayerID string

// Player owns games. Guests exist only for the lifetime of their session token.
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool
	CreatedAt   time.Time
}

// RegisteredPlayer holds login credentials for a non-guest player.
// Kept apart from Player so password hashes never travel with session data.
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
