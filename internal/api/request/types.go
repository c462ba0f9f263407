package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGameRequest is the request body for creating a game.
// A nil seed lets the server pick one.
type CreateGameRequest struct {
	Seed *uint64 `json:"seed,omitempty"`
}

// CommandRequest is the request body for sending a player input
type CommandRequest struct {
	Command string `json:"command"`
}

// TickRequest is the request body for advancing a game's clock by hand
type TickRequest struct {
	ElapsedMS int64 `json:"elapsed_ms"`
}
