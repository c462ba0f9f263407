package model

// Command is a player input accepted by a running game
type Command string

const (
	CommandMoveLeft  Command = "move_left"
	CommandMoveRight Command = "move_right"
	CommandSoftDrop  Command = "soft_drop"
	CommandHardDrop  Command = "hard_drop"
	CommandRotateCW  Command = "rotate_cw"
	CommandRotateCCW Command = "rotate_ccw"
	CommandRotate180 Command = "rotate_180"
	CommandHold      Command = "hold"
	CommandPause     Command = "pause"
	CommandResume    Command = "resume"
)

// Commands lists every command in display order
var Commands = []Command{
	CommandMoveLeft,
	CommandMoveRight,
	CommandSoftDrop,
	CommandHardDrop,
	CommandRotateCW,
	CommandRotateCCW,
	CommandRotate180,
	CommandHold,
	CommandPause,
	CommandResume,
}

// Valid reports whether c is a known command
func (c Command) Valid() bool {
	for _, known := range Commands {
		if c == known {
			return true
		}
	}
	return false
}
