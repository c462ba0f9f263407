package game

import (
	"github.com/mcoot/blockdrop/internal/model"
	"github.com/mcoot/blockdrop/internal/services/kick"
)

// Player input. Each call counts as one action for APM, accepted or not.

func (s *State) MoveLeft() bool {
	if !s.input() {
		return false
	}
	return s.move(-1, 0)
}

func (s *State) MoveRight() bool {
	if !s.input() {
		return false
	}
	return s.move(1, 0)
}

// SoftDrop moves the piece down one row, scoring per cell dropped
func (s *State) SoftDrop() bool {
	if !s.input() {
		return false
	}
	if !s.move(0, 1) {
		return false
	}
	s.score += s.scorer.SoftDrop(1)
	s.dropped++
	return true
}

// HardDrop drops the piece as far as it goes, scores the distance and locks
func (s *State) HardDrop() bool {
	if !s.input() {
		return false
	}
	distance := 0
	for s.move(0, 1) {
		distance++
	}
	s.score += s.scorer.HardDrop(distance)
	s.lockPiece()
	return true
}

func (s *State) RotateCW() bool {
	if !s.input() {
		return false
	}
	return s.rotate(model.RotateCW)
}

func (s *State) RotateCCW() bool {
	if !s.input() {
		return false
	}
	return s.rotate(model.RotateCCW)
}

func (s *State) Rotate180() bool {
	if !s.input() {
		return false
	}
	return s.rotate(model.Rotate180)
}

// Hold stores the active piece. With an empty slot the next queued piece
// spawns; otherwise the held type comes back at its spawn position. Hold is
// available once per spawned piece.
func (s *State) Hold() bool {
	if !s.input() || s.holdUsed {
		return false
	}

	current := s.active.Type
	s.spin = model.SpinNone
	s.dropped = 0

	if s.hold == 0 {
		s.hold = current
		s.spawn()
	} else {
		held := s.hold
		s.hold = current
		s.place(model.Spawn(held))
	}
	s.holdUsed = true
	return true
}

// input records an action and reports whether the game accepts input
func (s *State) input() bool {
	if !s.live() {
		return false
	}
	s.actions++
	s.revision++
	return true
}

// move commits the piece translated by (dx, dy) if it fits
func (s *State) move(dx, dy int) bool {
	candidate := s.active.Moved(dx, dy)
	if !s.valid(candidate) {
		return false
	}
	s.active = candidate
	s.lock.reset()
	s.revision++
	return true
}

// rotate commits the first kick candidate that fits, or nothing
func (s *State) rotate(delta model.RotationDelta) bool {
	to := s.active.Rotation.Turn(delta)
	for _, o := range kick.Resolve(s.active.Type, s.active.Rotation, delta) {
		candidate := s.active.Rotated(to, o.DX, o.DY)
		if !s.valid(candidate) {
			continue
		}
		s.active = candidate
		s.lock.reset()
		s.spin = s.classifySpin(delta)
		s.revision++
		return true
	}
	return false
}

// classifySpin applies the four-corner test around the centre of a T piece.
// Squares beside or below the field count as filled; squares above it do not.
func (s *State) classifySpin(delta model.RotationDelta) model.SpinKind {
	if s.active.Type != model.PieceT {
		return model.SpinNone
	}

	cx, cy := s.active.X+1, s.active.Y+1
	corners := [4]model.Point{
		{X: cx - 1, Y: cy - 1},
		{X: cx + 1, Y: cy - 1},
		{X: cx - 1, Y: cy + 1},
		{X: cx + 1, Y: cy + 1},
	}

	filled := 0
	for _, c := range corners {
		switch {
		case c.X < 0 || c.X >= model.BoardCols || c.Y >= model.BoardRows:
			filled++
		case c.Y >= 0 && s.board.Get(c.X, c.Y) != model.CellEmpty:
			filled++
		}
	}

	switch {
	case filled >= 3:
		return model.SpinFull
	case filled == 2 && delta != model.Rotate180:
		return model.SpinMini
	default:
		return model.SpinNone
	}
}
