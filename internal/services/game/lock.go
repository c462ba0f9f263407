package game

import (
	"github.com/mcoot/blockdrop/internal/model"
	"github.com/mcoot/blockdrop/internal/services/scoring"
)

// lockPiece writes the active piece into the board, clears full rows, scores
// the lock and spawns the next piece
func (s *State) lockPiece() {
	tag := model.CellFor(s.active.Type)
	for _, c := range s.active.Cells() {
		s.board.Set(c.X, c.Y, tag)
	}

	full := s.board.FullRows()
	if len(full) > 0 {
		s.board.ClearRows(full)
		s.lines += len(full)
	}

	res := s.scorer.ScoreLock(len(full), s.spin, s.level, s.streak)
	s.score += res.Points
	s.streak = res.Streak
	s.lastClear = &model.ClearResult{
		Piece:      s.active.Type,
		Rows:       full,
		Lines:      len(full),
		Spin:       s.spin,
		Points:     res.Points,
		Combo:      res.Streak.Combo,
		BackToBack: res.Streak.BackToBack,
	}

	s.level = scoring.Level(s.lines)
	s.spin = model.SpinNone
	s.dropped = 0
	s.piecesPlaced++
	s.revision++

	s.spawn()
}

// LastClear returns the outcome of the most recent lock, or nil before the first
func (s *State) LastClear() *model.ClearResult {
	return s.lastClear
}

// PiecesPlaced returns the number of pieces locked so far
func (s *State) PiecesPlaced() int {
	return s.piecesPlaced
}
