// Package kick holds the Super Rotation System wall-kick tables.
//
// Offsets are in board coordinates (positive DY moves the piece down) and are
// tried in order by the caller; the resolver never looks at a board.
package kick

import (
	"slices"

	"github.com/mcoot/blockdrop/internal/model"
)

// Offset is a candidate translation applied together with a rotation
type Offset struct {
	DX int
	DY int
}

type table struct {
	cw   [4][]Offset
	ccw  [4][]Offset
	half [4][]Offset
}

// J, L, S, T and Z share one table. O uses it too; its rotations are identical,
// so the zero offset always succeeds when the piece itself fits.
var jlstz = table{
	cw: [4][]Offset{
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	},
	ccw: [4][]Offset{
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	},
	half: uniformHalfTurn([]Offset{
		{0, 0}, {1, 0}, {-1, 0}, {0, -1}, {2, 0}, {-2, 0}, {0, -2}, {1, -1}, {-1, -1},
	}),
}

var pieceI = table{
	cw: [4][]Offset{
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	},
	ccw: [4][]Offset{
		{{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
		{{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
		{{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
		{{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
	},
	half: uniformHalfTurn([]Offset{
		{0, 0}, {1, 0}, {-1, 0}, {2, 0}, {-2, 0}, {0, -1}, {0, -2}, {1, -1}, {-1, -1},
	}),
}

// 180° turns have no standard SRS kicks; every from-orientation uses the same set.
func uniformHalfTurn(offsets []Offset) [4][]Offset {
	return [4][]Offset{offsets, offsets, offsets, offsets}
}

func tableFor(t model.PieceType) *table {
	switch t {
	case model.PieceI:
		return &pieceI
	case model.PieceJ, model.PieceL, model.PieceO, model.PieceS, model.PieceT, model.PieceZ:
		return &jlstz
	default:
		return nil
	}
}

// Resolve returns the ordered kick candidates for rotating a piece of type t
// out of orientation from by delta. Unknown types or deltas yield no candidates.
func Resolve(t model.PieceType, from model.Rotation, delta model.RotationDelta) []Offset {
	tbl := tableFor(t)
	if tbl == nil {
		return nil
	}
	from %= 4
	switch delta {
	case model.RotateCW:
		return slices.Clone(tbl.cw[from])
	case model.RotateCCW:
		return slices.Clone(tbl.ccw[from])
	case model.Rotate180:
		return slices.Clone(tbl.half[from])
	default:
		return nil
	}
}
