package kick

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/blockdrop/internal/model"
)

func TestResolveTClockwiseFromSpawn(t *testing.T) {
	got := Resolve(model.PieceT, 0, model.RotateCW)

	assert.Equal(t, []Offset{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, got)
}

func TestResolveIUsesItsOwnTable(t *testing.T) {
	got := Resolve(model.PieceI, 0, model.RotateCW)

	assert.Equal(t, []Offset{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}}, got)
	assert.NotEqual(t, Resolve(model.PieceT, 0, model.RotateCW), got)
}

func TestResolveCounterClockwiseKeyedByFromOrientation(t *testing.T) {
	assert.Equal(t,
		[]Offset{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		Resolve(model.PieceZ, 1, model.RotateCCW))
	assert.Equal(t,
		[]Offset{{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
		Resolve(model.PieceI, 3, model.RotateCCW))
}

func TestResolveHalfTurnIsIdenticalForEveryOrientation(t *testing.T) {
	for _, pt := range []model.PieceType{model.PieceI, model.PieceT} {
		first := Resolve(pt, 0, model.Rotate180)
		assert.Len(t, first, 9)
		for r := model.Rotation(1); r < 4; r++ {
			assert.Equal(t, first, Resolve(pt, r, model.Rotate180), "%s from %d", pt, r)
		}
	}
}

func TestResolveAlwaysStartsWithZeroOffset(t *testing.T) {
	deltas := []model.RotationDelta{model.RotateCW, model.RotateCCW, model.Rotate180}
	for _, pt := range model.PieceTypes {
		for r := model.Rotation(0); r < 4; r++ {
			for _, d := range deltas {
				got := Resolve(pt, r, d)
				if assert.NotEmpty(t, got) {
					assert.Equal(t, Offset{0, 0}, got[0])
				}
			}
		}
	}
}

func TestResolveReturnsCopy(t *testing.T) {
	got := Resolve(model.PieceT, 0, model.RotateCW)
	got[1] = Offset{9, 9}

	assert.Equal(t, Offset{-1, 0}, Resolve(model.PieceT, 0, model.RotateCW)[1])
}

func TestResolveUnknownInputs(t *testing.T) {
	assert.Nil(t, Resolve(0, 0, model.RotateCW))
	assert.Nil(t, Resolve(model.PieceT, 0, 3))
}
