package bag

import (
	"github.com/mcoot/blockdrop/internal/dependencies/random"
	"github.com/mcoot/blockdrop/internal/model"
)

// Bag is a 7-bag randomizer: each cycle deals a shuffled permutation of all
// seven piece types before reshuffling.
type Bag struct {
	random    random.Random
	remaining []model.PieceType
}

// New creates an empty bag; the first draw triggers a shuffle
func New(rnd random.Random) *Bag {
	return &Bag{
		random:    rnd,
		remaining: make([]model.PieceType, 0, len(model.PieceTypes)),
	}
}

// Next draws the next piece type, refilling exactly when the bag is empty
func (b *Bag) Next() model.PieceType {
	if len(b.remaining) == 0 {
		b.refill()
	}
	last := len(b.remaining) - 1
	t := b.remaining[last]
	b.remaining = b.remaining[:last]
	return t
}

// Remaining returns the number of draws left before the next reshuffle
func (b *Bag) Remaining() int {
	return len(b.remaining)
}

// refill performs a Fisher-Yates shuffle of all seven types
func (b *Bag) refill() {
	b.remaining = append(b.remaining[:0], model.PieceTypes[:]...)
	for i := len(b.remaining) - 1; i > 0; i-- {
		j := b.random.Intn(i + 1)
		b.remaining[i], b.remaining[j] = b.remaining[j], b.remaining[i]
	}
}
