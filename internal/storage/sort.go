package storage

import (
	"cmp"
	"slices"

	"github.com/mcoot/blockdrop/internal/model"
)

// SortNewestFirst orders games by creation time, newest first, then by ID
func SortNewestFirst(games []*model.Game) {
	slices.SortFunc(games, func(a, b *model.Game) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
