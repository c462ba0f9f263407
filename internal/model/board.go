package model

import "strings"

// Board dimensions. The playfield is fixed; the spawn buffer above row 0 is not stored.
const (
	BoardCols = 10
	BoardRows = 20
)

// Cell is the content of one board square
type Cell uint8

const (
	// CellEmpty is an unoccupied square
	CellEmpty Cell = 0
	// CellOutOfBounds is returned by Get for coordinates outside the grid.
	// It is never stored.
	CellOutOfBounds Cell = 0xFF
)

// CellFor returns the cell tag written when a piece of type t locks
func CellFor(t PieceType) Cell {
	return Cell(t)
}

// Piece returns the piece type tagging the cell, if any
func (c Cell) Piece() (PieceType, bool) {
	t := PieceType(c)
	return t, t.Valid()
}

// Blocking reports whether the cell stops a piece (occupied or off the board)
func (c Cell) Blocking() bool {
	return c != CellEmpty
}

// Board is the locked-block grid, indexed [row][col] with row 0 at the top
type Board struct {
	cells [BoardRows][BoardCols]Cell
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{}
}

// Get returns the cell at (x, y), or CellOutOfBounds outside the grid
func (b *Board) Get(x, y int) Cell {
	if !inBounds(x, y) {
		return CellOutOfBounds
	}
	return b.cells[y][x]
}

// Set writes a cell; writes outside the grid are ignored
func (b *Board) Set(x, y int, c Cell) {
	if !inBounds(x, y) {
		return
	}
	b.cells[y][x] = c
}

// IsRowFull reports whether every column of row y is occupied
func (b *Board) IsRowFull(y int) bool {
	if y < 0 || y >= BoardRows {
		return false
	}
	for _, c := range b.cells[y] {
		if c == CellEmpty {
			return false
		}
	}
	return true
}

// FullRows returns the indexes of all full rows, top to bottom
func (b *Board) FullRows() []int {
	var rows []int
	for y := 0; y < BoardRows; y++ {
		if b.IsRowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearRows removes the given rows, shifts everything above them down and
// inserts empty rows at the top. Duplicate and out-of-range indexes are ignored.
func (b *Board) ClearRows(rows []int) {
	var remove [BoardRows]bool
	for _, y := range rows {
		if y >= 0 && y < BoardRows {
			remove[y] = true
		}
	}

	var next [BoardRows][BoardCols]Cell
	dst := BoardRows - 1
	for y := BoardRows - 1; y >= 0; y-- {
		if remove[y] {
			continue
		}
		next[dst] = b.cells[y]
		dst--
	}
	b.cells = next
}

// Clone returns an independent copy of the board
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Rows renders the board as one string per row: '.' for empty, the piece letter otherwise
func (b *Board) Rows() []string {
	rows := make([]string, BoardRows)
	var sb strings.Builder
	for y := 0; y < BoardRows; y++ {
		sb.Reset()
		for x := 0; x < BoardCols; x++ {
			if t, ok := b.cells[y][x].Piece(); ok {
				sb.WriteString(t.String())
			} else {
				sb.WriteByte('.')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

// ParseBoard builds a board from rows in the Rows format. Rows are aligned to
// the bottom of the board; any character other than '.' or a piece letter is
// treated as a generic block.
func ParseBoard(rows ...string) *Board {
	b := NewBoard()
	offset := BoardRows - len(rows)
	for i, row := range rows {
		y := offset + i
		for x, ch := range row {
			if ch == '.' || ch == ' ' {
				continue
			}
			t, err := ParsePieceType(string(ch))
			if err != nil {
				t = PieceI
			}
			b.Set(x, y, CellFor(t))
		}
	}
	return b
}

func inBounds(x, y int) bool {
	return x >= 0 && x < BoardCols && y >= 0 && y < BoardRows
}
