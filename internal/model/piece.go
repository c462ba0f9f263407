package model

import (
	"fmt"
	"strings"
)

// PieceType identifies one of the seven tetrominoes. The zero value means "no piece".
type PieceType uint8

const (
	PieceI PieceType = iota + 1
	PieceJ
	PieceL
	PieceO
	PieceS
	PieceT
	PieceZ
)

// PieceTypes lists every piece type in bag order
var PieceTypes = [...]PieceType{PieceI, PieceJ, PieceL, PieceO, PieceS, PieceT, PieceZ}

// String returns the single-letter name of the piece type
func (t PieceType) String() string {
	switch t {
	case PieceI:
		return "I"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	case PieceO:
		return "O"
	case PieceS:
		return "S"
	case PieceT:
		return "T"
	case PieceZ:
		return "Z"
	default:
		return ""
	}
}

// Valid reports whether t is one of the seven piece types
func (t PieceType) Valid() bool {
	return t >= PieceI && t <= PieceZ
}

// ParsePieceType parses a single-letter piece name (case-insensitive)
func ParsePieceType(s string) (PieceType, error) {
	for _, t := range PieceTypes {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown piece type %q", s)
}

// MarshalText encodes the piece type as its letter
func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a piece letter; the empty string decodes to no piece
func (t *PieceType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = 0
		return nil
	}
	parsed, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Rotation is an SRS orientation index: 0 spawn, 1 right, 2 reverse, 3 left
type Rotation uint8

// RotationDelta is a rotation request relative to the current orientation
type RotationDelta int

const (
	RotateCW  RotationDelta = 1
	RotateCCW RotationDelta = -1
	Rotate180 RotationDelta = 2
)

// Turn returns the orientation reached by applying delta
func (r Rotation) Turn(delta RotationDelta) Rotation {
	return Rotation(((int(r)+int(delta))%4 + 4) % 4)
}

// Point is a cell coordinate in board space (x = column, y = row, rows grow downwards)
type Point struct {
	X int
	Y int
}

// Piece is a piece type in a given orientation anchored at (X, Y).
// Pieces are values: Moved and Rotated return new candidates and never mutate the receiver.
type Piece struct {
	Type     PieceType
	Rotation Rotation
	X        int
	Y        int
}

// Spawn returns a piece of type t at its spawn anchor in orientation 0
func Spawn(t PieceType) Piece {
	tpl := templateFor(t)
	return Piece{Type: t, X: tpl.spawnX, Y: tpl.spawnY}
}

// Moved returns a copy translated by (dx, dy)
func (p Piece) Moved(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// Rotated returns a copy in orientation to, translated by (dx, dy)
func (p Piece) Rotated(to Rotation, dx, dy int) Piece {
	p.Rotation = to % 4
	p.X += dx
	p.Y += dy
	return p
}

// Cells returns the board coordinates occupied by the piece
func (p Piece) Cells() []Point {
	offsets := templateFor(p.Type).cells[p.Rotation%4]
	cells := make([]Point, len(offsets))
	for i, o := range offsets {
		cells[i] = Point{X: p.X + o.X, Y: p.Y + o.Y}
	}
	return cells
}

// Shape returns the template rows for a type and orientation ('#' filled, '.' empty)
func Shape(t PieceType, r Rotation) []string {
	rows := templateFor(t).rows[r%4]
	out := make([]string, len(rows))
	copy(out, rows)
	return out
}

type pieceTemplate struct {
	rows   [4][]string
	cells  [4][]Point
	spawnX int
	spawnY int
}

func newTemplate(spawnX, spawnY int, rotations ...[]string) *pieceTemplate {
	tpl := &pieceTemplate{spawnX: spawnX, spawnY: spawnY}
	for r, rows := range rotations {
		tpl.rows[r] = rows
		for y, row := range rows {
			for x, ch := range row {
				if ch == '#' {
					tpl.cells[r] = append(tpl.cells[r], Point{X: x, Y: y})
				}
			}
		}
	}
	return tpl
}

var (
	templateI = newTemplate(3, -1,
		[]string{"....", "####", "....", "...."},
		[]string{"..#.", "..#.", "..#.", "..#."},
		[]string{"....", "....", "####", "...."},
		[]string{".#..", ".#..", ".#..", ".#.."},
	)
	templateJ = newTemplate(3, -2,
		[]string{"#..", "###", "..."},
		[]string{".##", ".#.", ".#."},
		[]string{"...", "###", "..#"},
		[]string{".#.", ".#.", "##."},
	)
	templateL = newTemplate(3, -2,
		[]string{"..#", "###", "..."},
		[]string{".#.", ".#.", ".##"},
		[]string{"...", "###", "#.."},
		[]string{"##.", ".#.", ".#."},
	)
	templateO = newTemplate(4, -1,
		[]string{".##.", ".##.", "....", "...."},
		[]string{".##.", ".##.", "....", "...."},
		[]string{".##.", ".##.", "....", "...."},
		[]string{".##.", ".##.", "....", "...."},
	)
	templateS = newTemplate(3, -2,
		[]string{".##", "##.", "..."},
		[]string{".#.", ".##", "..#"},
		[]string{"...", ".##", "##."},
		[]string{"#..", "##.", ".#."},
	)
	templateT = newTemplate(3, -2,
		[]string{".#.", "###", "..."},
		[]string{".#.", ".##", ".#."},
		[]string{"...", "###", ".#."},
		[]string{".#.", "##.", ".#."},
	)
	templateZ = newTemplate(3, -2,
		[]string{"##.", ".##", "..."},
		[]string{"..#", ".##", ".#."},
		[]string{"...", "##.", ".##"},
		[]string{".#.", "##.", "#.."},
	)
)

func templateFor(t PieceType) *pieceTemplate {
	switch t {
	case PieceI:
		return templateI
	case PieceJ:
		return templateJ
	case PieceL:
		return templateL
	case PieceO:
		return templateO
	case PieceS:
		return templateS
	case PieceT:
		return templateT
	case PieceZ:
		return templateZ
	default:
		panic(fmt.Sprintf("model: no template for piece type %d", t))
	}
}
