package scoring

import "github.com/mcoot/blockdrop/internal/model"

// Level progression
const (
	LinesPerLevel = 10
	MaxLevel      = 20
)

// Table holds the point values awarded per lock and per dropped cell
type Table struct {
	Single int
	Double int
	Triple int
	Tetris int

	SpinMini   int // T-spin mini with no lines
	Spin       int // T-spin with no lines
	SpinSingle int
	SpinDouble int
	SpinTriple int

	SoftDropCell int
	HardDropCell int
	ComboStep    int
}

// DefaultTable returns the guideline-style point values
func DefaultTable() Table {
	return Table{
		Single:       100,
		Double:       300,
		Triple:       500,
		Tetris:       800,
		SpinMini:     100,
		Spin:         400,
		SpinSingle:   800,
		SpinDouble:   1200,
		SpinTriple:   1600,
		SoftDropCell: 1,
		HardDropCell: 2,
		ComboStep:    50,
	}
}

// Streak is the scoring memory carried between locks
type Streak struct {
	Combo      int // -1 when no combo is running
	BackToBack int
}

// NewStreak returns the streak of a fresh game
func NewStreak() Streak {
	return Streak{Combo: -1}
}

// Result is the outcome of scoring one lock
type Result struct {
	Points int
	Streak Streak
}

// Service scores locks against a Table
type Service struct {
	table Table
}

// New creates a new scoring Service
func New(table Table) *Service {
	return &Service{
		table: table,
	}
}

// ScoreLock scores a lock that cleared lines rows with the given spin
// classification at the given level, starting from streak prev.
//
// A clear extends the combo; four lines or any T-spin clear extends
// back-to-back. The 1.5x back-to-back bonus applies only when the streak was
// already running before this lock, and multiplies the combo bonus too.
// A lock that clears nothing ends both streaks.
func (s *Service) ScoreLock(lines int, spin model.SpinKind, level int, prev Streak) Result {
	next := prev
	spun := spin != model.SpinNone

	if lines <= 0 {
		next.Combo = -1
		next.BackToBack = 0
		points := 0
		if spun {
			points = s.spinBase(spin) * level
		}
		return Result{Points: points, Streak: next}
	}

	next.Combo++
	difficult := lines >= 4 || spun

	var points int
	if spun {
		points = s.spinClear(lines) * level
	} else {
		points = s.lineClear(lines) * level
	}
	if difficult {
		next.BackToBack++
	}
	if next.Combo > 0 {
		points += s.table.ComboStep * next.Combo * level
	}
	if difficult && prev.BackToBack > 0 {
		points = points * 3 / 2
	}

	return Result{Points: points, Streak: next}
}

// SoftDrop returns the points for cells dropped by soft drop
func (s *Service) SoftDrop(cells int) int {
	return cells * s.table.SoftDropCell
}

// HardDrop returns the points for cells dropped by hard drop
func (s *Service) HardDrop(cells int) int {
	return cells * s.table.HardDropCell
}

// Level returns the level reached after clearing totalLines
func Level(totalLines int) int {
	level := totalLines/LinesPerLevel + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

func (s *Service) lineClear(lines int) int {
	switch lines {
	case 1:
		return s.table.Single
	case 2:
		return s.table.Double
	case 3:
		return s.table.Triple
	default:
		return s.table.Tetris
	}
}

func (s *Service) spinClear(lines int) int {
	switch lines {
	case 1:
		return s.table.SpinSingle
	case 2:
		return s.table.SpinDouble
	default:
		return s.table.SpinTriple
	}
}

func (s *Service) spinBase(spin model.SpinKind) int {
	if spin == model.SpinMini {
		return s.table.SpinMini
	}
	return s.table.Spin
}
