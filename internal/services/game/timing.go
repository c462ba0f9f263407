package game

import "time"

// gravityTable is the time between gravity steps for levels 1 to 20
var gravityTable = []time.Duration{
	1000 * time.Millisecond,
	793 * time.Millisecond,
	618 * time.Millisecond,
	473 * time.Millisecond,
	355 * time.Millisecond,
	262 * time.Millisecond,
	190 * time.Millisecond,
	135 * time.Millisecond,
	94 * time.Millisecond,
	64 * time.Millisecond,
	43 * time.Millisecond,
	28 * time.Millisecond,
	18 * time.Millisecond,
	11 * time.Millisecond,
	7 * time.Millisecond,
	5 * time.Millisecond,
	3 * time.Millisecond,
	2 * time.Millisecond,
	1 * time.Millisecond,
	1 * time.Millisecond,
}

type lockPhase uint8

const (
	phaseFalling lockPhase = iota
	phaseGrounded
)

// lockState tracks lock delay. A piece is Grounded once a gravity step fails
// and locks after LockDelay of grounded time. Any successful move or rotation
// sends it back to Falling; resets are unlimited.
type lockState struct {
	phase    lockPhase
	grounded time.Duration
}

func (l *lockState) reset() {
	l.phase = phaseFalling
	l.grounded = 0
}

func (l *lockState) ground() {
	if l.phase == phaseGrounded {
		return
	}
	l.phase = phaseGrounded
	l.grounded = 0
}

// Grounded reports whether the active piece is waiting out its lock delay
func (s *State) Grounded() bool {
	return s.lock.phase == phaseGrounded
}

// GravityInterval returns the time between gravity steps at the current level
func (s *State) GravityInterval() time.Duration {
	return gravityFor(s.cfg.Gravity, s.level)
}

func gravityFor(table []time.Duration, level int) time.Duration {
	i := level - 1
	if i < 0 {
		i = 0
	}
	if i >= len(table) {
		i = len(table) - 1
	}
	return table[i]
}

// Tick advances gravity and lock delay by elapsed. Paused and finished games
// do not advance.
func (s *State) Tick(elapsed time.Duration) {
	if !s.live() || elapsed <= 0 {
		return
	}
	s.elapsed += elapsed

	if s.lock.phase == phaseGrounded {
		s.lock.grounded += elapsed
		if s.lock.grounded >= s.cfg.LockDelay {
			s.lockPiece()
			return
		}
	}

	s.gravityAcc += elapsed
	for {
		interval := s.GravityInterval()
		if interval <= 0 || s.gravityAcc < interval {
			return
		}
		s.gravityAcc -= interval
		if !s.move(0, 1) {
			s.lock.ground()
			s.gravityAcc = 0
			return
		}
	}
}
