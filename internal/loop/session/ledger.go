package session

import "github.com/tomz197/asteroids-arcade/internal/object"

// Ledger is the score state of a session: cumulative score, remaining lives
// and the score at which the last bonus life was granted.
type Ledger struct {
	Score          int
	Lives          int
	LastBonusScore int
	Threshold      int // Bonus life every Threshold points; 0 disables bonuses
}

// NewLedger creates a ledger with the given starting lives.
func NewLedger(lives, threshold int) Ledger {
	return Ledger{Lives: lives, Threshold: threshold}
}

// AddScore adds the tier's points and returns the new score.
func (l *Ledger) AddScore(size object.AsteroidSize) int {
	l.Score += size.Score()
	return l.Score
}

// CheckBonusLife grants one life when newScore has crossed a threshold
// multiple that the last bonus did not. Calling it again within the same
// band grants nothing.
func (l *Ledger) CheckBonusLife(newScore int) bool {
	if l.Threshold <= 0 {
		return false
	}
	if newScore/l.Threshold <= l.LastBonusScore/l.Threshold {
		return false
	}
	l.Lives++
	l.LastBonusScore = newScore
	return true
}

// LoseLife removes one life, never going below zero, and returns the lives left.
func (l *Ledger) LoseLife() int {
	if l.Lives > 0 {
		l.Lives--
	}
	return l.Lives
}
