// Package leaderboard stores and serves high scores. It is the persistence
// collaborator of the game frontends: a local msgpack file store, an HTTP API
// with a websocket feed, an HTTP client for that API and an adapter that
// runs any of them off the game loop.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidEntry is returned for submissions that can never be stored.
	ErrInvalidEntry = errors.New("invalid leaderboard entry")
	// ErrUnavailable is returned when the backing service cannot be reached.
	ErrUnavailable = errors.New("leaderboard unavailable")
)

// Service is implemented by every leaderboard backend.
type Service interface {
	FetchLeaderboard(ctx context.Context) ([]Entry, error)
	SubmitScore(ctx context.Context, sub Submission) (Entry, error)
	FetchPlayCount(ctx context.Context) (int64, error)
	IncrementPlayCount(ctx context.Context) (int64, error)
}

// Entry is one stored score.
type Entry struct {
	ID         uuid.UUID `json:"id" msgpack:"id"`
	Initials   string    `json:"initials" msgpack:"initials"`
	Score      int       `json:"score" msgpack:"score"`
	Level      int       `json:"level" msgpack:"level"`
	DurationMs int64     `json:"durationMs" msgpack:"duration_ms"`
	Difficulty string    `json:"difficulty" msgpack:"difficulty"`
	CreatedAt  time.Time `json:"createdAt" msgpack:"created_at"`

	// Rank is the 1-based board position when the entry was returned; 0 for
	// a submission that did not make the board. Not stored.
	Rank int `json:"rank" msgpack:"-"`
}

// Duration returns how long the game lasted.
func (e Entry) Duration() time.Duration {
	return time.Duration(e.DurationMs) * time.Millisecond
}

// Submission is a finished game offered to the leaderboard.
type Submission struct {
	Initials   string `json:"initials"`
	Score      int    `json:"score"`
	Level      int    `json:"level"`
	DurationMs int64  `json:"durationMs"`
	Difficulty string `json:"difficulty"`
}

// MaxInitials is the longest accepted set of initials.
const MaxInitials = 3

// NormalizeInitials upper-cases s and checks it is 1 to MaxInitials letters A-Z.
func NormalizeInitials(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) == 0 || len(s) > MaxInitials {
		return "", fmt.Errorf("%w: initials must be 1-%d letters", ErrInvalidEntry, MaxInitials)
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: initials must be letters A-Z", ErrInvalidEntry)
		}
	}
	return s, nil
}

// Normalize returns the submission with normalised initials, or an error
// wrapping ErrInvalidEntry.
func (s Submission) Normalize() (Submission, error) {
	initials, err := NormalizeInitials(s.Initials)
	if err != nil {
		return s, err
	}
	s.Initials = initials
	if s.Score < 0 || s.Level < 1 || s.DurationMs < 0 {
		return s, fmt.Errorf("%w: score %d level %d duration %dms", ErrInvalidEntry, s.Score, s.Level, s.DurationMs)
	}
	s.Difficulty = strings.ToLower(strings.TrimSpace(s.Difficulty))
	return s, nil
}

// ranksAbove reports whether a belongs before b on the board: higher scores
// first, earlier entries first among equal scores.
func ranksAbove(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
