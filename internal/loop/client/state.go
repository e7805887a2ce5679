package client

import (
	"time"

	"github.com/tomz197/asteroids-arcade/internal/leaderboard"
	"github.com/tomz197/asteroids-arcade/internal/loop/config"
	"github.com/tomz197/asteroids-arcade/internal/loop/session"
)

// Screen is the frontend page being shown.
type Screen int

const (
	ScreenTitle       Screen = iota // Difficulty choice and menu
	ScreenHelp                      // Controls and rules
	ScreenLeaderboard               // Top scores
	ScreenPlaying                   // A session is running
	ScreenGameOver                  // Final score and initials entry
	ScreenShutdown                  // Server is shutting down
)

// clientState is everything the frontend tracks between frames.
type clientState struct {
	screen     Screen
	prevScreen Screen
	running    bool

	difficulty config.Difficulty
	game       *session.Session
	result     session.Result

	// Level banner, on the simulated clock of the running game.
	bannerLevel int
	bannerUntil time.Duration

	// Game over.
	initials  []byte
	submitted bool
	rank      int // Board position of the submitted score, 0 if unranked

	// Leaderboard data as last received.
	board       []leaderboard.Entry
	boardLoaded bool
	plays       int64

	status      string
	statusUntil time.Time

	lastInput  time.Time
	idle       bool
	wasIdle    bool
	shutdownAt time.Time
}

func newClientState(now time.Time) *clientState {
	return &clientState{
		screen:     ScreenTitle,
		prevScreen: ScreenTitle,
		running:    true,
		difficulty: config.Medium,
		lastInput:  now,
	}
}

// setStatus shows msg on the status line for a few seconds.
func (s *clientState) setStatus(now time.Time, msg string) {
	if msg == "" {
		return
	}
	s.status = msg
	s.statusUntil = now.Add(config.StatusMessageTime)
}

// statusLine returns the status message if it has not expired.
func (s *clientState) statusLine(now time.Time) string {
	if now.After(s.statusUntil) {
		return ""
	}
	return s.status
}
