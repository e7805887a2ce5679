package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Op identifies the call an async result belongs to.
type Op int

const (
	OpFetchLeaderboard Op = iota
	OpSubmitScore
	OpFetchPlayCount
	OpIncrementPlayCount
)

func (o Op) String() string {
	switch o {
	case OpFetchLeaderboard:
		return "fetch-leaderboard"
	case OpSubmitScore:
		return "submit-score"
	case OpFetchPlayCount:
		return "fetch-plays"
	case OpIncrementPlayCount:
		return "increment-plays"
	default:
		return "unknown"
	}
}

// Result is the outcome of one async call.
type Result struct {
	Op      Op
	Entries []Entry // OpFetchLeaderboard
	Entry   Entry   // OpSubmitScore
	Plays   int64   // OpFetchPlayCount, OpIncrementPlayCount
	Err     error
}

// Status is a one-line message for the player describing the result.
func (r Result) Status() string {
	if r.Err != nil {
		switch {
		case errors.Is(r.Err, ErrInvalidEntry):
			return "Score rejected"
		case errors.Is(r.Err, context.DeadlineExceeded):
			return "Leaderboard timed out"
		default:
			return "Leaderboard unavailable"
		}
	}
	if r.Op == OpSubmitScore {
		if r.Entry.Rank == 0 {
			return fmt.Sprintf("Score not in top %d", DefaultSize)
		}
		return fmt.Sprintf("Saved %s %d", r.Entry.Initials, r.Entry.Score)
	}
	return ""
}

// Async runs Service calls on their own goroutines so the game loop never
// blocks on persistence. Results arrive on Results; when nobody drains the
// channel, results are logged and dropped.
type Async struct {
	svc     Service
	timeout time.Duration
	results chan Result
	logger  *log.Logger
	wg      sync.WaitGroup
}

// NewAsync wraps svc. Each call is bounded by timeout.
func NewAsync(svc Service, timeout time.Duration, logger *log.Logger) *Async {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Async{
		svc:     svc,
		timeout: timeout,
		results: make(chan Result, 16),
		logger:  logger,
	}
}

// Results delivers completed calls.
func (a *Async) Results() <-chan Result {
	return a.results
}

// FetchLeaderboard starts a board fetch.
func (a *Async) FetchLeaderboard() {
	a.run(OpFetchLeaderboard, func(ctx context.Context, r *Result) error {
		entries, err := a.svc.FetchLeaderboard(ctx)
		r.Entries = entries
		return err
	})
}

// SubmitScore starts a score submission.
func (a *Async) SubmitScore(sub Submission) {
	a.run(OpSubmitScore, func(ctx context.Context, r *Result) error {
		entry, err := a.svc.SubmitScore(ctx, sub)
		r.Entry = entry
		return err
	})
}

// FetchPlayCount starts a play count fetch.
func (a *Async) FetchPlayCount() {
	a.run(OpFetchPlayCount, func(ctx context.Context, r *Result) error {
		plays, err := a.svc.FetchPlayCount(ctx)
		r.Plays = plays
		return err
	})
}

// IncrementPlayCount counts a started game.
func (a *Async) IncrementPlayCount() {
	a.run(OpIncrementPlayCount, func(ctx context.Context, r *Result) error {
		plays, err := a.svc.IncrementPlayCount(ctx)
		r.Plays = plays
		return err
	})
}

// Wait blocks until every started call has delivered its result.
func (a *Async) Wait() {
	a.wg.Wait()
}

func (a *Async) run(op Op, call func(ctx context.Context, r *Result) error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		r := Result{Op: op}
		r.Err = call(ctx, &r)
		if r.Err != nil {
			a.logger.Warn("leaderboard call failed", "op", op, "err", r.Err)
		}

		select {
		case a.results <- r:
		default:
			a.logger.Warn("leaderboard result dropped", "op", op)
		}
	}()
}
