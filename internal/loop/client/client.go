// Package client is the terminal frontend: it reads keys, ticks a game
// session, renders it with half-block graphics and handles the menus around
// it. One Client serves one terminal, local or over SSH.
package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/asteroids-arcade/internal/draw"
	"github.com/tomz197/asteroids-arcade/internal/input"
	"github.com/tomz197/asteroids-arcade/internal/leaderboard"
	"github.com/tomz197/asteroids-arcade/internal/loop/config"
	"github.com/tomz197/asteroids-arcade/internal/loop/session"
)

// Options configures a client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Profiles     config.Profiles     // Difficulty table; defaults to the built-in one
	Leaderboard  leaderboard.Service // Nil plays offline
	Logger       *log.Logger
	Shutdown     <-chan struct{} // Closed when the host is shutting down
	IdleTimeout  bool            // Disconnect after config.IdleDisconnectTime without input
}

// Client handles rendering and input for a single terminal.
type Client struct {
	opts         Options
	state        *clientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	persist      *leaderboard.Async
	logger       *log.Logger
}

// New creates a client reading keys from r and drawing to w.
func New(r io.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Profiles == nil {
		opts.Profiles = config.DefaultProfiles()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)
	arenaWidth, arenaHeight := arenaSize(renderWidth, renderHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight, arenaWidth, arenaHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		opts:         opts,
		state:        newClientState(time.Now()),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(bufio.NewReader(r)),
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}
	if opts.Leaderboard != nil {
		c.persist = leaderboard.NewAsync(opts.Leaderboard, config.PersistenceTimeout, logger)
	}
	return c
}

// arenaSize picks an arena ArenaWidth units wide whose aspect matches the
// render area, so half-block pixels stay square.
func arenaSize(renderWidth, renderHeight int) (float64, float64) {
	if renderWidth <= 0 || renderHeight <= 0 {
		return config.ArenaWidth, config.ArenaHeight
	}
	width := float64(config.ArenaWidth)
	height := width * float64(renderHeight*2) / float64(renderWidth)
	return width, max(height, 20)
}

// Run starts the client loop. Blocks until the player quits, the input
// ends, ctx is cancelled or the shutdown notice has been shown.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	if c.persist != nil {
		c.persist.FetchPlayCount()
	}

	for c.state.running {
		if ctx.Err() != nil {
			break
		}
		frameStart := time.Now()

		in := input.ReadInput(c.inputStream)
		if c.inputStream.Closed() {
			break
		}
		c.updateScreen()
		c.update(frameStart, in)

		if err := c.drawFrame(frameStart); err != nil {
			c.abandonGame()
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.abandonGame()
	draw.ClearScreen(c.writer)
	return nil
}

// update advances the client by one frame.
func (c *Client) update(now time.Time, in input.Input) {
	c.trackIdle(now, in)
	c.checkShutdown(now)
	c.drainPersistence(now)

	switch c.state.screen {
	case ScreenTitle:
		c.updateTitle(now, in)
	case ScreenHelp, ScreenLeaderboard:
		c.updateInfo(in)
	case ScreenPlaying:
		c.updatePlaying(now, in)
	case ScreenGameOver:
		c.updateGameOver(now, in)
	case ScreenShutdown:
		if !now.Before(c.state.shutdownAt) || in.Quit {
			c.state.running = false
		}
	}
}

func (c *Client) trackIdle(now time.Time, in input.Input) {
	if len(in.Pressed) > 0 {
		c.state.lastInput = now
		c.state.idle = false
		return
	}
	if !c.opts.IdleTimeout {
		return
	}
	idleFor := now.Sub(c.state.lastInput)
	switch {
	case idleFor > config.IdleDisconnectTime:
		c.logger.Info("disconnecting idle player")
		c.state.running = false
	case idleFor > config.IdleWarnTime:
		c.state.idle = true
	}
}

func (c *Client) checkShutdown(now time.Time) {
	if c.opts.Shutdown == nil || c.state.screen == ScreenShutdown {
		return
	}
	select {
	case <-c.opts.Shutdown:
		c.abandonGame()
		c.state.screen = ScreenShutdown
		c.state.shutdownAt = now.Add(config.ShutdownDisplayTime)
	default:
	}
}

// drainPersistence applies finished leaderboard calls.
func (c *Client) drainPersistence(now time.Time) {
	if c.persist == nil {
		return
	}
	for {
		select {
		case r := <-c.persist.Results():
			c.applyResult(now, r)
		default:
			return
		}
	}
}

func (c *Client) applyResult(now time.Time, r leaderboard.Result) {
	switch r.Op {
	case leaderboard.OpFetchLeaderboard:
		if r.Err == nil {
			c.state.board = r.Entries
			c.state.boardLoaded = true
		} else if c.state.screen == ScreenLeaderboard {
			c.state.setStatus(now, r.Status())
		}
	case leaderboard.OpSubmitScore:
		c.state.setStatus(now, r.Status())
		if r.Err == nil {
			c.state.rank = r.Entry.Rank
			c.persist.FetchLeaderboard()
		}
	case leaderboard.OpFetchPlayCount, leaderboard.OpIncrementPlayCount:
		if r.Err == nil {
			c.state.plays = r.Plays
		}
	}
}

func (c *Client) updateTitle(now time.Time, in input.Input) {
	switch {
	case in.Quit:
		c.state.running = false
	case in.Typed('1', '2', '3') && in.Number >= 1 && in.Number <= len(config.Difficulties):
		c.state.difficulty = config.Difficulties[in.Number-1]
		c.startGame(now)
	case in.Typed('\r', '\n', ' '):
		c.startGame(now)
	case in.Typed('h', 'H', '?'):
		c.state.screen = ScreenHelp
	case in.Typed('b', 'B'):
		c.state.screen = ScreenLeaderboard
		c.state.boardLoaded = false
		if c.persist != nil {
			c.persist.FetchLeaderboard()
			c.persist.FetchPlayCount()
		}
	}
}

// updateInfo handles the read-only help and leaderboard pages.
func (c *Client) updateInfo(in input.Input) {
	switch {
	case in.Quit:
		c.state.running = false
	case in.Typed('\x1b', '\r', '\n', ' '):
		c.state.screen = ScreenTitle
	}
}

// startGame starts a fresh session at the selected difficulty.
func (c *Client) startGame(now time.Time) {
	input.ResetKeyInput(c.inputStream)

	game, err := session.New(session.Options{
		Difficulty: c.state.difficulty,
		Profiles:   c.opts.Profiles,
		Width:      c.canvas.LogicalWidth(),
		Height:     c.canvas.LogicalHeight(),
		Logger:     c.logger,
	})
	if err != nil {
		c.logger.Error("cannot start game", "difficulty", c.state.difficulty, "err", err)
		c.state.setStatus(now, "Cannot start game")
		return
	}

	c.state.game = game
	c.state.bannerLevel = 0
	c.state.screen = ScreenPlaying
	if c.persist != nil {
		c.persist.IncrementPlayCount()
	}
	c.handleEvents(now)
}

func (c *Client) updatePlaying(now time.Time, in input.Input) {
	game := c.state.game
	switch {
	case in.Quit:
		c.abandonGame()
		c.state.running = false
		return
	case in.Typed('\x1b'):
		c.abandonGame()
		c.state.screen = ScreenTitle
		return
	}

	game.Tick(now, in)
	c.handleEvents(now)

	switch game.Phase() {
	case session.PhaseOver:
		result, _ := game.Result()
		c.finishGame(result)
	case session.PhaseEnded:
		c.state.game = nil
		c.state.screen = ScreenTitle
	}
}

// handleEvents turns session events into banners and status messages.
func (c *Client) handleEvents(now time.Time) {
	game := c.state.game
	for _, e := range game.Events() {
		switch e.Kind {
		case session.EventLevelStarted:
			c.state.bannerLevel = e.Level
			c.state.bannerUntil = game.Now() + config.LevelBannerTime
		case session.EventBonusLife:
			c.state.setStatus(now, "Extra life!")
		case session.EventFault:
			c.state.setStatus(now, "Game aborted after an internal error")
		}
	}
}

// finishGame moves to the game over screen with the session's result.
func (c *Client) finishGame(result session.Result) {
	c.state.game = nil
	c.state.result = result
	c.state.initials = c.state.initials[:0]
	c.state.submitted = false
	c.state.rank = 0
	c.state.screen = ScreenGameOver
	input.ResetKeyInput(c.inputStream)
}

// abandonGame ends a running session without a result.
func (c *Client) abandonGame() {
	if c.state.game != nil {
		c.state.game.End()
		c.state.game = nil
	}
}

func (c *Client) updateGameOver(now time.Time, in input.Input) {
	if c.persist == nil || c.state.submitted {
		if in.Typed('\r', '\n', '\x1b') {
			c.leaveGameOver()
		}
		return
	}

	// Initials entry: letters type, so Q does not quit here.
	for _, b := range in.Letters() {
		if len(c.state.initials) < config.MaxInitials {
			c.state.initials = append(c.state.initials, b)
		}
	}
	switch {
	case in.Typed('\b', '\x7f') && len(c.state.initials) > 0:
		c.state.initials = c.state.initials[:len(c.state.initials)-1]
	case in.Typed('\x1b'):
		c.leaveGameOver()
	case in.Typed('\r', '\n') && len(c.state.initials) > 0:
		c.submitScore(now)
	}
}

// leaveGameOver returns to the title, forgetting keys typed as initials.
func (c *Client) leaveGameOver() {
	input.ResetKeyInput(c.inputStream)
	c.state.screen = ScreenTitle
}

func (c *Client) submitScore(now time.Time) {
	r := c.state.result
	c.persist.SubmitScore(leaderboard.Submission{
		Initials:   string(c.state.initials),
		Score:      r.Score,
		Level:      r.Level,
		DurationMs: r.Elapsed.Milliseconds(),
		Difficulty: r.Difficulty.String(),
	})
	c.state.submitted = true
	c.state.setStatus(now, "Saving score...")
}

// updateScreen follows terminal resizes, clamping to the max render area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)

	if renderWidth == c.canvas.TerminalWidth() && renderHeight == c.canvas.TerminalHeight() &&
		offsetCol == c.canvas.OffsetCol() && offsetRow == c.canvas.OffsetRow() {
		return
	}

	c.chunkWriter.ClearScreen()
	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.canvas.ForceRedraw()
	c.chunkWriter.SetOffset(offsetCol, offsetRow)

	arenaWidth, arenaHeight := arenaSize(renderWidth, renderHeight)
	c.canvas.SetLogicalSize(arenaWidth, arenaHeight)
	if c.state.game != nil {
		c.state.game.Resize(arenaWidth, arenaHeight)
	}
}
