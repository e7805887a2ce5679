package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/asteroids-arcade/internal/draw"
	"github.com/tomz197/asteroids-arcade/internal/loop/config"
	"github.com/tomz197/asteroids-arcade/internal/loop/session"
)

var titleArt = []string{
	`    _   ___ _____ ___ ___  ___ ___ ___  ___ `,
	`   /_\ / __|_   _| __| _ \/ _ \_ _|   \/ __|`,
	`  / _ \\__ \ | | | _||   / (_) | || |) \__ \`,
	` /_/ \_\___/ |_| |___|_|_\\___/___|___/|___/`,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// drawFrame draws the current frame.
func (c *Client) drawFrame(now time.Time) error {
	// On screen or idle transitions, clear so the previous page does not linger.
	if c.state.screen != c.state.prevScreen || c.state.idle != c.state.wasIdle {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.screen
		c.state.wasIdle = c.state.idle
	}

	c.canvas.Clear()
	if c.state.screen == ScreenPlaying && c.state.game != nil && !c.state.idle {
		c.drawWorld(c.state.game)
	}
	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	if err := c.canvas.RenderBorder(c.chunkWriter); err != nil {
		return err
	}

	c.drawUI(now)
	return c.chunkWriter.Flush()
}

// drawUI draws the text layer for the current screen.
func (c *Client) drawUI(now time.Time) {
	width := c.canvas.TerminalWidth()
	height := c.canvas.TerminalHeight()
	centerX, centerY := width/2, height/2

	if c.state.idle {
		c.drawIdleScreen(now, centerX, centerY)
		return
	}

	switch c.state.screen {
	case ScreenTitle:
		c.drawTitleScreen(now, centerX, centerY)
	case ScreenHelp:
		c.drawHelpScreen(centerX, centerY)
	case ScreenLeaderboard:
		c.drawLeaderboardScreen(centerX, centerY)
	case ScreenPlaying:
		if c.state.game != nil {
			c.drawHUD(now, width, height, c.state.game)
		}
	case ScreenGameOver:
		c.drawGameOverScreen(now, centerX, centerY)
	case ScreenShutdown:
		c.drawShutdownScreen(now, centerX, centerY)
	}

	if status := c.state.statusLine(now); status != "" && c.state.screen != ScreenPlaying {
		c.chunkWriter.WriteStyled(max(centerX-draw.TextWidth(status)/2, 1), height, status, draw.Yellow, false)
	}
}

// blinkOn toggles every 600ms for prompts.
func blinkOn(now time.Time) bool {
	return now.UnixMilli()/600%2 == 0
}

func (c *Client) drawArt(art []string, centerX, top int) {
	artWidth := 0
	for _, line := range art {
		artWidth = max(artWidth, draw.TextWidth(line))
	}
	for i, line := range art {
		c.chunkWriter.WriteAt(max(centerX-artWidth/2, 1), top+i, line)
	}
}

func (c *Client) drawTitleScreen(now time.Time, centerX, centerY int) {
	cw := c.chunkWriter
	top := centerY - 8
	c.drawArt(titleArt, centerX, top)

	row := top + len(titleArt) + 1
	cw.WriteCentered(centerX, row, "~ Asteroids in your terminal ~")

	row += 2
	cw.WriteCentered(centerX, row, "Choose difficulty")
	labels := make([]string, len(config.Difficulties))
	for i, d := range config.Difficulties {
		labels[i] = fmt.Sprintf(" %d %-9s ", i+1, d)
	}
	line := strings.Join(labels, " ")
	col := max(centerX-draw.TextWidth(line)/2, 1)
	for i, d := range config.Difficulties {
		if d == c.state.difficulty {
			cw.WriteStyled(col, row+1, labels[i], draw.Green, true)
		} else {
			cw.WriteAt(col, row+1, labels[i])
		}
		col += draw.TextWidth(labels[i]) + 1
	}

	row += 3
	menu := []string{
		"ENTER . . . . . Start",
		"H  . . . . . . . Help",
		"B  . . . Leaderboard",
		"Q  . . . . . . . Quit",
	}
	for i, m := range menu {
		cw.WriteCentered(centerX, row+i, m)
	}

	row += len(menu) + 1
	if blinkOn(now) {
		cw.WriteCentered(centerX, row, ">>  Press 1, 2 or 3 to play  <<")
	} else {
		cw.WriteCentered(centerX, row, strings.Repeat(" ", 31))
	}
	if c.state.plays > 0 {
		cw.WriteCentered(centerX, row+2, fmt.Sprintf("Games played: %d", c.state.plays))
	}
}

func (c *Client) drawHelpScreen(centerX, centerY int) {
	lines := []string{
		"HOW TO PLAY",
		"",
		"W / Up  . . . . . . . Thrust",
		"A D / Left Right  . . Rotate",
		"SPACE . . . . . . . . . Fire",
		"S / Down  . . . .  Hyperspace",
		"ESC . . . . . . .  Abandon game",
		"Q . . . . . . . . . . . . Quit",
		"",
		fmt.Sprintf("Large %d  Medium %d  Small %d points",
			config.ScoreLargeAsteroid, config.ScoreMediumAsteroid, config.ScoreSmallAsteroid),
		fmt.Sprintf("Extra life every %d points", config.BonusLifeThreshold),
		fmt.Sprintf("Hyperspace recharges in %s", config.HyperspaceCooldown),
		"Clear the field to reach the next level",
		"",
		"ESC or ENTER to go back",
	}
	top := centerY - len(lines)/2
	for i, line := range lines {
		c.chunkWriter.WriteCentered(centerX, top+i, line)
	}
}

func (c *Client) drawLeaderboardScreen(centerX, centerY int) {
	cw := c.chunkWriter
	top := centerY - config.LeaderboardSize/2 - 4
	cw.WriteCentered(centerX, top, "TOP SCORES")

	switch {
	case c.persist == nil:
		cw.WriteCentered(centerX, top+2, "Leaderboard offline")
	case !c.state.boardLoaded:
		cw.WriteCentered(centerX, top+2, "Loading...")
	case len(c.state.board) == 0:
		cw.WriteCentered(centerX, top+2, "No scores yet. Be the first!")
	default:
		header := fmt.Sprintf("%-4s %-4s %9s %5s %-10s", "#", "WHO", "SCORE", "LVL", "MODE")
		cw.WriteCentered(centerX, top+2, header)
		for i, e := range c.state.board {
			line := fmt.Sprintf("%-4d %-4s %9d %5d %-10s", i+1, e.Initials, e.Score, e.Level, e.Difficulty)
			cw.WriteCentered(centerX, top+3+i, line)
		}
	}

	bottom := top + config.LeaderboardSize + 5
	if c.state.plays > 0 {
		cw.WriteCentered(centerX, bottom, fmt.Sprintf("Games played: %d", c.state.plays))
	}
	cw.WriteCentered(centerX, bottom+2, "ESC or ENTER to go back")
}

// drawHUD draws the in-game overlay. Fields are fixed width so shrinking
// values leave nothing behind, and overlaid cells are marked dirty so the
// canvas repaints them next frame.
func (c *Client) drawHUD(now time.Time, width, height int, game *session.Session) {
	cw := c.chunkWriter
	ledger := game.Ledger()
	level := game.Level()

	score := fmt.Sprintf("Score: %-8d", ledger.Score)
	cw.WriteAt(2, 1, score)
	c.canvas.MarkTextDirty(2, 1, len(score))

	levelText := fmt.Sprintf("Level %-3d", level.Number)
	col := cw.WriteCentered(width/2, 1, levelText)
	c.canvas.MarkTextDirty(col, 1, len(levelText))

	lives := fmt.Sprintf("Lives: %-3d", ledger.Lives)
	cw.WriteAt(width-len(lives)-1, 1, lives)
	c.canvas.MarkTextDirty(width-len(lives)-1, 1, len(lives))

	hyper := "Hyperspace: ready   "
	if ship := game.Ship(); ship != nil && !ship.HyperspaceReady(game.Now()) {
		hyper = "Hyperspace: charging"
	}
	cw.WriteAt(2, height, hyper)
	c.canvas.MarkTextDirty(2, height, len(hyper))

	mode := level.Difficulty.String()
	cw.WriteAt(width-len(mode)-1, height, mode)
	c.canvas.MarkTextDirty(width-len(mode)-1, height, len(mode))

	if status := c.state.statusLine(now); status != "" {
		col := cw.WriteCentered(width/2, height, status)
		c.canvas.MarkTextDirty(col, height, draw.TextWidth(status))
	}

	if c.state.bannerLevel > 0 && game.Now() < c.state.bannerUntil {
		banner := fmt.Sprintf("  LEVEL %d  ", c.state.bannerLevel)
		row := height/2 - 3
		col := max(width/2-len(banner)/2, 1)
		cw.WriteStyled(col, row, banner, draw.Yellow, true)
		c.canvas.MarkTextDirty(col, row, len(banner))
	}
}

func (c *Client) drawGameOverScreen(now time.Time, centerX, centerY int) {
	cw := c.chunkWriter
	top := centerY - 7
	c.drawArt(gameOverArt, centerX, top)

	r := c.state.result
	row := top + len(gameOverArt) + 1
	cw.WriteCentered(centerX, row, fmt.Sprintf("Score: %d", r.Score))
	cw.WriteCentered(centerX, row+1, fmt.Sprintf("Level %d  %s  %s", r.Level, r.Difficulty, r.Elapsed.Round(time.Second)))

	row += 3
	switch {
	case c.persist == nil:
		cw.WriteCentered(centerX, row, "Leaderboard offline")
		c.drawContinuePrompt(now, centerX, row+2)
	case c.state.submitted:
		if line := c.rankLine(); line != "" {
			cw.WriteCentered(centerX, row, line)
		}
		c.drawContinuePrompt(now, centerX, row+2)
	default:
		entry := string(c.state.initials)
		if len(entry) < config.MaxInitials {
			cursor := " "
			if blinkOn(now) {
				cursor = "_"
			}
			entry += cursor + strings.Repeat(" ", config.MaxInitials-len(entry)-1)
		}
		cw.WriteCentered(centerX, row, "Enter your initials: "+entry)
		cw.WriteCentered(centerX, row+2, "ENTER save   ESC skip")
	}
}

// rankLine reports where the submitted score landed.
func (c *Client) rankLine() string {
	if c.state.rank == 0 {
		return ""
	}
	return fmt.Sprintf("You placed #%d", c.state.rank)
}

func (c *Client) drawContinuePrompt(now time.Time, centerX, row int) {
	prompt := ">>  Press ENTER to continue  <<"
	if !blinkOn(now) {
		prompt = strings.Repeat(" ", len(prompt))
	}
	c.chunkWriter.WriteCentered(centerX, row, prompt)
}

func (c *Client) drawIdleScreen(now time.Time, centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")
	left := config.IdleDisconnectTime - now.Sub(c.state.lastInput)
	cw.WriteCentered(centerX, centerY, fmt.Sprintf("You will be disconnected in %3d seconds.", int(left.Seconds())))
	cw.WriteCentered(centerX, centerY+2, "Press any key to continue")
}

func (c *Client) drawShutdownScreen(now time.Time, centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	cw.WriteCentered(centerX, centerY-1, "The arcade is closing for maintenance.")
	cw.WriteCentered(centerX, centerY, "Please reconnect in a moment.")
	left := int(c.state.shutdownAt.Sub(now).Seconds()) + 1
	cw.WriteCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", max(left, 0)))
	cw.WriteCentered(centerX, centerY+4, "Press Q to disconnect now")
}
