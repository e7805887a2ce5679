package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/asteroids-arcade/internal/config"
	"github.com/tomz197/asteroids-arcade/internal/leaderboard"
	"github.com/tomz197/asteroids-arcade/internal/loop/client"
	gameconfig "github.com/tomz197/asteroids-arcade/internal/loop/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// The game owns stdout, so logs go to a file when one is configured.
	var logger *log.Logger
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = config.NewLogger(f, "game")
	} else {
		logger = config.DiscardLogger()
	}

	profiles := gameconfig.DefaultProfiles()
	if path := config.GetEnv("DIFFICULTY_FILE", ""); path != "" {
		loaded, err := gameconfig.LoadProfiles(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load difficulty table: %v\n", err)
			os.Exit(1)
		}
		profiles = loaded
	}

	board, err := leaderboard.Open(
		config.GetEnv("LEADERBOARD_URL", ""),
		config.GetEnv("LEADERBOARD_FILE", gameconfig.LeaderboardFileName),
		gameconfig.LeaderboardSize,
		logger,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open leaderboard: %v\n", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(os.Stdin, os.Stdout, client.Options{
		Profiles:    profiles,
		Leaderboard: board,
		Logger:      logger,
	})
	if err := c.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
