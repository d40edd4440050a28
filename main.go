package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomoscreen/internal/api"
	"github.com/sadopc/pomoscreen/internal/config"
	"github.com/sadopc/pomoscreen/internal/platform"
	"github.com/sadopc/pomoscreen/internal/store"
	"github.com/sadopc/pomoscreen/internal/tui"
)

const appName = "pomoscreen"

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	code := run()
	guard.Release()
	os.Exit(code)
}

func run() int {
	settingsPath, err := config.DefaultPath(appName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	settings, err := config.Load(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading settings: %v\n", err)
		return 1
	}

	logDir := filepath.Dir(settingsPath)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	logFile, err := tea.LogToFile(filepath.Join(logDir, appName+".log"), appName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
		return 1
	}
	defer logFile.Close()

	level := new(slog.LevelVar)
	level.Set(settings.SlogLevel())
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		return 1
	}
	defer s.Close()

	board := api.NewStatusBoard()
	app := tui.NewApp(tui.Options{
		Store:        s,
		Settings:     settings,
		SettingsPath: settingsPath,
		IdleProvider: platform.NewIdleProvider(),
		Board:        board,
		Logger:       logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The API port is read once; changing it takes effect on restart.
	if settings.API.Port > 0 {
		handler := api.NewHandler(board, func(cmd api.Command) { p.Send(cmd) }, s, logger)
		go func() {
			if err := api.Serve(ctx, settings.API.Port, api.NewRouter(handler), logger); err != nil {
				logger.Error("control api stopped", "err", err)
			}
		}()
	}

	go func() {
		err := platform.WatchScreenLock(ctx, func(locked bool) {
			p.Send(tui.ScreenLockMsg{Locked: locked})
		})
		switch {
		case errors.Is(err, platform.ErrScreenLockUnsupported):
			logger.Info("screen lock detection unavailable on this platform")
		case err != nil:
			logger.Warn("screen lock watcher stopped", "err", err)
		}
	}()

	go func() {
		err := config.Watch(ctx, settingsPath, func(next config.Settings) {
			level.Set(next.SlogLevel())
			p.Send(tui.SettingsMsg{Settings: next})
		}, logger)
		if err != nil {
			logger.Warn("settings watcher stopped", "err", err)
		}
	}()

	logger.Info("starting", "settings", settingsPath, "db", dbPath, "api_port", settings.API.Port)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
