package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/pflag"

	"github.com/Kavantix/ticketflow/internal/app"
	"github.com/Kavantix/ticketflow/internal/config"
	"github.com/Kavantix/ticketflow/internal/flags"
	"github.com/Kavantix/ticketflow/internal/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	f, err := flags.New(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(f.ConfigPath())
	if err != nil {
		return err
	}
	f.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logFile, err := tea.LogToFile(cfg.Log.File, "debug")
	if err != nil {
		return err
	}
	defer logFile.Close()

	level := slog.LevelInfo
	if cfg.Log.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "ticketflow"),
		slog.String("backend", string(cfg.Storage.Backend)),
	)
	slog.SetDefault(log)

	zone.NewGlobal()
	defer zone.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opened storage.Storage
	model := app.New(ctx, app.Config{
		Open: func(ctx context.Context) (storage.Storage, error) {
			s, err := storage.Open(ctx, storage.Options{
				Backend:        cfg.Storage.Backend,
				Path:           cfg.Storage.Path,
				RedisAddr:      cfg.Storage.RedisAddr,
				RemigrateCount: f.RemigrateCount(),
			})
			opened = s
			return s, err
		},
		Namespace:   cfg.Storage.Namespace,
		SessionKey:  cfg.Storage.SessionKey,
		Credentials: cfg.Auth.Credentials(),
		Log:         log,
	})

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)

	slog.Info("Starting")

	_, err = program.Run()
	if opened != nil {
		if closeErr := opened.Close(); closeErr != nil {
			slog.Error("closing storage failed", slog.String("error", closeErr.Error()))
		}
	}
	if err != nil {
		slog.Error("Running program failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
