package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
	"gorm.io/driver/sqlite"

	g "github.com/go-mixins/gorm/v4"

	"github.com/go-mixins/encounter"
	"github.com/go-mixins/encounter/driver/gorm"
	"github.com/go-mixins/encounter/internal/config"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}.NewTextHandler(os.Stdout)).With(slog.String("version", versioninfo.Revision))
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Warn("execution failed", "error", err)
		os.Exit(1)
	}
	// notifications are delivered asynchronously
	time.Sleep(time.Second)
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	gormBackend := &g.Backend{Driver: sqlite.Open(cfg.DatabasePath), Debug: cfg.Debug}
	if err := gormBackend.Connect(); err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.DatabasePath, err)
	}
	backend := gorm.NewBackend[encounter.Encounter](gormBackend)
	if err := backend.Connect(true); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}
	repo := encounter.NewRepository(backend)
	repo.Subscribe(func(n encounter.Notification) {
		logger.Info("signaled",
			"event", fmt.Sprintf("%s: %+v", n.Event.EventName(), n.Event),
			"aggregate", n.AggregateID,
			"version", n.AggregateVersion,
		)
	})
	svc := encounter.NewService(repo)
	svc.MaxRetries = cfg.MaxRetries
	svc.RetryTimeout = cfg.RetryTimeout
	svc.Logger = logger

	id := uuid.New()
	if _, err := svc.Admit(ctx, id, "Fred Jones", 32, 45); err != nil {
		return err
	}
	if err := svc.Execute(ctx, id, encounter.Transfer{Ward: 22}); err != nil {
		return err
	}
	if err := svc.Execute(ctx, id, encounter.Discharge{}); err != nil {
		return err
	}
	var transferErr *encounter.TransferOfDischargedPatientError
	if err := svc.Execute(ctx, id, encounter.Transfer{Ward: 3}); errors.As(err, &transferErr) {
		logger.Warn("not transferring discharged patient", "patient", transferErr.PatientID, "ward", transferErr.Ward)
	} else if err != nil {
		return err
	}

	enc, err := repo.Load(ctx, id)
	if err != nil {
		return err
	}
	state := enc.State()
	logger.Info("encounter replayed",
		"patient", state.PatientID,
		"name", state.PatientName,
		"ward", state.Ward,
		"status", state.Status.String(),
		"version", state.Version,
	)
	return nil
}
