package encounter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"github.com/go-mixins/encounter/driver"
)

var (
	// ErrTooManyRetries is returned when there are persistent concurrency errors detected
	ErrTooManyRetries = errors.New("too many retries")
	// ErrAlreadyExists is returned when admitting a patient whose encounter is already stored
	ErrAlreadyExists = errors.New("encounter already exists")
)

type Service struct {
	Repository   *Repository
	RetryTimeout time.Duration
	MaxRetries   int
	Logger       *slog.Logger
}

func NewService(r *Repository) *Service {
	return &Service{
		Repository: r,
	}
}

func (s *Service) retryTimeout() time.Duration {
	if s.RetryTimeout != 0 {
		return s.RetryTimeout
	}
	return time.Millisecond * 100
}

func (s *Service) maxRetries() int {
	if s.MaxRetries != 0 {
		return s.MaxRetries
	}
	return 10
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Admit starts a new encounter.
func (s *Service) Admit(ctx context.Context, id PatientID, name string, ageInYears, ward uint32) (*Encounter, error) {
	enc := New(id, name, ageInYears, ward)
	if err := s.Repository.Save(ctx, enc); errors.Is(err, driver.ErrConcurrency) {
		return nil, fmt.Errorf("admitting patient %s: %w", id, ErrAlreadyExists)
	} else if err != nil {
		return nil, fmt.Errorf("admitting patient %s: %w", id, err)
	}
	s.logger().Info("patient admitted", "patient", id, "ward", ward)
	return enc, nil
}

// Execute loads the encounter, runs cmd on it and saves the result. The whole
// cycle is repeated when another writer saved the encounter in between.
func (s *Service) Execute(ctx context.Context, id PatientID, cmd Command) error {
	ctx = withAggregateID(ctx, id)
	for i := 0; i < s.maxRetries(); i++ {
		enc, err := s.Repository.Load(ctx, id)
		if err != nil {
			return err
		}
		if err := cmd.Execute(ctx, enc); err != nil {
			s.logger().Info("command rejected", "patient", id, "command", fmt.Sprintf("%T", cmd), "error", err)
			return fmt.Errorf("executing %T on encounter %s: %w", cmd, id, err)
		} else if err := s.Repository.Save(ctx, enc); errors.Is(err, driver.ErrConcurrency) {
			s.logger().Debug("concurrent update, retrying", "patient", id, "attempt", i+1)
			if err := sleep(ctx, s.retryTimeout()); err != nil {
				return err
			}
			continue
		} else if err != nil {
			return fmt.Errorf("saving encounter %s: %w", id, err)
		}
		return nil
	}
	return fmt.Errorf("executing %T on encounter %s: %w", cmd, id, ErrTooManyRetries)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
