package looter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/txmazing/primelooter/internal/models"
)

type stubRunner struct {
	results [][]models.Result
	errs    []error
	calls   int
}

func (s *stubRunner) RunCycle(context.Context) ([]models.Result, error) {
	idx := s.calls
	s.calls++
	var results []models.Result
	if idx < len(s.results) {
		results = s.results[idx]
	}
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	return results, err
}

func TestControllerRunOnce(t *testing.T) {
	runner := &stubRunner{results: [][]models.Result{{{Outcome: models.OutcomeClaimed}}}}

	var reported []models.Result
	controller := &Controller{
		Runner: runner,
		Log:    zerolog.Nop(),
		Report: func(results []models.Result) error {
			reported = results
			return nil
		},
	}

	if err := controller.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("expected exactly one cycle, got %d", runner.calls)
	}
	if len(reported) != 1 {
		t.Fatalf("expected results reported once, got %d", len(reported))
	}
}

func TestControllerRunOncePropagatesError(t *testing.T) {
	cycleErr := &AuthError{Err: ErrLoginWall}
	runner := &stubRunner{errs: []error{cycleErr}}
	controller := &Controller{Runner: runner, Log: zerolog.Nop()}

	err := controller.Run(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestControllerLoopSurvivesCycleFailure(t *testing.T) {
	runner := &stubRunner{
		errs:    []error{errors.New("navigation failed"), nil},
		results: [][]models.Result{nil, {{Outcome: models.OutcomeClaimed}}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	reports := 0
	controller := &Controller{
		Runner:   runner,
		Loop:     true,
		Interval: time.Millisecond,
		Log:      zerolog.Nop(),
		Report: func([]models.Result) error {
			reports++
			cancel()
			return nil
		},
	}

	err := controller.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if runner.calls < 2 {
		t.Fatalf("expected loop to continue past a failed cycle, got %d calls", runner.calls)
	}
	if reports != 1 {
		t.Fatalf("expected 1 report after the recovered cycle, got %d", reports)
	}
}

func TestControllerLoopStopsOnCancelDuringSleep(t *testing.T) {
	runner := &stubRunner{}
	ctx, cancel := context.WithCancel(context.Background())

	controller := &Controller{
		Runner:   runner,
		Loop:     true,
		Interval: time.Hour,
		Log:      zerolog.Nop(),
		Report: func([]models.Result) error {
			go cancel()
			return nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- controller.Run(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context cancellation, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("controller did not stop after cancellation")
	}
}
