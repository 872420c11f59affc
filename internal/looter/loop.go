package looter

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/txmazing/primelooter/internal/models"
)

// DefaultInterval is the pause between looping cycles.
const DefaultInterval = 24 * time.Hour

// CycleRunner abstracts one claim cycle so the controller can be tested
// without a browser.
type CycleRunner interface {
	RunCycle(ctx context.Context) ([]models.Result, error)
}

// Controller drives cycles in one of two modes: run once and return, or
// loop on a fixed cadence until the context is cancelled. In looping mode a
// failed cycle is logged and the next one still fires on schedule.
type Controller struct {
	Runner   CycleRunner
	Loop     bool
	Interval time.Duration
	Log      zerolog.Logger
	Report   func([]models.Result) error
}

func (c *Controller) Run(ctx context.Context) error {
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	for {
		results, err := c.Runner.RunCycle(ctx)
		if err != nil {
			if !c.Loop {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Log.Error().Err(err).Msg("cycle failed, waiting for next scheduled run")
		} else if c.Report != nil {
			if err := c.Report(results); err != nil {
				return err
			}
		}

		if !c.Loop {
			return nil
		}

		c.Log.Info().Time("next_run", time.Now().Add(interval)).Msg("sleeping until next cycle")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
