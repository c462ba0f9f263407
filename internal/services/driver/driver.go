// Package driver turns wall-clock time into ticks for the game controller.
package driver

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/blockdrop/internal/dependencies/clock"
)

// Target receives elapsed time on every frame
type Target interface {
	Advance(ctx context.Context, elapsed time.Duration)
}

// Config holds driver settings
type Config struct {
	// Interval between frames
	Interval time.Duration
	// MaxStep caps the elapsed time delivered in one frame, so a stalled
	// process does not drop pieces through many rows at once
	MaxStep time.Duration
}

// DefaultConfig returns a roughly 60 Hz driver
func DefaultConfig() Config {
	return Config{
		Interval: 16 * time.Millisecond,
		MaxStep:  250 * time.Millisecond,
	}
}

// Driver measures the time between frames and hands it to a Target
type Driver struct {
	target Target
	clock  clock.Clock
	cfg    Config
	logger *slog.Logger

	last time.Time
}

// New creates a Driver. Time starts counting from the first Step.
func New(target Target, clock clock.Clock, cfg Config, logger *slog.Logger) *Driver {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Driver{
		target: target,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
	}
}

// Step delivers the time elapsed since the previous Step and returns it
func (d *Driver) Step(ctx context.Context) time.Duration {
	now := d.clock.Now()
	if d.last.IsZero() {
		d.last = now
		return 0
	}

	elapsed := now.Sub(d.last)
	d.last = now
	if elapsed <= 0 {
		return 0
	}
	if d.cfg.MaxStep > 0 && elapsed > d.cfg.MaxStep {
		d.logger.Warn("driver frame clamped",
			slog.Duration("elapsed", elapsed),
			slog.Duration("max_step", d.cfg.MaxStep),
		)
		elapsed = d.cfg.MaxStep
	}

	d.target.Advance(ctx, elapsed)
	return elapsed
}

// Run steps the target every Interval until ctx is cancelled
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	d.logger.Info("driver started", slog.Duration("interval", d.cfg.Interval))
	d.Step(ctx)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("driver stopped")
			return
		case <-ticker.C:
			d.Step(ctx)
		}
	}
}
