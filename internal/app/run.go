package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/go-co-op/gocron/v2"

	"github.com/vk/scenetick/internal/ctxlog"
	"github.com/vk/scenetick/internal/publish"
)

// Run executes the simulation loop based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	var publisher *publish.Publisher
	if a.config.PublishURL != "" {
		var err error
		publisher, err = publish.Connect(ctx, a.config.PublishURL, 10*time.Second)
		if err != nil {
			return fmt.Errorf("failed to reach viewer: %w", err)
		}
		defer publisher.Close()
	}

	a.logger.Info("Starting simulation.",
		"entities", a.scene.Len(), "ticks", a.config.Ticks, "dt", a.config.TimeStep, "realtime", a.config.Realtime)

	var err error
	if a.config.Realtime {
		err = a.runRealtime(ctx, publisher)
	} else {
		err = a.runFlatOut(ctx, publisher)
	}
	if err != nil {
		return err
	}

	a.logger.Info("Simulation finished.", "time", a.scene.Time())
	a.dumpFrames()

	a.logger.Debug("App.Run method finished.")
	return nil
}

// step advances the scene by one tick and ships the result to the viewer.
func (a *App) step(ctx context.Context, publisher *publish.Publisher) error {
	if err := a.scene.Simulate(ctx, a.config.TimeStep); err != nil {
		return fmt.Errorf("simulation failed at t=%g: %w", a.scene.Time(), err)
	}
	if publisher != nil {
		publisher.PublishTick(a.scene)
	}
	return nil
}

// runFlatOut performs every tick back to back with no wall-clock pacing.
func (a *App) runFlatOut(ctx context.Context, publisher *publish.Publisher) error {
	for i := 0; i < a.config.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.step(ctx, publisher); err != nil {
			return err
		}
	}
	return nil
}

// runRealtime paces ticks on the wall clock so one second of scene time
// takes one second to simulate.
func (a *App) runRealtime(ctx context.Context, publisher *publish.Publisher) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create tick scheduler: %w", err)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			a.logger.Warn("Tick scheduler shutdown failed.", "error", err)
		}
	}()

	interval := time.Duration(a.config.TimeStep * float64(time.Second))
	remaining := a.config.Ticks
	done := make(chan error, 1)

	// Singleton mode keeps an overrunning tick from racing the next one on
	// the scene state.
	_, err = scheduler.NewJob(gocron.DurationJob(interval), gocron.NewTask(func() {
		if remaining <= 0 {
			return
		}
		if err := a.step(ctx, publisher); err != nil {
			remaining = 0
			done <- err
			return
		}
		remaining--
		if remaining == 0 {
			done <- nil
		}
	}), gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return fmt.Errorf("failed to schedule tick job: %w", err)
	}

	if a.config.Ticks == 0 {
		return nil
	}

	scheduler.Start()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// dumpFrames prints a human-readable pose summary for every entity in
// simulation order.
func (a *App) dumpFrames() {
	heading := color.New(color.FgCyan, color.Bold)
	name := color.New(color.FgGreen)

	heading.Fprintf(a.outW, "Scene at t=%g (%d entities)\n", a.scene.Time(), a.scene.Len())
	for _, e := range a.scene.Entities() {
		name.Fprintf(a.outW, "  %-20s", e.Name())
		fmt.Fprintf(a.outW, " %s\n", e.Frame())
	}
}
