// Package app wires the stores together and drives startup: run the
// seed migration to completion, then load all stores in parallel.
package app

import (
	"context"
	"sync"

	"github.com/bstanko/liftlog/internal/gym/exercises"
	"github.com/bstanko/liftlog/internal/gym/migrations"
	"github.com/bstanko/liftlog/internal/gym/progress"
	"github.com/bstanko/liftlog/internal/gym/settings"
	"github.com/bstanko/liftlog/internal/gym/workouts"
	"github.com/bstanko/liftlog/internal/resttimer"
	"github.com/bstanko/liftlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

type App struct {
	Exercises *exercises.Store
	Workouts  *workouts.Store
	Progress  *progress.Store
	Settings  *settings.Store
	RestTimer *resttimer.Timer

	migrations *migrations.Runner

	initOnce sync.Once

	mu          sync.Mutex
	loading     bool
	initialized bool
	initErr     error
}

type Params struct {
	Exercises  *exercises.Store
	Workouts   *workouts.Store
	Progress   *progress.Store
	Settings   *settings.Store
	RestTimer  *resttimer.Timer
	Migrations *migrations.Runner
}

func New(params Params) *App {
	return &App{
		Exercises:  params.Exercises,
		Workouts:   params.Workouts,
		Progress:   params.Progress,
		Settings:   params.Settings,
		RestTimer:  params.RestTimer,
		migrations: params.Migrations,
	}
}

// Initialize runs the seed migration, then loads all four stores in
// parallel. A failed migration is remembered but does not block the
// loads, the stores fall back to their local state on their own. Only
// the first call does anything.
func (a *App) Initialize(ctx context.Context) {
	a.initOnce.Do(func() {
		ctx, span := tracing.GlobalTracer.Start(ctx, "app.initialize")
		defer span.End()

		a.setLoading(true)
		defer a.setLoading(false)

		if err := a.migrations.Run(ctx); err != nil {
			span.RecordError(err)
			log.Errorf("seed migration failed, continuing with local data: %s", err)
			a.mu.Lock()
			a.initErr = err
			a.mu.Unlock()
		}

		var wg sync.WaitGroup
		for _, load := range []func(context.Context){
			a.Exercises.Load,
			a.Workouts.Load,
			a.Progress.Load,
			a.Settings.Load,
		} {
			wg.Add(1)
			go func(load func(context.Context)) {
				defer wg.Done()
				load(ctx)
			}(load)
		}
		wg.Wait()

		a.mu.Lock()
		a.initialized = true
		a.mu.Unlock()

		log.Infof(
			"app initialized: %d exercises, %d workouts, %d tracked, streak %d",
			len(a.Exercises.All()), len(a.Workouts.All()),
			len(a.Progress.All()), a.Progress.WorkoutStreak(),
		)
	})
}

// CompleteWorkout finishes the given workout: the streak moves first
// (it keys off the previous workout day), then the completion is
// recorded, which stamps today as the last workout day. The rest timer
// is dismissed along the way.
func (a *App) CompleteWorkout(ctx context.Context, w workouts.Workout) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "app.completeWorkout")
	defer span.End()

	completed := make([]progress.CompletedExercise, 0, len(w.Exercises))
	for _, entry := range w.Exercises {
		completed = append(completed, progress.CompletedExercise{
			Name:   entry.Exercise.Name,
			Weight: entry.Weight,
			Reps:   entry.Reps,
			Sets:   entry.Sets,
		})
	}

	a.Progress.UpdateWorkoutStreak()
	a.Progress.RecordWorkoutCompletion(ctx, w.ID, w.Name, completed)

	a.Workouts.SetCurrent(nil)
	a.RestTimer.Hide()
}

// ClearAllData wipes all remote user data and reloads every store from
// the now-empty backend. The next startup re-seeds the catalog.
func (a *App) ClearAllData(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "app.clearAllData")
	defer span.End()

	if err := a.migrations.ClearAll(ctx); err != nil {
		span.RecordError(err)
		return err
	}

	a.Workouts.Clear(ctx)

	var wg sync.WaitGroup
	for _, load := range []func(context.Context){
		a.Exercises.Load,
		a.Workouts.Load,
		a.Progress.Load,
		a.Settings.Load,
	} {
		wg.Add(1)
		go func(load func(context.Context)) {
			defer wg.Done()
			load(ctx)
		}(load)
	}
	wg.Wait()
	return nil
}

// Close releases background resources.
func (a *App) Close() {
	a.RestTimer.Close()
}

func (a *App) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Initialized reports whether startup finished, successfully or not.
func (a *App) Initialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized
}

// Err returns the startup error, if any. Initialization still completes
// when it is non-nil.
func (a *App) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initErr
}

func (a *App) setLoading(loading bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = loading
}
