package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bstanko/liftlog/internal/gym/exercises"
	"github.com/bstanko/liftlog/internal/gym/migrations"
	"github.com/bstanko/liftlog/internal/gym/progress"
	"github.com/bstanko/liftlog/internal/gym/settings"
	"github.com/bstanko/liftlog/internal/gym/syncstore"
	"github.com/bstanko/liftlog/internal/gym/workouts"
	"github.com/bstanko/liftlog/internal/resttimer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend stands in for the remote client across every store.
type fakeBackend struct {
	exercises   []exercises.Exercise
	workouts    []workouts.Workout
	progress    []progress.ProgressExercise
	history     []progress.ExerciseSession
	settings    *settings.Settings
	hasSeed     bool
	listCalls   int
	recordErr   error
	migrateErr  error
	clearedAll  bool
	seedBatches int
}

func (f *fakeBackend) ListExercises(_ context.Context) ([]exercises.Exercise, error) {
	f.listCalls++
	return f.exercises, nil
}

func (f *fakeBackend) AddExercise(_ context.Context, e exercises.Exercise) (*exercises.Exercise, error) {
	e.ID = "srv-1"
	return &e, nil
}

func (f *fakeBackend) DeleteExercise(_ context.Context, _ string) error { return nil }

func (f *fakeBackend) ListWorkouts(_ context.Context) ([]workouts.Workout, error) {
	return f.workouts, nil
}

func (f *fakeBackend) AddWorkout(_ context.Context, w workouts.Workout) (*workouts.Workout, error) {
	w.ID = "srv-w1"
	return &w, nil
}

func (f *fakeBackend) UpdateWorkout(_ context.Context, _ string, _ workouts.Workout) error {
	return nil
}

func (f *fakeBackend) DeleteWorkout(_ context.Context, _ string) error { return nil }

func (f *fakeBackend) ListProgress(_ context.Context) ([]progress.ProgressExercise, error) {
	return f.progress, nil
}

func (f *fakeBackend) AddProgress(_ context.Context, e progress.ProgressExercise) (*progress.ProgressExercise, error) {
	e.ID = "srv-p1"
	return &e, nil
}

func (f *fakeBackend) UpdateProgress(_ context.Context, _ string, _ progress.Update) error {
	return nil
}

func (f *fakeBackend) DeleteProgress(_ context.Context, _ string) error { return nil }

func (f *fakeBackend) ListHistory(_ context.Context) ([]progress.ExerciseSession, error) {
	return f.history, nil
}

func (f *fakeBackend) RecordWorkoutCompletion(_ context.Context, _, _ string, _ []progress.CompletedExercise) error {
	return f.recordErr
}

func (f *fakeBackend) GetSettings(_ context.Context) (*settings.Settings, error) {
	return f.settings, nil
}

func (f *fakeBackend) UpsertSettings(_ context.Context, s settings.Settings) error {
	f.settings = &s
	return nil
}

func (f *fakeBackend) HasExercises(_ context.Context) (bool, error) {
	return f.hasSeed, f.migrateErr
}

func (f *fakeBackend) InsertExercises(_ context.Context, _ []exercises.Exercise) error {
	f.seedBatches++
	return nil
}

func (f *fakeBackend) DeleteAllUserData(_ context.Context) error {
	f.clearedAll = true
	f.exercises = nil
	f.workouts = nil
	f.progress = nil
	f.history = nil
	f.settings = nil
	return nil
}

func newTestApp(t *testing.T, backend *fakeBackend) *App {
	t.Helper()
	ctx := context.Background()
	a := New(Params{
		Exercises:  exercises.NewStore(ctx, backend, syncstore.NewMemory()),
		Workouts:   workouts.NewStore(ctx, backend, syncstore.NewMemory()),
		Progress:   progress.NewStore(ctx, backend, syncstore.NewMemory()),
		Settings:   settings.NewStore(ctx, backend, syncstore.NewMemory()),
		RestTimer:  resttimer.New(nil),
		Migrations: migrations.NewRunner(backend),
	})
	t.Cleanup(a.Close)
	return a
}

func TestApp_Initialize(t *testing.T) {
	backend := &fakeBackend{
		hasSeed: true,
		exercises: []exercises.Exercise{
			{ID: "ex1", Name: "Bench Press", Category: exercises.CategoryPush},
		},
		workouts: []workouts.Workout{{ID: "w1", Name: "Push Day"}},
		settings: &settings.Settings{Theme: settings.ThemeDark, DefaultWeightUnit: settings.UnitLbs},
	}

	a := newTestApp(t, backend)
	require.False(t, a.Initialized())

	a.Initialize(context.Background())

	assert.True(t, a.Initialized())
	assert.NoError(t, a.Err())
	assert.False(t, a.Loading())
	assert.Len(t, a.Exercises.All(), 1)
	assert.Len(t, a.Workouts.All(), 1)
	assert.Equal(t, settings.ThemeDark, a.Settings.Theme())
	assert.Zero(t, backend.seedBatches)
}

func TestApp_Initialize_seedsEmptyBackend(t *testing.T) {
	backend := &fakeBackend{}
	a := newTestApp(t, backend)
	a.Initialize(context.Background())

	assert.NoError(t, a.Err())
	assert.Equal(t, 4, backend.seedBatches)
}

func TestApp_Initialize_migrationFailureStillInitializes(t *testing.T) {
	backend := &fakeBackend{migrateErr: errors.New("backend down")}
	a := newTestApp(t, backend)

	a.Initialize(context.Background())

	assert.True(t, a.Initialized())
	require.Error(t, a.Err())
}

func TestApp_Initialize_runsOnce(t *testing.T) {
	backend := &fakeBackend{hasSeed: true}
	a := newTestApp(t, backend)

	a.Initialize(context.Background())
	a.Initialize(context.Background())

	assert.Equal(t, 1, backend.listCalls)
}

func TestApp_CompleteWorkout(t *testing.T) {
	// remote recording fails so the change is synthesized locally, which
	// makes the effect directly observable
	backend := &fakeBackend{hasSeed: true, recordErr: errors.New("offline")}
	a := newTestApp(t, backend)
	a.Initialize(context.Background())

	a.Progress.Add(context.Background(), progress.ProgressExercise{
		Name:          "Bench Press",
		CurrentWeight: 75,
		Unit:          progress.UnitKg,
	})

	w := workouts.Workout{
		ID:   "w1",
		Name: "Push Day",
		Exercises: []workouts.WorkoutExercise{
			{
				Exercise: exercises.Exercise{ID: "ex1", Name: "Bench Press"},
				Sets:     3, Reps: 6, Weight: 85,
			},
		},
	}
	a.Workouts.SetCurrent(&w)
	a.RestTimer.Show(90)

	a.CompleteWorkout(context.Background(), w)

	today := time.Now().Format("2006-01-02")
	assert.Equal(t, 1, a.Progress.WorkoutStreak())
	assert.Equal(t, today, a.Progress.LastWorkoutDate())

	history := a.Progress.History()
	require.Len(t, history, 1)
	assert.Equal(t, "Bench Press", history[0].ExerciseName)
	assert.Equal(t, "w1", history[0].WorkoutID)

	tracked := a.Progress.All()
	require.Len(t, tracked, 1)
	assert.Equal(t, 85.0, tracked[0].CurrentWeight)
	assert.Equal(t, 85.0, tracked[0].PersonalRecord)
	assert.Equal(t, 1, tracked[0].TotalSessions)

	assert.Nil(t, a.Workouts.Current())
	assert.Equal(t, resttimer.StateIdle, a.RestTimer.State())
}

func TestApp_CompleteWorkout_sameDayKeepsStreak(t *testing.T) {
	backend := &fakeBackend{hasSeed: true, recordErr: errors.New("offline")}
	a := newTestApp(t, backend)
	a.Initialize(context.Background())

	w := workouts.Workout{ID: "w1", Name: "Push Day"}
	a.CompleteWorkout(context.Background(), w)
	a.CompleteWorkout(context.Background(), w)

	assert.Equal(t, 1, a.Progress.WorkoutStreak())
}

func TestApp_ClearAllData(t *testing.T) {
	backend := &fakeBackend{
		hasSeed:  true,
		workouts: []workouts.Workout{{ID: "w1", Name: "Push Day"}},
	}
	a := newTestApp(t, backend)
	a.Initialize(context.Background())
	require.Len(t, a.Workouts.All(), 1)

	require.NoError(t, a.ClearAllData(context.Background()))

	assert.True(t, backend.clearedAll)
	assert.Empty(t, a.Workouts.All())
	// an empty remote library falls back to the built-in catalog
	assert.Len(t, a.Exercises.All(), len(exercises.DefaultCatalog()))
}
