// Package migrations seeds the remote exercise catalog on first run and
// hosts the destructive clear-all-data operation.
package migrations

import (
	"context"
	"fmt"

	"github.com/bstanko/liftlog/internal/gym/exercises"
	"github.com/bstanko/liftlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const batchSize = 10

type remoteAPI interface {
	HasExercises(ctx context.Context) (bool, error)
	InsertExercises(ctx context.Context, batch []exercises.Exercise) error
	DeleteAllUserData(ctx context.Context) error
}

type Runner struct {
	api remoteAPI
}

func NewRunner(api remoteAPI) *Runner {
	return &Runner{api: api}
}

// Run seeds the exercise catalog if the remote table is still empty.
// Re-running against a seeded table is a no-op, so it is safe to call on
// every startup.
func (r *Runner) Run(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "migrations.run")
	defer span.End()

	seeded, err := r.api.HasExercises(ctx)
	if err != nil {
		return fmt.Errorf("check exercises table: %w", err)
	}
	if seeded {
		log.Debugf("exercise catalog already seeded, skipping migration")
		return nil
	}

	catalog := SeedCatalog()
	span.SetAttributes(attribute.Int("seed.exercises", len(catalog)))

	for start := 0; start < len(catalog); start += batchSize {
		end := min(start+batchSize, len(catalog))
		if err := r.api.InsertExercises(ctx, catalog[start:end]); err != nil {
			return fmt.Errorf("insert seed batch [%d:%d]: %w", start, end, err)
		}
	}

	log.Infof("seeded exercise catalog with %d exercises", len(catalog))
	return nil
}

// ClearAll wipes every remote row belonging to the user. The next Run
// will re-seed the catalog.
func (r *Runner) ClearAll(ctx context.Context) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "migrations.clearAll")
	defer span.End()

	if err := r.api.DeleteAllUserData(ctx); err != nil {
		return fmt.Errorf("delete all user data: %w", err)
	}

	log.Warnf("cleared all remote user data")
	return nil
}

// SeedCatalog is the full starter library written to a fresh backend. It
// is a superset of the built-in default catalog.
func SeedCatalog() []exercises.Exercise {
	return []exercises.Exercise{
		// push
		{Name: "Push-ups", Category: exercises.CategoryPush, MuscleGroup: "Chest, Triceps, Shoulders"},
		{Name: "Bench Press", Category: exercises.CategoryPush, MuscleGroup: "Chest", Equipment: "Barbell"},
		{Name: "Incline Bench Press", Category: exercises.CategoryPush, MuscleGroup: "Upper Chest", Equipment: "Barbell"},
		{Name: "Dumbbell Press", Category: exercises.CategoryPush, MuscleGroup: "Chest", Equipment: "Dumbbells"},
		{Name: "Shoulder Press", Category: exercises.CategoryPush, MuscleGroup: "Shoulders", Equipment: "Dumbbells"},
		{Name: "Overhead Press", Category: exercises.CategoryPush, MuscleGroup: "Shoulders", Equipment: "Barbell"},
		{Name: "Tricep Dips", Category: exercises.CategoryPush, MuscleGroup: "Triceps"},
		{Name: "Tricep Pushdowns", Category: exercises.CategoryPush, MuscleGroup: "Triceps", Equipment: "Cable Machine"},
		{Name: "Lateral Raises", Category: exercises.CategoryPush, MuscleGroup: "Shoulders", Equipment: "Dumbbells"},
		{Name: "Chest Flyes", Category: exercises.CategoryPush, MuscleGroup: "Chest", Equipment: "Dumbbells"},
		// pull
		{Name: "Pull-ups", Category: exercises.CategoryPull, MuscleGroup: "Back, Biceps"},
		{Name: "Chin-ups", Category: exercises.CategoryPull, MuscleGroup: "Back, Biceps"},
		{Name: "Bent-over Row", Category: exercises.CategoryPull, MuscleGroup: "Back", Equipment: "Barbell"},
		{Name: "Dumbbell Row", Category: exercises.CategoryPull, MuscleGroup: "Back", Equipment: "Dumbbells"},
		{Name: "Lat Pulldowns", Category: exercises.CategoryPull, MuscleGroup: "Back", Equipment: "Cable Machine"},
		{Name: "Seated Cable Row", Category: exercises.CategoryPull, MuscleGroup: "Back", Equipment: "Cable Machine"},
		{Name: "Bicep Curls", Category: exercises.CategoryPull, MuscleGroup: "Biceps", Equipment: "Dumbbells"},
		{Name: "Hammer Curls", Category: exercises.CategoryPull, MuscleGroup: "Biceps, Forearms", Equipment: "Dumbbells"},
		{Name: "Face Pulls", Category: exercises.CategoryPull, MuscleGroup: "Rear Delts", Equipment: "Cable Machine"},
		{Name: "Shrugs", Category: exercises.CategoryPull, MuscleGroup: "Traps", Equipment: "Dumbbells"},
		// legs
		{Name: "Squats", Category: exercises.CategoryLegs, MuscleGroup: "Quadriceps, Glutes"},
		{Name: "Barbell Squats", Category: exercises.CategoryLegs, MuscleGroup: "Quadriceps, Glutes", Equipment: "Barbell"},
		{Name: "Deadlifts", Category: exercises.CategoryLegs, MuscleGroup: "Hamstrings, Glutes", Equipment: "Barbell"},
		{Name: "Romanian Deadlifts", Category: exercises.CategoryLegs, MuscleGroup: "Hamstrings", Equipment: "Barbell"},
		{Name: "Lunges", Category: exercises.CategoryLegs, MuscleGroup: "Quadriceps, Glutes"},
		{Name: "Bulgarian Split Squats", Category: exercises.CategoryLegs, MuscleGroup: "Quadriceps, Glutes"},
		{Name: "Leg Press", Category: exercises.CategoryLegs, MuscleGroup: "Quadriceps, Glutes", Equipment: "Machine"},
		{Name: "Leg Curls", Category: exercises.CategoryLegs, MuscleGroup: "Hamstrings", Equipment: "Machine"},
		{Name: "Calf Raises", Category: exercises.CategoryLegs, MuscleGroup: "Calves"},
		{Name: "Hip Thrusts", Category: exercises.CategoryLegs, MuscleGroup: "Glutes", Equipment: "Barbell"},
		// core
		{Name: "Plank", Category: exercises.CategoryCore, MuscleGroup: "Core"},
		{Name: "Crunches", Category: exercises.CategoryCore, MuscleGroup: "Abs"},
		{Name: "Russian Twists", Category: exercises.CategoryCore, MuscleGroup: "Obliques"},
		{Name: "Leg Raises", Category: exercises.CategoryCore, MuscleGroup: "Lower Abs"},
		{Name: "Mountain Climbers", Category: exercises.CategoryCore, MuscleGroup: "Core, Shoulders"},
		// cardio
		{Name: "Running", Category: exercises.CategoryCardio, MuscleGroup: "Full Body"},
		{Name: "Cycling", Category: exercises.CategoryCardio, MuscleGroup: "Legs"},
		{Name: "Jump Rope", Category: exercises.CategoryCardio, MuscleGroup: "Full Body"},
	}
}
