package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bstanko/liftlog/internal/gym/workouts"
)

type workoutRow struct {
	ID        string               `json:"id,omitempty"`
	Name      string               `json:"name"`
	Date      string               `json:"date"`
	UserID    string               `json:"user_id,omitempty"`
	CreatedAt string               `json:"created_at,omitempty"`
	Exercises []workoutExerciseRow `json:"workout_exercises,omitempty"`
}

type workoutExerciseRow struct {
	ID        string       `json:"id,omitempty"`
	WorkoutID string       `json:"workout_id,omitempty"`
	Sets      int          `json:"sets"`
	Reps      int          `json:"reps"`
	Weight    float64      `json:"weight"`
	Notes     string       `json:"notes,omitempty"`
	Position  int          `json:"position"`
	Exercise  *exerciseRow `json:"exercises,omitempty"`
	// ExerciseID is only set on inserts, the embedded row covers reads.
	ExerciseID string `json:"exercise_id,omitempty"`
}

func (r workoutRow) toDomain() workouts.Workout {
	w := workouts.Workout{
		ID:        r.ID,
		Name:      r.Name,
		Date:      r.Date,
		Exercises: make([]workouts.WorkoutExercise, 0, len(r.Exercises)),
	}
	for _, we := range r.Exercises {
		entry := workouts.WorkoutExercise{
			Sets:   we.Sets,
			Reps:   we.Reps,
			Weight: we.Weight,
			Notes:  we.Notes,
		}
		if we.Exercise != nil {
			entry.Exercise = we.Exercise.toDomain()
		}
		w.Exercises = append(w.Exercises, entry)
	}
	return w
}

// ListWorkouts fetches the user's workouts with their exercise entries
// embedded, newest first.
func (c *Client) ListWorkouts(ctx context.Context) ([]workouts.Workout, error) {
	var rows []workoutRow
	err := c.do(ctx, request{
		method: http.MethodGet,
		table:  "workouts",
		query:  "select=*,workout_exercises(*,exercises(*))&" + c.userFilter() + "&order=date.desc",
		out:    &rows,
	})
	if err != nil {
		return nil, err
	}

	result := make([]workouts.Workout, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// AddWorkout inserts the workout row first, then its exercise entries
// keyed to the returned workout id. A failed child insert fails the
// whole add so the caller can fall back to a local-only workout.
func (c *Client) AddWorkout(ctx context.Context, workout workouts.Workout) (*workouts.Workout, error) {
	var rows []workoutRow
	err := c.do(ctx, request{
		method: http.MethodPost,
		table:  "workouts",
		prefer: "return=representation",
		body: []workoutRow{{
			Name:      workout.Name,
			Date:      workout.Date,
			UserID:    c.userID,
			CreatedAt: nowTimestamp(),
		}},
		out: &rows,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert workout: %w", ErrNoRepresentation)
	}

	added := rows[0].toDomain()
	added.Exercises = workout.Exercises

	if err := c.insertWorkoutExercises(ctx, added.ID, workout.Exercises); err != nil {
		return nil, err
	}
	return &added, nil
}

// UpdateWorkout replaces the workout wholesale: patch the parent row,
// then drop and re-insert the exercise entries.
func (c *Client) UpdateWorkout(ctx context.Context, id string, workout workouts.Workout) error {
	err := c.do(ctx, request{
		method: http.MethodPatch,
		table:  "workouts",
		query:  "id=eq." + url.QueryEscape(id) + "&" + c.userFilter(),
		body: map[string]any{
			"name": workout.Name,
			"date": workout.Date,
		},
	})
	if err != nil {
		return err
	}

	err = c.do(ctx, request{
		method: http.MethodDelete,
		table:  "workout_exercises",
		query:  "workout_id=eq." + url.QueryEscape(id),
	})
	if err != nil {
		return err
	}

	return c.insertWorkoutExercises(ctx, id, workout.Exercises)
}

// DeleteWorkout removes the exercise entries first so the parent delete
// never trips the foreign key.
func (c *Client) DeleteWorkout(ctx context.Context, id string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		table:  "workout_exercises",
		query:  "workout_id=eq." + url.QueryEscape(id),
	})
	if err != nil {
		return err
	}

	return c.do(ctx, request{
		method: http.MethodDelete,
		table:  "workouts",
		query:  "id=eq." + url.QueryEscape(id) + "&" + c.userFilter(),
	})
}

func (c *Client) insertWorkoutExercises(ctx context.Context, workoutID string, entries []workouts.WorkoutExercise) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]workoutExerciseRow, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, workoutExerciseRow{
			WorkoutID:  workoutID,
			ExerciseID: entry.Exercise.ID,
			Sets:       entry.Sets,
			Reps:       entry.Reps,
			Weight:     entry.Weight,
			Notes:      entry.Notes,
			Position:   i,
		})
	}

	return c.do(ctx, request{
		method: http.MethodPost,
		table:  "workout_exercises",
		body:   rows,
	})
}
