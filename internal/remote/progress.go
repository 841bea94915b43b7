package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bstanko/liftlog/internal/gym/progress"

	log "github.com/sirupsen/logrus"
)

type progressRow struct {
	ID             string  `json:"id,omitempty"`
	ExerciseName   string  `json:"exercise_name"`
	StartingWeight float64 `json:"starting_weight"`
	CurrentWeight  float64 `json:"current_weight"`
	GoalWeight     float64 `json:"goal_weight"`
	CurrentReps    int     `json:"current_reps"`
	TargetReps     int     `json:"target_reps"`
	Unit           string  `json:"unit"`
	DateAdded      string  `json:"date_added,omitempty"`
	LastUpdated    string  `json:"last_updated,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	PersonalRecord float64 `json:"personal_record"`
	TotalSessions  int     `json:"total_sessions"`
	UserID         string  `json:"user_id,omitempty"`
}

func (r progressRow) toDomain() progress.ProgressExercise {
	return progress.ProgressExercise{
		ID:             r.ID,
		Name:           r.ExerciseName,
		StartingWeight: r.StartingWeight,
		CurrentWeight:  r.CurrentWeight,
		GoalWeight:     r.GoalWeight,
		CurrentReps:    r.CurrentReps,
		TargetReps:     r.TargetReps,
		Unit:           progress.Unit(r.Unit),
		DateAdded:      r.DateAdded,
		LastUpdated:    r.LastUpdated,
		Notes:          r.Notes,
		PersonalRecord: r.PersonalRecord,
		TotalSessions:  r.TotalSessions,
	}
}

type historyRow struct {
	ID           string  `json:"id,omitempty"`
	ExerciseName string  `json:"exercise_name"`
	Weight       float64 `json:"weight"`
	Reps         int     `json:"reps"`
	Sets         int     `json:"sets"`
	Date         string  `json:"date"`
	WorkoutID    string  `json:"workout_id"`
	WorkoutName  string  `json:"workout_name"`
	UserID       string  `json:"user_id,omitempty"`
}

func (r historyRow) toDomain() progress.ExerciseSession {
	return progress.ExerciseSession{
		ID:           r.ID,
		ExerciseName: r.ExerciseName,
		Weight:       r.Weight,
		Reps:         r.Reps,
		Sets:         r.Sets,
		Date:         r.Date,
		WorkoutID:    r.WorkoutID,
		WorkoutName:  r.WorkoutName,
	}
}

// ListProgress returns the user's tracked exercises ordered by name.
func (c *Client) ListProgress(ctx context.Context) ([]progress.ProgressExercise, error) {
	var rows []progressRow
	err := c.do(ctx, request{
		method: http.MethodGet,
		table:  "progress",
		query:  "select=*&" + c.userFilter() + "&order=exercise_name",
		out:    &rows,
	})
	if err != nil {
		return nil, err
	}

	result := make([]progress.ProgressExercise, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// AddProgress inserts a tracked exercise, filling in the server-managed
// fields: dates, the starting personal record and a zero session count.
func (c *Client) AddProgress(ctx context.Context, exercise progress.ProgressExercise) (*progress.ProgressExercise, error) {
	today := todayDate()
	var rows []progressRow
	err := c.do(ctx, request{
		method: http.MethodPost,
		table:  "progress",
		prefer: "return=representation",
		body: []progressRow{{
			ExerciseName:   exercise.Name,
			StartingWeight: exercise.StartingWeight,
			CurrentWeight:  exercise.CurrentWeight,
			GoalWeight:     exercise.GoalWeight,
			CurrentReps:    exercise.CurrentReps,
			TargetReps:     exercise.TargetReps,
			Unit:           string(exercise.Unit),
			DateAdded:      today,
			LastUpdated:    today,
			Notes:          exercise.Notes,
			PersonalRecord: exercise.CurrentWeight,
			TotalSessions:  0,
			UserID:         c.userID,
		}},
		out: &rows,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert progress exercise: %w", ErrNoRepresentation)
	}

	added := rows[0].toDomain()
	return &added, nil
}

// UpdateProgress patches only the fields the update carries, plus the
// last-updated day.
func (c *Client) UpdateProgress(ctx context.Context, id string, update progress.Update) error {
	patch := map[string]any{
		"last_updated": todayDate(),
	}
	if update.Name != nil {
		patch["exercise_name"] = *update.Name
	}
	if update.StartingWeight != nil {
		patch["starting_weight"] = *update.StartingWeight
	}
	if update.CurrentWeight != nil {
		patch["current_weight"] = *update.CurrentWeight
	}
	if update.GoalWeight != nil {
		patch["goal_weight"] = *update.GoalWeight
	}
	if update.CurrentReps != nil {
		patch["current_reps"] = *update.CurrentReps
	}
	if update.TargetReps != nil {
		patch["target_reps"] = *update.TargetReps
	}
	if update.Unit != nil {
		patch["unit"] = string(*update.Unit)
	}
	if update.Notes != nil {
		patch["notes"] = *update.Notes
	}
	if update.PersonalRecord != nil {
		patch["personal_record"] = *update.PersonalRecord
	}
	if update.TotalSessions != nil {
		patch["total_sessions"] = *update.TotalSessions
	}

	return c.do(ctx, request{
		method: http.MethodPatch,
		table:  "progress",
		query:  "id=eq." + url.QueryEscape(id) + "&" + c.userFilter(),
		body:   patch,
	})
}

func (c *Client) DeleteProgress(ctx context.Context, id string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		table:  "progress",
		query:  "id=eq." + url.QueryEscape(id) + "&" + c.userFilter(),
	})
}

// ListHistory returns all exercise sessions, newest first.
func (c *Client) ListHistory(ctx context.Context) ([]progress.ExerciseSession, error) {
	var rows []historyRow
	err := c.do(ctx, request{
		method: http.MethodGet,
		table:  "exercise_history",
		query:  "select=*&" + c.userFilter() + "&order=date.desc",
		out:    &rows,
	})
	if err != nil {
		return nil, err
	}

	result := make([]progress.ExerciseSession, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// RecordWorkoutCompletion writes one history row per performed exercise,
// then rolls the matching tracked exercises forward. A tracked exercise
// that fails to update is logged and skipped, the history insert is the
// part that must not be lost.
func (c *Client) RecordWorkoutCompletion(ctx context.Context, workoutID, workoutName string, completed []progress.CompletedExercise) error {
	if len(completed) == 0 {
		return nil
	}

	today := todayDate()

	rows := make([]historyRow, 0, len(completed))
	for _, ex := range completed {
		rows = append(rows, historyRow{
			ExerciseName: ex.Name,
			Weight:       ex.Weight,
			Reps:         ex.Reps,
			Sets:         ex.Sets,
			Date:         today,
			WorkoutID:    workoutID,
			WorkoutName:  workoutName,
			UserID:       c.userID,
		})
	}

	err := c.do(ctx, request{
		method: http.MethodPost,
		table:  "exercise_history",
		body:   rows,
	})
	if err != nil {
		return fmt.Errorf("insert history rows: %w", err)
	}

	for _, ex := range completed {
		if err := c.advanceProgress(ctx, ex, today); err != nil {
			log.Errorf("failed to advance progress for [%s]: %s", ex.Name, err)
		}
	}
	return nil
}

func (c *Client) advanceProgress(ctx context.Context, ex progress.CompletedExercise, today string) error {
	var rows []progressRow
	err := c.do(ctx, request{
		method: http.MethodGet,
		table:  "progress",
		query:  "select=*&exercise_name=ilike." + url.QueryEscape(ex.Name) + "&" + c.userFilter(),
		out:    &rows,
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		// exercise not tracked, nothing to advance
		return nil
	}

	current := rows[0]
	record := current.PersonalRecord
	if ex.Weight > record {
		record = ex.Weight
	}

	return c.do(ctx, request{
		method: http.MethodPatch,
		table:  "progress",
		query:  "id=eq." + url.QueryEscape(current.ID) + "&" + c.userFilter(),
		body: map[string]any{
			"current_weight":  ex.Weight,
			"current_reps":    ex.Reps,
			"personal_record": record,
			"total_sessions":  current.TotalSessions + 1,
			"last_updated":    today,
		},
	})
}
