package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// DeleteAllUserData wipes every remote row belonging to the user, child
// tables first. Used by the destructive clear-all-data operation.
func (c *Client) DeleteAllUserData(ctx context.Context) error {
	if err := c.deleteUserRows(ctx, "exercise_history"); err != nil {
		return err
	}

	var workoutRows []struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		table:  "workouts",
		query:  "select=id&" + c.userFilter(),
		out:    &workoutRows,
	})
	if err != nil {
		return fmt.Errorf("list workout ids: %w", err)
	}
	for _, row := range workoutRows {
		err := c.do(ctx, request{
			method: http.MethodDelete,
			table:  "workout_exercises",
			query:  "workout_id=eq." + url.QueryEscape(row.ID),
		})
		if err != nil {
			return fmt.Errorf("delete workout exercises for [%s]: %w", row.ID, err)
		}
	}

	for _, table := range []string{"workouts", "progress", "exercises", "user_settings"} {
		if err := c.deleteUserRows(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) deleteUserRows(ctx context.Context, table string) error {
	err := c.do(ctx, request{
		method: http.MethodDelete,
		table:  table,
		query:  c.userFilter(),
	})
	if err != nil {
		return fmt.Errorf("delete %s rows: %w", table, err)
	}
	return nil
}
