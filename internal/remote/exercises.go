package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bstanko/liftlog/internal/gym/exercises"
)

type exerciseRow struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	MuscleGroup string `json:"muscle_group"`
	Equipment   string `json:"equipment,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func (r exerciseRow) toDomain() exercises.Exercise {
	return exercises.Exercise{
		ID:          r.ID,
		Name:        r.Name,
		Category:    exercises.Category(r.Category),
		MuscleGroup: r.MuscleGroup,
		Equipment:   r.Equipment,
	}
}

func (c *Client) newExerciseRow(e exercises.Exercise) exerciseRow {
	return exerciseRow{
		Name:        e.Name,
		Category:    string(e.Category),
		MuscleGroup: e.MuscleGroup,
		Equipment:   e.Equipment,
		UserID:      c.userID,
	}
}

// ListExercises returns the whole exercise library ordered by name.
func (c *Client) ListExercises(ctx context.Context) ([]exercises.Exercise, error) {
	var rows []exerciseRow
	err := c.do(ctx, request{
		method: http.MethodGet,
		table:  "exercises",
		query:  "select=*&order=name",
		out:    &rows,
	})
	if err != nil {
		return nil, err
	}

	result := make([]exercises.Exercise, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// AddExercise inserts the exercise and returns the server-confirmed row,
// server-assigned id included.
func (c *Client) AddExercise(ctx context.Context, exercise exercises.Exercise) (*exercises.Exercise, error) {
	var rows []exerciseRow
	err := c.do(ctx, request{
		method: http.MethodPost,
		table:  "exercises",
		prefer: "return=representation",
		body:   []exerciseRow{c.newExerciseRow(exercise)},
		out:    &rows,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert exercise: %w", ErrNoRepresentation)
	}

	added := rows[0].toDomain()
	return &added, nil
}

func (c *Client) DeleteExercise(ctx context.Context, id string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		table:  "exercises",
		query:  "id=eq." + url.QueryEscape(id) + "&" + c.userFilter(),
	})
}

// HasExercises reports whether the exercise table holds at least one row,
// used by the seed migration to stay idempotent.
func (c *Client) HasExercises(ctx context.Context) (bool, error) {
	var rows []struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		table:  "exercises",
		query:  "select=id&limit=1",
		out:    &rows,
	})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// InsertExercises inserts one batch of seed exercises, without asking for
// the representation back.
func (c *Client) InsertExercises(ctx context.Context, batch []exercises.Exercise) error {
	rows := make([]exerciseRow, 0, len(batch))
	now := nowTimestamp()
	for _, e := range batch {
		row := c.newExerciseRow(e)
		row.CreatedAt = now
		rows = append(rows, row)
	}

	return c.do(ctx, request{
		method: http.MethodPost,
		table:  "exercises",
		body:   rows,
	})
}
