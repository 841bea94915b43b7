package workouts

import "github.com/bstanko/liftlog/internal/gym/exercises"

// WorkoutExercise is one configured exercise inside a workout. It embeds
// the exercise by value, a workout keeps the exercise data it was built
// with even if the library entry is later removed.
type WorkoutExercise struct {
	Exercise exercises.Exercise `json:"exercise"`
	Sets     int                `json:"sets"`
	Reps     int                `json:"reps"`
	Weight   float64            `json:"weight"`
	Notes    string             `json:"notes,omitempty"`
}

type Workout struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Date      string            `json:"date"`
	Exercises []WorkoutExercise `json:"exercises"`
}
