package progress

import "time"

type Unit string

const (
	UnitKg  Unit = "kg"
	UnitLbs Unit = "lbs"
)

// ProgressExercise tracks one exercise toward a weight/rep goal.
// PersonalRecord is only maintained by workout completion recording (via
// max with the performed weight), a direct edit can set it to anything.
type ProgressExercise struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	StartingWeight float64 `json:"startingWeight"`
	CurrentWeight  float64 `json:"currentWeight"`
	GoalWeight     float64 `json:"goalWeight"`
	CurrentReps    int     `json:"currentReps"`
	TargetReps     int     `json:"targetReps"`
	Unit           Unit    `json:"unit"`
	DateAdded      string  `json:"dateAdded"`
	LastUpdated    string  `json:"lastUpdated"`
	Notes          string  `json:"notes,omitempty"`
	PersonalRecord float64 `json:"personalRecord"`
	TotalSessions  int     `json:"totalSessions"`
}

// ExerciseSession is an immutable history record, one per exercise per
// completed workout.
type ExerciseSession struct {
	ID           string  `json:"id"`
	ExerciseName string  `json:"exerciseName"`
	Weight       float64 `json:"weight"`
	Reps         int     `json:"reps"`
	Sets         int     `json:"sets"`
	Date         string  `json:"date"`
	WorkoutID    string  `json:"workoutId"`
	WorkoutName  string  `json:"workoutName"`
}

// CompletedExercise is the per-exercise input to workout completion
// recording.
type CompletedExercise struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Sets   int     `json:"sets"`
}

// Update carries a partial edit of a ProgressExercise, nil fields are
// left untouched.
type Update struct {
	Name           *string
	StartingWeight *float64
	CurrentWeight  *float64
	GoalWeight     *float64
	CurrentReps    *int
	TargetReps     *int
	Unit           *Unit
	Notes          *string
	PersonalRecord *float64
	TotalSessions  *int
}

const dayLayout = "2006-01-02"

func dayString(t time.Time) string {
	return t.Format(dayLayout)
}

// parseDay accepts both plain day strings and full RFC3339 timestamps,
// remote rows may carry either depending on which side wrote them. A
// timestamp is reduced to the calendar day of its own offset, not UTC.
func parseDay(value string) (time.Time, bool) {
	if t, err := time.Parse(dayLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		day, err := time.Parse(dayLayout, t.Format(dayLayout))
		if err != nil {
			return time.Time{}, false
		}
		return day, true
	}
	return time.Time{}, false
}
