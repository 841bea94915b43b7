package exercises

type Category string

const (
	CategoryPush   Category = "push"
	CategoryPull   Category = "pull"
	CategoryLegs   Category = "legs"
	CategoryCardio Category = "cardio"
	CategoryCore   Category = "core"
)

// categoryOrder drives the sorted library view: strength work first,
// cardio last, alphabetical within a category.
var categoryOrder = []Category{
	CategoryPush, CategoryPull, CategoryLegs, CategoryCore, CategoryCardio,
}

type Exercise struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	MuscleGroup string   `json:"muscleGroup"`
	Equipment   string   `json:"equipment,omitempty"`
}

// DefaultCatalog is the built-in exercise list used when the remote
// collection comes back empty, so the library is never blank offline.
func DefaultCatalog() []Exercise {
	return []Exercise{
		// push
		{ID: "1", Name: "Push-ups", Category: CategoryPush, MuscleGroup: "Chest, Triceps, Shoulders"},
		{ID: "2", Name: "Bench Press", Category: CategoryPush, MuscleGroup: "Chest", Equipment: "Barbell"},
		{ID: "3", Name: "Shoulder Press", Category: CategoryPush, MuscleGroup: "Shoulders", Equipment: "Dumbbells"},
		{ID: "4", Name: "Tricep Dips", Category: CategoryPush, MuscleGroup: "Triceps"},
		// pull
		{ID: "5", Name: "Pull-ups", Category: CategoryPull, MuscleGroup: "Back, Biceps"},
		{ID: "6", Name: "Bent-over Row", Category: CategoryPull, MuscleGroup: "Back", Equipment: "Barbell"},
		{ID: "7", Name: "Bicep Curls", Category: CategoryPull, MuscleGroup: "Biceps", Equipment: "Dumbbells"},
		{ID: "8", Name: "Lat Pulldowns", Category: CategoryPull, MuscleGroup: "Back", Equipment: "Cable Machine"},
		// legs
		{ID: "9", Name: "Squats", Category: CategoryLegs, MuscleGroup: "Quadriceps, Glutes"},
		{ID: "10", Name: "Deadlifts", Category: CategoryLegs, MuscleGroup: "Hamstrings, Glutes", Equipment: "Barbell"},
		{ID: "11", Name: "Lunges", Category: CategoryLegs, MuscleGroup: "Quadriceps, Glutes"},
		{ID: "12", Name: "Calf Raises", Category: CategoryLegs, MuscleGroup: "Calves"},
		// core
		{ID: "13", Name: "Plank", Category: CategoryCore, MuscleGroup: "Core"},
		{ID: "14", Name: "Crunches", Category: CategoryCore, MuscleGroup: "Abs"},
		{ID: "15", Name: "Russian Twists", Category: CategoryCore, MuscleGroup: "Obliques"},
	}
}
