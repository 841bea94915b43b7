package progress

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bstanko/liftlog/internal/gym/syncstore"
	"github.com/bstanko/liftlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const storageKey = "progress-storage"

type remoteAPI interface {
	ListProgress(ctx context.Context) ([]ProgressExercise, error)
	AddProgress(ctx context.Context, exercise ProgressExercise) (*ProgressExercise, error)
	UpdateProgress(ctx context.Context, id string, update Update) error
	DeleteProgress(ctx context.Context, id string) error
	ListHistory(ctx context.Context) ([]ExerciseSession, error)
	RecordWorkoutCompletion(ctx context.Context, workoutID, workoutName string, completed []CompletedExercise) error
}

// Store owns the progress-tracking state: tracked exercises, the
// append-only session history, and the workout streak.
type Store struct {
	mu      sync.Mutex
	api     remoteAPI
	local   syncstore.Persister
	loading bool
	now     func() time.Time

	exercises       []ProgressExercise
	history         []ExerciseSession
	workoutStreak   int
	lastWorkoutDate string // day string, empty when no workout recorded yet
}

type persistedState struct {
	Exercises       []ProgressExercise `json:"progressExercises"`
	History         []ExerciseSession  `json:"exerciseHistory"`
	WorkoutStreak   int                `json:"workoutStreak"`
	LastWorkoutDate string             `json:"lastWorkoutDate,omitempty"`
}

func NewStore(ctx context.Context, api remoteAPI, local syncstore.Persister) *Store {
	s := &Store{
		api:   api,
		local: local,
		now:   time.Now,
	}

	var state persistedState
	if syncstore.Restore(ctx, local, storageKey, &state) {
		s.exercises = state.Exercises
		s.history = state.History
		s.workoutStreak = state.WorkoutStreak
		s.lastWorkoutDate = state.LastWorkoutDate
	}

	return s
}

// Load fetches tracked exercises and session history concurrently and
// replaces local state with whichever of the two succeeded.
func (s *Store) Load(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.progress.load")
	defer span.End()

	s.setLoading(true)
	defer s.setLoading(false)

	exercises, history, err := s.fetchAll(ctx)
	if err != nil {
		span.RecordError(err)
		log.Errorf("failed to load progress data: %s", err)
		return
	}

	s.mu.Lock()
	s.exercises = exercises
	s.history = history
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) fetchAll(ctx context.Context) (exercises []ProgressExercise, history []ExerciseSession, err error) {
	var wg sync.WaitGroup
	var exercisesErr, historyErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		exercises, exercisesErr = s.api.ListProgress(ctx)
	}()
	go func() {
		defer wg.Done()
		history, historyErr = s.api.ListHistory(ctx)
	}()
	wg.Wait()

	if exercisesErr != nil {
		return nil, nil, fmt.Errorf("list progress: %w", exercisesErr)
	}
	if historyErr != nil {
		return nil, nil, fmt.Errorf("list history: %w", historyErr)
	}
	return exercises, history, nil
}

// Add tracks a new exercise. The remote insert fills in id, dates and the
// starting personal record; when it fails, an equivalent local-only entry
// is synthesized instead.
func (s *Store) Add(ctx context.Context, exercise ProgressExercise) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.progress.add")
	defer span.End()
	span.SetAttributes(attribute.String("progress.name", exercise.Name))

	added, err := s.api.AddProgress(ctx, exercise)
	if err != nil {
		span.RecordError(err)
		log.Errorf("failed to add progress exercise [%s] remotely, keeping local copy: %s", exercise.Name, err)
		today := dayString(s.now())
		exercise.ID = syncstore.NewLocalID()
		exercise.DateAdded = today
		exercise.LastUpdated = today
		exercise.PersonalRecord = exercise.CurrentWeight
		exercise.TotalSessions = 0
		added = &exercise
	}

	s.mu.Lock()
	s.exercises = append(s.exercises, *added)
	s.mu.Unlock()
	s.persist(ctx)
}

// Update applies a partial edit. The local mutation is unconditional,
// remote failure does not roll it back. LastUpdated is refreshed either way.
func (s *Store) Update(ctx context.Context, id string, update Update) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.progress.update")
	defer span.End()
	span.SetAttributes(attribute.String("progress.id", id))

	if err := s.api.UpdateProgress(ctx, id, update); err != nil {
		span.RecordError(err)
		log.Errorf("failed to update progress exercise [%s] remotely, applying locally anyway: %s", id, err)
	}

	today := dayString(s.now())

	s.mu.Lock()
	for i := range s.exercises {
		if s.exercises[i].ID != id {
			continue
		}
		applyUpdate(&s.exercises[i], update)
		s.exercises[i].LastUpdated = today
	}
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) Delete(ctx context.Context, id string) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.progress.delete")
	defer span.End()
	span.SetAttributes(attribute.String("progress.id", id))

	if err := s.api.DeleteProgress(ctx, id); err != nil {
		span.RecordError(err)
		log.Errorf("failed to delete progress exercise [%s] remotely, removing locally anyway: %s", id, err)
	}

	s.mu.Lock()
	result := s.exercises[:0]
	for _, e := range s.exercises {
		if e.ID != id {
			result = append(result, e)
		}
	}
	s.exercises = result
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) Get(id string) (ProgressExercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.exercises {
		if e.ID == id {
			return e, true
		}
	}
	return ProgressExercise{}, false
}

func (s *Store) All() []ProgressExercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ProgressExercise(nil), s.exercises...)
}

func (s *Store) History() []ExerciseSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ExerciseSession(nil), s.history...)
}

// HistoryFor returns the sessions of one exercise (matched
// case-insensitively), newest first.
func (s *Store) HistoryFor(exerciseName string) []ExerciseSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []ExerciseSession
	for _, session := range s.history {
		if strings.EqualFold(session.ExerciseName, exerciseName) {
			result = append(result, session)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		di, _ := parseDay(result[i].Date)
		dj, _ := parseDay(result[j].Date)
		return di.After(dj)
	})
	return result
}

// RecordWorkoutCompletion appends one history record per performed
// exercise and rolls the matching tracked exercises forward: current
// weight/reps become the performed values, the personal record is raised
// to max(existing, performed weight) and the session counter increments.
// On remote success both collections are re-fetched so derived views see
// the server's version; on failure the same change is synthesized locally.
func (s *Store) RecordWorkoutCompletion(ctx context.Context, workoutID, workoutName string, completed []CompletedExercise) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.progress.recordWorkoutCompletion")
	defer span.End()
	span.SetAttributes(
		attribute.String("workout.id", workoutID),
		attribute.Int("workout.exercises", len(completed)),
	)

	today := dayString(s.now())

	err := s.api.RecordWorkoutCompletion(ctx, workoutID, workoutName, completed)
	if err == nil {
		exercises, history, fetchErr := s.fetchAll(ctx)
		if fetchErr != nil {
			span.RecordError(fetchErr)
			log.Errorf("failed to refresh progress data after workout completion: %s", fetchErr)
		} else {
			s.mu.Lock()
			s.exercises = exercises
			s.history = history
			s.lastWorkoutDate = today
			s.mu.Unlock()
			s.persist(ctx)
			return
		}
	} else {
		span.RecordError(err)
		log.Errorf("failed to record workout completion remotely, applying locally: %s", err)
	}

	s.mu.Lock()
	for _, ex := range completed {
		s.history = append(s.history, ExerciseSession{
			ID:           fmt.Sprintf("%s-%s-%s", workoutID, ex.Name, syncstore.NewLocalID()),
			ExerciseName: ex.Name,
			Weight:       ex.Weight,
			Reps:         ex.Reps,
			Sets:         ex.Sets,
			Date:         today,
			WorkoutID:    workoutID,
			WorkoutName:  workoutName,
		})
	}
	for i := range s.exercises {
		ex, found := matchCompleted(completed, s.exercises[i].Name)
		if !found {
			continue
		}
		s.exercises[i].CurrentWeight = ex.Weight
		s.exercises[i].CurrentReps = ex.Reps
		s.exercises[i].PersonalRecord = max(s.exercises[i].PersonalRecord, ex.Weight)
		s.exercises[i].TotalSessions++
		s.exercises[i].LastUpdated = today
	}
	s.lastWorkoutDate = today
	s.mu.Unlock()
	s.persist(ctx)
}

// UpdateWorkoutStreak moves the streak counter based on the last workout
// day. It never touches lastWorkoutDate itself, that is set by
// RecordWorkoutCompletion, so callers bump the streak before recording
// the completion.
func (s *Store) UpdateWorkoutStreak() {
	today := dayString(s.now())
	yesterday := dayString(s.now().AddDate(0, 0, -1))

	s.mu.Lock()
	switch s.lastWorkoutDate {
	case today:
		// already worked out today, keep streak
	case yesterday:
		s.workoutStreak++
	default:
		// first workout ever, or streak broken
		s.workoutStreak = 1
	}
	s.mu.Unlock()
	s.persist(context.Background())
}

func (s *Store) WorkoutStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workoutStreak
}

func (s *Store) LastWorkoutDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWorkoutDate
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *Store) persist(ctx context.Context) {
	s.mu.Lock()
	state := persistedState{
		Exercises:       append([]ProgressExercise(nil), s.exercises...),
		History:         append([]ExerciseSession(nil), s.history...),
		WorkoutStreak:   s.workoutStreak,
		LastWorkoutDate: s.lastWorkoutDate,
	}
	s.mu.Unlock()
	syncstore.Save(ctx, s.local, storageKey, state)
}

func applyUpdate(e *ProgressExercise, u Update) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.StartingWeight != nil {
		e.StartingWeight = *u.StartingWeight
	}
	if u.CurrentWeight != nil {
		e.CurrentWeight = *u.CurrentWeight
	}
	if u.GoalWeight != nil {
		e.GoalWeight = *u.GoalWeight
	}
	if u.CurrentReps != nil {
		e.CurrentReps = *u.CurrentReps
	}
	if u.TargetReps != nil {
		e.TargetReps = *u.TargetReps
	}
	if u.Unit != nil {
		e.Unit = *u.Unit
	}
	if u.Notes != nil {
		e.Notes = *u.Notes
	}
	if u.PersonalRecord != nil {
		e.PersonalRecord = *u.PersonalRecord
	}
	if u.TotalSessions != nil {
		e.TotalSessions = *u.TotalSessions
	}
}

func matchCompleted(completed []CompletedExercise, name string) (CompletedExercise, bool) {
	for _, ex := range completed {
		if strings.EqualFold(ex.Name, name) {
			return ex, true
		}
	}
	return CompletedExercise{}, false
}
