package workouts

import (
	"context"
	"sync"

	"github.com/bstanko/liftlog/internal/gym/syncstore"
	"github.com/bstanko/liftlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const storageKey = "workout-storage"

type remoteAPI interface {
	ListWorkouts(ctx context.Context) ([]Workout, error)
	AddWorkout(ctx context.Context, workout Workout) (*Workout, error)
	UpdateWorkout(ctx context.Context, id string, workout Workout) error
	DeleteWorkout(ctx context.Context, id string) error
}

// Store owns the workout collection and the current-workout pointer.
// Mutations are optimistic: local state is updated whether or not the
// remote write went through.
type Store struct {
	mu      sync.Mutex
	api     remoteAPI
	local   syncstore.Persister
	loading bool

	workouts []Workout
	current  *Workout
}

type persistedState struct {
	Workouts []Workout `json:"workouts"`
	Current  *Workout  `json:"currentWorkout,omitempty"`
}

func NewStore(ctx context.Context, api remoteAPI, local syncstore.Persister) *Store {
	s := &Store{
		api:   api,
		local: local,
	}

	var state persistedState
	if syncstore.Restore(ctx, local, storageKey, &state) {
		s.workouts = state.Workouts
		s.current = state.Current
	}

	return s
}

func (s *Store) Load(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.workouts.load")
	defer span.End()

	s.setLoading(true)
	defer s.setLoading(false)

	fetched, err := s.api.ListWorkouts(ctx)
	if err != nil {
		span.RecordError(err)
		log.Errorf("failed to load workouts: %s", err)
		return
	}

	s.mu.Lock()
	s.workouts = fetched
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) Add(ctx context.Context, workout Workout) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.workouts.add")
	defer span.End()
	span.SetAttributes(attribute.String("workout.name", workout.Name))

	added, err := s.api.AddWorkout(ctx, workout)
	if err != nil {
		span.RecordError(err)
		log.Errorf("failed to add workout [%s] remotely, keeping local copy: %s", workout.Name, err)
		workout.ID = syncstore.NewLocalID()
		added = &workout
	}

	s.mu.Lock()
	s.workouts = append(s.workouts, *added)
	s.mu.Unlock()
	s.persist(ctx)
}

// Update replaces the workout wholesale, exercises list included. The
// current-workout pointer follows the update when it refers to the same
// workout.
func (s *Store) Update(ctx context.Context, id string, updated Workout) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.workouts.update")
	defer span.End()
	span.SetAttributes(attribute.String("workout.id", id))

	if err := s.api.UpdateWorkout(ctx, id, updated); err != nil {
		span.RecordError(err)
		log.Errorf("failed to update workout [%s] remotely, applying locally anyway: %s", id, err)
	}

	updated.ID = id

	s.mu.Lock()
	for i := range s.workouts {
		if s.workouts[i].ID == id {
			s.workouts[i] = updated
		}
	}
	if s.current != nil && s.current.ID == id {
		current := updated
		s.current = &current
	}
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) Delete(ctx context.Context, id string) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.workouts.delete")
	defer span.End()
	span.SetAttributes(attribute.String("workout.id", id))

	if err := s.api.DeleteWorkout(ctx, id); err != nil {
		span.RecordError(err)
		log.Errorf("failed to delete workout [%s] remotely, removing locally anyway: %s", id, err)
	}

	s.mu.Lock()
	result := s.workouts[:0]
	for _, w := range s.workouts {
		if w.ID != id {
			result = append(result, w)
		}
	}
	s.workouts = result
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) SetCurrent(workout *Workout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = workout
}

func (s *Store) Current() *Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	current := *s.current
	return &current
}

func (s *Store) All() []Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Workout(nil), s.workouts...)
}

func (s *Store) Get(id string) (Workout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.workouts {
		if w.ID == id {
			return w, true
		}
	}
	return Workout{}, false
}

// Clear drops all workouts and the current pointer, local state only.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.workouts = nil
	s.current = nil
	s.mu.Unlock()
	s.persist(ctx)
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
		Workouts: append([]Workout(nil), s.workouts...),
		Current:  s.current,
	}
	s.mu.Unlock()
	syncstore.Save(ctx, s.local, storageKey, state)
}
