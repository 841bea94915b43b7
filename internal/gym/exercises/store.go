package exercises

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bstanko/liftlog/internal/gym/syncstore"
	"github.com/bstanko/liftlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const storageKey = "exercise-storage"

type remoteAPI interface {
	ListExercises(ctx context.Context) ([]Exercise, error)
	AddExercise(ctx context.Context, exercise Exercise) (*Exercise, error)
	DeleteExercise(ctx context.Context, id string) error
}

// Store owns the exercise library plus the transient selection set used
// when building a new workout. All remote failures are absorbed: the
// store logs them and falls back to local-only state.
type Store struct {
	mu      sync.Mutex
	api     remoteAPI
	local   syncstore.Persister
	loading bool

	exercises []Exercise
	selected  []Exercise
}

type persistedState struct {
	Exercises []Exercise `json:"exercises"`
}

func NewStore(ctx context.Context, api remoteAPI, local syncstore.Persister) *Store {
	s := &Store{
		api:       api,
		local:     local,
		exercises: DefaultCatalog(),
	}

	var state persistedState
	if syncstore.Restore(ctx, local, storageKey, &state) && len(state.Exercises) > 0 {
		s.exercises = state.Exercises
	}

	return s
}

// Load replaces the library with the remote collection. An empty remote
// collection falls back to the built-in catalog, a failed fetch keeps
// whatever the store already has.
func (s *Store) Load(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.exercises.load")
	defer span.End()

	s.setLoading(true)
	defer s.setLoading(false)

	fetched, err := s.api.ListExercises(ctx)
	if err != nil {
		span.RecordError(err)
		log.Errorf("failed to load exercises: %s", err)
		return
	}

	if len(fetched) == 0 {
		log.Infof("no exercises found in remote collection, using default catalog")
		fetched = DefaultCatalog()
	}

	s.mu.Lock()
	s.exercises = fetched
	s.mu.Unlock()
	s.persist(ctx)
}

// Add inserts the exercise remotely and appends the server-confirmed
// entity. When the remote insert fails, a local-only exercise with a
// locally generated id is appended instead.
func (s *Store) Add(ctx context.Context, exercise Exercise) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.exercises.add")
	defer span.End()
	span.SetAttributes(attribute.String("exercise.name", exercise.Name))

	added, err := s.api.AddExercise(ctx, exercise)
	if err != nil {
		span.RecordError(err)
		log.Errorf("failed to add exercise [%s] remotely, keeping local copy: %s", exercise.Name, err)
		exercise.ID = syncstore.NewLocalID()
		added = &exercise
	}

	s.mu.Lock()
	s.exercises = append(s.exercises, *added)
	s.mu.Unlock()
	s.persist(ctx)
}

// Delete removes the exercise from local state regardless of the remote
// call outcome.
func (s *Store) Delete(ctx context.Context, id string) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.exercises.delete")
	defer span.End()
	span.SetAttributes(attribute.String("exercise.id", id))

	if err := s.api.DeleteExercise(ctx, id); err != nil {
		span.RecordError(err)
		log.Errorf("failed to delete exercise [%s] remotely, removing locally anyway: %s", id, err)
	}

	s.mu.Lock()
	s.exercises = removeByID(s.exercises, id)
	s.selected = removeByID(s.selected, id)
	s.mu.Unlock()
	s.persist(ctx)
}

// ToggleSelection adds the exercise to the selection set, or removes it
// if already selected. Unknown ids are ignored.
func (s *Store) ToggleSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exercise, found := findByID(s.exercises, id)
	if !found {
		return
	}

	if _, selected := findByID(s.selected, id); selected {
		s.selected = removeByID(s.selected, id)
		return
	}
	s.selected = append(s.selected, exercise)
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *Store) Selected() []Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Exercise(nil), s.selected...)
}

func (s *Store) All() []Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Exercise(nil), s.exercises...)
}

func (s *Store) ByCategory(category Category) []Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []Exercise
	for _, e := range s.exercises {
		if e.Category == category {
			result = append(result, e)
		}
	}
	return result
}

// Sorted returns the library ordered by category (push, pull, legs,
// core, cardio), then alphabetically within each category.
func (s *Store) Sorted() []Exercise {
	result := s.All()
	sort.SliceStable(result, func(i, j int) bool {
		ci, cj := categoryIndex(result[i].Category), categoryIndex(result[j].Category)
		if ci != cj {
			return ci < cj
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// ByName finds an exercise by name, case-insensitively.
func (s *Store) ByName(name string) (Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.exercises {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Exercise{}, false
}

func (s *Store) Get(id string) (Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByID(s.exercises, id)
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
	state := persistedState{Exercises: append([]Exercise(nil), s.exercises...)}
	s.mu.Unlock()
	syncstore.Save(ctx, s.local, storageKey, state)
}

func categoryIndex(c Category) int {
	for i, candidate := range categoryOrder {
		if candidate == c {
			return i
		}
	}
	return len(categoryOrder)
}

func findByID(list []Exercise, id string) (Exercise, bool) {
	for _, e := range list {
		if e.ID == id {
			return e, true
		}
	}
	return Exercise{}, false
}

func removeByID(list []Exercise, id string) []Exercise {
	result := list[:0]
	for _, e := range list {
		if e.ID != id {
			result = append(result, e)
		}
	}
	return result
}
