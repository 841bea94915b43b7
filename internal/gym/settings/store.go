package settings

import (
	"context"
	"sync"

	"github.com/bstanko/liftlog/internal/gym/syncstore"
	"github.com/bstanko/liftlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const storageKey = "settings-storage"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type WeightUnit string

const (
	UnitKg  WeightUnit = "kg"
	UnitLbs WeightUnit = "lbs"
)

// Settings is the per-user singleton.
type Settings struct {
	Theme             Theme      `json:"theme"`
	DefaultWeightUnit WeightUnit `json:"defaultWeightUnit"`
}

type remoteAPI interface {
	// GetSettings returns (nil, nil) when the user has no settings row yet.
	GetSettings(ctx context.Context) (*Settings, error)
	UpsertSettings(ctx context.Context, settings Settings) error
}

// Store owns the user settings singleton. Every change upserts the full
// remote row; remote failures keep the local change.
type Store struct {
	mu      sync.Mutex
	api     remoteAPI
	local   syncstore.Persister
	loading bool

	settings Settings
}

func NewStore(ctx context.Context, api remoteAPI, local syncstore.Persister) *Store {
	s := &Store{
		api:   api,
		local: local,
		settings: Settings{
			Theme:             ThemeLight,
			DefaultWeightUnit: UnitKg,
		},
	}

	var state Settings
	if syncstore.Restore(ctx, local, storageKey, &state) && state.Theme != "" {
		s.settings = state
	}

	return s
}

// Load pulls the remote settings row. A missing row or a failed fetch
// keeps the current local settings.
func (s *Store) Load(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.settings.load")
	defer span.End()

	s.setLoading(true)
	defer s.setLoading(false)

	fetched, err := s.api.GetSettings(ctx)
	if err != nil {
		span.RecordError(err)
		log.Errorf("failed to load settings: %s", err)
		return
	}
	if fetched == nil {
		log.Debugf("no remote settings row yet, keeping local settings")
		return
	}

	s.mu.Lock()
	if fetched.Theme != "" {
		s.settings.Theme = fetched.Theme
	}
	if fetched.DefaultWeightUnit != "" {
		s.settings.DefaultWeightUnit = fetched.DefaultWeightUnit
	}
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) SetTheme(ctx context.Context, theme Theme) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.settings.setTheme")
	defer span.End()
	span.SetAttributes(attribute.String("settings.theme", string(theme)))

	s.mu.Lock()
	updated := s.settings
	updated.Theme = theme
	s.mu.Unlock()

	if err := s.api.UpsertSettings(ctx, updated); err != nil {
		span.RecordError(err)
		log.Errorf("failed to update theme remotely, applying locally anyway: %s", err)
	}

	s.mu.Lock()
	s.settings.Theme = theme
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) SetDefaultWeightUnit(ctx context.Context, unit WeightUnit) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.settings.setDefaultWeightUnit")
	defer span.End()
	span.SetAttributes(attribute.String("settings.unit", string(unit)))

	s.mu.Lock()
	updated := s.settings
	updated.DefaultWeightUnit = unit
	s.mu.Unlock()

	if err := s.api.UpsertSettings(ctx, updated); err != nil {
		span.RecordError(err)
		log.Errorf("failed to update weight unit remotely, applying locally anyway: %s", err)
	}

	s.mu.Lock()
	s.settings.DefaultWeightUnit = unit
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) ToggleTheme(ctx context.Context) {
	if s.Theme() == ThemeLight {
		s.SetTheme(ctx, ThemeDark)
		return
	}
	s.SetTheme(ctx, ThemeLight)
}

func (s *Store) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Theme
}

func (s *Store) DefaultWeightUnit() WeightUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.DefaultWeightUnit
}

func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
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
	state := s.settings
	s.mu.Unlock()
	syncstore.Save(ctx, s.local, storageKey, state)
}
