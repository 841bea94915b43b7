package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/bstanko/liftlog/internal/gym/syncstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	remote    *Settings
	getErr    error
	upsertErr error

	upserts []Settings
}

func (f *fakeAPI) GetSettings(_ context.Context) (*Settings, error) {
	return f.remote, f.getErr
}

func (f *fakeAPI) UpsertSettings(_ context.Context, s Settings) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, s)
	return nil
}

func TestStore_defaults(t *testing.T) {
	s := NewStore(context.Background(), &fakeAPI{}, syncstore.NewMemory())
	assert.Equal(t, ThemeLight, s.Theme())
	assert.Equal(t, UnitKg, s.DefaultWeightUnit())
}

func TestStore_Load(t *testing.T) {
	api := &fakeAPI{remote: &Settings{Theme: ThemeDark, DefaultWeightUnit: UnitLbs}}
	s := NewStore(context.Background(), api, syncstore.NewMemory())

	s.Load(context.Background())

	assert.Equal(t, ThemeDark, s.Theme())
	assert.Equal(t, UnitLbs, s.DefaultWeightUnit())
}

func TestStore_Load_noRemoteRowKeepsLocal(t *testing.T) {
	s := NewStore(context.Background(), &fakeAPI{}, syncstore.NewMemory())
	s.Load(context.Background())
	assert.Equal(t, ThemeLight, s.Theme())
}

func TestStore_Load_partialRowKeepsMissingFields(t *testing.T) {
	api := &fakeAPI{remote: &Settings{Theme: ThemeDark}}
	s := NewStore(context.Background(), api, syncstore.NewMemory())

	s.Load(context.Background())

	assert.Equal(t, ThemeDark, s.Theme())
	assert.Equal(t, UnitKg, s.DefaultWeightUnit())
}

func TestStore_SetTheme_upsertsFullRow(t *testing.T) {
	api := &fakeAPI{}
	s := NewStore(context.Background(), api, syncstore.NewMemory())

	s.SetTheme(context.Background(), ThemeDark)

	assert.Equal(t, ThemeDark, s.Theme())
	require.Len(t, api.upserts, 1)
	assert.Equal(t, Settings{Theme: ThemeDark, DefaultWeightUnit: UnitKg}, api.upserts[0])
}

func TestStore_SetTheme_remoteFailureAppliesLocally(t *testing.T) {
	api := &fakeAPI{upsertErr: errors.New("backend down")}
	s := NewStore(context.Background(), api, syncstore.NewMemory())

	s.SetTheme(context.Background(), ThemeDark)

	assert.Equal(t, ThemeDark, s.Theme())
}

func TestStore_ToggleTheme(t *testing.T) {
	s := NewStore(context.Background(), &fakeAPI{}, syncstore.NewMemory())

	s.ToggleTheme(context.Background())
	assert.Equal(t, ThemeDark, s.Theme())

	s.ToggleTheme(context.Background())
	assert.Equal(t, ThemeLight, s.Theme())
}

func TestStore_SetDefaultWeightUnit(t *testing.T) {
	api := &fakeAPI{}
	s := NewStore(context.Background(), api, syncstore.NewMemory())

	s.SetDefaultWeightUnit(context.Background(), UnitLbs)

	assert.Equal(t, UnitLbs, s.DefaultWeightUnit())
	require.Len(t, api.upserts, 1)
	assert.Equal(t, UnitLbs, api.upserts[0].DefaultWeightUnit)
}

func TestStore_persistedStateSurvivesRestart(t *testing.T) {
	local := syncstore.NewMemory()
	s := NewStore(context.Background(), &fakeAPI{}, local)
	s.SetTheme(context.Background(), ThemeDark)

	restarted := NewStore(context.Background(), &fakeAPI{}, local)
	assert.Equal(t, ThemeDark, restarted.Theme())
	assert.Equal(t, Settings{Theme: ThemeDark, DefaultWeightUnit: UnitKg}, restarted.Current())
}
