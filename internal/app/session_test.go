package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/globalpulse/internal/config"
	"github.com/Faultbox/globalpulse/internal/news"
	"github.com/Faultbox/globalpulse/internal/ui"
)

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

type scriptSource struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (s *scriptSource) Fetch(ctx context.Context) ([]news.Item, error) {
	s.calls.Add(1)
	if s.fail.Load() {
		return nil, errors.New("upstream down")
	}
	return news.FallbackItems(fixedNow), nil
}

func newTestSession(t *testing.T, src news.Source) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Globe.Seed = 7
	s, err := NewSession(cfg, src, false)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func waitApplied(t *testing.T, s *Session) {
	t.Helper()
	require.Eventually(t, s.Poll, 2*time.Second, 5*time.Millisecond)
}

func TestSessionStartAppliesBatch(t *testing.T) {
	s := newTestSession(t, news.SampleSource{Now: func() time.Time { return fixedNow }})
	s.Start(0)
	waitApplied(t, s)

	assert.Len(t, s.Items(), 4)
	assert.Equal(t, 4, s.Composer().Registry().Len())

	st := s.OverlayState(1280, 720)
	assert.Equal(t, 4, st.Count)
	assert.Equal(t, fixedNow.Year(), st.Updated.Year())
	assert.False(t, st.NoAPIKey)
}

func TestSessionFailedFetchKeepsMarkers(t *testing.T) {
	src := &scriptSource{}
	s := newTestSession(t, src)
	s.Start(0)
	waitApplied(t, s)

	src.fail.Store(true)
	require.Eventually(t, func() bool { return !s.Loading() }, time.Second, 5*time.Millisecond)
	require.True(t, s.Refresh())
	require.Eventually(t, func() bool { return !s.Loading() }, 2*time.Second, 5*time.Millisecond)

	assert.False(t, s.Poll(), "failed batch must not be applied")
	assert.Equal(t, 4, s.Composer().Registry().Len())
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestSessionSelection(t *testing.T) {
	s := newTestSession(t, news.SampleSource{})
	items := news.FallbackItems(fixedNow)
	s.Apply(items, fixedNow)

	assert.True(t, s.Escape(), "Esc with nothing selected should allow quitting")

	s.Select(items[1])
	require.NotNil(t, s.Selected())
	assert.Equal(t, items[1].ID, s.Selected().ID)
	id, ok := s.Composer().Registry().Selected()
	assert.True(t, ok)
	assert.Equal(t, items[1].ID, id)

	st := s.Update(0.016)
	assert.True(t, st.Suspended, "rotation pauses while an item is selected")

	assert.False(t, s.Escape(), "Esc should deselect first")
	assert.Nil(t, s.Selected())
	st = s.Update(0.016)
	assert.False(t, st.Suspended)
}

func TestSessionHandleActions(t *testing.T) {
	src := &scriptSource{}
	s := newTestSession(t, src)
	items := news.FallbackItems(fixedNow)
	s.Apply(items, fixedNow)

	s.Select(items[0])
	s.Handle(ui.Actions{Close: true})
	assert.Nil(t, s.Selected())

	s.Handle(ui.Actions{Refresh: true})
	waitApplied(t, s)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestSessionSelectionSurvivesRefresh(t *testing.T) {
	s := newTestSession(t, news.SampleSource{})
	items := news.FallbackItems(fixedNow)
	s.Apply(items, fixedNow)
	s.Select(items[2])

	s.Apply(items[:1], fixedNow)
	require.NotNil(t, s.Selected())
	assert.Equal(t, items[2].ID, s.Selected().ID)
	assert.Equal(t, 1, s.Composer().Registry().Len())
}

func TestSessionOverlayCursor(t *testing.T) {
	s := newTestSession(t, &scriptSource{})
	c := s.Composer()
	c.Frame(800, 600)

	assert.Nil(t, s.OverlayState(800, 600).Cursor)

	c.PointerMove(400, 300)
	st := s.OverlayState(800, 600)
	require.NotNil(t, st.Cursor)
	assert.InDelta(t, 0, st.Cursor.Lat, 0.5)

	c.PointerLeave()
	assert.Nil(t, s.OverlayState(800, 600).Cursor)
}

func TestSceneOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Globe.Radius = 6
	cfg.Camera.Distance = 15
	cfg.Rotation.CruiseSpeed = 1.2

	opts := SceneOptions(cfg)
	assert.Equal(t, float32(6), opts.Radius)
	assert.Equal(t, float32(15), opts.Camera.Distance)
	assert.Equal(t, 1.2, opts.Profile.CruiseSpeed)
	assert.Nil(t, opts.Rand, "zero seed leaves the registry to pick one")
	assert.IsType(t, ui.Cards{}, opts.Measure)

	cfg.Globe.Seed = 42
	assert.NotNil(t, SceneOptions(cfg).Rand)
}

func TestIsNoAPIKey(t *testing.T) {
	_, err := news.NewSource(context.Background(), config.NewsConfig{})
	assert.True(t, IsNoAPIKey(err))
	assert.False(t, IsNoAPIKey(errors.New("other")))
}
