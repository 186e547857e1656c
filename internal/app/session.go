// Package app wires news, the globe scene and the overlay into the
// running application.
package app

import (
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/globalpulse/internal/config"
	"github.com/Faultbox/globalpulse/internal/engine/camera"
	"github.com/Faultbox/globalpulse/internal/globe/rotation"
	"github.com/Faultbox/globalpulse/internal/globe/scene"
	"github.com/Faultbox/globalpulse/internal/logger"
	"github.com/Faultbox/globalpulse/internal/news"
	"github.com/Faultbox/globalpulse/internal/ui"
)

// Session is the host state around the globe: the current news set, the
// selected item and the background refresher. It owns no window or GL
// resources and is driven by the frame loop.
type Session struct {
	composer  *scene.Composer
	refresher *news.Refresher

	items    []news.Item
	selected *news.Item
	updated  time.Time
	noAPIKey bool
	elapsed  float64

	log *zap.Logger
}

// NewSession builds the scene from cfg and attaches src. noAPIKey only
// changes what the overlay shows.
func NewSession(cfg *config.Config, src news.Source, noAPIKey bool) (*Session, error) {
	s := &Session{
		refresher: news.NewRefresher(src, cfg.News.FetchTimeout),
		noAPIKey:  noAPIKey,
		log:       logger.Named("app"),
	}

	composer, err := scene.New(SceneOptions(cfg), scene.Callbacks{
		OnNewsSelect: s.Select,
		OnDeselect:   s.Deselect,
	})
	if err != nil {
		s.refresher.Close()
		return nil, err
	}
	s.composer = composer
	return s, nil
}

// SceneOptions maps configuration onto composer options.
func SceneOptions(cfg *config.Config) scene.Options {
	cam := camera.NewOrbitCamera()
	cam.Distance = cfg.Camera.Distance
	cam.MinDistance = cfg.Camera.MinDistance
	cam.MaxDistance = cfg.Camera.MaxDistance
	cam.RotateSpeed = cfg.Camera.RotateSpeed
	cam.Damping = cfg.Camera.Damping

	opts := scene.DefaultOptions()
	opts.Radius = cfg.Globe.Radius
	opts.Tilt = cfg.Globe.Tilt
	opts.FOV = cfg.Camera.FOV
	opts.Ranges = cfg.Callout
	opts.Profile = rotation.Profile{
		InitialSpeed: cfg.Rotation.InitialSpeed,
		CruiseSpeed:  cfg.Rotation.CruiseSpeed,
		SpinDuration: cfg.Rotation.SpinDuration,
		DecayRate:    cfg.Rotation.DecayRate,
	}
	opts.Camera = cam
	opts.Measure = ui.Cards{}
	if cfg.Globe.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(cfg.Globe.Seed, cfg.Globe.Seed))
	}
	return opts
}

// Start kicks off the first fetch and the periodic refresh.
func (s *Session) Start(interval time.Duration) {
	s.Refresh()
	s.refresher.Every(interval)
}

// Refresh requests new news unless a fetch is already running.
func (s *Session) Refresh() bool {
	started := s.refresher.Refresh()
	if started {
		s.log.Info("refreshing news")
	}
	return started
}

// Poll applies a finished fetch, if any. A failed fetch keeps the current
// markers. It reports whether a batch was applied.
func (s *Session) Poll() bool {
	b, ok := s.refresher.Poll()
	if !ok {
		return false
	}
	if b.Err != nil {
		s.log.Warn("keeping current news", zap.Error(b.Err))
		return false
	}
	s.Apply(b.Items, b.FetchedAt)
	return true
}

// Apply replaces the news set in one step.
func (s *Session) Apply(items []news.Item, at time.Time) {
	s.items = items
	s.updated = at
	stats := s.composer.SetNews(items)
	s.log.Info("news applied",
		zap.Int("items", len(items)),
		zap.Int("added", stats.Added),
		zap.Int("kept", stats.Kept),
		zap.Int("removed", stats.Removed),
		zap.Int("dropped", stats.Dropped),
	)
}

// Select makes item the selected news item.
func (s *Session) Select(item news.Item) {
	s.selected = &item
	s.composer.SetSelected(item.ID)
}

// Deselect clears the selection.
func (s *Session) Deselect() {
	s.selected = nil
	s.composer.SetSelected("")
}

// Escape deselects if something is selected. It reports whether nothing
// was, in which case the caller may quit.
func (s *Session) Escape() bool {
	if s.selected != nil {
		s.Deselect()
		return false
	}
	return true
}

// Selected returns the selected item, or nil.
func (s *Session) Selected() *news.Item {
	return s.selected
}

// Items returns the current news set.
func (s *Session) Items() []news.Item {
	return s.items
}

// Composer returns the globe scene.
func (s *Session) Composer() *scene.Composer {
	return s.composer
}

// Loading reports whether a fetch is in flight.
func (s *Session) Loading() bool {
	return s.refresher.Loading()
}

// Update advances the scene by dt seconds.
func (s *Session) Update(dt float64) rotation.State {
	if dt > 0 {
		s.elapsed += dt
	}
	id := ""
	if s.selected != nil {
		id = s.selected.ID
	}
	s.composer.SetSelected(id)
	return s.composer.Update(dt)
}

// OverlayState describes the overlay for a w×h screen.
func (s *Session) OverlayState(w, h float32) ui.State {
	st := ui.State{
		Width:    w,
		Height:   h,
		Time:     s.elapsed,
		Loading:  s.Loading(),
		Count:    s.composer.Registry().Len(),
		NoAPIKey: s.noAPIKey,
		Updated:  s.updated,
		Selected: s.selected,
	}
	if c, ok := s.composer.PointerCoordinate(); ok {
		st.Cursor = &c
	}
	return st
}

// Handle applies overlay actions.
func (s *Session) Handle(a ui.Actions) {
	if a.Refresh {
		s.Refresh()
	}
	if a.Close {
		s.composer.Close()
	}
}

// Close stops background fetches.
func (s *Session) Close() {
	s.refresher.Close()
}

// IsNoAPIKey reports whether err means the API key is missing.
func IsNoAPIKey(err error) bool {
	return errors.Is(err, news.ErrNoAPIKey)
}
