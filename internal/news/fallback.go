package news

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/globalpulse/internal/logger"
	"github.com/Faultbox/globalpulse/pkg/geo"
)

// FallbackItems returns the built-in sample events, stamped with now.
func FallbackItems(now time.Time) []Item {
	return []Item{
		{
			ID:           "1",
			Title:        "World AI summit announced",
			Summary:      "Leaders will gather in Tokyo to discuss the future of AI regulation.",
			Category:     Technology,
			LocationName: "Tokyo, Japan",
			Coordinates:  geo.Coordinate{Lat: 35.6762, Lon: 139.6503},
			Timestamp:    now,
		},
		{
			ID:           "2",
			Title:        "New Amazon reserve created",
			Summary:      "Brazil has established a new protected area to preserve biodiversity.",
			Category:     Science,
			LocationName: "Manaus, Brazil",
			Coordinates:  geo.Coordinate{Lat: -3.1190, Lon: -60.0217},
			Timestamp:    now,
		},
		{
			ID:           "3",
			Title:        "European markets hit record",
			Summary:      "Major indices closed at all-time highs after a new economic policy was announced.",
			Category:     Business,
			LocationName: "Frankfurt, Germany",
			Coordinates:  geo.Coordinate{Lat: 50.1109, Lon: 8.6821},
			Timestamp:    now,
		},
		{
			ID:           "4",
			Title:        "New space telescope images",
			Summary:      "NASA released breathtaking high-resolution images of distant galaxies.",
			Category:     Science,
			LocationName: "Washington D.C., USA",
			Coordinates:  geo.Coordinate{Lat: 38.9072, Lon: -77.0369},
			Timestamp:    now,
		},
	}
}

// SampleSource always returns FallbackItems. Used offline and without an API key.
type SampleSource struct {
	Now func() time.Time
}

// Fetch implements Source.
func (s SampleSource) Fetch(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return FallbackItems(now()), nil
}

// FallbackSource wraps a primary source and substitutes the sample events
// when the primary fails. Cancellation of ctx is still reported as an error.
type FallbackSource struct {
	primary  Source
	fallback Source
	log      *zap.Logger
}

// WithFallback wraps primary with SampleSource.
func WithFallback(primary Source) *FallbackSource {
	return &FallbackSource{
		primary:  primary,
		fallback: SampleSource{},
		log:      logger.Named("news"),
	}
}

// Fetch implements Source.
func (f *FallbackSource) Fetch(ctx context.Context) ([]Item, error) {
	items, err := f.primary.Fetch(ctx)
	if err == nil {
		return items, nil
	}
	if errors.Is(err, context.Canceled) {
		return nil, err
	}

	f.log.Warn("news fetch failed, using sample events", zap.Error(err))
	return f.fallback.Fetch(context.WithoutCancel(ctx))
}
