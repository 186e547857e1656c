package news

import (
	"context"

	"github.com/Faultbox/globalpulse/internal/config"
)

// NewSource picks the source for cfg. Offline mode and a missing API key
// both yield SampleSource; the latter also returns ErrNoAPIKey so the
// caller can tell the user. Otherwise the Gemini source is wrapped with
// the sample fallback.
func NewSource(ctx context.Context, cfg config.NewsConfig) (Source, error) {
	if cfg.Offline {
		return SampleSource{}, nil
	}
	g, err := NewGeminiSource(ctx, cfg)
	if err != nil {
		return SampleSource{}, err
	}
	return WithFallback(g), nil
}
