package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Faultbox/globalpulse/internal/config"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
	prompt string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string, uris ...string) *genai.GenerateContentResponse {
	cand := &genai.Candidate{
		Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
	}
	if len(uris) > 0 {
		meta := &genai.GroundingMetadata{}
		for _, u := range uris {
			meta.GroundingChunks = append(meta.GroundingChunks, &genai.GroundingChunk{
				Web: &genai.GroundingChunkWeb{URI: u},
			})
		}
		cand.GroundingMetadata = meta
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{cand}}
}

func testSource(gen Generator) *GeminiSource {
	src := newGeminiSource(gen, config.Default().News)
	src.now = func() time.Time { return parseNow }
	src.newID = seqID()
	return src
}

func TestNewGeminiSourceRequiresKey(t *testing.T) {
	_, err := NewGeminiSource(context.Background(), config.NewsConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGeminiFetch(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(
		"```json\n[{\"title\":\"A\",\"coordinates\":{\"lat\":1,\"lon\":2}},{\"title\":\"B\"},{\"title\":\"C\"}]\n```",
		"https://one", "https://two",
	)}
	src := testSource(gen)

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "gemini-2.5-flash", gen.model)
	require.NotNil(t, gen.config.Temperature)
	assert.InDelta(t, 0.4, *gen.config.Temperature, 1e-6)
	require.Len(t, gen.config.Tools, 1)
	assert.NotNil(t, gen.config.Tools[0].GoogleSearch)
	assert.Contains(t, gen.prompt, "12 important world news events")

	assert.Equal(t, "https://one", items[0].URL)
	assert.Equal(t, "https://two", items[1].URL)
	assert.Equal(t, "https://one", items[2].URL)
	assert.Equal(t, "id-1", items[0].ID)
	assert.InDelta(t, 2.0, items[0].Coordinates.Lon, 1e-9)
}

func TestGeminiFetchFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"api error", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"no candidates", &fakeGenerator{resp: &genai.GenerateContentResponse{}}},
		{"empty text", &fakeGenerator{resp: textResponse("  ")}},
		{"unparseable", &fakeGenerator{resp: textResponse("no json here")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testSource(tt.gen).Fetch(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestFallbackSource(t *testing.T) {
	failing := testSource(&fakeGenerator{err: errors.New("boom")})
	items, err := WithFallback(failing).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, []string{"1", "2", "3", "4"}, []string{items[0].ID, items[1].ID, items[2].ID, items[3].ID})

	ok := testSource(&fakeGenerator{resp: textResponse(`[{"title":"Live"}]`)})
	items, err = WithFallback(ok).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Live", items[0].Title)
}

func TestFallbackSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	failing := testSource(&fakeGenerator{err: context.Canceled})
	_, err := WithFallback(failing).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFallbackItems(t *testing.T) {
	items := FallbackItems(parseNow)
	require.Len(t, items, 4)

	assert.Equal(t, Technology, items[0].Category)
	assert.InDelta(t, 35.6762, items[0].Coordinates.Lat, 1e-9)
	assert.InDelta(t, 139.6503, items[0].Coordinates.Lon, 1e-9)
	assert.Equal(t, Science, items[1].Category)
	assert.Equal(t, Business, items[2].Category)
	assert.InDelta(t, -77.0369, items[3].Coordinates.Lon, 1e-9)
	for _, it := range items {
		assert.Equal(t, parseNow, it.Timestamp)
		assert.True(t, it.Coordinates.InRange())
	}
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(context.Background(), config.NewsConfig{Offline: true, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, SampleSource{}, src)

	src, err = NewSource(context.Background(), config.NewsConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.IsType(t, SampleSource{}, src)
}
