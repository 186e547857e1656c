package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Faultbox/globalpulse/internal/config"
	"github.com/Faultbox/globalpulse/internal/logger"
)

const promptTemplate = `Find %d important world news events that happened within the last 24 hours.
Cover a diverse set of regions: North America, Europe, Asia, Africa, South America and Oceania.

Output the result strictly as a JSON array inside a Markdown code block.
Each object must contain the following fields:
- title: a short headline (English, at most 40 characters).
- summary: a summary of about two sentences (English).
- category: one of "Politics", "Technology", "Business", "Science", "Sports", "Entertainment", "General".
- locationName: city or country name (English).
- coordinates: an object with numeric "lat" and "lon" for the approximate location.

Coordinates must be numbers, never strings.`

// Generator is the slice of the genai models API used by GeminiSource.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSource asks Gemini, grounded with Google Search, for recent events.
type GeminiSource struct {
	models      Generator
	model       string
	count       int
	temperature float32
	now         func() time.Time
	newID       func() string
	log         *zap.Logger
}

// NewGeminiSource creates a source backed by the Gemini API.
func NewGeminiSource(ctx context.Context, cfg config.NewsConfig) (*GeminiSource, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGeminiSource(client.Models, cfg), nil
}

func newGeminiSource(models Generator, cfg config.NewsConfig) *GeminiSource {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	count := cfg.Count
	if count <= 0 {
		count = 12
	}
	return &GeminiSource{
		models:      models,
		model:       model,
		count:       count,
		temperature: cfg.Temperature,
		now:         time.Now,
		newID:       NewID,
		log:         logger.Named("gemini"),
	}
}

// Prompt returns the request text sent to the model.
func (g *GeminiSource) Prompt() string {
	return fmt.Sprintf(promptTemplate, g.count)
}

// Fetch requests a fresh batch. The returned items carry grounding URIs
// assigned round-robin.
func (g *GeminiSource) Fetch(ctx context.Context) ([]Item, error) {
	temp := g.temperature
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
		Temperature: &temp,
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(g.Prompt()), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("gemini returned an empty response")
	}

	items, err := ParseItems(text, g.now(), g.newID)
	if err != nil {
		g.log.Debug("unparseable response", zap.String("text", text))
		return nil, err
	}

	uris := groundingURIs(resp)
	AssignSources(items, uris)

	g.log.Info("news fetched",
		zap.Int("items", len(items)),
		zap.Int("sources", len(uris)),
		zap.Duration("took", time.Since(start)))
	return items, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// groundingURIs lists the web URI of every grounding chunk of the first
// candidate, keeping position for chunks without one.
func groundingURIs(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	uris := make([]string, len(meta.GroundingChunks))
	for i, chunk := range meta.GroundingChunks {
		if chunk != nil && chunk.Web != nil {
			uris[i] = chunk.Web.URI
		}
	}
	return uris
}
