// Package scout generates trip recommendations through the Gemini API. Each
// category has its own prompt pair; responses come back as newline-delimited
// JSON objects that map directly onto domain.ScoutItem.
package scout

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
)

const defaultTemperature = 0.5

type Client struct {
	ai    *genai.Client
	model string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	ai, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{ai: ai, model: model}, nil
}

// Recommend runs one full-batch scout. An empty slice with a nil error means
// the model answered but produced nothing parseable; the caller decides
// whether to retry.
func (c *Client) Recommend(ctx context.Context, category domain.Category, query ports.ScoutQuery) ([]domain.ScoutItem, error) {
	name := scoutName(category)
	text, err := c.generate(ctx, systemPrompt(category), userPrompt(category, query), maxTokensFor(category))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	items := parseBatch(text, name)
	log.Printf("%s: parsed %d/%d items for %s", name, len(items), query.Count, query.Location)
	return items, nil
}

// Replacement runs a focused single-item scout for one slot in the guide.
func (c *Client) Replacement(ctx context.Context, category domain.Category, query ports.ScoutQuery) (domain.ScoutItem, error) {
	const name = "Replace Scout"
	text, err := c.generate(ctx, replaceSystemPrompt(category, query.Profile), replaceUserPrompt(category, query), 1200)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	item, ok := parseSingleItem(text, name)
	if !ok {
		log.Printf("%s: failed to parse response for %s in %s", name, category, query.Location)
		return nil, ports.ErrUpstreamParse
	}
	return item, nil
}

func (c *Client) generate(ctx context.Context, system, user string, maxTokens int32) (string, error) {
	resp, err := c.ai.Models.GenerateContent(ctx, c.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](defaultTemperature),
		MaxOutputTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return extractText(resp), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

func scoutName(category domain.Category) string {
	switch category {
	case domain.CategoryPhotos:
		return "Photo Scout"
	case domain.CategoryRestaurants:
		return "Restaurant Scout"
	default:
		return "Attraction Scout"
	}
}

func maxTokensFor(category domain.Category) int32 {
	if category == domain.CategoryPhotos {
		return 6000
	}
	return 5000
}

var _ ports.ScoutClient = (*Client)(nil)
