package clients

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/salesintel/market-stream/pkg/grounding"
)

// SearchClient issues grounded generation calls through the Gemini API
// with the Google Search tool enabled. It implements the pipeline's search
// capability.
type SearchClient struct {
	client *genai.Client
	model  string
}

func NewSearchClient(ctx context.Context, model, apiKey string) (*SearchClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}
	return &SearchClient{client: client, model: model}, nil
}

// GenerateGrounded runs one search-grounded generation and converts the
// response's grounding metadata into ledger events. A response without
// grounding metadata yields text and no events.
func (c *SearchClient) GenerateGrounded(ctx context.Context, prompt string) (string, []grounding.Event, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", nil, fmt.Errorf("grounded generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", nil, fmt.Errorf("grounded generation returned no candidates")
	}

	var events []grounding.Event
	for _, cand := range resp.Candidates {
		if cand.GroundingMetadata == nil {
			continue
		}
		events = append(events, grounding.EventFromMetadata(cand.GroundingMetadata))
	}

	return resp.Text(), events, nil
}
