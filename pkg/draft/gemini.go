package draft

import (
	"context"

	genai "google.golang.org/genai"
)

// DefaultGeminiModel is the Gemini model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig holds configuration for a GeminiClient.
type GeminiConfig struct {
	// APIKey is the Gemini API key. Required.
	APIKey string

	// Model is the generation model name. Default: DefaultGeminiModel.
	Model string
}

// GeminiClient calls the Gemini API through the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient creates a GeminiClient with the given configuration.
func NewGeminiClient(ctx context.Context, config GeminiConfig) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

// Name identifies the backend and model.
func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// Complete sends the user instruction with the system instruction attached
// to the generation config. SDK call failures surface as *ServiceError; an
// empty candidate list yields an empty string for the Drafter to classify.
func (g *GeminiClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: user}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		},
	)
	if err != nil {
		return "", &ServiceError{Message: "generate content", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
