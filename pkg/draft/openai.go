package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultOpenAIBaseURL is the production chat-completions endpoint root.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// DefaultOpenAIModel is the model used when none is configured.
const DefaultOpenAIModel = "gpt-4o"

// OpenAIConfig holds configuration for an OpenAIClient.
type OpenAIConfig struct {
	// APIKey is the bearer token. Required.
	APIKey string

	// BaseURL overrides the API root, e.g. for a proxy or test server.
	// Default: DefaultOpenAIBaseURL.
	BaseURL string

	// Model is the completion model name. Default: DefaultOpenAIModel.
	Model string

	// HTTPClient is the underlying HTTP client. If nil,
	// http.DefaultClient is used.
	HTTPClient *http.Client
}

// OpenAIClient calls the OpenAI chat-completions API.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient creates an OpenAIClient with the given configuration.
func NewOpenAIClient(config OpenAIConfig) *OpenAIClient {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	model := config.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIClient{
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}
}

// Name identifies the backend and model.
func (c *OpenAIClient) Name() string { return "openai:" + c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends the instruction pair as a chat-completions request.
// Non-2xx responses and transport failures (including context expiry)
// surface as *ServiceError.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ServiceError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{Message: "reading response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.statusError(resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// statusError converts a non-2xx response into a *ServiceError, using the
// API's error body when it parses.
func (c *OpenAIClient) statusError(status int, body []byte) *ServiceError {
	svcErr := &ServiceError{StatusCode: status}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		svcErr.Code = apiErr.Error.Code
		svcErr.Message = apiErr.Error.Message
		return svcErr
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		svcErr.Message = "authentication failed"
	case status == http.StatusTooManyRequests:
		svcErr.Message = "rate limit exceeded"
	case status >= 500:
		svcErr.Message = "service unavailable"
	default:
		svcErr.Message = http.StatusText(status)
	}
	return svcErr
}
