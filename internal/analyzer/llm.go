package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"winsfinder/internal/contract"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	openRouterModel   = "anthropic/claude-3.5-sonnet-20241022"
	completionTokens  = 1000
	completionTemp    = 0.3
)

// OpenRouterClient calls the OpenRouter chat-completions API. A single
// attempt per call: failures route the analyzer to the heuristic path,
// so retrying here would only delay the report.
type OpenRouterClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ contract.Completer = &OpenRouterClient{} // Compile-time check

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewOpenRouterClient creates a client for the OpenRouter API.
func NewOpenRouterClient(apiKey string, client *http.Client) *OpenRouterClient {
	if client == nil {
		client = &http.Client{Timeout: contract.DefaultHTTPTimeout}
	}
	return &OpenRouterClient{
		apiKey:  apiKey,
		baseURL: openRouterBaseURL,
		client:  client,
	}
}

// NewCompleterFromEnv returns an OpenRouter completer when a key is
// configured, or nil to pin analysis to the heuristic path.
func NewCompleterFromEnv() contract.Completer {
	apiKey := os.Getenv(contract.EnvOpenRouterAPIKey)
	if apiKey == "" {
		return nil
	}
	return NewOpenRouterClient(apiKey, nil)
}

// Complete implements the Completer interface.
func (c *OpenRouterClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := chatRequest{
		Model:       openRouterModel,
		MaxTokens:   completionTokens,
		Temperature: completionTemp,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
