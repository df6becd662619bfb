package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/config"
)

const anthropicEndpoint = "https://api.anthropic.com/v1/messages"

// AIService is the shared LLM client used by every analyzer: a prompt goes
// in, markdown text comes out. Failure modes (timeout, rate limit, auth) are
// surfaced as errors for the analyzer to fold into its BotResult.
type AIService struct {
	config *config.AnthropicConfig
	client *http.Client
}

// NewAIService creates a new AI service
func NewAIService(anthropicConfig *config.AnthropicConfig) *AIService {
	return &AIService{
		config: anthropicConfig,
		client: &http.Client{
			Timeout: time.Duration(anthropicConfig.TimeoutSeconds) * time.Second,
		},
	}
}

// Chat sends a system + user prompt pair to the Anthropic Messages API and
// returns the response text. modelOverride may be empty.
func (s *AIService) Chat(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, modelOverride string) (string, error) {
	if s.config.APIKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	model := s.config.Model
	if modelOverride != "" {
		model = modelOverride
	}
	if maxTokens <= 0 {
		maxTokens = s.config.MaxTokens
	}

	reqBody := map[string]interface{}{
		"model":      model,
		"max_tokens": maxTokens,
		"system":     systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": userPrompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", anthropicEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.config.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var apiResponse struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("failed to decode API response: %w", err)
	}

	if len(apiResponse.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	return StripCodeFences(apiResponse.Content[0].Text), nil
}

// ChatWithRetry retries transient failures with the configured delay
func (s *AIService) ChatWithRetry(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, modelOverride string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= s.config.RetryCount; attempt++ {
		text, err := s.Chat(ctx, systemPrompt, userPrompt, maxTokens, modelOverride)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if attempt < s.config.RetryCount {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(s.config.RetryDelaySeconds) * time.Second):
			}
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", s.config.RetryCount, lastErr)
}

// StripCodeFences removes markdown code fences the model sometimes wraps
// its answer in
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```markdown")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
