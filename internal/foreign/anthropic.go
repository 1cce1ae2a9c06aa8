package foreign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultTimeout bounds each model call so a slow provider cannot hang
// the record loop; on expiry the call fails and the evaluator falls
// back to the empty-string sentinel.
const DefaultTimeout = 10 * time.Second

// Anthropic is a provider for Anthropic's Claude API.
type Anthropic struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// AnthropicOption configures the Anthropic provider.
type AnthropicOption func(*Anthropic)

// WithAnthropicAPIKey sets the API key.
func WithAnthropicAPIKey(key string) AnthropicOption {
	return func(a *Anthropic) { a.APIKey = key }
}

// WithAnthropicModel sets the model name.
func WithAnthropicModel(model string) AnthropicOption {
	return func(a *Anthropic) { a.Model = model }
}

// WithAnthropicTimeout sets the request timeout.
func WithAnthropicTimeout(timeout time.Duration) AnthropicOption {
	return func(a *Anthropic) { a.Timeout = timeout }
}

// NewAnthropic creates a new Anthropic provider. The API key defaults
// to the ANTHROPIC_API_KEY environment variable.
func NewAnthropic(opts ...AnthropicOption) *Anthropic {
	a := &Anthropic{
		APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		Model:   "claude-sonnet-4-20250514",
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Prompt sends a prompt to Anthropic and returns the response.
func (a *Anthropic) Prompt(system, user string) (string, error) {
	if a.APIKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	reqBody := anthropicRequest{
		Model:     a.Model,
		MaxTokens: 1024,
		System:    system,
		Messages: []anthropicMessage{
			{Role: "user", Content: user},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", "https://api.anthropic.com/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := &http.Client{Timeout: a.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("anthropic error (%d): %s", resp.StatusCode, string(body))
	}

	var result anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", result.Error.Message)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("anthropic: no content in response")
	}

	var sb strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
