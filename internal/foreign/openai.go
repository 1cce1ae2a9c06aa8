package foreign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// OpenAI is a provider for OpenAI's chat completions API.
type OpenAI struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAIOption configures the OpenAI provider.
type OpenAIOption func(*OpenAI)

// WithOpenAIAPIKey sets the API key.
func WithOpenAIAPIKey(key string) OpenAIOption {
	return func(o *OpenAI) { o.APIKey = key }
}

// WithOpenAIModel sets the model name.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *OpenAI) { o.Model = model }
}

// WithOpenAITimeout sets the request timeout.
func WithOpenAITimeout(timeout time.Duration) OpenAIOption {
	return func(o *OpenAI) { o.Timeout = timeout }
}

// NewOpenAI creates a new OpenAI provider. The API key defaults to the
// OPENAI_API_KEY environment variable.
func NewOpenAI(opts ...OpenAIOption) *OpenAI {
	o := &OpenAI{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   "gpt-3.5-turbo",
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Prompt sends a prompt to OpenAI and returns the response.
func (o *OpenAI) Prompt(system, user string) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqBody := openaiRequest{
		Model: o.Model,
		Messages: []openaiMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := &http.Client{Timeout: o.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai error (%d): %s", resp.StatusCode, string(body))
	}

	var result openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("openai error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}
