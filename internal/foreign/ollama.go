package foreign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Ollama is a provider for a local Ollama server.
type Ollama struct {
	URL     string
	Model   string
	Timeout time.Duration
}

// OllamaOption configures the Ollama provider.
type OllamaOption func(*Ollama)

// WithOllamaURL sets the Ollama API URL.
func WithOllamaURL(url string) OllamaOption {
	return func(o *Ollama) { o.URL = url }
}

// WithOllamaModel sets the model name.
func WithOllamaModel(model string) OllamaOption {
	return func(o *Ollama) { o.Model = model }
}

// WithOllamaTimeout sets the request timeout.
func WithOllamaTimeout(timeout time.Duration) OllamaOption {
	return func(o *Ollama) { o.Timeout = timeout }
}

// NewOllama creates a new Ollama provider.
func NewOllama(opts ...OllamaOption) *Ollama {
	o := &Ollama{
		URL:     "http://localhost:11434",
		Model:   "llama3.2",
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Prompt sends a prompt to Ollama and returns the response.
func (o *Ollama) Prompt(system, user string) (string, error) {
	var messages []ollamaMessage
	if system != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: system})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: user})

	reqBody := ollamaRequest{
		Model:    o.Model,
		Messages: messages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: o.Timeout}
	resp, err := client.Post(o.URL+"/api/chat", "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama error: %s", string(body))
	}

	var result ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Message.Content, nil
}
