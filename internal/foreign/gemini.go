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

// Gemini is a provider for Google's Gemini API.
type Gemini struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiOption configures the Gemini provider.
type GeminiOption func(*Gemini)

// WithGeminiAPIKey sets the API key.
func WithGeminiAPIKey(key string) GeminiOption {
	return func(g *Gemini) { g.APIKey = key }
}

// WithGeminiModel sets the model name.
func WithGeminiModel(model string) GeminiOption {
	return func(g *Gemini) { g.Model = model }
}

// WithGeminiTimeout sets the request timeout.
func WithGeminiTimeout(timeout time.Duration) GeminiOption {
	return func(g *Gemini) { g.Timeout = timeout }
}

// NewGemini creates a new Gemini provider. The API key defaults to the
// GEMINI_API_KEY environment variable, falling back to GOOGLE_API_KEY.
func NewGemini(opts ...GeminiOption) *Gemini {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	g := &Gemini{
		APIKey:  key,
		Model:   "gemini-1.5-flash",
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Prompt sends a prompt to Gemini and returns the response.
func (g *Gemini) Prompt(system, user string) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: user}}},
		},
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: system}},
		},
		GenerationConfig: &geminiGenerationConfig{
			MaxOutputTokens: 1024,
			Temperature:     0.7,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		g.Model, g.APIKey)
	req, err := http.NewRequest("POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: g.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini error (%d): %s", resp.StatusCode, string(body))
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("gemini error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
