package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaEndpoint is the chat endpoint of a local Ollama server
const DefaultOllamaEndpoint = "http://localhost:11434/api/chat"

// OllamaClient implements Provider for a local Ollama server
type OllamaClient struct {
	Endpoint string
	Model    string
	Timeout  time.Duration

	http *http.Client
}

// NewOllama creates a new Ollama client
func NewOllama(endpoint, model string, timeout time.Duration) *OllamaClient {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultOllamaEndpoint
	}
	return &OllamaClient{
		Endpoint: endpoint,
		Model:    model,
		Timeout:  timeout,
		http:     &http.Client{Timeout: timeout},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error"`
}

// Name returns provider name
func (c *OllamaClient) Name() string { return "ollama" }

// Complete posts a non-streaming chat request
func (c *OllamaClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.Model
	}
	msgs := make([]ollamaMessage, 0, 2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, ollamaMessage{Role: "system", Content: req.SystemPrompt})
	}
	msgs = append(msgs, ollamaMessage{Role: "user", Content: req.UserMessage})

	data, err := json.Marshal(ollamaRequest{
		Model:    model,
		Messages: msgs,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": req.maxTokens(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &APIError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", &APIError{Provider: c.Name(), StatusCode: resp.StatusCode, Err: err}
	}

	var out ollamaResponse
	decodeErr := json.Unmarshal(body, &out)
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(out.Error)
		if msg == "" {
			msg = resp.Status
		}
		return "", &APIError{Provider: c.Name(), StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode ollama response: %w", decodeErr)
	}
	if out.Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return out.Message.Content, nil
}

// IsAvailable checks if the Ollama service is available
func (c *OllamaClient) IsAvailable(ctx context.Context) bool {
	tags := c.Endpoint
	if i := strings.Index(tags, "/api/"); i >= 0 {
		tags = tags[:i] + "/api/tags"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tags, nil)
	if err != nil {
		return false
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
