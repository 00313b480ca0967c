package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/commerceprecision/cpe-api/internal/config"
	"github.com/commerceprecision/cpe-api/internal/llm"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Client calls Groq's chat completions API. It is safe for concurrent use.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	baseDelay  time.Duration
}

// New creates a Groq-backed model client from the LLM configuration.
func New(logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GroqAPIKey == "" {
		return nil, errors.New("groq API key cannot be empty")
	}
	if cfg.GroqModel == "" {
		return nil, errors.New("groq model name cannot be empty")
	}

	return &Client{
		logger:     logger.With("provider", "groq"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     cfg.GroqAPIKey,
		model:      cfg.GroqModel,
		maxRetries: cfg.MaxRetries,
		baseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

// Name identifies the provider in logs and stored answers.
func (c *Client) Name() string { return "groq" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float32        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// GenerateJSON sends one prompt to Groq and returns the JSON body of the
// completion. Transient failures are retried with exponential backoff.
func (c *Client) GenerateJSON(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: empty prompt", llm.ErrInvalidResponse)
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal groq request: %w", err)
	}

	return llm.CallWithRetry(ctx, c.logger, c.Name(), c.maxRetries, c.baseDelay,
		func(ctx context.Context) (json.RawMessage, error) {
			return c.doRequest(ctx, payload)
		})
}

// doRequest performs one HTTP round trip against the completions endpoint.
func (c *Client) doRequest(ctx context.Context, payload []byte) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build groq request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("groq request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read groq response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}

	return parseCompletion(body)
}

// parseCompletion extracts the JSON document from a chat completion body.
func parseCompletion(body []byte) (json.RawMessage, error) {
	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("%w: malformed completion envelope: %v", llm.ErrInvalidResponse, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in completion", llm.ErrInvalidResponse)
	}

	choice := completion.Choices[0]
	if choice.FinishReason == "content_filter" {
		return nil, fmt.Errorf("%w: completion stopped by content filter", llm.ErrContentBlocked)
	}

	content := strings.TrimSpace(choice.Message.Content)
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("%w: completion is not valid JSON", llm.ErrInvalidResponse)
	}

	return json.RawMessage(content), nil
}

// classifyStatus maps HTTP error statuses onto the package llm sentinels.
// Server-side statuses stay transient for the retry loop.
func classifyStatus(status int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: groq returned 429: %s", llm.ErrRateLimited, detail)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: groq returned %d: %s", llm.ErrInvalidResponse, status, detail)
	default:
		return fmt.Errorf("groq returned %d: %s", status, detail)
	}
}
