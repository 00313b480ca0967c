package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/commerceprecision/cpe-api/internal/config"
	"github.com/commerceprecision/cpe-api/internal/llm"
)

// Client calls the Gemini API and returns raw JSON documents. It is safe for
// concurrent use.
type Client struct {
	logger     *slog.Logger
	client     *genai.Client
	model      string
	maxRetries int
	baseDelay  time.Duration
}

// New creates a Gemini-backed model client from the LLM configuration.
func New(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if cfg.GeminiModel == "" {
		return nil, errors.New("gemini model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		logger:     logger.With("provider", "gemini"),
		client:     client,
		model:      cfg.GeminiModel,
		maxRetries: cfg.MaxRetries,
		baseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

// Name identifies the provider in logs and stored answers.
func (c *Client) Name() string { return "gemini" }

// GenerateJSON sends one prompt to Gemini and returns the JSON body of the
// response. Transient API failures are retried with exponential backoff;
// safety blocks, malformed responses and rate limits are returned as the
// package llm sentinel errors without further attempts.
func (c *Client) GenerateJSON(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: empty prompt", llm.ErrInvalidResponse)
	}

	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(req.Temperature),
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	return llm.CallWithRetry(ctx, c.logger, c.Name(), c.maxRetries, c.baseDelay,
		func(ctx context.Context) (json.RawMessage, error) {
			resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), genCfg)
			if err != nil {
				return nil, classifyAPIError(err)
			}
			return parseResponse(resp)
		})
}

// parseResponse extracts and checks the JSON document carried by a Gemini
// response. The empty-candidate and safety-finish cases come back as
// permanent errors so the retry loop does not resubmit a blocked prompt.
func parseResponse(resp *genai.GenerateContentResponse) (json.RawMessage, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates in response", llm.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: response stopped by safety filters", llm.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty content in candidate", llm.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		b.WriteString(part.Text)
	}

	text := strings.TrimSpace(b.String())
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("%w: response is not valid JSON", llm.ErrInvalidResponse)
	}

	return json.RawMessage(text), nil
}

// classifyAPIError maps Gemini API errors onto the package llm sentinels.
// Anything unrecognized is treated as transient and left to the retry loop.
func classifyAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", llm.ErrRateLimited, err)
		case apiErr.Code >= 400 && apiErr.Code < 500:
			return fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err)
		}
	}
	return err
}
