// Package gemini implements ports.Generator on Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"github.com/randomtoy/oracle-go/internal/adapters/llm/prompt"
	"github.com/randomtoy/oracle-go/internal/domain"
)

const defaultModel = "gemini-2.5-flash"

// Client generates answers with genai's GenerateContent.
type Client struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// Options configures NewClient. BaseURL is only set in tests.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{client: client, model: opts.Model, logger: logger}, nil
}

func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	return c.generate(ctx, prompt.Ask(question))
}

func (c *Client) DailyFortune(ctx context.Context) (string, error) {
	return c.generate(ctx, prompt.DailyFortune)
}

func (c *Client) generate(ctx context.Context, userPrompt string) (string, error) {
	content, err := c.call(ctx, userPrompt)
	if err != nil {
		return "", err
	}

	text, err := prompt.ParseReply(content)
	if err != nil {
		c.logger.WarnContext(ctx, "LLM returned invalid JSON, retrying", "model", c.model, "error", err)
		if content, err = c.call(ctx, prompt.Retry(content)); err != nil {
			return "", err
		}
		if text, err = prompt.ParseReply(content); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidLLMJSON, err)
		}
	}
	return text, nil
}

func (c *Client) call(ctx context.Context, userPrompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.9),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("%w: GenAI generate failed: %w", domain.ErrUpstreamLLM, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: no candidates returned", domain.ErrUpstreamLLM)
	}
	return text, nil
}
