package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Config for the Gemini client.
type Config struct {
	APIKey      string        // if empty, falls back to env GEMINI_API_KEY
	Model       string        // e.g. "gemini-flash-latest"
	Temperature float32       // 0..2
	Timeout     time.Duration // per-call deadline
}

// Client implements llm.TextGenerator over the Gemini API.
type Client struct {
	cfg    Config
	client *genai.Client
	logger *slog.Logger
}

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-flash-latest"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{cfg: cfg, client: gc, logger: logger}, nil
}

// GenerateText sends one prompt and returns the model's free-text response.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(c.cfg.Temperature),
		})
	if err != nil {
		c.logger.Error("gemini.generate.error", "model", c.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		c.logger.Error("gemini.generate.empty", "model", c.cfg.Model,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("gemini returned no text")
	}

	c.logger.Info("gemini.generate.ok", "model", c.cfg.Model,
		"response_len", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}
