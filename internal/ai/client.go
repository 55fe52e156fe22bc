package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shilajit-be/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var ErrEmptyCompletion = errors.New("generative model returned no text")

// Generator produces a text completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type geminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient returns nil when apiKey is empty or the client cannot be
// built, so callers fall back to canned answers.
func NewGeminiClient(ctx context.Context, apiKey, model string) Generator {
	if apiKey == "" {
		logger.L().Warn("Gemini API key is empty, assistant will use fallback responses")
		return nil
	}
	g, err := newGeminiClient(ctx, "", apiKey, model, &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		logger.L().Error("failed to create Gemini client, assistant will use fallback responses", zap.Error(err))
		return nil
	}
	return g
}

// newGeminiClient targets baseURL when set, otherwise the public Gemini API.
func newGeminiClient(ctx context.Context, baseURL, apiKey, model string, httpClient *http.Client) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, err
	}
	return &geminiClient{client: client, model: model}, nil
}

func (g *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("model", g.model),
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		log.Error("gemini request failed", zap.Error(err))
		return "", fmt.Errorf("gemini error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
