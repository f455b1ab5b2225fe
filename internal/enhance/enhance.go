// Package enhance wraps the external AI text-enhancement collaborator.
// The call is best-effort: a failure resolves to "no change" and is only
// logged, never surfaced to the user as an error.
package enhance

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

const promptTemplate = "Rewrite the following task description to be clearer and more " +
	"professional, keeping the same language and meaning. Reply with the rewritten " +
	"text only, no preamble.\n\n%s"

// Enhancer rewrites a piece of text, or fails.
type Enhancer interface {
	Enhance(ctx context.Context, text string) (string, error)
}

// Gemini is an Enhancer backed by the Google GenAI API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini enhancer. The API key is read by the caller
// from the environment at call time.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("enhance: API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("enhance: failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Enhance asks the model to rewrite text.
func (g *Gemini) Enhance(ctx context.Context, text string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(fmt.Sprintf(promptTemplate, text)),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("enhance: generate failed: %w", err)
	}

	out := strings.TrimSpace(result.Text())
	if out == "" {
		return "", fmt.Errorf("enhance: empty response")
	}
	return out, nil
}

// BestEffort runs e and returns the enhanced text, or the original text
// unchanged when e is nil, fails, or returns nothing useful.
func BestEffort(ctx context.Context, e Enhancer, text string, log *zap.Logger) string {
	if e == nil || strings.TrimSpace(text) == "" {
		return text
	}
	out, err := e.Enhance(ctx, text)
	if err != nil {
		log.Warn("enhancement failed, keeping original text", zap.Error(err))
		return text
	}
	return out
}
