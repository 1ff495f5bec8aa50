package ai

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Completer is the provider contract shared by grading, tutoring and
// summarization: one synchronous round trip, no session state between calls.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider wraps a Completer with an explicit unconfigured state. It is
// injected into every consumer at construction; when unconfigured, each call
// fails fast with Unavailable instead of degrading silently.
type Provider struct {
	completer Completer
}

// Configured returns a provider backed by the given completer.
func Configured(c Completer) Provider { return Provider{completer: c} }

// Unconfigured returns the absent provider state.
func Unconfigured() Provider { return Provider{} }

// Available reports whether a completer is configured.
func (p Provider) Available() bool { return p.completer != nil }

// Complete runs one prompt round trip. Transport failures and deadline hits
// surface as Unavailable exactly once; there are no automatic retries.
func (p Provider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.completer == nil {
		return "", status.Error(codes.Unavailable, "AI services are unavailable")
	}

	text, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		if _, ok := status.FromError(err); ok {
			return "", err
		}
		log.Printf("AI provider request failed: %v", err)
		return "", status.Error(codes.Unavailable, "AI provider request failed")
	}
	return text, nil
}

// ============================================================================
// Gemini Completer
// ============================================================================

// GeminiCompleter implements Completer over the Gemini API with a bounded
// per-call timeout.
type GeminiCompleter struct {
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiCompleter creates a Gemini-backed completer.
func NewGeminiCompleter(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	log.Printf("Gemini client initialized (model: %s)", modelName)
	return &GeminiCompleter{
		model:   client.GenerativeModel(modelName),
		timeout: timeout,
	}, nil
}

// Complete sends one prompt and returns the concatenated text parts of the
// first candidate.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		log.Printf("Gemini request failed: %v", err)
		return "", status.Error(codes.Unavailable, "AI provider request failed")
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}

	text := sb.String()
	if text == "" {
		return "", status.Error(codes.Unavailable, "AI provider returned an empty response")
	}
	return text, nil
}
