package inference

import (
	"context"
	"errors"
	"strings"

	genai "google.golang.org/genai"

	"github.com/scan-io-git/ghrecon/pkg/shared/config"
)

var ErrNoCandidates = errors.New("model returned no candidates")

// Gemini is a thin wrapper around the official genai client.
type Gemini struct {
	cli         *genai.Client
	model       string
	temperature float64
}

func NewGemini(ctx context.Context, cfg *config.Config) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Inference.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{cli: cli, model: cfg.Inference.Model, temperature: cfg.Inference.Temperature}, nil
}

func (g *Gemini) Name() string { return config.ProviderGemini + ":" + g.model }

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	var genCfg *genai.GenerateContentConfig
	if g.temperature > 0 {
		t := float32(g.temperature)
		genCfg = &genai.GenerateContentConfig{Temperature: &t}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		genCfg,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoCandidates
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
