package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/ghrecon/pkg/shared/config"
	"github.com/scan-io-git/ghrecon/pkg/shared/httpclient"
)

// Ollama calls the /api/generate endpoint of an Ollama server without streaming.
type Ollama struct {
	client      *resty.Client
	url         string
	model       string
	temperature float64
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func NewOllama(cfg *config.Config, logger hclog.Logger) *Ollama {
	client := httpclient.New(logger, cfg).SetTimeout(cfg.Inference.Timeout)
	return &Ollama{
		client:      client,
		url:         strings.TrimSuffix(cfg.Inference.URL, "/"),
		model:       cfg.Inference.Model,
		temperature: cfg.Inference.Temperature,
	}
}

func (o *Ollama) Name() string { return config.ProviderOllama + ":" + o.model }

func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
	}
	if o.temperature > 0 {
		body.Options = &generateOptions{Temperature: o.temperature}
	}

	var out generateResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		ForceContentType("application/json").
		SetResult(&out).
		Post(o.url + "/api/generate")
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	result := resp.Result().(*generateResponse)
	if result.Error != "" {
		return "", fmt.Errorf("ollama error: %s", result.Error)
	}
	return result.Response, nil
}
