package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// OllamaBackend talks to a local Ollama daemon over its /api/generate
// endpoint. Useful for self-hosted deployments; selected via AI_BACKEND.
type OllamaBackend struct {
	client *resty.Client
	model  string
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	NumPredict  int32   `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewOllamaBackend(baseURL, model string, readTimeout time.Duration) *OllamaBackend {
	if model == "" {
		model = "mistral"
	}
	if readTimeout == 0 {
		readTimeout = 300 * time.Second
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(readTimeout).
		SetTransport(&http.Transport{DialContext: dialer.DialContext})

	return &OllamaBackend{client: client, model: model}
}

func (b *OllamaBackend) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	def := DefaultOptions()
	if opts.Temperature == 0 {
		opts.Temperature = def.Temperature
	}
	if opts.TopP == 0 {
		opts.TopP = def.TopP
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = def.MaxTokens
	}

	var out ollamaResponse
	resp, err := b.client.R().
		SetContext(ctx).
		// Parse the body as JSON even if a proxy mangles the content type.
		ForceContentType("application/json").
		SetBody(ollamaRequest{
			Model:  b.model,
			Prompt: prompt,
			Stream: false,
			Options: ollamaOptions{
				Temperature: opts.Temperature,
				TopP:        opts.TopP,
				NumPredict:  opts.MaxTokens,
			},
		}).
		SetResult(&out).
		Post("/api/generate")

	if err != nil {
		return "", classifyOllamaErr(err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: ollama returned status %d", ErrBackendUnavailable, resp.StatusCode())
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("%w: ollama returned empty response", ErrBackendUnavailable)
	}

	return out.Response, nil
}

func classifyOllamaErr(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
