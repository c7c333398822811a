package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Translator calls the public Google translate endpoint. Kept separate
// from the AI backend: translation is deterministic plumbing, not
// generation.
type Translator struct {
	client *resty.Client
}

func NewTranslator() *Translator {
	client := resty.New().
		SetBaseURL("https://translate.googleapis.com").
		SetTimeout(15 * time.Second)
	return &Translator{client: client}
}

func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     source,
			"tl":     target,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("translation endpoint returned status %d", resp.StatusCode())
	}

	// Response shape: [[["translated","source",...],...],...]
	var payload []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &payload); err != nil || len(payload) == 0 {
		return "", fmt.Errorf("unexpected translation response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected translation response")
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if json.Unmarshal(seg[0], &part) == nil {
			b.WriteString(part)
		}
	}

	translated := strings.TrimSpace(b.String())
	if translated == "" {
		return "", fmt.Errorf("translation produced no output")
	}
	return translated, nil
}
