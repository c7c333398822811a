package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiBackend adapts the Gemini API to the Backend interface. A token
// bucket caps concurrent requests across all features.
type GeminiBackend struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{}
}

func NewGeminiBackend(apiKey, modelName string, concurrentReqs int) (*GeminiBackend, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	def := DefaultOptions()
	model.SetTemperature(def.Temperature)
	model.SetTopP(def.TopP)
	model.SetMaxOutputTokens(def.MaxTokens)

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiBackend{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (b *GeminiBackend) Close() {
	b.client.Close()
}

func (b *GeminiBackend) acquireRate(ctx context.Context) error {
	select {
	case <-b.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot: %w", ErrBackendTimeout)
	}
}

func (b *GeminiBackend) releaseRate() {
	b.rateChan <- struct{}{}
}

// modelFor applies per-call options to a copy of the shared model so they
// never leak into concurrent requests.
func (b *GeminiBackend) modelFor(opts Options) *genai.GenerativeModel {
	model := *b.model
	if opts.Temperature > 0 {
		model.SetTemperature(opts.Temperature)
	}
	if opts.TopP > 0 {
		model.SetTopP(opts.TopP)
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxTokens)
	}
	return &model
}

func (b *GeminiBackend) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if err := b.acquireRate(ctx); err != nil {
		return "", classifyGeminiErr(err)
	}
	defer b.releaseRate()

	model := b.modelFor(opts)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGeminiErr(err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("Gemini returned no text candidates: %w", ErrBackendUnavailable)
	}
	return text, nil
}

// TranscribeAudio uploads audio through the File API and asks the model for
// a verbatim transcript. Used by the voice recognizer adapter.
func (b *GeminiBackend) TranscribeAudio(ctx context.Context, audio []byte, mimeType, instruction string) (string, error) {
	if err := b.acquireRate(ctx); err != nil {
		return "", classifyGeminiErr(err)
	}
	defer b.releaseRate()

	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}

	file, err := b.client.UploadFile(ctx, "", bytes.NewReader(audio), &genai.UploadFileOptions{
		DisplayName: "voice-note",
		MIMEType:    mimeType,
	})
	if err != nil {
		return "", classifyGeminiErr(fmt.Errorf("failed to upload audio: %w", err))
	}
	defer b.client.DeleteFile(context.Background(), file.Name)

	// Wait until the remote file is active.
	for i := 0; i < 20; i++ {
		current, getErr := b.client.GetFile(ctx, file.Name)
		if getErr != nil {
			return "", classifyGeminiErr(fmt.Errorf("failed to get uploaded file status: %w", getErr))
		}
		if current.State == genai.FileStateActive {
			file = current
			break
		}
		if current.State == genai.FileStateFailed {
			return "", fmt.Errorf("Gemini failed to process uploaded audio: %w", ErrBackendUnavailable)
		}
		select {
		case <-ctx.Done():
			return "", classifyGeminiErr(ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if file.State != genai.FileStateActive {
		return "", fmt.Errorf("audio file did not become active in time: %w", ErrBackendTimeout)
	}

	resp, err := b.model.GenerateContent(ctx,
		genai.Text(instruction),
		genai.FileData{MIMEType: mimeType, URI: file.URI},
	)
	if err != nil {
		return "", classifyGeminiErr(err)
	}

	return strings.TrimSpace(extractText(resp)), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func classifyGeminiErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}
	if errors.Is(err, ErrBackendTimeout) || errors.Is(err, ErrBackendUnavailable) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
