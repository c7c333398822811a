package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const ttsMaxChars = 200

// TTSService fetches speech audio from the public translate TTS endpoint
// and stores it under the upload directory with a random name. Files older
// than an hour get swept on each request.
type TTSService struct {
	client   *resty.Client
	audioDir string
}

func NewTTSService(uploadDir string) (*TTSService, error) {
	audioDir := filepath.Join(uploadDir, "tts")
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tts directory: %w", err)
	}

	client := resty.New().
		SetBaseURL("https://translate.google.com").
		SetTimeout(20 * time.Second).
		SetHeader("User-Agent", "Mozilla/5.0")

	return &TTSService{client: client, audioDir: audioDir}, nil
}

// Synthesize returns the path of the generated mp3.
func (s *TTSService) Synthesize(ctx context.Context, text, language string) (string, error) {
	fields := map[string]string{}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		fields["text"] = "Text is required"
	} else if len(trimmed) > ttsMaxChars {
		fields["text"] = fmt.Sprintf("Text exceeds the %d character limit for speech", ttsMaxChars)
	}
	if err := validationError(fields); err != nil {
		return "", err
	}
	if language == "" {
		language = "en"
	}

	s.sweepOldFiles()

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ie":     "UTF-8",
			"q":      trimmed,
			"tl":     language,
			"client": "tw-ob",
		}).
		Get("/translate_tts")
	if err != nil {
		return "", fmt.Errorf("tts request failed: %w", err)
	}
	if resp.IsError() || len(resp.Body()) == 0 {
		return "", fmt.Errorf("tts endpoint returned status %d", resp.StatusCode())
	}

	path := filepath.Join(s.audioDir, uuid.NewString()+".mp3")
	if err := os.WriteFile(path, resp.Body(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	return path, nil
}

func (s *TTSService) sweepOldFiles() {
	entries, err := os.ReadDir(s.audioDir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-1 * time.Hour)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.audioDir, entry.Name())); err != nil {
				log.Warn().Err(err).Str("file", entry.Name()).Msg("failed to sweep old tts file")
			}
		}
	}
}
