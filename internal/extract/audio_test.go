package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"thinkink-backend/internal/ai"
)

type fakeRecognizer struct {
	results []func(opts RecognizeOptions) (string, error)
	calls   []RecognizeOptions
}

func (f *fakeRecognizer) Recognize(ctx context.Context, audioPath string, opts RecognizeOptions) (string, error) {
	f.calls = append(f.calls, opts)
	idx := len(f.calls) - 1
	if idx >= len(f.results) {
		return "", ErrNoSpeech
	}
	return f.results[idx](opts)
}

func TestTranscribeSucceedsOnSecondAttempt(t *testing.T) {
	rec := &fakeRecognizer{results: []func(RecognizeOptions) (string, error){
		func(RecognizeOptions) (string, error) { return "", ErrNoSpeech },
		func(RecognizeOptions) (string, error) { return "hello from the second try", nil },
	}}

	transcript, err := Transcribe(context.Background(), rec, "clip.wav", 10)
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}

	if transcript.Attempt != 2 {
		t.Errorf("attempt = %d, want 2", transcript.Attempt)
	}
	if transcript.EnergyThreshold != 200 {
		t.Errorf("energy_threshold = %d, want 200", transcript.EnergyThreshold)
	}
	if len(rec.calls) != 2 {
		t.Fatalf("expected 2 recognizer calls, got %d", len(rec.calls))
	}
	if rec.calls[0].EnergyThreshold != 300 || rec.calls[1].EnergyThreshold != 200 {
		t.Errorf("threshold ladder wrong: %+v", rec.calls)
	}
}

func TestTranscribeExhaustsAllAttempts(t *testing.T) {
	rec := &fakeRecognizer{}

	_, err := Transcribe(context.Background(), rec, "clip.wav", 5)
	var exhausted *ai.ExtractionExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExtractionExhaustedError, got %v", err)
	}
	if len(rec.calls) != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", len(rec.calls))
	}
	if rec.calls[2].Language != "en-US" {
		t.Errorf("final attempt should switch locale, got %q", rec.calls[2].Language)
	}
}

func TestTranscribeStopsOnTransportError(t *testing.T) {
	transportErr := fmt.Errorf("engine down: %w", ai.ErrBackendUnavailable)
	rec := &fakeRecognizer{results: []func(RecognizeOptions) (string, error){
		func(RecognizeOptions) (string, error) { return "", transportErr },
	}}

	_, err := Transcribe(context.Background(), rec, "clip.wav", 5)
	if !errors.Is(err, ai.ErrBackendUnavailable) {
		t.Fatalf("expected transport error to surface, got %v", err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("transport errors must not retry, got %d calls", len(rec.calls))
	}
}

func TestEstimateTimestamps(t *testing.T) {
	stamps := estimateTimestamps([]string{"a", "b", "c", "d"}, 8)
	if len(stamps) != 4 {
		t.Fatalf("expected 4 stamps, got %d", len(stamps))
	}
	if stamps[1].Start != 2 || stamps[1].End != 4 {
		t.Errorf("uneven spread: %+v", stamps[1])
	}

	if estimateTimestamps(nil, 8) != nil {
		t.Error("no words should mean no timestamps")
	}
	if estimateTimestamps([]string{"a"}, 0) != nil {
		t.Error("unknown duration should mean no timestamps")
	}
}
