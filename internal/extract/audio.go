package extract

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"thinkink-backend/internal/ai"
)

// ErrNoSpeech is returned by a Recognizer when the engine heard nothing it
// could transcribe. Only this error advances the attempt ladder; transport
// failures surface immediately.
var ErrNoSpeech = errors.New("could not understand the audio")

// RecognizeOptions tune one recognition attempt. Lower energy thresholds
// make the engine accept quieter or noisier speech.
type RecognizeOptions struct {
	EnergyThreshold int
	Language        string
}

// Recognizer is the speech engine abstraction. Production wires a
// Gemini-backed implementation; tests substitute fakes.
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string, opts RecognizeOptions) (string, error)
}

// Transcript is the result of a successful recognition, tagged with the
// attempt that produced it.
type Transcript struct {
	Text            string          `json:"text"`
	Confidence      float64         `json:"confidence"`
	Language        string          `json:"language"`
	Attempt         int             `json:"attempt"`
	EnergyThreshold int             `json:"energy_threshold"`
	WordCount       int             `json:"word_count"`
	Timestamps      []WordTimestamp `json:"timestamps,omitempty"`
}

type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Attempt ladder: each retry lowers the energy threshold, the final one
// also switches locale. At most three attempts.
var defaultAttempts = []RecognizeOptions{
	{EnergyThreshold: 300, Language: "en-IN"},
	{EnergyThreshold: 200, Language: "en-IN"},
	{EnergyThreshold: 100, Language: "en-US"},
}

// Transcribe runs the recognizer through the attempt ladder. A no-speech
// result tries the next rung; anything else stops the ladder. All rungs
// exhausted means ExtractionExhaustedError.
func Transcribe(ctx context.Context, rec Recognizer, audioPath string, durationSeconds float64) (*Transcript, error) {
	attempted := make([]string, 0, len(defaultAttempts))

	for i, opts := range defaultAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempted = append(attempted, opts.Language)

		text, err := rec.Recognize(ctx, audioPath, opts)
		if err != nil {
			if errors.Is(err, ErrNoSpeech) {
				log.Debug().Int("attempt", i+1).Int("energy_threshold", opts.EnergyThreshold).
					Msg("recognizer heard no speech, lowering threshold")
				continue
			}
			return nil, err
		}

		text = strings.TrimSpace(text)
		words := strings.Fields(text)
		if len(words) == 0 {
			continue
		}

		return &Transcript{
			Text:            text,
			Confidence:      0.9,
			Language:        opts.Language,
			Attempt:         i + 1,
			EnergyThreshold: opts.EnergyThreshold,
			WordCount:       len(words),
			Timestamps:      estimateTimestamps(words, durationSeconds),
		}, nil
	}

	return nil, &ai.ExtractionExhaustedError{Methods: attempted}
}

// estimateTimestamps spreads words uniformly over the clip duration. The
// engine gives no word timing, so this is an estimate, not alignment.
func estimateTimestamps(words []string, durationSeconds float64) []WordTimestamp {
	if durationSeconds <= 0 || len(words) == 0 {
		return nil
	}

	perWord := durationSeconds / float64(len(words))
	stamps := make([]WordTimestamp, len(words))
	for i, w := range words {
		stamps[i] = WordTimestamp{
			Word:  w,
			Start: float64(i) * perWord,
			End:   float64(i+1) * perWord,
		}
	}
	return stamps
}
