package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"thinkink-backend/internal/ai"
	"thinkink-backend/internal/extract"
	"thinkink-backend/internal/models"
)

var SupportedAudioExtensions = []string{".wav", ".mp3", ".m4a", ".ogg", ".flac"}

var audioMimeTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

// noSpeechMarker is what the transcription model is told to emit when it
// hears nothing usable. It maps onto the retry ladder.
const noSpeechMarker = "NO_SPEECH_DETECTED"

// GeminiRecognizer adapts the Gemini audio transcription to the Recognizer
// interface. The energy threshold becomes a sensitivity hint in the
// instruction; the engine itself stays a black box.
type GeminiRecognizer struct {
	backend *ai.GeminiBackend
}

func NewGeminiRecognizer(backend *ai.GeminiBackend) *GeminiRecognizer {
	return &GeminiRecognizer{backend: backend}
}

func (g *GeminiRecognizer) Recognize(ctx context.Context, audioPath string, opts extract.RecognizeOptions) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(audioPath))
	mime, ok := audioMimeTypes[ext]
	if !ok {
		mime = "audio/wav"
	}

	instruction := buildTranscribeInstruction(opts)
	text, err := g.backend.TranscribeAudio(ctx, audio, mime, instruction)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(text, noSpeechMarker) {
		return "", extract.ErrNoSpeech
	}
	return text, nil
}

func buildTranscribeInstruction(opts extract.RecognizeOptions) string {
	var b strings.Builder
	b.WriteString("Transcribe the provided audio verbatim. Return plain text only, without markdown, headers, or explanations.\n")
	b.WriteString("Expected language: " + opts.Language + ".\n")
	if opts.EnergyThreshold <= 200 {
		b.WriteString("The recording may be quiet or noisy. Transcribe even faint or partially clear speech.\n")
	}
	b.WriteString("If the audio contains no intelligible speech at all, respond with exactly " + noSpeechMarker + ".")
	return b.String()
}

// UnavailableRecognizer stands in when the configured backend cannot
// transcribe audio (Ollama has no audio input path).
type UnavailableRecognizer struct{}

func (UnavailableRecognizer) Recognize(ctx context.Context, audioPath string, opts extract.RecognizeOptions) (string, error) {
	return "", fmt.Errorf("audio transcription: %w", ai.ErrBackendUnavailable)
}

// VoiceService fronts transcription, voice-note summarization, emotion
// analysis, and speech synthesis.
type VoiceService struct {
	recognizer extract.Recognizer
	study      *StudyService
	recorder   *Recorder
	tts        *TTSService
}

func NewVoiceService(recognizer extract.Recognizer, study *StudyService, recorder *Recorder, tts *TTSService) *VoiceService {
	return &VoiceService{recognizer: recognizer, study: study, recorder: recorder, tts: tts}
}

// Transcribe runs the lowered-threshold retry ladder over an uploaded clip.
func (s *VoiceService) Transcribe(ctx context.Context, userID uuid.UUID, path, filename string, durationSeconds float64) (*extract.Transcript, error) {
	started := time.Now()
	input := map[string]string{"filename": filename}

	transcript, err := extract.Transcribe(ctx, s.recognizer, path, durationSeconds)
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureVoice, input, nil, started, err)
		return nil, err
	}

	s.recorder.Record(ctx, userID, models.FeatureVoice, input, transcript, started, nil)
	return transcript, nil
}

// SummarizeText condenses an existing transcript.
func (s *VoiceService) SummarizeText(ctx context.Context, userID uuid.UUID, text string) (*SummarizeResult, error) {
	return s.study.Summarize(ctx, userID, models.SummarizeRequest{
		Text:              text,
		SummarizationType: "abstractive",
		SummaryMode:       "narrative",
	})
}

func (s *VoiceService) AnalyzeEmotion(ctx context.Context, userID uuid.UUID, text string) (*ai.EmotionAnalysis, error) {
	return s.study.AnalyzeEmotion(ctx, userID, text)
}

func (s *VoiceService) TextToSpeech(ctx context.Context, req models.TextToSpeechRequest) (string, error) {
	return s.tts.Synthesize(ctx, req.Text, req.Language)
}

func (s *VoiceService) Stats(ctx context.Context, userID uuid.UUID) (*models.FeatureStats, error) {
	return s.recorder.Stats(ctx, userID, models.FeatureVoice)
}
