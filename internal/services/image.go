package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"thinkink-backend/internal/ai"
	"thinkink-backend/internal/extract"
	"thinkink-backend/internal/models"
)

const summarizeChunkSize = 4000

var SupportedImageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".webp"}

// ImageService runs OCR over an uploaded image and summarizes the
// recognized text. Long OCR output is summarized chunk by chunk, then the
// chunk summaries are merged into one sectioned result.
type ImageService struct {
	ocr       *extract.OCR
	backend   ai.Backend
	recorder  *Recorder
	aiTimeout time.Duration
}

func NewImageService(ocr *extract.OCR, backend ai.Backend, recorder *Recorder, aiTimeout time.Duration) *ImageService {
	return &ImageService{ocr: ocr, backend: backend, recorder: recorder, aiTimeout: aiTimeout}
}

type ImageResult struct {
	ExtractedText    string              `json:"extracted_text"`
	WordCount        int                 `json:"word_count"`
	Summary          models.ImageSummary `json:"summary"`
	ExtractionMethod string              `json:"extraction_method"`
}

func (s *ImageService) Process(ctx context.Context, userID uuid.UUID, path, filename string) (*ImageResult, error) {
	started := time.Now()
	input := map[string]string{"filename": filename}

	text, err := s.ocr.ExtractImage(ctx, path)
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureImage, input, nil, started, err)
		return nil, err
	}

	summary, err := s.summarizeChunked(ctx, text.Text)
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureImage, input, nil, started, err)
		return nil, err
	}

	result := &ImageResult{
		ExtractedText:    text.Text,
		WordCount:        text.WordCount,
		Summary:          *summary,
		ExtractionMethod: text.Method,
	}
	s.recorder.Record(ctx, userID, models.FeatureImage, input, result, started, nil)
	return result, nil
}

// summarizeChunked condenses each chunk, then asks for the sectioned
// summary over the condensed whole.
func (s *ImageService) summarizeChunked(ctx context.Context, text string) (*models.ImageSummary, error) {
	chunks := splitChunks(text, summarizeChunkSize)

	condensed := text
	if len(chunks) > 1 {
		var parts []string
		for i, chunk := range chunks {
			genCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
			raw, err := s.backend.Generate(genCtx, ai.BuildKeyPointsPrompt(chunk), ai.DefaultOptions())
			cancel()
			if err != nil {
				return nil, err
			}
			notes := parseNotes(raw)
			parts = append(parts, notes.Summary)
			log.Debug().Int("chunk", i+1).Int("total", len(chunks)).Msg("summarized ocr chunk")
		}
		condensed = strings.Join(parts, "\n")
	}

	genCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	prompt := buildImageSummaryPrompt(condensed)
	raw, err := s.backend.Generate(genCtx, prompt, ai.DefaultOptions())
	if err != nil {
		return nil, err
	}

	return parseImageSummary(raw), nil
}

func buildImageSummaryPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are an expert at digesting scanned documents. Summarize the OCR text below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n")
	b.WriteString(`Schema: {"main_summary": "string", "key_points": ["string"], "important_details": ["string"]}`)
	b.WriteString("\n\n---TEXT---\n")
	b.WriteString(text)
	b.WriteString("\n---END---\n")
	return b.String()
}

// parseImageSummary degrades leniently: unparseable output becomes the
// main summary as-is.
func parseImageSummary(raw string) *models.ImageSummary {
	clean := ai.Sanitize(raw)

	var summary models.ImageSummary
	data := clean
	if obj := ai.ExtractJSONObject(clean); obj != "" {
		data = obj
	}
	if err := json.Unmarshal([]byte(data), &summary); err == nil && summary.MainSummary != "" {
		if summary.KeyPoints == nil {
			summary.KeyPoints = []string{}
		}
		if summary.ImportantDetails == nil {
			summary.ImportantDetails = []string{}
		}
		return &summary
	}

	return &models.ImageSummary{
		MainSummary:      clean,
		KeyPoints:        []string{},
		ImportantDetails: []string{},
	}
}

func splitChunks(text string, size int) []string {
	if len(text) <= size {
		return []string{text}
	}
	var chunks []string
	for len(text) > size {
		cut := size
		// Break on a space when possible so words stay whole.
		if idx := strings.LastIndex(text[:size], " "); idx > size/2 {
			cut = idx
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
