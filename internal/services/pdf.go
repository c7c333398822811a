package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"thinkink-backend/internal/extract"
	"thinkink-backend/internal/models"
)

// SupportedPDFExtensions backs the formats endpoint and upload validation.
var SupportedPDFExtensions = []string{".pdf"}

type PDFService struct {
	recorder *Recorder
}

func NewPDFService(recorder *Recorder) *PDFService {
	return &PDFService{recorder: recorder}
}

// Extract runs the layout-then-simple fallback over an uploaded PDF. The
// result always names the method that produced the text.
func (s *PDFService) Extract(ctx context.Context, userID uuid.UUID, path, filename string) (*extract.PDFResult, error) {
	started := time.Now()

	result, err := extract.ExtractPDF(ctx, path)
	input := map[string]string{"filename": filename}
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeaturePDF, input, nil, started, err)
		return nil, err
	}

	s.recorder.Record(ctx, userID, models.FeaturePDF, input, result, started, nil)
	return result, nil
}

// Info reads metadata without touching body text, so it is not recorded as
// a processing operation.
func (s *PDFService) Info(ctx context.Context, path string) (*extract.PDFInfo, error) {
	return extract.ReadPDFInfo(path)
}

func (s *PDFService) Stats(ctx context.Context, userID uuid.UUID) (*models.FeatureStats, error) {
	return s.recorder.Stats(ctx, userID, models.FeaturePDF)
}
