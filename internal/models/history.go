package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Feature types recorded in history. Every feature operation writes exactly
// one record, success or failure.
const (
	FeatureNotes    = "notes"
	FeatureQuiz     = "quiz"
	FeatureMindmap  = "mindmap"
	FeatureELI5     = "eli5"
	FeaturePDF      = "pdf"
	FeatureImage    = "image"
	FeatureVoice    = "voice"
	FeatureResearch = "research"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type HistoryRecord struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	FeatureType    string          `json:"feature_type"`
	InputData      json.RawMessage `json:"input_data"`
	OutputData     json.RawMessage `json:"output_data"`
	ProcessingTime float64         `json:"processing_time"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// FeatureStats backs the per-feature /stats endpoints.
type FeatureStats struct {
	FeatureType       string           `json:"feature_type"`
	TotalProcessed    int64            `json:"total_processed"`
	SuccessRate       float64          `json:"success_rate"`
	TotalWords        int64            `json:"total_words,omitempty"`
	AvgProcessingTime float64          `json:"avg_processing_time"`
	MethodBreakdown   map[string]int64 `json:"method_breakdown,omitempty"`
	LastProcessed     *time.Time       `json:"last_processed"`
}

// HistorySummary is the cross-feature rollup for a time window.
type HistorySummary struct {
	Days             int              `json:"days"`
	TotalProcessed   int64            `json:"total_processed"`
	SuccessRate      float64          `json:"success_rate"`
	FeatureBreakdown map[string]int64 `json:"feature_breakdown"`
	LastProcessed    *time.Time       `json:"last_processed"`
}
