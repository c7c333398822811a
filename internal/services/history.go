package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"thinkink-backend/internal/models"
	"thinkink-backend/internal/repository"
)

type HistoryService struct {
	historyRepo *repository.HistoryRepo
}

func NewHistoryService(historyRepo *repository.HistoryRepo) *HistoryService {
	return &HistoryService{historyRepo: historyRepo}
}

func (s *HistoryService) List(ctx context.Context, userID uuid.UUID, featureType string, limit int) ([]models.HistoryRecord, error) {
	if featureType != "" && !isKnownFeature(featureType) {
		return nil, &ValidationError{Fields: map[string]string{"feature_type": "Unknown feature type"}}
	}
	return s.historyRepo.ListByUser(ctx, userID, featureType, limit)
}

func (s *HistoryService) Summary(ctx context.Context, userID uuid.UUID, days int) (*models.HistorySummary, error) {
	if days < 0 || days > 365 {
		return nil, &ValidationError{Fields: map[string]string{"days": "Must be between 1 and 365"}}
	}
	return s.historyRepo.Summary(ctx, userID, days)
}

// Delete removes one record after checking the caller owns it.
func (s *HistoryService) Delete(ctx context.Context, userID, recordID uuid.UUID) error {
	rec, err := s.historyRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Message: "History record not found"}
		}
		return err
	}
	if rec.UserID != userID {
		return &ForbiddenError{Message: "You do not own this record"}
	}
	return s.historyRepo.DeleteByID(ctx, recordID)
}

// Clear wipes the caller's records, optionally one feature's.
func (s *HistoryService) Clear(ctx context.Context, userID uuid.UUID, featureType string) (int64, error) {
	if featureType != "" && !isKnownFeature(featureType) {
		return 0, &ValidationError{Fields: map[string]string{"feature_type": "Unknown feature type"}}
	}
	return s.historyRepo.DeleteByUser(ctx, userID, featureType)
}

func isKnownFeature(featureType string) bool {
	switch featureType {
	case models.FeatureNotes, models.FeatureQuiz, models.FeatureMindmap, models.FeatureELI5,
		models.FeaturePDF, models.FeatureImage, models.FeatureVoice, models.FeatureResearch:
		return true
	}
	return false
}
