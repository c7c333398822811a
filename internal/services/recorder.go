package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"thinkink-backend/internal/models"
	"thinkink-backend/internal/repository"
)

const (
	inputTruncateLen = 500
	statsCacheTTL    = 60 * time.Second
)

type historyStore interface {
	Create(ctx context.Context, rec *models.HistoryRecord) error
	FeatureStats(ctx context.Context, userID uuid.UUID, featureType string) (*models.FeatureStats, error)
}

var _ historyStore = (*repository.HistoryRepo)(nil)

// Recorder writes one history row per feature operation and serves cached
// stats. History failures are logged and swallowed; a lost audit row must
// not fail the user's request.
type Recorder struct {
	historyRepo historyStore
	redis       *redis.Client
}

func NewRecorder(historyRepo historyStore, redisClient *redis.Client) *Recorder {
	return &Recorder{historyRepo: historyRepo, redis: redisClient}
}

// Record persists the outcome of one operation. Input strings are truncated
// so history stays a log, not a second copy of the corpus.
func (r *Recorder) Record(ctx context.Context, userID uuid.UUID, featureType string, input, output interface{}, started time.Time, err error) {
	status := models.StatusCompleted
	if err != nil {
		status = models.StatusFailed
		output = map[string]string{"error_type": fmt.Sprintf("%T", err)}
	}

	rec := &models.HistoryRecord{
		UserID:         userID,
		FeatureType:    featureType,
		InputData:      marshalTruncated(input),
		OutputData:     marshalTruncated(output),
		ProcessingTime: time.Since(started).Seconds(),
		Status:         status,
	}

	// Detach from the request context so a client disconnect does not lose
	// the record.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if dbErr := r.historyRepo.Create(writeCtx, rec); dbErr != nil {
		log.Error().Err(dbErr).Str("feature", featureType).Msg("failed to write history record")
		return
	}

	r.invalidateStats(writeCtx, userID, featureType)
}

// Stats returns the per-feature aggregate, cached for a minute.
func (r *Recorder) Stats(ctx context.Context, userID uuid.UUID, featureType string) (*models.FeatureStats, error) {
	key := statsKey(userID, featureType)

	if cached, err := r.redis.Get(ctx, key).Result(); err == nil {
		var stats models.FeatureStats
		if json.Unmarshal([]byte(cached), &stats) == nil {
			return &stats, nil
		}
	}

	stats, err := r.historyRepo.FeatureStats(ctx, userID, featureType)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		r.redis.Set(ctx, key, data, statsCacheTTL)
	}

	return stats, nil
}

func (r *Recorder) invalidateStats(ctx context.Context, userID uuid.UUID, featureType string) {
	r.redis.Del(ctx, statsKey(userID, featureType))
}

func statsKey(userID uuid.UUID, featureType string) string {
	return fmt.Sprintf("stats:%s:%s", featureType, userID)
}

// marshalTruncated serializes input/output for history, capping every
// string field.
func marshalTruncated(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return json.RawMessage(`{}`)
	}

	truncated, err := json.Marshal(truncateStrings(generic))
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return truncated
}

func truncateStrings(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		if len(val) > inputTruncateLen {
			return val[:inputTruncateLen] + "..."
		}
		return val
	case map[string]interface{}:
		for k, item := range val {
			val[k] = truncateStrings(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = truncateStrings(item)
		}
		return val
	default:
		return v
	}
}
