package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"thinkink-backend/internal/ai"
	"thinkink-backend/internal/metrics"
	"thinkink-backend/internal/models"
)

// StudyService runs the generation features: validate input, build the
// prompt, call the backend under a deadline, sanitize and repair the
// response, record history. Each operation returns either a result or a
// typed error, never both.
type StudyService struct {
	backend     ai.Backend
	recorder    *Recorder
	translator  *Translator
	aiTimeout   time.Duration
	quizTimeout time.Duration
}

func NewStudyService(backend ai.Backend, recorder *Recorder, translator *Translator, aiTimeout, quizTimeout time.Duration) *StudyService {
	return &StudyService{
		backend:     backend,
		recorder:    recorder,
		translator:  translator,
		aiTimeout:   aiTimeout,
		quizTimeout: quizTimeout,
	}
}

// generate calls the backend under the given deadline and feeds the
// latency and failure counters.
func (s *StudyService) generate(ctx context.Context, feature, prompt string, timeout time.Duration) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.backend.Generate(genCtx, prompt, ai.DefaultOptions())
	metrics.ObserveGeneration(feature, time.Since(start).Seconds())
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrBackendTimeout):
			metrics.CountBackendError("timeout")
		case errors.Is(err, ai.ErrBackendUnavailable):
			metrics.CountBackendError("unavailable")
		default:
			metrics.CountBackendError("other")
		}
	}
	return raw, err
}

type SummarizeResult struct {
	Summary           string   `json:"summary"`
	KeyPoints         []string `json:"key_points"`
	WordCount         int      `json:"word_count"`
	SummarizationType string   `json:"summarization_type"`
	SummaryMode       string   `json:"summary_mode"`
	TranslatedSummary string   `json:"translated_summary,omitempty"`
	Language          string   `json:"language,omitempty"`
}

func (s *StudyService) Summarize(ctx context.Context, userID uuid.UUID, req models.SummarizeRequest) (*SummarizeResult, error) {
	fields := validateText("text", req.Text)
	sumType, enumErrs := validateEnum("summarization_type", req.SummarizationType, ai.SummarizationTypes())
	fields = mergeFieldErrors(fields, enumErrs)
	mode, enumErrs := validateEnum("summary_mode", req.SummaryMode, ai.SummaryModes())
	fields = mergeFieldErrors(fields, enumErrs)
	if err := validationError(fields); err != nil {
		return nil, err
	}

	started := time.Now()
	raw, err := s.generate(ctx, models.FeatureNotes, ai.BuildNotesPrompt(req.Text, sumType, mode), s.aiTimeout)
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureNotes, req, nil, started, err)
		return nil, err
	}

	notes := parseNotes(raw)
	result := &SummarizeResult{
		Summary:           notes.Summary,
		KeyPoints:         notes.KeyPoints,
		WordCount:         notes.WordCount,
		SummarizationType: sumType,
		SummaryMode:       mode,
	}

	if req.Language != "" && req.Language != "en" {
		translated, tErr := s.translator.Translate(ctx, notes.Summary, "en", req.Language)
		if tErr != nil {
			// Translation is best effort; the English summary still stands.
			log.Warn().Err(tErr).Str("language", req.Language).Msg("summary translation failed")
		} else {
			result.TranslatedSummary = translated
			result.Language = req.Language
		}
	}

	s.recorder.Record(ctx, userID, models.FeatureNotes, req, result, started, nil)
	return result, nil
}

func (s *StudyService) KeyPoints(ctx context.Context, userID uuid.UUID, req models.KeyPointsRequest) (*ai.NotesSummary, error) {
	if err := validationError(validateText("text", req.Text)); err != nil {
		return nil, err
	}

	started := time.Now()
	raw, err := s.generate(ctx, models.FeatureNotes, ai.BuildKeyPointsPrompt(req.Text), s.aiTimeout)
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureNotes, req, nil, started, err)
		return nil, err
	}

	notes := parseNotes(raw)
	s.recorder.Record(ctx, userID, models.FeatureNotes, req, notes, started, nil)
	return &notes, nil
}

// parseNotes is the lenient path: JSON when the model cooperated, raw text
// as the summary when it did not.
func parseNotes(raw string) ai.NotesSummary {
	clean := ai.Sanitize(raw)
	if obj := ai.ExtractJSONObject(clean); obj != "" {
		return ai.NormalizeNotes([]byte(obj))
	}
	return ai.NormalizeNotes([]byte(clean))
}

type QuizResult struct {
	Questions      []ai.QuizQuestion `json:"questions"`
	TotalQuestions int               `json:"total_questions"`
	Difficulty     string            `json:"difficulty"`
}

func (s *StudyService) GenerateQuiz(ctx context.Context, userID uuid.UUID, req models.QuizRequest) (*QuizResult, error) {
	fields := map[string]string{}

	source := strings.TrimSpace(req.Text)
	if source == "" {
		source = strings.TrimSpace(req.Topic)
		fields = mergeFieldErrors(fields, validateTopic("topic", req.Topic))
	} else {
		fields = mergeFieldErrors(fields, validateText("text", req.Text))
	}
	if req.Text == "" && req.Topic == "" {
		fields = map[string]string{"text": "Either text or topic is required"}
	}

	if req.NumQuestions == 0 {
		req.NumQuestions = defaultQuestions
	}
	if req.NumQuestions < 1 || req.NumQuestions > maxQuizQuestions {
		fields["num_questions"] = "Must be between 1 and " + strconv.Itoa(maxQuizQuestions)
	}
	difficulty, enumErrs := validateEnum("difficulty", req.Difficulty, []string{"medium", "easy", "hard"})
	fields = mergeFieldErrors(fields, enumErrs)

	if err := validationError(fields); err != nil {
		return nil, err
	}

	started := time.Now()
	raw, err := s.generate(ctx, models.FeatureQuiz, ai.BuildQuizPrompt(source, req.NumQuestions, difficulty), s.quizTimeout)
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureQuiz, req, nil, started, err)
		return nil, err
	}

	clean := ai.Sanitize(raw)
	questions, err := ai.RepairQuiz([]byte(clean))
	if err != nil {
		// Prose-wrapped array gets one salvage pass.
		if arr := ai.ExtractJSONArray(clean); arr != "" && arr != clean {
			questions, err = ai.RepairQuiz([]byte(arr))
		}
	}
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureQuiz, req, nil, started, err)
		return nil, err
	}

	result := &QuizResult{
		Questions:      questions,
		TotalQuestions: len(questions),
		Difficulty:     difficulty,
	}
	s.recorder.Record(ctx, userID, models.FeatureQuiz, req, result, started, nil)
	return result, nil
}

func (s *StudyService) CreateMindmap(ctx context.Context, userID uuid.UUID, req models.MindmapRequest) (*ai.Mindmap, error) {
	fields := validateTopic("topic", req.Topic)
	if req.Text != "" && len(req.Text) > maxTextLength {
		fields["text"] = "Text exceeds the 10000 character limit"
	}
	if err := validationError(fields); err != nil {
		return nil, err
	}

	started := time.Now()
	raw, err := s.generate(ctx, models.FeatureMindmap, ai.BuildMindmapPrompt(req.Topic, req.Text), s.aiTimeout)
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureMindmap, req, nil, started, err)
		return nil, err
	}

	clean := ai.Sanitize(raw)
	mindmap, err := ai.ValidateMindmap([]byte(clean))
	if err != nil {
		if obj := ai.ExtractJSONObject(clean); obj != "" && obj != clean {
			mindmap, err = ai.ValidateMindmap([]byte(obj))
		}
	}
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureMindmap, req, nil, started, err)
		return nil, err
	}

	s.recorder.Record(ctx, userID, models.FeatureMindmap, req, mindmap, started, nil)
	return mindmap, nil
}

type ELI5Result struct {
	Topic           string   `json:"topic"`
	ComplexityLevel string   `json:"complexity_level"`
	Explanation     string   `json:"explanation"`
	Analogy         string   `json:"analogy"`
	Examples        []string `json:"examples"`
}

func (s *StudyService) Simplify(ctx context.Context, userID uuid.UUID, req models.ELI5Request) (*ELI5Result, error) {
	fields := validateTopic("topic", req.Topic)
	level, enumErrs := validateEnum("complexity_level", req.ComplexityLevel, ai.ComplexityLevels())
	fields = mergeFieldErrors(fields, enumErrs)
	if err := validationError(fields); err != nil {
		return nil, err
	}

	started := time.Now()
	raw, err := s.generate(ctx, models.FeatureELI5, ai.BuildELI5Prompt(req.Topic, level), s.aiTimeout)
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureELI5, req, nil, started, err)
		return nil, err
	}

	clean := ai.Sanitize(raw)
	parsed, err := ai.NormalizeELI5([]byte(clean))
	if err != nil {
		if obj := ai.ExtractJSONObject(clean); obj != "" && obj != clean {
			parsed, err = ai.NormalizeELI5([]byte(obj))
		}
	}
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureELI5, req, nil, started, err)
		return nil, err
	}

	result := &ELI5Result{
		Topic:           req.Topic,
		ComplexityLevel: level,
		Explanation:     parsed.Explanation,
		Analogy:         parsed.Analogy,
		Examples:        parsed.Examples,
	}
	s.recorder.Record(ctx, userID, models.FeatureELI5, req, result, started, nil)
	return result, nil
}

// AnalyzeEmotion is shared by the voice feature.
func (s *StudyService) AnalyzeEmotion(ctx context.Context, userID uuid.UUID, text string) (*ai.EmotionAnalysis, error) {
	if err := validationError(validateText("text", text)); err != nil {
		return nil, err
	}

	started := time.Now()
	raw, err := s.generate(ctx, models.FeatureVoice, ai.BuildEmotionPrompt(text), s.aiTimeout)
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureVoice, map[string]string{"text": text}, nil, started, err)
		return nil, err
	}

	clean := ai.Sanitize(raw)
	analysis, err := ai.NormalizeEmotion([]byte(clean))
	if err != nil {
		if obj := ai.ExtractJSONObject(clean); obj != "" && obj != clean {
			analysis, err = ai.NormalizeEmotion([]byte(obj))
		}
	}
	if err != nil {
		s.recorder.Record(ctx, userID, models.FeatureVoice, map[string]string{"text": text}, nil, started, err)
		return nil, err
	}

	s.recorder.Record(ctx, userID, models.FeatureVoice, map[string]string{"text": text}, analysis, started, nil)
	return analysis, nil
}

// Stats proxies the recorder so handlers depend on one service.
func (s *StudyService) Stats(ctx context.Context, userID uuid.UUID, featureType string) (*models.FeatureStats, error) {
	return s.recorder.Stats(ctx, userID, featureType)
}
