package models

// Feature request payloads. Validation happens in the services before any
// backend call.

type SummarizeRequest struct {
	Text              string `json:"text"`
	SummarizationType string `json:"summarization_type"`
	SummaryMode       string `json:"summary_mode"`
	Language          string `json:"language"`
}

type KeyPointsRequest struct {
	Text string `json:"text"`
}

type QuizRequest struct {
	Text         string `json:"text"`
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
}

type MindmapRequest struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}

type ELI5Request struct {
	Topic           string `json:"topic"`
	ComplexityLevel string `json:"complexity_level"`
}

type AnalyzeTextRequest struct {
	Text string `json:"text"`
}

type TextToSpeechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type ResearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type ExportRequest struct {
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}
