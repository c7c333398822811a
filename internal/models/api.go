package models

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ResearchPaper is one search hit with preformatted citations.
type ResearchPaper struct {
	Title     string    `json:"title"`
	Authors   []string  `json:"authors"`
	Year      int       `json:"year"`
	Abstract  string    `json:"abstract"`
	URL       string    `json:"url"`
	Citations Citations `json:"citations"`
}

type Citations struct {
	APA  string `json:"apa"`
	IEEE string `json:"ieee"`
}

// ImageSummary is the sectioned summary built from OCR text.
type ImageSummary struct {
	MainSummary      string   `json:"main_summary"`
	KeyPoints        []string `json:"key_points"`
	ImportantDetails []string `json:"important_details"`
}
