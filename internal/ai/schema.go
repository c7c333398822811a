package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuizQuestion is the repaired, client-facing shape. Options always carry
// an "A) " style prefix and CorrectAnswer is exactly equal to one of them.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

var optionLetters = []string{"A", "B", "C", "D"}

// stripOptionPrefix removes a leading "A) ", "a.", "B:" style marker.
func stripOptionPrefix(s string) string {
	t := strings.TrimSpace(s)
	if len(t) >= 2 {
		c := t[0]
		if (c >= 'A' && c <= 'D') || (c >= 'a' && c <= 'd') {
			switch t[1] {
			case ')', '.', ':':
				return strings.TrimSpace(t[2:])
			}
		}
	}
	return t
}

// RepairQuiz normalizes a parsed quiz payload. Option texts are re-lettered
// positionally and correct_answer is rebound to the exact option string it
// names. A question that cannot be repaired fails the whole quiz; the caller
// never sees a partially valid set. Repairing an already-repaired payload is
// a no-op.
func RepairQuiz(data []byte) ([]QuizQuestion, error) {
	var raw []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
		Explanation   string   `json:"explanation"`
		Difficulty    string   `json:"difficulty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		// Some models wrap the array in {"questions": [...]}.
		var wrapped struct {
			Questions json.RawMessage `json:"questions"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil || wrapped.Questions == nil {
			return nil, &MalformedResponseError{Raw: string(data)}
		}
		if err2 := json.Unmarshal(wrapped.Questions, &raw); err2 != nil {
			return nil, &MalformedResponseError{Raw: string(data)}
		}
	}

	if len(raw) == 0 {
		return nil, &SchemaValidationError{Reason: "no questions in response"}
	}

	repaired := make([]QuizQuestion, 0, len(raw))
	for idx, q := range raw {
		if strings.TrimSpace(q.Question) == "" {
			return nil, &SchemaValidationError{Reason: fmt.Sprintf("questions[%d]: missing question text", idx)}
		}
		if len(q.Options) != 4 {
			return nil, &SchemaValidationError{Reason: fmt.Sprintf("questions[%d]: must have exactly 4 options", idx)}
		}

		stripped := make([]string, 4)
		options := make([]string, 4)
		for i, opt := range q.Options {
			stripped[i] = stripOptionPrefix(opt)
			if stripped[i] == "" {
				stripped[i] = strings.TrimSpace(opt)
			}
			options[i] = optionLetters[i] + ") " + stripped[i]
		}

		answer, ok := rebindCorrectAnswer(q.CorrectAnswer, options, stripped)
		if !ok {
			return nil, &SchemaValidationError{Reason: fmt.Sprintf("questions[%d]: correct_answer matches no option", idx)}
		}

		difficulty := strings.ToLower(strings.TrimSpace(q.Difficulty))
		switch difficulty {
		case "easy", "medium", "hard":
		default:
			difficulty = "medium"
		}

		repaired = append(repaired, QuizQuestion{
			Question:      strings.TrimSpace(q.Question),
			Options:       options,
			CorrectAnswer: answer,
			Explanation:   strings.TrimSpace(q.Explanation),
			Difficulty:    difficulty,
		})
	}

	return repaired, nil
}

// rebindCorrectAnswer maps whatever the model put in correct_answer onto the
// exact option string it names: exact match against the re-lettered options
// first, then a bare letter, then the option whose text contains the
// stripped answer.
func rebindCorrectAnswer(answer string, options, stripped []string) (string, bool) {
	trimmed := strings.TrimSpace(answer)

	for _, opt := range options {
		if trimmed == opt {
			return opt, true
		}
	}

	if len(trimmed) == 1 {
		upper := strings.ToUpper(trimmed)
		for i, l := range optionLetters {
			if upper == l {
				return options[i], true
			}
		}
	}

	ansLower := strings.ToLower(stripOptionPrefix(answer))
	if ansLower != "" {
		for i, opt := range stripped {
			if strings.Contains(strings.ToLower(opt), ansLower) {
				return options[i], true
			}
		}
	}

	return "", false
}

// Mindmap is validated strictly and recursively: a missing name anywhere in
// the tree rejects the whole payload, naming the offending path.
type Mindmap struct {
	Topic    string          `json:"topic"`
	Branches []MindmapBranch `json:"branches"`
}

type MindmapBranch struct {
	Name      string            `json:"name"`
	Subtopics []MindmapSubtopic `json:"subtopics"`
}

type MindmapSubtopic struct {
	Name    string   `json:"name"`
	Details []string `json:"details"`
}

func ValidateMindmap(data []byte) (*Mindmap, error) {
	var m Mindmap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &MalformedResponseError{Raw: string(data)}
	}

	if strings.TrimSpace(m.Topic) == "" {
		return nil, &SchemaValidationError{Reason: "missing topic"}
	}
	if len(m.Branches) == 0 {
		return nil, &SchemaValidationError{Reason: "mindmap has no branches"}
	}
	for i := range m.Branches {
		b := &m.Branches[i]
		if strings.TrimSpace(b.Name) == "" {
			return nil, &SchemaValidationError{Reason: fmt.Sprintf("branches[%d]: missing name", i)}
		}
		for j := range b.Subtopics {
			s := &b.Subtopics[j]
			if strings.TrimSpace(s.Name) == "" {
				return nil, &SchemaValidationError{
					Reason: fmt.Sprintf("branches[%d].subtopics[%d]: missing name", i, j),
				}
			}
			if s.Details == nil {
				s.Details = []string{}
			}
		}
		if b.Subtopics == nil {
			b.Subtopics = []MindmapSubtopic{}
		}
	}

	return &m, nil
}

// NotesSummary is lenient: once the backend answered, the caller always
// gets a usable value even if the payload was prose instead of JSON.
type NotesSummary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	WordCount int      `json:"word_count"`
}

func NormalizeNotes(data []byte) NotesSummary {
	var n NotesSummary
	if err := json.Unmarshal(data, &n); err == nil && strings.TrimSpace(n.Summary) != "" {
		if n.KeyPoints == nil {
			n.KeyPoints = []string{}
		}
		if n.WordCount == 0 {
			n.WordCount = len(strings.Fields(n.Summary))
		}
		return n
	}

	// Plain text from the model is still a summary.
	text := strings.TrimSpace(string(data))
	return NotesSummary{
		Summary:   text,
		KeyPoints: []string{},
		WordCount: len(strings.Fields(text)),
	}
}

// ELI5Result requires an explanation; analogy and examples degrade to
// empty values.
type ELI5Result struct {
	Explanation string   `json:"explanation"`
	Analogy     string   `json:"analogy"`
	Examples    []string `json:"examples"`
}

func NormalizeELI5(data []byte) (*ELI5Result, error) {
	var r ELI5Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &MalformedResponseError{Raw: string(data)}
	}
	if strings.TrimSpace(r.Explanation) == "" {
		return nil, &SchemaValidationError{Reason: "missing explanation"}
	}
	if r.Examples == nil {
		r.Examples = []string{}
	}
	return &r, nil
}

// EmotionAnalysis scores are clamped into [0,100].
type EmotionAnalysis struct {
	PrimaryEmotion string             `json:"primary_emotion"`
	EmotionScores  map[string]float64 `json:"emotion_scores"`
	Suggestions    []string           `json:"suggestions"`
}

func NormalizeEmotion(data []byte) (*EmotionAnalysis, error) {
	var e EmotionAnalysis
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, &MalformedResponseError{Raw: string(data)}
	}
	if strings.TrimSpace(e.PrimaryEmotion) == "" {
		return nil, &SchemaValidationError{Reason: "missing primary_emotion"}
	}
	for k, v := range e.EmotionScores {
		if v < 0 {
			e.EmotionScores[k] = 0
		} else if v > 100 {
			e.EmotionScores[k] = 100
		}
	}
	if e.Suggestions == nil {
		e.Suggestions = []string{}
	}
	return &e, nil
}
