package ai

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRepairQuizRelettersOptions(t *testing.T) {
	payload := `[{
		"question": "What is the powerhouse of the cell?",
		"options": ["Nucleus", "Mitochondria", "Ribosome", "Golgi apparatus"],
		"correct_answer": "Mitochondria",
		"difficulty": "easy"
	}]`

	questions, err := RepairQuiz([]byte(payload))
	if err != nil {
		t.Fatalf("RepairQuiz returned error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}

	q := questions[0]
	wantOptions := []string{"A) Nucleus", "B) Mitochondria", "C) Ribosome", "D) Golgi apparatus"}
	for i, want := range wantOptions {
		if q.Options[i] != want {
			t.Errorf("option %d = %q, want %q", i, q.Options[i], want)
		}
	}
	if q.CorrectAnswer != "B) Mitochondria" {
		t.Errorf("correct_answer = %q, want %q", q.CorrectAnswer, "B) Mitochondria")
	}
}

func TestRepairQuizAnswerEqualsOneOption(t *testing.T) {
	payload := `{"questions": [{
		"question": "Q1",
		"options": ["First", "Second", "Third", "Fourth"],
		"correct_answer": "First",
		"explanation": "Because it comes first."
	}], "total_questions": 1}`

	questions, err := RepairQuiz([]byte(payload))
	if err != nil {
		t.Fatalf("RepairQuiz returned error: %v", err)
	}

	q := questions[0]
	wantOptions := []string{"A) First", "B) Second", "C) Third", "D) Fourth"}
	for i, want := range wantOptions {
		if q.Options[i] != want {
			t.Errorf("option %d = %q, want %q", i, q.Options[i], want)
		}
	}
	if q.CorrectAnswer != "A) First" {
		t.Errorf("correct_answer = %q, want %q", q.CorrectAnswer, "A) First")
	}

	found := false
	for _, opt := range q.Options {
		if q.CorrectAnswer == opt {
			found = true
		}
	}
	if !found {
		t.Errorf("correct_answer %q does not equal any option %v", q.CorrectAnswer, q.Options)
	}
	if q.Explanation != "Because it comes first." {
		t.Errorf("explanation = %q, want it carried through", q.Explanation)
	}
}

func TestRepairQuizStripsExistingPrefixes(t *testing.T) {
	payload := `[{
		"question": "Pick one",
		"options": ["a. alpha", "B) beta", "C: gamma", "D) delta"],
		"correct_answer": "C) gamma",
		"difficulty": "hard"
	}]`

	questions, err := RepairQuiz([]byte(payload))
	if err != nil {
		t.Fatalf("RepairQuiz returned error: %v", err)
	}
	q := questions[0]
	if q.Options[0] != "A) alpha" || q.Options[2] != "C) gamma" {
		t.Errorf("prefixes not normalized: %v", q.Options)
	}
	if q.CorrectAnswer != "C) gamma" {
		t.Errorf("correct_answer = %q, want %q", q.CorrectAnswer, "C) gamma")
	}
}

func TestRepairQuizBareLetterAnswer(t *testing.T) {
	payload := `[{
		"question": "Pick one",
		"options": ["cat", "dog", "bird", "fish"],
		"correct_answer": "d"
	}]`

	questions, err := RepairQuiz([]byte(payload))
	if err != nil {
		t.Fatalf("RepairQuiz returned error: %v", err)
	}
	if questions[0].CorrectAnswer != "D) fish" {
		t.Errorf("correct_answer = %q, want %q", questions[0].CorrectAnswer, "D) fish")
	}
	if questions[0].Difficulty != "medium" {
		t.Errorf("difficulty default = %q, want medium", questions[0].Difficulty)
	}
}

func TestRepairQuizIdempotent(t *testing.T) {
	payload := `[{
		"question": "Pick one",
		"options": ["alpha", "beta", "gamma", "delta"],
		"correct_answer": "beta",
		"difficulty": "easy"
	}]`

	first, err := RepairQuiz([]byte(payload))
	if err != nil {
		t.Fatalf("first repair: %v", err)
	}

	reencoded, _ := json.Marshal(first)
	second, err := RepairQuiz(reencoded)
	if err != nil {
		t.Fatalf("second repair: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("question count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].CorrectAnswer != second[i].CorrectAnswer {
			t.Errorf("correct_answer drifted: %q vs %q", first[i].CorrectAnswer, second[i].CorrectAnswer)
		}
		for j := range first[i].Options {
			if first[i].Options[j] != second[i].Options[j] {
				t.Errorf("option drifted: %q vs %q", first[i].Options[j], second[i].Options[j])
			}
		}
	}
}

func TestRepairQuizUnmatchableAnswerFailsWholeQuiz(t *testing.T) {
	payload := `[
		{"question": "Good", "options": ["a", "b", "c", "d"], "correct_answer": "b"},
		{"question": "Bad", "options": ["w", "x", "y", "z"], "correct_answer": "platypus"}
	]`

	_, err := RepairQuiz([]byte(payload))
	var schemaErr *SchemaValidationError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaValidationError, got %v", err)
	}
	if !strings.Contains(schemaErr.Reason, "questions[1]") {
		t.Errorf("expected the failing question named, got %q", schemaErr.Reason)
	}
}

func TestRepairQuizWrongOptionCountFails(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"too few options", `[{"question": "Q", "options": ["a", "b"], "correct_answer": "a"}]`},
		{"too many options", `[{"question": "Q", "options": ["a", "b", "c", "d", "e"], "correct_answer": "a"}]`},
		{"missing question text", `[{"question": "", "options": ["a", "b", "c", "d"], "correct_answer": "a"}]`},
		{"empty array", `[]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RepairQuiz([]byte(tc.payload))
			var schemaErr *SchemaValidationError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaValidationError, got %v", err)
			}
		})
	}
}

func TestRepairQuizWrappedObject(t *testing.T) {
	payload := `{"questions": [{"question": "Q", "options": ["a", "b", "c", "d"], "correct_answer": "a"}]}`

	questions, err := RepairQuiz([]byte(payload))
	if err != nil {
		t.Fatalf("RepairQuiz returned error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question from wrapped payload, got %d", len(questions))
	}
}

func TestValidateMindmap(t *testing.T) {
	payload := `{
		"topic": "Photosynthesis",
		"branches": [
			{"name": "Light reactions", "subtopics": [
				{"name": "Photolysis", "details": ["Splits water"]},
				{"name": "ATP synthesis"}
			]}
		]
	}`

	m, err := ValidateMindmap([]byte(payload))
	if err != nil {
		t.Fatalf("ValidateMindmap returned error: %v", err)
	}
	if m.Topic != "Photosynthesis" {
		t.Errorf("topic = %q", m.Topic)
	}
	if m.Branches[0].Subtopics[1].Details == nil {
		t.Error("missing details should default to empty slice")
	}
}

func TestValidateMindmapRejectsMissingNames(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing topic", `{"branches": [{"name": "b", "subtopics": []}]}`},
		{"no branches", `{"topic": "t", "branches": []}`},
		{"branch without name", `{"topic": "t", "branches": [{"subtopics": []}]}`},
		{"subtopic without name", `{"topic": "t", "branches": [{"name": "b", "subtopics": [{"details": ["x"]}]}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateMindmap([]byte(tc.payload))
			var schemaErr *SchemaValidationError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaValidationError, got %v", err)
			}
		})
	}
}

func TestNormalizeNotesLenient(t *testing.T) {
	n := NormalizeNotes([]byte("This is just prose, not JSON at all."))
	if n.Summary != "This is just prose, not JSON at all." {
		t.Errorf("summary = %q", n.Summary)
	}
	if n.KeyPoints == nil || len(n.KeyPoints) != 0 {
		t.Errorf("key_points should be empty slice, got %v", n.KeyPoints)
	}
	if n.WordCount != 8 {
		t.Errorf("word_count = %d, want 8", n.WordCount)
	}
}

func TestNormalizeNotesValidJSON(t *testing.T) {
	n := NormalizeNotes([]byte(`{"summary": "Short one.", "key_points": ["a"], "word_count": 2}`))
	if n.Summary != "Short one." || len(n.KeyPoints) != 1 || n.WordCount != 2 {
		t.Errorf("unexpected result: %+v", n)
	}
}

func TestNormalizeELI5(t *testing.T) {
	r, err := NormalizeELI5([]byte(`{"explanation": "Gravity pulls things down."}`))
	if err != nil {
		t.Fatalf("NormalizeELI5 returned error: %v", err)
	}
	if r.Examples == nil {
		t.Error("examples should default to empty slice")
	}

	_, err = NormalizeELI5([]byte(`{"analogy": "like a magnet"}`))
	var schemaErr *SchemaValidationError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaValidationError for missing explanation, got %v", err)
	}
}

func TestNormalizeEmotionClampsScores(t *testing.T) {
	payload := `{"primary_emotion": "joy", "emotion_scores": {"joy": 150, "fear": -20}, "suggestions": null}`

	e, err := NormalizeEmotion([]byte(payload))
	if err != nil {
		t.Fatalf("NormalizeEmotion returned error: %v", err)
	}
	if e.EmotionScores["joy"] != 100 || e.EmotionScores["fear"] != 0 {
		t.Errorf("scores not clamped: %v", e.EmotionScores)
	}
	if e.Suggestions == nil {
		t.Error("suggestions should default to empty slice")
	}
}
