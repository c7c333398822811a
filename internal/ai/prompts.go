package ai

import (
	"fmt"
	"strings"
)

// Instruction fragments keyed by the request enums. Validation guarantees
// the keys exist before a prompt is built.

var summarizationTypeInstructions = map[string]string{
	"abstractive": "Rewrite the content in your own words, condensing ideas while preserving meaning.",
	"extractive":  "Select and combine the most important sentences verbatim from the source text.",
}

var summaryModeInstructions = map[string]string{
	"narrative": "Write the summary as flowing prose in a neutral academic register.",
	"beginner":  "Write for someone new to the subject. Avoid jargon; define any term a newcomer would not know.",
	"technical": "Write for a specialist audience. Keep domain terminology and precise detail.",
	"bullet":    "Structure the summary as concise bullet points, one idea per bullet.",
}

var complexityLevelInstructions = map[string]string{
	"basic":        "Explain it like I am five years old. Use everyday words, short sentences, and a friendly tone.",
	"intermediate": "Explain for a curious high-school student. Some technical words are fine if you unpack them.",
	"advanced":     "Explain for an undergraduate. Be precise and include the underlying mechanism.",
}

// SummarizationTypes and friends back the enum-listing endpoints and the
// request validators. Fixed order keeps the responses stable.
func SummarizationTypes() []string { return []string{"abstractive", "extractive"} }
func SummaryModes() []string       { return []string{"narrative", "beginner", "technical", "bullet"} }
func ComplexityLevels() []string   { return []string{"basic", "intermediate", "advanced"} }

func BuildNotesPrompt(text, summarizationType, mode string) string {
	var b strings.Builder

	b.WriteString("You are an expert study assistant. Summarize the following notes.\n\n")
	b.WriteString(summarizationTypeInstructions[summarizationType])
	b.WriteString("\n")
	b.WriteString(summaryModeInstructions[mode])
	b.WriteString("\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n")
	b.WriteString(`Schema: {"summary": "string", "key_points": ["string"], "word_count": int}`)
	b.WriteString("\n\n---NOTES START---\n")
	b.WriteString(text)
	b.WriteString("\n---NOTES END---\n")

	return b.String()
}

func BuildKeyPointsPrompt(text string) string {
	var b strings.Builder

	b.WriteString("You are an expert study assistant. Extract the key points from the following notes.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n")
	b.WriteString(`Schema: {"summary": "one sentence overview", "key_points": ["string"], "word_count": int}`)
	b.WriteString("\nInclude between 3 and 10 key points, each a complete standalone statement.\n")
	b.WriteString("\n---NOTES START---\n")
	b.WriteString(text)
	b.WriteString("\n---NOTES END---\n")

	return b.String()
}

func BuildQuizPrompt(source string, numQuestions int, difficulty string) string {
	var b strings.Builder

	b.WriteString("You are an expert educational assessor. Generate multiple choice quiz questions from the content below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(fmt.Sprintf("Generate exactly %d questions.\n", numQuestions))
	b.WriteString(fmt.Sprintf("Difficulty: %s\n", difficulty))

	switch difficulty {
	case "easy":
		b.WriteString("Easy = direct recall from the content.\n")
	case "medium":
		b.WriteString("Medium = application of concepts.\n")
	case "hard":
		b.WriteString("Hard = analysis or inference beyond what is explicitly stated.\n")
	}

	b.WriteString(`
JSON schema per question:
{"question": "string", "options": ["A) ...", "B) ...", "C) ...", "D) ..."], "correct_answer": "A", "difficulty": "easy"|"medium"|"hard"}

Exactly 4 options per question. correct_answer must be the letter of the right option.
`)

	b.WriteString("\n---CONTENT---\n")
	b.WriteString(source)
	b.WriteString("\n---END---\n")

	return b.String()
}

func BuildMindmapPrompt(topic, text string) string {
	var b strings.Builder

	b.WriteString("You are an expert at structuring knowledge. Create a mind map for the topic below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n")
	b.WriteString(`Schema: {"topic": "string", "branches": [{"name": "string", "subtopics": [{"name": "string", "details": ["string"]}]}]}`)
	b.WriteString("\nProduce 3 to 6 branches, each with 2 to 4 subtopics, each subtopic with 1 to 3 details.\n")
	b.WriteString("\nTopic: " + topic + "\n")
	if text != "" {
		b.WriteString("\nGround the map in this source material:\n---CONTENT---\n")
		b.WriteString(text)
		b.WriteString("\n---END---\n")
	}

	return b.String()
}

func BuildELI5Prompt(topic, complexityLevel string) string {
	var b strings.Builder

	b.WriteString("You are a patient teacher who makes hard ideas simple.\n\n")
	b.WriteString(complexityLevelInstructions[complexityLevel])
	b.WriteString("\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n")
	b.WriteString(`Schema: {"explanation": "string", "analogy": "string", "examples": ["string"]}`)
	b.WriteString("\n\nTopic: " + topic + "\n")

	return b.String()
}

func BuildEmotionPrompt(text string) string {
	var b strings.Builder

	b.WriteString("You are an empathetic communication coach. Analyze the emotional content of the transcript below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n")
	b.WriteString(`Schema: {"primary_emotion": "string", "emotion_scores": {"emotion": 0-100}, "suggestions": ["string"]}`)
	b.WriteString("\nScore at least 4 emotions. Suggestions are short, actionable tips for the speaker.\n")
	b.WriteString("\n---TRANSCRIPT---\n")
	b.WriteString(text)
	b.WriteString("\n---END---\n")

	return b.String()
}
