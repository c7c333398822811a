package services

import "strings"

// Input limits enforced before any backend call.
const (
	maxTextLength    = 10000
	maxTopicLength   = 1000
	maxQuizQuestions = 20
	defaultQuestions = 5
)

func validateText(field, text string) map[string]string {
	errs := map[string]string{}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		errs[field] = "Text is required"
	} else if len(text) > maxTextLength {
		errs[field] = "Text exceeds the 10000 character limit"
	}
	return errs
}

func validateTopic(field, topic string) map[string]string {
	errs := map[string]string{}
	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		errs[field] = "Topic is required"
	} else if len(topic) > maxTopicLength {
		errs[field] = "Topic exceeds the 1000 character limit"
	}
	return errs
}

func validateEnum(field, value string, allowed []string) (string, map[string]string) {
	if value == "" {
		return allowed[0], nil
	}
	value = strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	return "", map[string]string{field: "Must be one of: " + strings.Join(allowed, ", ")}
}

func mergeFieldErrors(dst map[string]string, src map[string]string) map[string]string {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func validationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
