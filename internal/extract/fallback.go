package extract

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"thinkink-backend/internal/ai"
)

// TextMethod is one way of pulling text out of a source. Methods run in
// order; a method that errors or yields zero words hands over to the next.
type TextMethod struct {
	Name string
	Run  func(ctx context.Context) (string, error)
}

// TextResult always names the method that produced it, so degraded output
// is visible to the caller and in history.
type TextResult struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	Method    string `json:"extraction_method"`
}

// RunTextFallback executes methods until one yields usable text. When every
// method fails the caller gets an ExtractionExhaustedError listing what was
// tried, never a silent empty success.
func RunTextFallback(ctx context.Context, methods []TextMethod) (*TextResult, error) {
	attempted := make([]string, 0, len(methods))

	for _, m := range methods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempted = append(attempted, m.Name)

		text, err := m.Run(ctx)
		if err != nil {
			log.Debug().Str("method", m.Name).Err(err).Msg("extraction method failed")
			continue
		}

		words := len(strings.Fields(text))
		if words == 0 {
			log.Debug().Str("method", m.Name).Msg("extraction method produced no words")
			continue
		}

		return &TextResult{Text: text, WordCount: words, Method: m.Name}, nil
	}

	return nil, &ai.ExtractionExhaustedError{Methods: attempted}
}
