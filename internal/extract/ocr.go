package extract

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"thinkink-backend/internal/ai"
)

// OCR shells out to the tesseract binary. The binary is treated as a black
// box: missing binary or empty output both count as method failure.
type OCR struct {
	binary string
}

func NewOCR(binary string) *OCR {
	if binary == "" {
		binary = "tesseract"
	}
	return &OCR{binary: binary}
}

// ExtractImage runs OCR over an image file on disk and returns the
// recognized text tagged with the method name.
func (o *OCR) ExtractImage(ctx context.Context, path string) (*TextResult, error) {
	if _, err := exec.LookPath(o.binary); err != nil {
		return nil, &ai.ExtractionExhaustedError{Methods: []string{"ocr"}}
	}

	return RunTextFallback(ctx, []TextMethod{
		{Name: "ocr", Run: func(ctx context.Context) (string, error) {
			return o.run(ctx, path)
		}},
	})
}

func (o *OCR) run(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, o.binary, path, "stdout", "--psm", "3")

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("tesseract failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}

	return normalizeText(string(out)), nil
}
