package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFResult carries the fallback outcome plus page count for the caller.
type PDFResult struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	PageCount int    `json:"page_count"`
	Method    string `json:"extraction_method"`
}

// PDFInfo is the metadata-only view used by the info endpoint.
type PDFInfo struct {
	PageCount int    `json:"page_count"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
}

// ExtractPDF tries the layout-aware row extraction first and falls back to
// the plain text stream when it yields nothing. Scanned PDFs with no text
// layer fail both methods and surface as exhaustion, not empty output.
func ExtractPDF(ctx context.Context, path string) (*PDFResult, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	pageCount := reader.NumPage()

	result, err := RunTextFallback(ctx, []TextMethod{
		{Name: "layout", Run: func(ctx context.Context) (string, error) {
			return extractByRows(reader)
		}},
		{Name: "simple", Run: func(ctx context.Context) (string, error) {
			return extractPlainText(reader)
		}},
	})
	if err != nil {
		return nil, err
	}

	return &PDFResult{
		Text:      result.Text,
		WordCount: result.WordCount,
		PageCount: pageCount,
		Method:    result.Method,
	}, nil
}

// extractByRows assembles text in visual row order, which keeps columns and
// tables readable.
func extractByRows(reader *pdf.Reader) (string, error) {
	var b strings.Builder

	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				b.WriteString(word.S)
				b.WriteString(" ")
			}
			b.WriteString("\n")
		}
	}

	return normalizeText(b.String()), nil
}

func extractPlainText(reader *pdf.Reader) (string, error) {
	var b strings.Builder

	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	return normalizeText(b.String()), nil
}

// ReadPDFInfo returns page count and document metadata without extracting
// body text.
func ReadPDFInfo(path string) (*PDFInfo, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	info := &PDFInfo{PageCount: reader.NumPage()}

	meta := reader.Trailer().Key("Info")
	if !meta.IsNull() {
		if v := meta.Key("Title"); v.Kind() == pdf.String {
			info.Title = v.RawString()
		}
		if v := meta.Key("Author"); v.Kind() == pdf.String {
			info.Author = v.RawString()
		}
	}

	return info, nil
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
