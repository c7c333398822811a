package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os/exec"
	"strings"
	"time"

	"thinkink-backend/internal/models"
)

// ExportService renders study content as a PDF through wkhtmltopdf. The
// binary is an external collaborator; its absence is an availability
// error, not a crash.
type ExportService struct {
	binary string
}

func NewExportService(binary string) *ExportService {
	if binary == "" {
		binary = "wkhtmltopdf"
	}
	return &ExportService{binary: binary}
}

var ErrExportUnavailable = fmt.Errorf("pdf export is not available")

var exportTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; margin: 40px; color: #1a1a2e; }
  h1 { border-bottom: 2px solid #16213e; padding-bottom: 8px; }
  .meta { color: #666; font-size: 12px; margin-bottom: 24px; }
  .content { line-height: 1.6; white-space: pre-wrap; }
</style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">
    Generated {{.Date}}{{range $k, $v := .Metadata}} &middot; {{$k}}: {{$v}}{{end}}
  </div>
  <div class="content">{{.Content}}</div>
</body>
</html>`))

func (s *ExportService) ExportPDF(ctx context.Context, req models.ExportRequest) ([]byte, error) {
	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "Title is required"
	}
	if strings.TrimSpace(req.Content) == "" {
		fields["content"] = "Content is required"
	}
	if err := validationError(fields); err != nil {
		return nil, err
	}

	if _, err := exec.LookPath(s.binary); err != nil {
		return nil, ErrExportUnavailable
	}

	var html bytes.Buffer
	err := exportTemplate.Execute(&html, map[string]interface{}{
		"Title":    req.Title,
		"Content":  req.Content,
		"Metadata": req.Metadata,
		"Date":     time.Now().Format("January 2, 2006"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render export template: %w", err)
	}

	// Read HTML from stdin, write PDF to stdout.
	cmd := exec.CommandContext(ctx, s.binary,
		"--page-size", "A4",
		"--encoding", "utf-8",
		"--quiet",
		"-", "-",
	)
	cmd.Stdin = &html

	var pdf bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &pdf
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("wkhtmltopdf failed: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	if pdf.Len() == 0 {
		return nil, fmt.Errorf("wkhtmltopdf produced no output")
	}

	return pdf.Bytes(), nil
}
