/*
Copyright © 2026 ADHD Framework Authors
*/
package migrate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/mattn/go-runewidth"
)

// Format selects the batch report output format
type Format string

const (
	FormatConcise  Format = "concise"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a format name from the command line.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatConcise, FormatMarkdown, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown report format %q (concise, markdown, json)", s)
	}
}

// Formatter renders migration reports
type Formatter struct {
	format Format
}

// NewFormatter creates a report formatter
func NewFormatter(format Format) *Formatter {
	return &Formatter{format: format}
}

// FormatReport formats a migration report according to the configured format
func (f *Formatter) FormatReport(report *Report) (string, error) {
	switch f.format {
	case FormatMarkdown:
		return f.formatMarkdown(report)
	case FormatJSON:
		return f.formatJSON(report)
	default:
		return f.formatConcise(report), nil
	}
}

// formatConcise produces the short aligned summary used on the terminal.
func (f *Formatter) formatConcise(report *Report) string {
	var b strings.Builder

	width := 0
	for _, res := range report.Results {
		if w := runewidth.StringWidth(res.Module); w > width {
			width = w
		}
	}

	for _, res := range report.Results {
		marker := "✓"
		if !res.Success {
			marker = "✗"
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", marker, runewidth.FillRight(res.Module, width), res.Message))
	}

	b.WriteString(fmt.Sprintf("\nMigration complete: %d/%d successful (%d failed, %d skipped)\n",
		report.Succeeded(), len(report.Results), report.Failed(), report.Skipped()))
	return b.String()
}

const markdownTemplate = `# Migration Report

Generated: {{generated}}

| Module | Status | Written | Message |
| --- | --- | --- | --- |
{{#each results}}| {{module}} | {{status}} | {{written}} | {{message}} |
{{/each}}
**Summary**: {{succeeded}}/{{total}} successful, {{failed}} failed, {{skipped}} skipped.
`

// formatMarkdown renders the report through a handlebars template.
func (f *Formatter) formatMarkdown(report *Report) (string, error) {
	rows := make([]map[string]interface{}, 0, len(report.Results))
	for _, res := range report.Results {
		status := "ok"
		if !res.Success {
			status = fmt.Sprintf("failed (%s)", res.Kind)
		} else if res.Skipped {
			status = "skipped"
		}
		rows = append(rows, map[string]interface{}{
			"module":  res.Module,
			"status":  status,
			"written": fmt.Sprintf("%t", res.Written),
			"message": res.Message,
		})
	}

	data := map[string]interface{}{
		"generated": report.GeneratedAt.Format("2006-01-02 15:04:05"),
		"results":   rows,
		"succeeded": report.Succeeded(),
		"failed":    report.Failed(),
		"skipped":   report.Skipped(),
		"total":     len(report.Results),
	}

	out, err := raymond.Render(markdownTemplate, data)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown report: %w", err)
	}
	return out, nil
}

// formatJSON renders the full report structure.
func (f *Formatter) formatJSON(report *Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data) + "\n", nil
}
