package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects how a report is rendered.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json, or yaml)", s)
	}
}

// Render writes the report to w in the requested format.
func (r Report) Render(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(r)
	default:
		return r.renderText(w)
	}
}

func (r Report) renderText(w io.Writer) error {
	for _, issue := range r.Issues {
		location := issue.Document
		if issue.Path != "" {
			if location != "" {
				location += ": "
			}
			location += issue.Path
		}
		var err error
		if location != "" {
			_, err = fmt.Fprintf(w, "%s [%s] %s: %s\n", issue.Severity, issue.Kind, location, issue.Message)
		} else {
			_, err = fmt.Fprintf(w, "%s [%s] %s\n", issue.Severity, issue.Kind, issue.Message)
		}
		if err != nil {
			return err
		}
	}

	if r.Passed {
		_, err := fmt.Fprintf(w, "PASS (%d warning(s))\n", r.Warnings)
		return err
	}
	_, err := fmt.Fprintf(w, "FAIL: %d error(s), %d warning(s)\n", r.Errors, r.Warnings)
	return err
}
