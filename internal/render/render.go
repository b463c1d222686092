// Package render writes a result table for consumers: files, pipes, or a
// terminal.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ppiankov/vitalstats/internal/model"
	"gopkg.in/yaml.v3"
)

// Format names an output format
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatPretty   Format = "pretty"
)

// DateLayout is how timestamps are written in every format
const DateLayout = "2006-01-02"

// Formats lists the supported formats
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatYAML, FormatMarkdown, FormatPretty}
}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		return FormatMarkdown, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (supported: csv, json, yaml, markdown, pretty)", s)
}

// row is the serialized shape of a record
type row struct {
	Category string   `json:"category" yaml:"category"`
	TS       string   `json:"ts" yaml:"ts"`
	Value    *float64 `json:"value" yaml:"value"`
}

func rows(table model.Table) []row {
	out := make([]row, len(table))
	for i, r := range table {
		out[i] = row{
			Category: r.Category,
			TS:       r.Timestamp.Format(DateLayout),
			Value:    r.Value,
		}
	}
	return out
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Write renders table to w
func Write(w io.Writer, table model.Table, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, table)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(rows(table))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows(table)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(table))
		return err
	case FormatPretty:
		return writePretty(w, table)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeCSV(w io.Writer, table model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"category", "ts", "value"}); err != nil {
		return err
	}
	for _, r := range table {
		record := []string{r.Category, r.Timestamp.Format(DateLayout), formatValue(r.Value)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Markdown renders the table as a GitHub-flavored pipe table
func Markdown(table model.Table) string {
	var b strings.Builder
	b.WriteString("| category | ts | value |\n")
	b.WriteString("|---|---|---:|\n")
	for _, r := range table {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Category, r.Timestamp.Format(DateLayout), formatValue(r.Value))
	}
	return b.String()
}

func writePretty(w io.Writer, table model.Table) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out, err := renderer.Render(Markdown(table))
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
