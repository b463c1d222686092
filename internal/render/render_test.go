package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/vitalstats/internal/model"
	"gopkg.in/yaml.v3"
)

func sampleTable() model.Table {
	return model.Table{
		{Category: "live births", Timestamp: model.MonthStart(2022, time.January), Value: model.Float(63581)},
		{Category: "natural change", Timestamp: model.MonthStart(2022, time.January), Value: model.Float(-73000)},
		{Category: "deaths", Timestamp: model.MonthStart(2022, time.February), Value: nil},
	}
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleTable(), FormatCSV); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := "category,ts,value\n" +
		"live births,2022-01-01,63581\n" +
		"natural change,2022-01-01,-73000\n" +
		"deaths,2022-02-01,\n"
	if buf.String() != want {
		t.Errorf("unexpected CSV:\n%s", buf.String())
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleTable(), FormatJSON); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0]["ts"] != "2022-01-01" || got[0]["value"] != 63581.0 {
		t.Errorf("unexpected first row: %v", got[0])
	}
	if got[2]["value"] != nil {
		t.Errorf("expected null value, got %v", got[2]["value"])
	}
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleTable(), FormatYAML); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var got []row
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(got) != 3 || got[1].Category != "natural change" || *got[1].Value != -73000 {
		t.Errorf("unexpected rows: %+v", got)
	}
	if got[2].Value != nil {
		t.Errorf("expected nil value, got %v", *got[2].Value)
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleTable())
	lines := strings.Split(strings.TrimSpace(md), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), md)
	}
	if lines[2] != "| live births | 2022-01-01 | 63581 |" {
		t.Errorf("unexpected row: %q", lines[2])
	}
}

func TestWrite_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleTable(), FormatPretty); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "live births") {
		t.Errorf("rendered output misses data:\n%s", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"csv", "JSON", " yaml ", "markdown", "md", "pretty"} {
		if _, err := ParseFormat(in); err != nil {
			t.Errorf("ParseFormat(%q) error: %v", in, err)
		}
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if err := Write(&bytes.Buffer{}, nil, Format("xml")); err == nil {
		t.Error("expected error from Write for unknown format")
	}
}
