package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

type testTable struct{}

func (testTable) Header() []string { return []string{"field_name", "is_valid"} }
func (testTable) Rows() [][]string {
	return [][]string{{"email", "false"}, {"vat, number", "true"}}
}

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}

	output, err := formatter.Format("test message")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(output) != "test message\n" {
		t.Errorf("Format() = %q, want %q", string(output), "test message\n")
	}

	buf := &bytes.Buffer{}
	if err := formatter.FormatTo(buf, "test message"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "test message\n" {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), "test message\n")
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		indent bool
	}{
		{"simple string", "test", false},
		{"map with indent", map[string]string{"key": "value"}, true},
		{"struct", struct {
			Name  string `json:"name"`
			Value int    `json:"value"`
		}{"test", 42}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if !json.Valid(output) {
				t.Errorf("Format() produced invalid JSON: %s", output)
			}
		})
	}
}

func TestJSONFormatter_NoHTMLEscape(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&JSONFormatter{}).FormatTo(buf, map[string]string{"pattern": "<a&b>"}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if got, want := buf.String(), "{\"pattern\":\"<a&b>\"}\n"; got != want {
		t.Errorf("FormatTo() = %q, want %q", got, want)
	}
}

func TestCSVFormatter(t *testing.T) {
	output, err := (&CSVFormatter{}).Format(testTable{})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "field_name,is_valid\nemail,false\n\"vat, number\",true\n"
	if string(output) != want {
		t.Errorf("Format() = %q, want %q", string(output), want)
	}

	if _, err := (&CSVFormatter{}).Format("not a table"); err == nil {
		t.Error("Format() error = nil, want error for non-table data")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatCSV, "*cli.CSVFormatter"},
		{OutputFormat("unknown"), "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		got := typeName(NewFormatter(tt.format))
		if got != tt.want {
			t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *TextFormatter:
		return "*cli.TextFormatter"
	case *JSONFormatter:
		return "*cli.JSONFormatter"
	case *CSVFormatter:
		return "*cli.CSVFormatter"
	default:
		return "unknown"
	}
}
