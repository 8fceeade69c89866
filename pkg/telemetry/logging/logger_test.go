package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/vendorgate/pkg/config"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	return entry
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantErr   bool
	}{
		{level: "debug", wantDebug: true, wantInfo: true},
		{level: "info", wantInfo: true},
		{level: "", wantInfo: true},
		{level: "WARN"},
		{level: "error"},
		{level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(config.LoggingConfig{Level: tt.level}, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Enabled(debug) = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("Enabled(info) = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestNew_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("hello", "vendor", "acme")
	if !strings.Contains(buf.String(), "vendor=acme") {
		t.Errorf("text output = %q, want vendor=acme", buf.String())
	}

	if _, err := New(config.LoggingConfig{Format: "xml"}, &buf); err == nil {
		t.Error("New(xml) error = nil, want error")
	}
}

func TestNew_RedactsSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{RedactKeys: []string{"national_id"}}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("lookup",
		"apikey", "wathq-secret-key",
		"Authorization", "Bearer abc.def",
		"national_id", "1012345678",
		"vendor", "acme",
	)

	entry := decodeLine(t, &buf)
	if entry["apikey"] != "wath***" {
		t.Errorf("apikey = %v, want wath***", entry["apikey"])
	}
	if entry["Authorization"] != "Bear***" {
		t.Errorf("Authorization = %v, want Bear***", entry["Authorization"])
	}
	if entry["national_id"] != "1012***" {
		t.Errorf("national_id = %v, want 1012***", entry["national_id"])
	}
	if entry["vendor"] != "acme" {
		t.Errorf("vendor = %v, want acme", entry["vendor"])
	}
}

func TestNew_RedactsWithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(config.LoggingConfig{}, &buf)

	logger.With("password", "hunter22").Info("x", slog.Group("registry", slog.String("api_key", "abcdef")))

	entry := decodeLine(t, &buf)
	if entry["password"] != "hunt***" {
		t.Errorf("password = %v, want hunt***", entry["password"])
	}
	group, ok := entry["registry"].(map[string]any)
	if !ok {
		t.Fatalf("registry group missing: %v", entry)
	}
	if group["api_key"] != "abcd***" {
		t.Errorf("registry.api_key = %v, want abcd***", group["api_key"])
	}
}

func TestNew_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(config.LoggingConfig{}, &buf)

	ctx := WithSupplierID(WithRequestID(context.Background(), "req-1"), "SUP-9")
	ctx = WithClient(ctx, "portal")
	logger.InfoContext(ctx, "validated")

	entry := decodeLine(t, &buf)
	if entry["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", entry["request_id"])
	}
	if entry["supplier_id"] != "SUP-9" {
		t.Errorf("supplier_id = %v, want SUP-9", entry["supplier_id"])
	}
	if entry["client"] != "portal" {
		t.Errorf("client = %v, want portal", entry["client"])
	}
}

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "vendor acme", "vendor acme"},
		{"bearer", "header Bearer abc.def-123", "header Bearer ***"},
		{"iban", "iban SA0380000000608010167519 ok", "iban SA** **** **** **** **** **** ok"},
		{"spaced iban", "SA03 8000 0000 6080 1016 7519", "SA** **** **** **** **** ****"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactAPIKey(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"abc":       "***",
		"abcd":      "***",
		"abcdefghi": "abcd***",
	}
	for in, want := range tests {
		if got := RedactAPIKey(in); got != want {
			t.Errorf("RedactAPIKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	if GetRequestID(ctx) != "" || GetSupplierID(ctx) != "" || GetClient(ctx) != "" {
		t.Error("empty context returned ids")
	}
	ctx = WithRequestID(ctx, "r")
	if got := GetRequestID(ctx); got != "r" {
		t.Errorf("GetRequestID() = %q, want r", got)
	}
}
