package invoice

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"empty defaults to pdf", "", FormatPDF, false},
		{"pdf", "pdf", FormatPDF, false},
		{"spreadsheet", "spreadsheet", FormatSpreadsheet, false},
		{"delimited-text", "delimited-text", FormatDelimited, false},
		{"unknown", "docx", "", true},
		{"case sensitive", "PDF", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				var unsupported *ErrUnsupportedFormat
				if !errors.As(err, &unsupported) {
					t.Errorf("expected ErrUnsupportedFormat, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatExtension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatPDF, "pdf"},
		{FormatSpreadsheet, "xlsx"},
		{FormatDelimited, "csv"},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("%s: expected extension %q, got %q", tt.format, tt.want, got)
		}
	}
}

func TestFormatContentType(t *testing.T) {
	if got := FormatDelimited.ContentType(); got != "text/csv" {
		t.Errorf("expected text/csv, got %q", got)
	}
	if got := FormatPDF.ContentType(); got != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", got)
	}
}
