package invoice

import "fmt"

// Format identifies a supported output document format.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatSpreadsheet Format = "spreadsheet"
	FormatDelimited   Format = "delimited-text"
)

// DefaultFormat is used when an upload does not specify a format.
const DefaultFormat = FormatPDF

// ErrUnsupportedFormat reports a format outside the supported set.
type ErrUnsupportedFormat struct {
	Format string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported format %q (supported: pdf, spreadsheet, delimited-text)", e.Format)
}

// ParseFormat validates a requested format string. An empty string maps to
// the default format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return DefaultFormat, nil
	case FormatPDF, FormatSpreadsheet, FormatDelimited:
		return Format(s), nil
	default:
		return "", &ErrUnsupportedFormat{Format: s}
	}
}

// Extension returns the file extension used for artifacts of this format,
// without a leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatSpreadsheet:
		return "xlsx"
	case FormatDelimited:
		return "csv"
	default:
		return "pdf"
	}
}

// ContentType returns the MIME type for artifacts of this format.
func (f Format) ContentType() string {
	switch f {
	case FormatSpreadsheet:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDelimited:
		return "text/csv"
	default:
		return "application/pdf"
	}
}
