// Package export renders a project workspace to PDF.
package export

import "errors"

// Format represents the export output format
type Format string

const (
	FormatPDF Format = "pdf"
)

// Request contains parameters for an export operation
type Request struct {
	ProjectID    string
	Format       Format
	IncludePrice bool
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrContentUnavailable indicates workspace content could not be loaded for export.
	ErrContentUnavailable = errors.New("export content unavailable")
	// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
)
