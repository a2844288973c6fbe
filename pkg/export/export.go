// Package export renders tabular reports such as grade transcripts.
package export

import (
	"fmt"
	"strings"
)

// Supported formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Column describes one table column. Width is only used by the PDF renderer;
// zero widths share the remaining page width.
type Column struct {
	Key   string
	Title string
	Width float64
	Align string
}

// Report is a titled table with optional key/value header lines and a footer.
type Report struct {
	Title   string
	Details [][2]string
	Columns []Column
	Rows    []map[string]string
	Footer  string
}

// Renderer turns a Report into a downloadable document.
type Renderer interface {
	Render(report Report) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the renderer registered for format.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatPDF:
		return NewPDFRenderer(), nil
	case FormatCSV:
		return NewCSVRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func (r Report) validate() error {
	if len(r.Columns) == 0 {
		return fmt.Errorf("report requires at least one column")
	}
	return nil
}
