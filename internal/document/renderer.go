// Package document renders report data sets into Word, Excel and PDF files.
package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
	pkgerrors "github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/errors"
)

// Format output file type
type Format string

const (
	FormatDOCX Format = "docx"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Renderer turns a document data set into file bytes
type Renderer interface {
	Render(ctx context.Context, doc *report.Document) ([]byte, error)
	Format() Format
}

// ParseFormat validates a format name; empty selects docx
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatDOCX, nil
	case FormatDOCX, FormatXLSX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ContentType MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
}

// Extension file extension with the leading dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Set renderers indexed by format
type Set map[Format]Renderer

// NewSet builds the three renderers. templatePath selects a custom Word template; empty uses the embedded one.
func NewSet(templatePath string) Set {
	return Set{
		FormatDOCX: NewDOCXRenderer(templatePath),
		FormatXLSX: NewXLSXRenderer(),
		FormatPDF:  NewPDFRenderer(),
	}
}

// Get renderer for a format
func (s Set) Get(f Format) (Renderer, error) {
	r, ok := s[f]
	if !ok {
		return nil, fmt.Errorf("no renderer for %s: %w", f, pkgerrors.ErrRenderFailure)
	}
	return r, nil
}

func renderErr(format Format, err error) error {
	return fmt.Errorf("%s: %w: %v", format, pkgerrors.ErrRenderFailure, err)
}
