package document

import (
	"archive/zip"
	"bytes"
	"context"
	_ "embed"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"text/template"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
)

//go:embed templates/default.docx
var defaultTemplate []byte

const documentPart = "word/document.xml"

// DOCXRenderer fills word/document.xml of a .docx template with text/template actions.
// Every other part of the package is copied unchanged.
type DOCXRenderer struct {
	path string
}

// NewDOCXRenderer path may be empty to use the embedded template
func NewDOCXRenderer(path string) *DOCXRenderer {
	return &DOCXRenderer{path: path}
}

func (r *DOCXRenderer) Format() Format { return FormatDOCX }

// Render reads the template on every call so it can be replaced without a restart
func (r *DOCXRenderer) Render(ctx context.Context, doc *report.Document) ([]byte, error) {
	raw, err := r.load()
	if err != nil {
		return nil, renderErr(FormatDOCX, err)
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, renderErr(FormatDOCX, err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	found := false

	for _, part := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := readPart(part)
		if err != nil {
			return nil, renderErr(FormatDOCX, err)
		}
		if part.Name == documentPart {
			found = true
			if body, err = fill(body, doc); err != nil {
				return nil, renderErr(FormatDOCX, err)
			}
		}

		w, err := zw.CreateHeader(&zip.FileHeader{Name: part.Name, Method: zip.Deflate})
		if err != nil {
			return nil, renderErr(FormatDOCX, err)
		}
		if _, err := w.Write(body); err != nil {
			return nil, renderErr(FormatDOCX, err)
		}
	}

	if !found {
		return nil, renderErr(FormatDOCX, errMissingPart)
	}
	if err := zw.Close(); err != nil {
		return nil, renderErr(FormatDOCX, err)
	}
	return out.Bytes(), nil
}

func (r *DOCXRenderer) load() ([]byte, error) {
	if r.path == "" {
		return defaultTemplate, nil
	}
	return os.ReadFile(r.path)
}

var errMissingPart = errors.New("template has no " + documentPart)

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

var funcs = template.FuncMap{
	"xml": escapeXML,
}

func fill(body []byte, doc *report.Document) ([]byte, error) {
	tmpl, err := template.New(documentPart).Funcs(funcs).Option("missingkey=error").Parse(string(body))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
