package document

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
)

// PDFRenderer landscape A4 table of the career results
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (r *PDFRenderer) Format() Format { return FormatPDF }

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"N.", 10, "C"},
	{"Oficio", 48, "L"},
	{"Docente", 85, "L"},
	{"Autoev.", 26, "R"},
	{"Heteroev.", 26, "R"},
	{"Coev.", 26, "R"},
	{"Autoridad", 26, "R"},
	{"Total", 24, "R"},
}

func (r *PDFRenderer) Render(ctx context.Context, doc *report.Document) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Evaluación integral del desempeño docente", true)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	// core fonts are cp1252; the translator keeps Spanish accents intact
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(31, 78, 121)
		pdf.SetTextColor(255, 255, 255)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, tr(c.title), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("EVALUACIÓN INTEGRAL DEL DESEMPEÑO DOCENTE"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("Carrera: "+doc.CareerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Período: %s    Fecha: %s", doc.PeriodLabel, doc.Date)), "", 1, "L", false, 0, "")
	pdf.Ln(3)
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range doc.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		values := []string{
			fmt.Sprintf("%d", row.Index), row.OfficeNumber, row.NameUpper,
			row.Self, row.Hetero, row.Co, row.Authority, row.Composite,
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, tr(values[i]), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, renderErr(FormatPDF, err)
	}
	return buf.Bytes(), nil
}
