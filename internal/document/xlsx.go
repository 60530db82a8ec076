package document

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
)

const resultsSheet = "Resultados"

var xlsxHeaders = []string{
	"N.", "Oficio", "Docente", "Autoevaluación", "Heteroevaluación", "Coevaluación", "Autoridad", "Total",
}

// XLSXRenderer one sheet with the career results table
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer { return &XLSXRenderer{} }

func (r *XLSXRenderer) Format() Format { return FormatXLSX }

func (r *XLSXRenderer) Render(ctx context.Context, doc *report.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(resultsSheet)
	if err != nil {
		return nil, renderErr(FormatXLSX, err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	f.SetColWidth(resultsSheet, "A", "A", 6)
	f.SetColWidth(resultsSheet, "B", "B", 24)
	f.SetColWidth(resultsSheet, "C", "C", 40)
	f.SetColWidth(resultsSheet, "D", "H", 18)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	numberStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 2})

	lastCol := colName(len(xlsxHeaders))

	// title block
	f.SetCellValue(resultsSheet, "A1", "Evaluación integral del desempeño docente")
	f.MergeCell(resultsSheet, "A1", lastCol+"1")
	f.SetCellStyle(resultsSheet, "A1", "A1", titleStyle)
	f.SetCellValue(resultsSheet, "A2", "Carrera: "+doc.CareerName)
	f.MergeCell(resultsSheet, "A2", lastCol+"2")
	f.SetCellValue(resultsSheet, "A3", fmt.Sprintf("Período: %s    Fecha: %s", doc.PeriodLabel, doc.Date))
	f.MergeCell(resultsSheet, "A3", lastCol+"3")

	row := 5
	for i, h := range xlsxHeaders {
		f.SetCellValue(resultsSheet, cell(colName(i+1), row), h)
	}
	f.SetCellStyle(resultsSheet, cell("A", row), cell(lastCol, row), headerStyle)

	for _, r := range doc.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row++
		f.SetCellValue(resultsSheet, cell("A", row), r.Index)
		f.SetCellValue(resultsSheet, cell("B", row), r.OfficeNumber)
		f.SetCellValue(resultsSheet, cell("C", row), r.NameUpper)
		for i, score := range []string{r.Self, r.Hetero, r.Co, r.Authority, r.Composite} {
			f.SetCellValue(resultsSheet, cell(colName(4+i), row), scoreValue(score))
		}
		f.SetCellStyle(resultsSheet, cell("D", row), cell(lastCol, row), numberStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, renderErr(FormatXLSX, err)
	}
	return buf.Bytes(), nil
}

// scoreValue writes scores as numbers so the sheet can be re-sorted; the text is kept on parse failure
func scoreValue(s string) any {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
