package report

import (
	"fmt"
	"time"
)

// Document flat record set handed to a renderer
type Document struct {
	CareerName  string `json:"career_name"`
	PeriodLabel string `json:"period_label"`
	Date        string `json:"date"`
	Year        int    `json:"year"`
	Rows        []Row  `json:"rows"`
}

// Row one teacher line of a report document. Scores are preformatted with two decimals.
type Row struct {
	Index        int    `json:"index"`
	TeacherID    string `json:"teacher_id"`
	OfficeNumber string `json:"office_number"`
	NameUpper    string `json:"name_upper"`
	NameTitle    string `json:"name_title"`
	Self         string `json:"self"`
	Hetero       string `json:"hetero"`
	Co           string `json:"co"`
	Authority    string `json:"authority"`
	Composite    string `json:"composite"`
}

// BuildOptions presentation parameters of a document
type BuildOptions struct {
	StartNumber  int
	Date         time.Time
	Honorific    string
	OfficePrefix string
}

// BuildDocument shapes an aggregated report for rendering. Office numbers follow roster
// order starting at opts.StartNumber, using the year of opts.Date.
func BuildDocument(rep *CareerReport, opts BuildOptions) *Document {
	year := opts.Date.Year()
	doc := &Document{
		CareerName:  rep.Career.Name,
		PeriodLabel: rep.Period.Label,
		Date:        SpanishDate(opts.Date),
		Year:        year,
		Rows:        make([]Row, 0, len(rep.Teachers)),
	}

	offices := OfficeNumbers(opts.OfficePrefix, year, opts.StartNumber, len(rep.Teachers))
	for i, t := range rep.Teachers {
		doc.Rows = append(doc.Rows, Row{
			Index:        i + 1,
			TeacherID:    t.TeacherID,
			OfficeNumber: offices[i],
			NameUpper:    UpperName(t.FullName),
			NameTitle:    TitleName(t.FullName, opts.Honorific),
			Self:         FormatScore(t.Self),
			Hetero:       FormatScore(t.Hetero),
			Co:           FormatScore(t.Co),
			Authority:    FormatScore(t.Authority),
			Composite:    FormatScore(t.Composite),
		})
	}
	return doc
}

// FormatScore two-decimal presentation of a score
func FormatScore(v float64) string {
	return fmt.Sprintf("%.2f", Round2(NormalizeValue(v)))
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// SpanishDate long form date, e.g. 18 de octubre de 2026
func SpanishDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
