package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/config"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/document"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
	pkgerrors "github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/errors"
)

// captureRenderer records the document it was asked to render
type captureRenderer struct {
	format document.Format
	doc    *report.Document
	err    error
}

func (r *captureRenderer) Format() document.Format { return r.format }

func (r *captureRenderer) Render(_ context.Context, doc *report.Document) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.doc = doc
	return []byte("rendered"), nil
}

type reportFixture struct {
	svc      ReportService
	m        *mocks
	docx     *captureRenderer
	coord    *model.User
	coordSvc CoordinatorService
}

func setupReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	repo, m := newTestRepo()
	seedCatalog(m)

	m.catalog.roster = []repository.RosterRow{
		{AssignmentID: "10", TeacherID: "T1", FullName: "Pérez Ana"},
		{AssignmentID: "7", TeacherID: "T1", FullName: "Pérez Ana"},
		{AssignmentID: "20", TeacherID: "T2", FullName: "RUIZ  luis"},
	}
	m.catalog.teachers["T1"] = &model.Teacher{TeacherID: "T1", FirstSurname: "Pérez", FirstGivenName: "Ana"}
	m.catalog.distributivos = []model.Distributivo{
		{DistributivoID: "7", TeacherID: "T1", PeriodID: "P1", CareerID: "C1"},
		{DistributivoID: "10", TeacherID: "T1", PeriodID: "P1", CareerID: "C1"},
	}
	m.score.forms["7|"+model.FormTypeSelf] = 100
	m.score.forms["7|"+model.FormTypeHetero] = 80
	m.score.forms["7|"+model.FormTypeCo] = 90
	m.score.authority["T1"] = 70

	docx := &captureRenderer{format: document.FormatDOCX}
	renderers := document.Set{
		document.FormatDOCX: docx,
		document.FormatXLSX: &captureRenderer{format: document.FormatXLSX},
	}

	coordSvc := NewCoordinatorService(repo, zap.NewNop())
	coord := createTestUser(m, "0102030405", "coord@istla.edu.ec", "x", model.RoleCoordinator)

	cfg := &config.ReportConfig{
		Honorific:        "Ing.",
		OfficePrefix:     "ISTLA-VR",
		FetchConcurrency: 2,
		Timezone:         "UTC",
	}
	svc := NewReportService(cfg, repo, coordSvc, renderers, zap.NewNop())
	svc.(*reportService).now = func() time.Time { return time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC) }

	return &reportFixture{svc: svc, m: m, docx: docx, coord: coord, coordSvc: coordSvc}
}

func TestReportService_GenerateCareerReport(t *testing.T) {
	f := setupReportFixture(t)

	file, err := f.svc.GenerateCareerReport(context.Background(), "C1", "P1", &dto.CareerReportRequest{Start: 41}, 1, model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateCareerReport failed: %v", err)
	}
	if file.Filename != "resultados_Desarrollo_de_Software_2025_I.docx" {
		t.Errorf("unexpected filename %q", file.Filename)
	}
	if file.ContentType != document.FormatDOCX.ContentType() || string(file.Body) != "rendered" {
		t.Errorf("unexpected file: %s %q", file.ContentType, file.Body)
	}

	doc := f.docx.doc
	if doc == nil || len(doc.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", doc)
	}
	if doc.Date != "5 de marzo de 2026" {
		t.Errorf("unexpected date %q", doc.Date)
	}
	first := doc.Rows[0]
	if first.TeacherID != "T1" || first.OfficeNumber != "ISTLA-VR-2026-41-O" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Composite != "83.00" || first.Self != "100.00" || first.Hetero != "80.00" {
		t.Errorf("unexpected scores: %+v", first)
	}
	second := doc.Rows[1]
	if second.OfficeNumber != "ISTLA-VR-2026-42-O" || second.NameTitle != "Ing. Ruiz Luis" || second.Composite != "0.00" {
		t.Errorf("unexpected second row: %+v", second)
	}
}

func TestReportService_GenerateCareerReport_Errors(t *testing.T) {
	f := setupReportFixture(t)
	ctx := context.Background()

	if _, err := f.svc.GenerateCareerReport(ctx, "C1", "P1", &dto.CareerReportRequest{Format: "odt"}, 1, model.RoleAdmin); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
	if _, err := f.svc.GenerateCareerReport(ctx, "C1", "P1", &dto.CareerReportRequest{Format: "pdf"}, 1, model.RoleAdmin); !errors.Is(err, pkgerrors.ErrRenderFailure) {
		t.Errorf("missing renderer: expected ErrRenderFailure, got %v", err)
	}
	if _, err := f.svc.GenerateCareerReport(ctx, "C9", "P1", &dto.CareerReportRequest{}, 1, model.RoleAdmin); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.GenerateCareerReport(ctx, "C1", "P1", &dto.CareerReportRequest{}, f.coord.UserID, model.RoleCoordinator); !errors.Is(err, ErrReportForbidden) {
		t.Errorf("expected ErrReportForbidden, got %v", err)
	}

	f.m.catalog.roster = nil
	if _, err := f.svc.GenerateCareerReport(ctx, "C1", "P1", &dto.CareerReportRequest{}, 1, model.RoleAdmin); !errors.Is(err, pkgerrors.ErrEmptyRoster) {
		t.Errorf("expected ErrEmptyRoster, got %v", err)
	}

	f.m.catalog.roster = []repository.RosterRow{{AssignmentID: "7", TeacherID: "T1", FullName: "Pérez Ana"}}
	f.docx.err = pkgerrors.ErrRenderFailure
	if _, err := f.svc.GenerateCareerReport(ctx, "C1", "P1", &dto.CareerReportRequest{}, 1, model.RoleAdmin); !errors.Is(err, pkgerrors.ErrRenderFailure) {
		t.Errorf("expected ErrRenderFailure, got %v", err)
	}
}

func TestReportService_CoordinatorAccess(t *testing.T) {
	f := setupReportFixture(t)
	ctx := context.Background()
	if _, err := f.coordSvc.Assign(ctx, &dto.AssignCoordinatorRequest{UserID: f.coord.UserID, CareerID: "C1", PeriodID: "P1"}, 1); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	file, err := f.svc.GenerateCareerReport(ctx, "C1", "P1", &dto.CareerReportRequest{Format: "xlsx"}, f.coord.UserID, model.RoleCoordinator)
	if err != nil {
		t.Fatalf("assigned coordinator should generate the report: %v", err)
	}
	if file.ContentType != document.FormatXLSX.ContentType() {
		t.Errorf("unexpected content type %s", file.ContentType)
	}
}

func TestReportService_CareerResults(t *testing.T) {
	f := setupReportFixture(t)
	f.m.score.failFor["20"] = errors.New("connection reset")

	resp, err := f.svc.CareerResults(context.Background(), "C1", "P1", 1, model.RoleAdmin)
	if err != nil {
		t.Fatalf("CareerResults failed: %v", err)
	}
	if resp.CareerName != "Desarrollo de Software" || resp.Period != "2025-I" {
		t.Errorf("unexpected header: %+v", resp)
	}
	if len(resp.Teachers) != 2 {
		t.Fatalf("expected 2 teachers, got %d", len(resp.Teachers))
	}

	ana := resp.Teachers[0]
	if ana.AssignmentID != "7" || ana.Composite != 83 || ana.Status != string(report.StatusComplete) || len(ana.Missing) != 0 {
		t.Errorf("unexpected row: %+v", ana)
	}
	luis := resp.Teachers[1]
	if luis.Status != string(report.StatusFetchFailed) || luis.Composite != 0 {
		t.Errorf("failed retrieval should give a zeroed row, got %+v", luis)
	}
}

func TestReportService_CareerResults_EmptyRoster(t *testing.T) {
	f := setupReportFixture(t)
	f.m.catalog.roster = nil

	resp, err := f.svc.CareerResults(context.Background(), "C1", "P1", 1, model.RoleAdmin)
	if err != nil {
		t.Fatalf("CareerResults failed: %v", err)
	}
	if resp.Teachers == nil || len(resp.Teachers) != 0 {
		t.Errorf("expected an empty, non-nil list, got %#v", resp.Teachers)
	}
}

func TestReportService_TeacherResults(t *testing.T) {
	f := setupReportFixture(t)

	resp, err := f.svc.TeacherResults(context.Background(), "T1", "P1")
	if err != nil {
		t.Fatalf("TeacherResults failed: %v", err)
	}
	if len(resp.Assignments) != 2 {
		t.Fatalf("expected one row per assignment, got %d", len(resp.Assignments))
	}
	var partial *dto.ScoreResponse
	for i := range resp.Assignments {
		if resp.Assignments[i].AssignmentID == "10" {
			partial = &resp.Assignments[i]
		}
	}
	// distributivo 10 only has the teacher-level authority grade
	if partial == nil || partial.Status != string(report.StatusPartial) || len(partial.Missing) != 3 {
		t.Errorf("unexpected partial row: %+v", partial)
	}
	if partial != nil && partial.Composite != 14 {
		t.Errorf("expected composite 14 from the authority grade alone, got %v", partial.Composite)
	}

	if _, err := f.svc.TeacherResults(context.Background(), "T9", "P1"); !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("expected ErrTeacherNotFound, got %v", err)
	}
}

func TestReportFilename(t *testing.T) {
	got := reportFilename("Enfermería / Técnica", " 2025 - I ", document.FormatPDF)
	if got != "resultados_Enfermería_Técnica_2025_I.pdf" {
		t.Errorf("unexpected filename %q", got)
	}
}
