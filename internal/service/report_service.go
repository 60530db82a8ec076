package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/config"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/document"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
	pkgerrors "github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/errors"
)

var ErrInvalidFormat = errors.New("formato de reporte no soportado")

// ReportFile rendered report ready for download
type ReportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportService career results and their document rendering
type ReportService interface {
	// GenerateCareerReport renders the results document of a career. start is the first office number (0 means 1).
	GenerateCareerReport(ctx context.Context, careerID, periodID string, req *dto.CareerReportRequest, callerID uint, callerRole string) (*ReportFile, error)
	CareerResults(ctx context.Context, careerID, periodID string, callerID uint, callerRole string) (*dto.CareerResultsResponse, error)
	TeacherResults(ctx context.Context, teacherID, periodID string) (*dto.TeacherResultsResponse, error)
}

type reportService struct {
	cfg       *config.ReportConfig
	repo      *repository.Repository
	engine    *report.Engine
	access    CoordinatorService
	renderers document.Set
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewReportService creates a ReportService
func NewReportService(
	cfg *config.ReportConfig,
	repo *repository.Repository,
	access CoordinatorService,
	renderers document.Set,
	logger *zap.Logger,
) ReportService {
	store := newReportStore(repo)

	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			logger.Warn("unknown report timezone, using UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		} else {
			loc = l
		}
	}

	return &reportService{
		cfg:       cfg,
		repo:      repo,
		engine:    report.NewEngine(store, store, logger, cfg.FetchConcurrency),
		access:    access,
		renderers: renderers,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// ────────────────────── GenerateCareerReport ──────────────────────

func (s *reportService) GenerateCareerReport(ctx context.Context, careerID, periodID string, req *dto.CareerReportRequest, callerID uint, callerRole string) (*ReportFile, error) {
	format, err := document.ParseFormat(req.Format)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	renderer, err := s.renderers.Get(format)
	if err != nil {
		return nil, err
	}

	if err := s.access.CanReport(ctx, callerID, callerRole, careerID, periodID); err != nil {
		return nil, err
	}

	rep, err := s.engine.Aggregate(ctx, careerID, periodID)
	if err != nil {
		return nil, s.mapErr(err, careerID, periodID)
	}
	if len(rep.Teachers) == 0 {
		return nil, fmt.Errorf("career %s period %s: %w", careerID, periodID, pkgerrors.ErrEmptyRoster)
	}

	start := req.Start
	if start < 1 {
		start = 1
	}
	doc := report.BuildDocument(rep, report.BuildOptions{
		StartNumber:  start,
		Date:         s.now().In(s.loc),
		Honorific:    s.cfg.Honorific,
		OfficePrefix: s.cfg.OfficePrefix,
	})

	body, err := renderer.Render(ctx, doc)
	if err != nil {
		s.logger.Error("failed to render report",
			zap.String("career_id", careerID),
			zap.String("period_id", periodID),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("report generated",
		zap.String("career_id", careerID),
		zap.String("period_id", periodID),
		zap.String("format", string(format)),
		zap.Int("teachers", len(doc.Rows)),
		zap.Int("failed", rep.Failed),
		zap.Uint("caller_id", callerID),
	)

	return &ReportFile{
		Filename:    reportFilename(rep.Career.Name, rep.Period.Label, format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// reportFilename e.g. resultados_Desarrollo_de_Software_2025-I.docx
func reportFilename(career, period string, format document.Format) string {
	parts := []string{"resultados"}
	for _, p := range []string{career, period} {
		if p = strings.Trim(unsafeFilename.ReplaceAllString(p, "_"), "_"); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_") + format.Extension()
}

// ────────────────────── results ──────────────────────

func (s *reportService) CareerResults(ctx context.Context, careerID, periodID string, callerID uint, callerRole string) (*dto.CareerResultsResponse, error) {
	if err := s.access.CanReport(ctx, callerID, callerRole, careerID, periodID); err != nil {
		return nil, err
	}

	rep, err := s.engine.Aggregate(ctx, careerID, periodID)
	if err != nil {
		return nil, s.mapErr(err, careerID, periodID)
	}

	resp := &dto.CareerResultsResponse{
		CareerID:   rep.Career.ID,
		CareerName: rep.Career.Name,
		PeriodID:   rep.Period.ID,
		Period:     rep.Period.Label,
		Teachers:   make([]dto.ScoreResponse, 0, len(rep.Teachers)),
	}
	for _, t := range rep.Teachers {
		resp.Teachers = append(resp.Teachers, toScoreResponse(t))
	}
	return resp, nil
}

// TeacherResults one row per assignment of the teacher in the period
func (s *reportService) TeacherResults(ctx context.Context, teacherID, periodID string) (*dto.TeacherResultsResponse, error) {
	if teacherID == "" {
		return nil, ErrTeacherNotFound
	}
	teacher, err := s.repo.Catalog.GetTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	assignments, err := s.repo.Catalog.DistributivosByTeacher(ctx, teacherID, periodID)
	if err != nil {
		s.logger.Error("failed to load teacher assignments", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}

	results := make([]report.Result, 0, len(assignments))
	for _, d := range assignments {
		entry := report.RosterEntry{
			AssignmentID: d.DistributivoID,
			TeacherID:    teacherID,
			FullName:     report.CleanName(teacher.FullName()),
		}
		scores, err := s.engine.FetchScores(ctx, entry, periodID)
		if err != nil {
			s.logger.Warn("score retrieval failed, using zeroed scores",
				zap.String("teacher_id", teacherID),
				zap.String("assignment_id", d.DistributivoID),
				zap.Error(err),
			)
		}
		results = append(results, report.Result{Entry: entry, Scores: scores, Err: err})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, _ := report.Fold(results)
	resp := &dto.TeacherResultsResponse{
		TeacherID:   teacherID,
		PeriodID:    periodID,
		Assignments: make([]dto.ScoreResponse, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Assignments = append(resp.Assignments, toScoreResponse(r))
	}
	return resp, nil
}

func (s *reportService) mapErr(err error, careerID, periodID string) error {
	if errors.Is(err, pkgerrors.ErrNotFound) || errors.Is(err, report.ErrInvalidArgument) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.logger.Error("failed to aggregate report",
		zap.String("career_id", careerID),
		zap.String("period_id", periodID),
		zap.Error(err),
	)
	return err
}

func toScoreResponse(t report.TeacherScores) dto.ScoreResponse {
	resp := dto.ScoreResponse{
		AssignmentID: t.AssignmentID,
		TeacherID:    t.TeacherID,
		FullName:     t.FullName,
		Self:         report.Round2(t.Self),
		Hetero:       report.Round2(t.Hetero),
		Co:           report.Round2(t.Co),
		Authority:    report.Round2(t.Authority),
		Composite:    report.Round2(t.Composite),
		Status:       string(t.Status),
	}
	if t.Status != report.StatusFetchFailed {
		if t.Raw.Self == nil {
			resp.Missing = append(resp.Missing, string(report.FormSelf))
		}
		if t.Raw.Hetero == nil {
			resp.Missing = append(resp.Missing, string(report.FormHetero))
		}
		if t.Raw.Co == nil {
			resp.Missing = append(resp.Missing, string(report.FormCo))
		}
		if t.Raw.Authority == nil {
			resp.Missing = append(resp.Missing, "autoridad")
		}
	}
	return resp
}
