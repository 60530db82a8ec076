// Package report aggregates the four evaluation averages of every teacher in a career and
// period into a weighted composite, and shapes the result for document rendering.
package report

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/errors"
)

// DefaultConcurrency per-request limit on parallel score fetches
const DefaultConcurrency = 8

// ErrInvalidArgument a required identifier is empty
var ErrInvalidArgument = errors.New("career id and period id are required")

// ReadStore institute data needed to resolve a roster.
// Career and Period return an error wrapping pkgerrors.ErrNotFound for unknown ids.
type ReadStore interface {
	Career(ctx context.Context, careerID string) (*Career, error)
	Period(ctx context.Context, periodID string) (*Period, error)
	Roster(ctx context.Context, careerID, periodID string) ([]RosterEntry, error)
}

// ScoreStore evaluation averages on a 0–100 scale; nil means no completed evaluations
type ScoreStore interface {
	FormAverage(ctx context.Context, assignmentID, periodID string, form FormType) (*float64, error)
	AuthorityAverage(ctx context.Context, teacherID, periodID string) (*float64, error)
}

// ScoreStatus tags how a teacher's scores were obtained
type ScoreStatus string

const (
	StatusComplete    ScoreStatus = "completo"    // all four averages present
	StatusPartial     ScoreStatus = "parcial"     // some averages absent
	StatusNoData      ScoreStatus = "sin_datos"   // no completed evaluations at all
	StatusFetchFailed ScoreStatus = "error_datos" // retrieval failed, scores zeroed
)

// TeacherScores aggregated row for one teacher. Raw keeps the optional averages as fetched;
// the float fields are normalized and never NaN.
type TeacherScores struct {
	RosterEntry
	Raw       ScoreSet    `json:"raw"`
	Self      float64     `json:"self"`
	Hetero    float64     `json:"hetero"`
	Co        float64     `json:"co"`
	Authority float64     `json:"authority"`
	Composite float64     `json:"composite"`
	Status    ScoreStatus `json:"status"`
}

// CareerReport aggregation output for one career and period
type CareerReport struct {
	Career   Career          `json:"career"`
	Period   Period          `json:"period"`
	Teachers []TeacherScores `json:"teachers"`
	Failed   int             `json:"failed"`
}

// Result outcome of fetching one teacher's scores
type Result struct {
	Entry  RosterEntry
	Scores ScoreSet
	Err    error
}

// Engine runs the roster → scores → composite pipeline. It holds no per-request state.
type Engine struct {
	read        ReadStore
	scores      ScoreStore
	logger      *zap.Logger
	concurrency int
}

// NewEngine creates an aggregation engine. concurrency < 1 falls back to DefaultConcurrency.
func NewEngine(read ReadStore, scores ScoreStore, logger *zap.Logger, concurrency int) *Engine {
	if read == nil || scores == nil {
		panic("report: stores must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Engine{read: read, scores: scores, logger: logger, concurrency: concurrency}
}

// Aggregate builds the career report. Unknown career or period fails with ErrNotFound;
// per-teacher retrieval failures are folded into zeroed rows and counted in Failed.
// An empty roster is returned as a report with no teachers.
func (e *Engine) Aggregate(ctx context.Context, careerID, periodID string) (*CareerReport, error) {
	if careerID == "" || periodID == "" {
		return nil, ErrInvalidArgument
	}

	career, err := e.read.Career(ctx, careerID)
	if err != nil {
		return nil, fmt.Errorf("resolve career %s: %w", careerID, err)
	}
	period, err := e.read.Period(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("resolve period %s: %w", periodID, err)
	}

	entries, err := e.read.Roster(ctx, careerID, periodID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	roster := ResolveRoster(entries)

	results := e.fetchAll(ctx, periodID, roster)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	teachers, failed := Fold(results)
	if failed > 0 {
		e.logger.Warn("report built with zeroed scores",
			zap.Error(pkgerrors.ErrPartialData),
			zap.String("career_id", careerID),
			zap.String("period_id", periodID),
			zap.Int("failed", failed),
			zap.Int("teachers", len(teachers)),
		)
	}

	return &CareerReport{
		Career:   *career,
		Period:   *period,
		Teachers: teachers,
		Failed:   failed,
	}, nil
}

// fetchAll fans out one score fetch per roster entry. Each goroutine owns its slot in
// results and never returns an error to the group, so one failure cannot cancel the rest.
func (e *Engine) fetchAll(ctx context.Context, periodID string, roster []RosterEntry) []Result {
	results := make([]Result, len(roster))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, entry := range roster {
		g.Go(func() error {
			scores, err := e.FetchScores(ctx, entry, periodID)
			results[i] = Result{Entry: entry, Scores: scores, Err: err}
			if err != nil {
				e.logger.Warn("score retrieval failed, using zeroed scores",
					zap.String("teacher_id", entry.TeacherID),
					zap.String("assignment_id", entry.AssignmentID),
					zap.String("period_id", periodID),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// FetchScores reads the four averages of one roster entry. Any failure discards the
// partial set so the caller never mixes fetched and missing values.
func (e *Engine) FetchScores(ctx context.Context, entry RosterEntry, periodID string) (ScoreSet, error) {
	var set ScoreSet
	var err error

	if set.Self, err = e.scores.FormAverage(ctx, entry.AssignmentID, periodID, FormSelf); err != nil {
		return ScoreSet{}, fmt.Errorf("self-evaluation average: %w", err)
	}
	if set.Hetero, err = e.scores.FormAverage(ctx, entry.AssignmentID, periodID, FormHetero); err != nil {
		return ScoreSet{}, fmt.Errorf("hetero-evaluation average: %w", err)
	}
	if set.Co, err = e.scores.FormAverage(ctx, entry.AssignmentID, periodID, FormCo); err != nil {
		return ScoreSet{}, fmt.Errorf("co-evaluation average: %w", err)
	}
	if set.Authority, err = e.scores.AuthorityAverage(ctx, entry.TeacherID, periodID); err != nil {
		return ScoreSet{}, fmt.Errorf("authority average: %w", err)
	}
	return set, nil
}

// Fold turns per-teacher results into report rows, preserving roster order.
// Failed results become fully absent score sets.
func Fold(results []Result) ([]TeacherScores, int) {
	rows := make([]TeacherScores, 0, len(results))
	failed := 0
	for _, r := range results {
		scores := r.Scores
		status := statusOf(scores)
		if r.Err != nil {
			scores = ScoreSet{}
			status = StatusFetchFailed
			failed++
		}
		rows = append(rows, Score(r.Entry, scores, status))
	}
	return rows, failed
}

// Score computes the normalized components and composite for one entry
func Score(entry RosterEntry, raw ScoreSet, status ScoreStatus) TeacherScores {
	self, hetero, co, authority, composite := Weighted(raw)
	return TeacherScores{
		RosterEntry: entry,
		Raw:         raw,
		Self:        self,
		Hetero:      hetero,
		Co:          co,
		Authority:   authority,
		Composite:   composite,
		Status:      status,
	}
}

func statusOf(s ScoreSet) ScoreStatus {
	switch {
	case s.Empty():
		return StatusNoData
	case s.Self != nil && s.Hetero != nil && s.Co != nil && s.Authority != nil:
		return StatusComplete
	default:
		return StatusPartial
	}
}
