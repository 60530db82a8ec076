package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	pkgerrors "github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/errors"
)

type fakeReadStore struct {
	careers map[string]Career
	periods map[string]Period
	roster  []RosterEntry
	err     error
}

func (s *fakeReadStore) Career(_ context.Context, id string) (*Career, error) {
	c, ok := s.careers[id]
	if !ok {
		return nil, fmt.Errorf("career %s: %w", id, pkgerrors.ErrNotFound)
	}
	return &c, nil
}

func (s *fakeReadStore) Period(_ context.Context, id string) (*Period, error) {
	p, ok := s.periods[id]
	if !ok {
		return nil, fmt.Errorf("period %s: %w", id, pkgerrors.ErrNotFound)
	}
	return &p, nil
}

func (s *fakeReadStore) Roster(_ context.Context, _, _ string) ([]RosterEntry, error) {
	return s.roster, s.err
}

type fakeScoreStore struct {
	mu        sync.Mutex
	forms     map[string]map[FormType]*float64 // by assignment
	authority map[string]*float64              // by teacher
	failFor   map[string]bool                  // assignment ids that error
	calls     int
}

func (s *fakeScoreStore) FormAverage(_ context.Context, assignmentID, _ string, form FormType) (*float64, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.failFor[assignmentID] {
		return nil, errors.New("connection reset")
	}
	return s.forms[assignmentID][form], nil
}

func (s *fakeScoreStore) AuthorityAverage(_ context.Context, teacherID, _ string) (*float64, error) {
	return s.authority[teacherID], nil
}

func newFixture() (*fakeReadStore, *fakeScoreStore) {
	read := &fakeReadStore{
		careers: map[string]Career{"SW": {ID: "SW", Name: "Software Engineering", Active: true}},
		periods: map[string]Period{"2025-A": {ID: "2025-A", Label: "2025-A"}},
		roster: []RosterEntry{
			{AssignmentID: "11", TeacherID: "TB", FullName: "Teacher B"},
			{AssignmentID: "10", TeacherID: "TA", FullName: "Teacher A"},
		},
	}
	scores := &fakeScoreStore{
		forms: map[string]map[FormType]*float64{
			"10": {FormSelf: f(80), FormHetero: f(70), FormCo: f(90)},
		},
		authority: map[string]*float64{"TA": f(100)},
		failFor:   map[string]bool{},
	}
	return read, scores
}

func TestAggregate_WorkedExample(t *testing.T) {
	read, scores := newFixture()
	engine := NewEngine(read, scores, zap.NewNop(), 2)

	rep, err := engine.Aggregate(context.Background(), "SW", "2025-A")
	require.NoError(t, err)

	require.Len(t, rep.Teachers, 2)
	a, b := rep.Teachers[0], rep.Teachers[1]

	assert.Equal(t, "TA", a.TeacherID)
	assert.InDelta(t, 83.0, a.Composite, 1e-9)
	assert.Equal(t, StatusComplete, a.Status)

	assert.Equal(t, "TB", b.TeacherID)
	assert.Equal(t, 0.0, b.Composite)
	assert.Equal(t, StatusNoData, b.Status)
	assert.True(t, b.Raw.Empty())
	assert.Zero(t, rep.Failed)
}

func TestAggregate_PartialFailureIsFoldedAndLogged(t *testing.T) {
	read, scores := newFixture()
	scores.failFor["10"] = true

	core, logs := observer.New(zap.WarnLevel)
	engine := NewEngine(read, scores, zap.New(core), 4)

	rep, err := engine.Aggregate(context.Background(), "SW", "2025-A")
	require.NoError(t, err)

	require.Len(t, rep.Teachers, 2)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, StatusFetchFailed, rep.Teachers[0].Status)
	assert.Equal(t, 0.0, rep.Teachers[0].Composite)
	assert.True(t, rep.Teachers[0].Raw.Empty(), "authority must not leak into a failed row")

	assert.Equal(t, 1, logs.FilterMessage("score retrieval failed, using zeroed scores").Len())
	assert.Equal(t, 1, logs.FilterMessage("report built with zeroed scores").Len())
}

func TestAggregate_NotFound(t *testing.T) {
	read, scores := newFixture()
	engine := NewEngine(read, scores, nil, 1)

	_, err := engine.Aggregate(context.Background(), "NOPE", "2025-A")
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)

	_, err = engine.Aggregate(context.Background(), "SW", "1999-Z")
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestAggregate_InvalidArgument(t *testing.T) {
	read, scores := newFixture()
	engine := NewEngine(read, scores, nil, 1)

	_, err := engine.Aggregate(context.Background(), "", "2025-A")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAggregate_EmptyRoster(t *testing.T) {
	read, scores := newFixture()
	read.roster = nil
	engine := NewEngine(read, scores, nil, 1)

	rep, err := engine.Aggregate(context.Background(), "SW", "2025-A")
	require.NoError(t, err)
	assert.Empty(t, rep.Teachers)
	assert.Zero(t, scores.calls)
}

func TestAggregate_RosterFailurePropagates(t *testing.T) {
	read, scores := newFixture()
	read.err = errors.New("replica down")
	engine := NewEngine(read, scores, nil, 1)

	_, err := engine.Aggregate(context.Background(), "SW", "2025-A")
	assert.Error(t, err)
}

func TestAggregate_CancelledContext(t *testing.T) {
	read, scores := newFixture()
	engine := NewEngine(read, scores, nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Aggregate(ctx, "SW", "2025-A")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregate_Idempotent(t *testing.T) {
	read, scores := newFixture()
	for i := 0; i < 40; i++ {
		id := fmt.Sprintf("%d", 100+i)
		read.roster = append(read.roster, RosterEntry{AssignmentID: id, TeacherID: "X" + id, FullName: "Docente " + id})
	}
	engine := NewEngine(read, scores, nil, 8)

	first, err := engine.Aggregate(context.Background(), "SW", "2025-A")
	require.NoError(t, err)
	second, err := engine.Aggregate(context.Background(), "SW", "2025-A")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFold_PreservesOrder(t *testing.T) {
	rows, failed := Fold([]Result{
		{Entry: RosterEntry{TeacherID: "1"}, Scores: ScoreSet{Self: f(50)}},
		{Entry: RosterEntry{TeacherID: "2"}, Err: errors.New("boom")},
		{Entry: RosterEntry{TeacherID: "3"}},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, 1, failed)
	assert.Equal(t, "1", rows[0].TeacherID)
	assert.Equal(t, StatusPartial, rows[0].Status)
	assert.InDelta(t, 5.0, rows[0].Composite, 1e-9)
	assert.Equal(t, StatusFetchFailed, rows[1].Status)
	assert.Equal(t, StatusNoData, rows[2].Status)
}
