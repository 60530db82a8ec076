package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
	pkgredis "github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/pkg/redis"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == 0 {
		user.UserID = m.nextID
		m.nextID++
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range m.users {
		if u.IDNumber == login || u.Email == login {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByIDNumberOrEmail(_ context.Context, idNumber, email string, excludeID uint) (bool, error) {
	for _, u := range m.users {
		if u.UserID == excludeID {
			continue
		}
		if (idNumber != "" && u.IDNumber == idNumber) || (email != "" && u.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(u.Name, filter.Keyword) && !strings.Contains(u.IDNumber, filter.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	if offset >= len(all) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ByTeacherIDs(_ context.Context, teacherIDs []string) (map[string]model.User, error) {
	out := make(map[string]model.User)
	for _, id := range teacherIDs {
		for _, u := range m.users {
			if u.Active && u.TeacherID != nil && *u.TeacherID == id {
				out[id] = *u
			}
		}
	}
	return out, nil
}

func (m *mockUserRepo) ByStudentIDs(_ context.Context, studentIDs []string) (map[string]model.User, error) {
	out := make(map[string]model.User)
	for _, id := range studentIDs {
		for _, u := range m.users {
			if u.Active && u.StudentID != nil && *u.StudentID == id {
				out[id] = *u
			}
		}
	}
	return out, nil
}

// ── Mock CatalogRepository ──

type mockCatalogRepo struct {
	careers       map[string]*model.Career
	periods       map[string]*model.Period
	teachers      map[string]*model.Teacher
	distributivos []model.Distributivo
	enrollments   []model.Enrollment
	roster        []repository.RosterRow
	rosterErr     error
	calls         map[string]int
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		careers:  make(map[string]*model.Career),
		periods:  make(map[string]*model.Period),
		teachers: make(map[string]*model.Teacher),
		calls:    make(map[string]int),
	}
}

func (m *mockCatalogRepo) GetCareer(_ context.Context, id string) (*model.Career, error) {
	if c, ok := m.careers[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) GetPeriod(_ context.Context, id string) (*model.Period, error) {
	if p, ok := m.periods[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) ListCareers(_ context.Context, activeOnly bool) ([]model.Career, error) {
	m.calls["ListCareers"]++
	var out []model.Career
	for _, c := range m.careers {
		if activeOnly && !c.Active() {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockCatalogRepo) ListPeriods(_ context.Context) ([]model.Period, error) {
	m.calls["ListPeriods"]++
	var out []model.Period
	for _, p := range m.periods {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodID > out[j].PeriodID })
	return out, nil
}

func (m *mockCatalogRepo) Roster(_ context.Context, _, _ string) ([]repository.RosterRow, error) {
	if m.rosterErr != nil {
		return nil, m.rosterErr
	}
	return m.roster, nil
}

func (m *mockCatalogRepo) GetTeacher(_ context.Context, id string) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) GetDistributivo(_ context.Context, id string) (*model.Distributivo, error) {
	for i := range m.distributivos {
		if m.distributivos[i].DistributivoID == id {
			d := m.distributivos[i]
			return &d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCatalogRepo) DistributivosByPeriod(_ context.Context, periodID string) ([]model.Distributivo, error) {
	var out []model.Distributivo
	for _, d := range m.distributivos {
		if d.PeriodID == periodID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) DistributivosByTeacher(_ context.Context, teacherID, periodID string) ([]model.Distributivo, error) {
	var out []model.Distributivo
	for _, d := range m.distributivos {
		if d.TeacherID == teacherID && d.PeriodID == periodID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) EnrollmentsByPeriod(_ context.Context, periodID string) ([]model.Enrollment, error) {
	var out []model.Enrollment
	for _, e := range m.enrollments {
		if e.PeriodID == periodID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ── Mock ScoreRepository ──

type mockScoreRepo struct {
	mu        sync.Mutex
	forms     map[string]float64 // key: distributivo|type
	authority map[string]float64 // key: teacher
	failFor   map[string]error   // key: distributivo
}

func newMockScoreRepo() *mockScoreRepo {
	return &mockScoreRepo{
		forms:     make(map[string]float64),
		authority: make(map[string]float64),
		failFor:   make(map[string]error),
	}
}

func (m *mockScoreRepo) FormAverage(_ context.Context, distributivoID, _ string, formType string) (*float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor[distributivoID]; err != nil {
		return nil, err
	}
	if v, ok := m.forms[distributivoID+"|"+formType]; ok {
		return &v, nil
	}
	return nil, nil
}

func (m *mockScoreRepo) AuthorityAverage(_ context.Context, teacherID, _ string) (*float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.authority[teacherID]; ok {
		return &v, nil
	}
	return nil, nil
}

// ── Mock FormRepository ──

type mockFormRepo struct {
	forms     map[uint]*model.Form
	questions *mockQuestionRepo
	completed map[uint]int64
	nextID    uint
}

func newMockFormRepo(questions *mockQuestionRepo) *mockFormRepo {
	return &mockFormRepo{
		forms:     make(map[uint]*model.Form),
		questions: questions,
		completed: make(map[uint]int64),
		nextID:    1,
	}
}

func (m *mockFormRepo) Create(_ context.Context, form *model.Form) error {
	if form.FormID == 0 {
		form.FormID = m.nextID
		m.nextID++
	}
	m.forms[form.FormID] = form
	return nil
}

func (m *mockFormRepo) GetByID(_ context.Context, id uint) (*model.Form, error) {
	if f, ok := m.forms[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFormRepo) GetWithQuestions(ctx context.Context, id uint) (*model.Form, error) {
	f, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := *f
	out.Questions, _ = m.questions.ListByForm(ctx, id)
	return &out, nil
}

func (m *mockFormRepo) ActiveFor(_ context.Context, periodID, formType string) (*model.Form, error) {
	var found *model.Form
	for _, f := range m.forms {
		if f.PeriodID == periodID && f.Type == formType && f.Active {
			if found == nil || f.FormID > found.FormID {
				found = f
			}
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return found, nil
}

func (m *mockFormRepo) List(_ context.Context, filter repository.FormFilter) ([]model.Form, error) {
	var out []model.Form
	for _, f := range m.forms {
		if filter.PeriodID != "" && f.PeriodID != filter.PeriodID {
			continue
		}
		if filter.Type != "" && f.Type != filter.Type {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FormID > out[j].FormID })
	return out, nil
}

func (m *mockFormRepo) Update(_ context.Context, form *model.Form) error {
	m.forms[form.FormID] = form
	return nil
}

func (m *mockFormRepo) Delete(_ context.Context, id uint) error {
	delete(m.forms, id)
	return nil
}

func (m *mockFormRepo) CountCompletedEvaluations(_ context.Context, id uint) (int64, error) {
	return m.completed[id], nil
}

// ── Mock QuestionRepository ──

type mockQuestionRepo struct {
	questions map[uint]*model.Question
	nextID    uint
}

func newMockQuestionRepo() *mockQuestionRepo {
	return &mockQuestionRepo{questions: make(map[uint]*model.Question), nextID: 1}
}

func (m *mockQuestionRepo) Create(_ context.Context, q *model.Question) error {
	if q.QuestionID == 0 {
		q.QuestionID = m.nextID
		m.nextID++
	}
	m.questions[q.QuestionID] = q
	return nil
}

func (m *mockQuestionRepo) GetByID(_ context.Context, id uint) (*model.Question, error) {
	if q, ok := m.questions[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuestionRepo) ListByForm(_ context.Context, formID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range m.questions {
		if q.FormID == formID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].QuestionID < out[j].QuestionID
	})
	return out, nil
}

func (m *mockQuestionRepo) Update(_ context.Context, q *model.Question) error {
	m.questions[q.QuestionID] = q
	return nil
}

func (m *mockQuestionRepo) Delete(_ context.Context, id uint) error {
	delete(m.questions, id)
	return nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct {
	evaluations map[uint]*model.Evaluation
	answers     []model.Answer
	forms       *mockFormRepo
	nextID      uint
}

func newMockEvaluationRepo(forms *mockFormRepo) *mockEvaluationRepo {
	return &mockEvaluationRepo{evaluations: make(map[uint]*model.Evaluation), forms: forms, nextID: 1}
}

func (m *mockEvaluationRepo) Create(_ context.Context, e *model.Evaluation) error {
	if e.EvaluationID == 0 {
		e.EvaluationID = m.nextID
		m.nextID++
	}
	m.evaluations[e.EvaluationID] = e
	return nil
}

func (m *mockEvaluationRepo) CreateIfAbsent(ctx context.Context, e *model.Evaluation) (bool, error) {
	for _, ex := range m.evaluations {
		if ex.FormID == e.FormID && ex.DistributivoID == e.DistributivoID && ex.EvaluatorID == e.EvaluatorID {
			return false, nil
		}
	}
	return true, m.Create(ctx, e)
}

func (m *mockEvaluationRepo) GetByID(ctx context.Context, id uint) (*model.Evaluation, error) {
	e, ok := m.evaluations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *e
	if f, err := m.forms.GetWithQuestions(ctx, e.FormID); err == nil {
		out.Form = f
	}
	for _, a := range m.answers {
		if a.EvaluationID == id {
			out.Answers = append(out.Answers, a)
		}
	}
	return &out, nil
}

func (m *mockEvaluationRepo) GetForUpdate(_ context.Context, id uint) (*model.Evaluation, error) {
	if e, ok := m.evaluations[id]; ok {
		out := *e
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) ListPending(_ context.Context, evaluatorID uint, periodID string) ([]model.Evaluation, error) {
	var out []model.Evaluation
	for _, e := range m.evaluations {
		if e.EvaluatorID != evaluatorID || e.Status != model.EvaluationPending {
			continue
		}
		if periodID != "" && e.PeriodID != periodID {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EvaluationID < out[j].EvaluationID })
	return out, nil
}

func (m *mockEvaluationRepo) MarkCompleted(_ context.Context, id uint, at time.Time) error {
	e, ok := m.evaluations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = model.EvaluationCompleted
	e.CompletedAt = &at
	return nil
}

func (m *mockEvaluationRepo) CreateAnswers(_ context.Context, answers []model.Answer) error {
	m.answers = append(m.answers, answers...)
	return nil
}

func (m *mockEvaluationRepo) Progress(_ context.Context, periodID string) ([]repository.ProgressRow, error) {
	counts := make(map[[2]string]int64)
	for _, e := range m.evaluations {
		if e.PeriodID != periodID {
			continue
		}
		f, ok := m.forms.forms[e.FormID]
		if !ok {
			continue
		}
		counts[[2]string{f.Type, e.Status}]++
	}
	var rows []repository.ProgressRow
	for k, n := range counts {
		rows = append(rows, repository.ProgressRow{FormType: k[0], Status: k[1], Total: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FormType != rows[j].FormType {
			return rows[i].FormType < rows[j].FormType
		}
		return rows[i].Status < rows[j].Status
	})
	return rows, nil
}

// ── Mock AuthorityEvaluationRepository ──

type mockAuthorityRepo struct {
	items  []model.AuthorityEvaluation
	nextID uint
}

func (m *mockAuthorityRepo) Upsert(_ context.Context, e *model.AuthorityEvaluation) error {
	for i := range m.items {
		it := &m.items[i]
		if it.TeacherID == e.TeacherID && it.PeriodID == e.PeriodID && it.AuthorityID == e.AuthorityID {
			it.Grade, it.Note, it.Status = e.Grade, e.Note, e.Status
			e.AuthorityEvaluationID = it.AuthorityEvaluationID
			return nil
		}
	}
	m.nextID++
	e.AuthorityEvaluationID = m.nextID
	m.items = append(m.items, *e)
	return nil
}

func (m *mockAuthorityRepo) ListByPeriod(_ context.Context, periodID, teacherID string) ([]model.AuthorityEvaluation, error) {
	var out []model.AuthorityEvaluation
	for _, it := range m.items {
		if it.PeriodID == periodID && (teacherID == "" || it.TeacherID == teacherID) {
			out = append(out, it)
		}
	}
	return out, nil
}

// ── Mock CoordinatorRepository ──

type mockCoordinatorRepo struct {
	items  map[uint]*model.CoordinatorAssignment
	nextID uint
}

func newMockCoordinatorRepo() *mockCoordinatorRepo {
	return &mockCoordinatorRepo{items: make(map[uint]*model.CoordinatorAssignment), nextID: 1}
}

func (m *mockCoordinatorRepo) Create(_ context.Context, a *model.CoordinatorAssignment) error {
	if a.AssignmentID == 0 {
		a.AssignmentID = m.nextID
		m.nextID++
	}
	m.items[a.AssignmentID] = a
	return nil
}

func (m *mockCoordinatorRepo) GetByID(_ context.Context, id uint) (*model.CoordinatorAssignment, error) {
	if a, ok := m.items[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCoordinatorRepo) Find(_ context.Context, userID uint, careerID, periodID string) (*model.CoordinatorAssignment, error) {
	for _, a := range m.items {
		if a.UserID == userID && a.CareerID == careerID && a.PeriodID == periodID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCoordinatorRepo) Update(_ context.Context, a *model.CoordinatorAssignment) error {
	m.items[a.AssignmentID] = a
	return nil
}

func (m *mockCoordinatorRepo) ListByPeriod(_ context.Context, periodID string) ([]model.CoordinatorAssignment, error) {
	var out []model.CoordinatorAssignment
	for _, a := range m.items {
		if a.PeriodID == periodID && a.Active {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignmentID < out[j].AssignmentID })
	return out, nil
}

func (m *mockCoordinatorRepo) ListActiveByUser(_ context.Context, userID uint) ([]model.CoordinatorAssignment, error) {
	var out []model.CoordinatorAssignment
	for _, a := range m.items {
		if a.UserID == userID && a.Active {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignmentID < out[j].AssignmentID })
	return out, nil
}

func (m *mockCoordinatorRepo) HasActive(_ context.Context, userID uint, careerID, periodID string) (bool, error) {
	for _, a := range m.items {
		if a.UserID == userID && a.CareerID == careerID && a.PeriodID == periodID && a.Active {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock token blacklist and cache ──

type mockBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = ttl
	return nil
}

func (m *mockBlacklist) ClaimToken(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.revoked[jti]; ok || ttl <= 0 {
		return false, nil
	}
	m.revoked[jti] = ttl
	return true, nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

type mockCache struct {
	values map[string]any
	sets   int
	err    error
}

func newMockCache() *mockCache {
	return &mockCache{values: make(map[string]any)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dest any) error {
	if m.err != nil {
		return m.err
	}
	v, ok := m.values[key]
	if !ok {
		return pkgredis.ErrCacheMiss
	}
	switch d := dest.(type) {
	case *[]dto.PeriodResponse:
		*d = v.([]dto.PeriodResponse)
	case *[]dto.CareerResponse:
		*d = v.([]dto.CareerResponse)
	}
	return nil
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sets++
	m.values[key] = value
	return nil
}

// ── fixture ──

type mocks struct {
	user        *mockUserRepo
	catalog     *mockCatalogRepo
	score       *mockScoreRepo
	form        *mockFormRepo
	question    *mockQuestionRepo
	evaluation  *mockEvaluationRepo
	authority   *mockAuthorityRepo
	coordinator *mockCoordinatorRepo
}

// newTestRepo repository aggregate over in-memory mocks; Transaction runs inline
func newTestRepo() (*repository.Repository, *mocks) {
	questions := newMockQuestionRepo()
	forms := newMockFormRepo(questions)
	m := &mocks{
		user:        newMockUserRepo(),
		catalog:     newMockCatalogRepo(),
		score:       newMockScoreRepo(),
		form:        forms,
		question:    questions,
		evaluation:  newMockEvaluationRepo(forms),
		authority:   &mockAuthorityRepo{},
		coordinator: newMockCoordinatorRepo(),
	}
	repo := &repository.Repository{
		Catalog:     m.catalog,
		Score:       m.score,
		User:        m.user,
		Form:        m.form,
		Question:    m.question,
		Evaluation:  m.evaluation,
		Authority:   m.authority,
		Coordinator: m.coordinator,
	}
	return repo, m
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }
