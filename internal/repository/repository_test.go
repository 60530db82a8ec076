package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/report"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestCatalogRepo_Roster(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepo(db)

	mock.ExpectQuery(`SELECT d.id_distributivo AS assignment_id.*FROM distributivo d.*JOIN docentes doc.*WHERE d.id_carrera = \? AND d.id_periodo = \?`).
		WithArgs("7", "12").
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id", "teacher_id", "full_name"}).
			AddRow("30", "D1", "MORA  ANA").
			AddRow("31", "D1", "MORA  ANA").
			AddRow("40", "D2", "PAZ LUIS"))

	rows, err := repo.Roster(context.Background(), "7", "12")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, RosterRow{AssignmentID: "30", TeacherID: "D1", FullName: "MORA  ANA"}, rows[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_GetCareer_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepo(db)

	mock.ExpectQuery("SELECT \\* FROM `carreras` WHERE id_carrera = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id_carrera", "nombre", "estado"}))

	_, err := repo.GetCareer(context.Background(), "404")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCatalogRepo_GetCareer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepo(db)

	mock.ExpectQuery("SELECT \\* FROM `carreras` WHERE id_carrera = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id_carrera", "nombre", "estado"}).
			AddRow("7", "Desarrollo de Software", "ACTIVA"))

	career, err := repo.GetCareer(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Desarrollo de Software", career.Name)
	assert.True(t, career.Active())
}

func TestScoreRepo_FormAverage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoreRepo(db)

	mock.ExpectQuery(`SELECT AVG\(r.valor\) \* \?.*FROM respuestas r.*e.estado = \? AND f.tipo = \?`).
		WithArgs(report.ScaleFactor, "30", "12", model.EvaluationCompleted, model.FormTypeHetero).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow("84.0000"))

	avg, err := repo.FormAverage(context.Background(), "30", "12", model.FormTypeHetero)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 84.0, *avg, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepo_FormAverage_NoCompletedEvaluations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoreRepo(db)

	mock.ExpectQuery(`SELECT AVG\(r.valor\) \* \?`).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

	avg, err := repo.FormAverage(context.Background(), "30", "12", model.FormTypeSelf)
	require.NoError(t, err)
	assert.Nil(t, avg)
}

func TestScoreRepo_AuthorityAverage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoreRepo(db)

	mock.ExpectQuery(`SELECT AVG\(a.calificacion\).*FROM evaluaciones_autoridad a`).
		WithArgs("D1", "12", model.EvaluationCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(92.5))

	avg, err := repo.AuthorityAverage(context.Background(), "D1", "12")
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 92.5, *avg)
}

func TestScoreRepo_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoreRepo(db)

	mock.ExpectQuery(`SELECT AVG`).WillReturnError(errors.New("connection refused"))

	_, err := repo.AuthorityAverage(context.Background(), "D1", "12")
	assert.Error(t, err)
}

func TestUserRepo_GetByLogin(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT \\* FROM `usuarios` WHERE \\(?cedula = \\? OR correo = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id_usuario", "cedula", "nombres", "correo", "rol", "activo"}).
			AddRow(3, "0912345678", "Ana Mora", "ana@istla.edu.ec", "docente", true))

	user, err := repo.GetByLogin(context.Background(), "ana@istla.edu.ec")
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.UserID)
	assert.Equal(t, model.RoleTeacher, user.Role)
}

func TestUserRepo_ByTeacherIDs_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	out, err := repo.ByTeacherIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet(), "no query for an empty id list")
}

func TestEvaluationRepo_CreateIfAbsent_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEvaluationRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `evaluaciones`.*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	created, err := repo.CreateIfAbsent(context.Background(), &model.Evaluation{
		FormID: 1, PeriodID: "12", DistributivoID: "30", EvaluatedTeacher: "D1", EvaluatorID: 3,
		Status: model.EvaluationPending,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_TransactionWithoutConnection(t *testing.T) {
	repo := &Repository{}
	called := false

	err := repo.Transaction(context.Background(), func(tx *Repository) error {
		called = tx == repo
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRepository_TransactionRollback(t *testing.T) {
	institute, _ := newMockDB(t)
	local, mock := newMockDB(t)
	repo := NewRepository(institute, local)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := repo.Transaction(context.Background(), func(tx *Repository) error {
		assert.NotSame(t, repo, tx)
		assert.Same(t, repo.Catalog, tx.Catalog)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
