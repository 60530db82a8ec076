package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
)

// UserFilter optional list filters
type UserFilter struct {
	Role    string
	Keyword string // matches cédula, name or email
}

// UserRepository account data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	// GetByLogin looks the account up by cédula or email
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	ExistsByIDNumberOrEmail(ctx context.Context, idNumber, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]model.User, int64, error)
	// ByTeacherIDs active accounts linked to institute teachers, keyed by teacher id
	ByTeacherIDs(ctx context.Context, teacherIDs []string) (map[string]model.User, error)
	// ByStudentIDs active accounts linked to institute students, keyed by student id
	ByStudentIDs(ctx context.Context, studentIDs []string) (map[string]model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id_usuario = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("cedula = ? OR correo = ?", login, login).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ExistsByIDNumberOrEmail(ctx context.Context, idNumber, email string, excludeID uint) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.User{}).
		Where("(cedula = ? OR correo = ?)", idNumber, email)
	if excludeID != 0 {
		db = db.Where("id_usuario <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) List(ctx context.Context, filter UserFilter, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})
	if filter.Role != "" {
		db = db.Where("rol = ?", filter.Role)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("(cedula LIKE ? OR nombres LIKE ? OR correo LIKE ?)", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("nombres ASC").
		Find(&users).Error
	return users, total, err
}

func (r *userRepo) ByTeacherIDs(ctx context.Context, teacherIDs []string) (map[string]model.User, error) {
	out := make(map[string]model.User)
	if len(teacherIDs) == 0 {
		return out, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("id_docente IN ? AND activo = ?", teacherIDs, true).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[*u.TeacherID] = u
	}
	return out, nil
}

func (r *userRepo) ByStudentIDs(ctx context.Context, studentIDs []string) (map[string]model.User, error) {
	out := make(map[string]model.User)
	if len(studentIDs) == 0 {
		return out, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("id_estudiante IN ? AND activo = ?", studentIDs, true).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[*u.StudentID] = u
	}
	return out, nil
}
