package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/mail"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/repository"
)

// ── User errors ──

var (
	ErrUserExists         = errors.New("ya existe un usuario con esa cédula o correo")
	ErrUserSelfRoleChange = errors.New("no puede cambiar su propio rol")
	ErrUserSelfDeactivate = errors.New("no puede desactivar su propia cuenta")
	ErrInvalidRole        = errors.New("rol no válido")
	ErrTeacherLinkMissing = errors.New("un docente debe estar vinculado a un id_docente")
	ErrStudentLinkMissing = errors.New("un estudiante debe estar vinculado a un id_estudiante")
)

// UserService account administration
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateUserRequest, callerID uint) (*dto.UserResponse, error)
	AssignRole(ctx context.Context, id uint, req *dto.AssignRoleRequest, callerID uint) error
	Deactivate(ctx context.Context, id uint, callerID uint) error
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error)
}

// ImportUserRow one parsed sheet row
type ImportUserRow struct {
	Row       int
	IDNumber  string
	Name      string
	Email     string
	Role      string
	TeacherID string
	StudentID string
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── CreateUser ──────────────────────

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	user := &model.User{
		IDNumber:           strings.TrimSpace(req.IDNumber),
		Name:               strings.TrimSpace(req.Name),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Role:               req.Role,
		TeacherID:          optional(req.TeacherID),
		StudentID:          optional(req.StudentID),
		MustChangePassword: true,
		Active:             true,
	}
	if err := validateLinks(user); err != nil {
		return nil, err
	}

	exists, err := s.repo.User.ExistsByIDNumberOrEmail(ctx, user.IDNumber, user.Email, 0)
	if err != nil {
		s.logger.Error("failed to check user uniqueness", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	tempPassword, err := s.setTempPassword(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.String("cedula", user.IDNumber), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created", zap.Uint("user_id", user.UserID), zap.String("role", user.Role))
	return &dto.CreateUserResponse{User: toUserResponse(user), TempPassword: tempPassword}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, repository.UserFilter{
		Role:    req.Role,
		Keyword: strings.TrimSpace(req.Keyword),
	}, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest, callerID uint) (*dto.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			exists, err := s.repo.User.ExistsByIDNumberOrEmail(ctx, "", email, user.UserID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrUserExists
			}
			user.Email = email
		}
	}
	if req.TeacherID != nil {
		user.TeacherID = optional(*req.TeacherID)
	}
	if req.StudentID != nil {
		user.StudentID = optional(*req.StudentID)
	}
	if req.Active != nil {
		if !*req.Active && id == callerID {
			return nil, ErrUserSelfDeactivate
		}
		user.Active = *req.Active
	}
	if err := validateLinks(user); err != nil {
		return nil, err
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to update user", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── AssignRole ──────────────────────

func (s *userService) AssignRole(ctx context.Context, id uint, req *dto.AssignRoleRequest, callerID uint) error {
	if id == callerID {
		return ErrUserSelfRoleChange
	}
	if !model.ValidRole(req.Role) {
		return ErrInvalidRole
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	user.Role = req.Role
	if err := validateLinks(user); err != nil {
		return err
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to change role", zap.Uint("user_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Deactivate ──────────────────────

func (s *userService) Deactivate(ctx context.Context, id uint, callerID uint) error {
	if id == callerID {
		return ErrUserSelfDeactivate
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	user.Active = false
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to deactivate user", zap.Uint("user_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 2000

var (
	ErrImportNoData      = errors.New("el archivo no contiene filas de datos (la primera fila es el encabezado)")
	ErrImportTooManyRows = fmt.Errorf("el archivo supera el máximo de %d filas", maxImportRows)
	ErrImportBadHeader   = errors.New("faltan columnas obligatorias en el encabezado (cedula/nombres/correo)")
	ErrImportBadFile     = errors.New("no se pudo leer el archivo Excel")
)

// ParseImportFile reads the first sheet of an .xlsx upload. Column order is free; headers are matched by name.
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	col := parseHeaderIndex(excelRows[0])
	if col[colIDNumber] < 0 || col[colName] < 0 || col[colEmail] < 0 {
		return nil, ErrImportBadHeader
	}

	get := func(row []string, key string) string {
		if idx := col[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		r := excelRows[i]
		item := ImportUserRow{
			Row:       i + 1,
			IDNumber:  get(r, colIDNumber),
			Name:      get(r, colName),
			Email:     get(r, colEmail),
			Role:      strings.ToLower(get(r, colRole)),
			TeacherID: get(r, colTeacher),
			StudentID: get(r, colStudent),
		}
		if item.IDNumber == "" && item.Name == "" && item.Email == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

const (
	colIDNumber = "cedula"
	colName     = "nombres"
	colEmail    = "correo"
	colRole     = "rol"
	colTeacher  = "id_docente"
	colStudent  = "id_estudiante"
)

var headerAliases = map[string]string{
	"cedula": colIDNumber, "cédula": colIDNumber,
	"nombres": colName, "nombre": colName,
	"correo": colEmail, "email": colEmail,
	"rol": colRole,
	"id_docente": colTeacher, "docente": colTeacher,
	"id_estudiante": colStudent, "estudiante": colStudent,
}

func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		colIDNumber: -1, colName: -1, colEmail: -1, colRole: -1, colTeacher: -1, colStudent: -1,
	}
	for i, h := range header {
		if key, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok && idx[key] < 0 {
			idx[key] = i
		}
	}
	return idx
}

// ────────────────────── ImportUsers ──────────────────────

// ImportUsers creates every valid row; failures are reported per row and do not stop the import
func (s *userService) ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error) {
	resp := &dto.ImportUserResponse{Total: len(rows)}
	seen := make(map[string]int)

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportUserError{Row: row, Reason: reason})
	}

	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		user, reason := importedUser(r)
		if reason != "" {
			fail(r.Row, reason)
			continue
		}
		if prev, dup := seen[user.IDNumber]; dup {
			fail(r.Row, fmt.Sprintf("cédula repetida en la fila %d", prev))
			continue
		}
		seen[user.IDNumber] = r.Row

		exists, err := s.repo.User.ExistsByIDNumberOrEmail(ctx, user.IDNumber, user.Email, 0)
		if err != nil {
			s.logger.Error("failed to check user uniqueness", zap.Int("row", r.Row), zap.Error(err))
			return nil, err
		}
		if exists {
			fail(r.Row, ErrUserExists.Error())
			continue
		}

		tempPassword, err := s.setTempPassword(user)
		if err != nil {
			return nil, err
		}
		if err := s.repo.User.Create(ctx, user); err != nil {
			s.logger.Warn("failed to import user", zap.Int("row", r.Row), zap.Error(err))
			fail(r.Row, "no se pudo guardar el usuario")
			continue
		}

		resp.Success++
		resp.Created = append(resp.Created, dto.ImportedUser{Row: r.Row, IDNumber: user.IDNumber, TempPassword: tempPassword})
	}

	s.logger.Info("user import finished",
		zap.Int("total", resp.Total), zap.Int("success", resp.Success), zap.Int("failed", resp.Failed))
	return resp, nil
}

// importedUser validates a sheet row; a non-empty reason rejects it
func importedUser(r ImportUserRow) (*model.User, string) {
	if r.IDNumber == "" || r.Name == "" || r.Email == "" {
		return nil, "cédula, nombres y correo son obligatorios"
	}
	if len(r.IDNumber) < 10 || len(r.IDNumber) > 13 || strings.Trim(r.IDNumber, "0123456789") != "" {
		return nil, "cédula no válida"
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return nil, "correo no válido"
	}

	role := r.Role
	if role == "" {
		switch {
		case r.TeacherID != "":
			role = model.RoleTeacher
		case r.StudentID != "":
			role = model.RoleStudent
		}
	}
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole.Error()
	}

	user := &model.User{
		IDNumber:           r.IDNumber,
		Name:               r.Name,
		Email:              strings.ToLower(r.Email),
		Role:               role,
		TeacherID:          optional(r.TeacherID),
		StudentID:          optional(r.StudentID),
		MustChangePassword: true,
		Active:             true,
	}
	if err := validateLinks(user); err != nil {
		return nil, err.Error()
	}
	return user, ""
}

// ── helpers ──

func (s *userService) load(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to load user", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) setTempPassword(user *model.User) (string, error) {
	tempPassword, err := generateTempPassword(10)
	if err != nil {
		s.logger.Error("failed to generate temporary password", zap.Error(err))
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return "", err
	}
	user.PasswordHash = string(hash)
	return tempPassword, nil
}

// validateLinks teachers need their institute teacher id, students their student id
func validateLinks(user *model.User) error {
	switch user.Role {
	case model.RoleTeacher:
		if user.TeacherID == nil {
			return ErrTeacherLinkMissing
		}
	case model.RoleStudent:
		if user.StudentID == nil {
			return ErrStudentLinkMissing
		}
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// generateTempPassword random password with at least one letter and one digit
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 4 {
		length = 8
	}

	pick := func(set string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
		if err != nil {
			return 0, err
		}
		return set[n.Int64()], nil
	}

	result := make([]byte, length)
	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// Fisher-Yates
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}
	return string(result), nil
}
