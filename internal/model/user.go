package model

// User login account; local table usuarios
type User struct {
	UserID             uint    `gorm:"column:id_usuario;primaryKey;autoIncrement" json:"id"`
	IDNumber           string  `gorm:"column:cedula;size:13;not null"              json:"cedula"`
	Name               string  `gorm:"column:nombres;size:150;not null"            json:"name"`
	Email              string  `gorm:"column:correo;size:150;not null"             json:"email"`
	PasswordHash       string  `gorm:"column:password_hash;not null"               json:"-"`
	Role               string  `gorm:"column:rol;size:20;not null"                 json:"role"`
	TeacherID          *string `gorm:"column:id_docente;size:20"                   json:"teacher_id,omitempty"`
	StudentID          *string `gorm:"column:id_estudiante;size:20"                json:"student_id,omitempty"`
	MustChangePassword bool    `gorm:"column:debe_cambiar_password;not null"       json:"must_change_password"`
	Active             bool    `gorm:"column:activo;not null;default:true"         json:"active"`
	Timestamps
}

// TableName local table name
func (User) TableName() string { return "usuarios" }

// TeacherRef institute teacher id or "" when the account is not a teacher
func (u *User) TeacherRef() string {
	if u.TeacherID == nil {
		return ""
	}
	return *u.TeacherID
}
