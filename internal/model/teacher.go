package model

import "strings"

// Teacher institute table docentes (read-only)
type Teacher struct {
	TeacherID       string `gorm:"column:id_docente;primaryKey" json:"id"`
	IDNumber        string `gorm:"column:cedula"               json:"cedula"`
	FirstSurname    string `gorm:"column:primer_apellido"      json:"first_surname"`
	SecondSurname   string `gorm:"column:segundo_apellido"     json:"second_surname,omitempty"`
	FirstGivenName  string `gorm:"column:primer_nombre"        json:"first_given_name"`
	SecondGivenName string `gorm:"column:segundo_nombre"       json:"second_given_name,omitempty"`
	Email           string `gorm:"column:correo"               json:"email"`
	AcademicTitle   string `gorm:"column:titulo"               json:"title,omitempty"`
}

// TableName institute table name
func (Teacher) TableName() string { return "docentes" }

// FullName surnames then given names, trimmed and single-spaced
func (t Teacher) FullName() string {
	return strings.Join(strings.Fields(strings.Join([]string{
		t.FirstSurname, t.SecondSurname, t.FirstGivenName, t.SecondGivenName,
	}, " ")), " ")
}

// Distributivo teacher-to-course assignment within a period; institute table distributivo
type Distributivo struct {
	DistributivoID string `gorm:"column:id_distributivo;primaryKey" json:"id"`
	TeacherID      string `gorm:"column:id_docente"                 json:"teacher_id"`
	PeriodID       string `gorm:"column:id_periodo"                 json:"period_id"`
	CareerID       string `gorm:"column:id_carrera"                 json:"career_id"`
	Subject        string `gorm:"column:asignatura"                 json:"subject"`
	Level          string `gorm:"column:nivel"                      json:"level"`
	Section        string `gorm:"column:paralelo"                   json:"section"`

	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName institute table name
func (Distributivo) TableName() string { return "distributivo" }

// Enrollment student enrolled in a distributivo; institute table matriculas
type Enrollment struct {
	EnrollmentID   string `gorm:"column:id_matricula;primaryKey" json:"id"`
	StudentID      string `gorm:"column:id_estudiante"           json:"student_id"`
	DistributivoID string `gorm:"column:id_distributivo"         json:"distributivo_id"`
	PeriodID       string `gorm:"column:id_periodo"              json:"period_id"`
}

// TableName institute table name
func (Enrollment) TableName() string { return "matriculas" }
