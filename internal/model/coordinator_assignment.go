package model

// CoordinatorAssignment coordinator responsible for a career in a period; local table asignaciones_coordinador
type CoordinatorAssignment struct {
	AssignmentID uint   `gorm:"column:id_asignacion;primaryKey;autoIncrement" json:"id"`
	UserID       uint   `gorm:"column:id_usuario;not null"                    json:"user_id"`
	CareerID     string `gorm:"column:id_carrera;size:20;not null"            json:"career_id"`
	PeriodID     string `gorm:"column:id_periodo;size:20;not null"            json:"period_id"`
	Active       bool   `gorm:"column:activo;not null;default:true"           json:"active"`
	CreatedBy    *uint  `gorm:"column:created_by"                             json:"created_by,omitempty"`
	Timestamps

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName local table name
func (CoordinatorAssignment) TableName() string { return "asignaciones_coordinador" }
