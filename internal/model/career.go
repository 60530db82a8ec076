package model

// Career status values in carreras.estado
const (
	CareerActive   = "ACTIVA"
	CareerInactive = "INACTIVA"
)

// Career degree programme; institute table carreras (read-only)
type Career struct {
	CareerID string `gorm:"column:id_carrera;primaryKey" json:"id"`
	Name     string `gorm:"column:nombre"                json:"name"`
	Status   string `gorm:"column:estado"                json:"status"`
}

// TableName institute table name
func (Career) TableName() string { return "carreras" }

// Active reports whether the career is currently offered
func (c Career) Active() bool { return c.Status == CareerActive }
