package model

import "time"

// Period academic period; institute table periodos (read-only)
type Period struct {
	PeriodID  string     `gorm:"column:id_periodo;primaryKey" json:"id"`
	Name      string     `gorm:"column:nombre"                json:"name"`
	StartDate *time.Time `gorm:"column:fecha_inicio"          json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"column:fecha_fin"             json:"end_date,omitempty"`
	Status    string     `gorm:"column:estado"                json:"status"`
}

// TableName institute table name
func (Period) TableName() string { return "periodos" }
