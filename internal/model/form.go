package model

// Form types stored in formularios.tipo
const (
	FormTypeSelf   = "autoevaluacion"
	FormTypeHetero = "heteroevaluacion"
	FormTypeCo     = "coevaluacion"
)

// Question types stored in preguntas.tipo
const (
	QuestionScale = "escala"  // 0–5 ordinal answer
	QuestionOpen  = "abierta" // free text
)

// MaxScaleValue top of the ordinal answer scale
const MaxScaleValue = 5

// ValidFormType reports whether t is one of the three questionnaire types
func ValidFormType(t string) bool {
	switch t {
	case FormTypeSelf, FormTypeHetero, FormTypeCo:
		return true
	}
	return false
}

// Form evaluation questionnaire; local table formularios
type Form struct {
	FormID      uint    `gorm:"column:id_formulario;primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"column:nombre;size:200;not null"               json:"name"`
	Description *string `gorm:"column:descripcion"                            json:"description,omitempty"`
	Type        string  `gorm:"column:tipo;size:20;not null"                  json:"type"`
	PeriodID    string  `gorm:"column:id_periodo;size:20;not null"            json:"period_id"`
	Active      bool    `gorm:"column:activo;not null;default:true"           json:"active"`
	Timestamps

	Questions []Question `gorm:"foreignKey:FormID;references:FormID" json:"questions,omitempty"`
}

// TableName local table name
func (Form) TableName() string { return "formularios" }

// Question form item; local table preguntas
type Question struct {
	QuestionID uint   `gorm:"column:id_pregunta;primaryKey;autoIncrement" json:"id"`
	FormID     uint   `gorm:"column:id_formulario;not null"               json:"form_id"`
	Text       string `gorm:"column:texto;not null"                       json:"text"`
	Type       string `gorm:"column:tipo;size:10;not null"                json:"type"`
	Order      int    `gorm:"column:orden;not null"                       json:"order"`
	Timestamps
}

// TableName local table name
func (Question) TableName() string { return "preguntas" }
