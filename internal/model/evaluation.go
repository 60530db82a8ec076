package model

import "time"

// Evaluation status values
const (
	EvaluationPending   = "pendiente"
	EvaluationCompleted = "completada"
)

// Evaluation one evaluator filling one form about one teacher assignment; local table evaluaciones
type Evaluation struct {
	EvaluationID     uint       `gorm:"column:id_evaluacion;primaryKey;autoIncrement" json:"id"`
	FormID           uint       `gorm:"column:id_formulario;not null"                 json:"form_id"`
	PeriodID         string     `gorm:"column:id_periodo;size:20;not null"            json:"period_id"`
	DistributivoID   string     `gorm:"column:id_distributivo;size:20;not null"       json:"distributivo_id"`
	EvaluatedTeacher string     `gorm:"column:id_docente_evaluado;size:20;not null"   json:"teacher_id"`
	EvaluatorID      uint       `gorm:"column:id_evaluador;not null"                  json:"evaluator_id"`
	Status           string     `gorm:"column:estado;size:15;not null"                json:"status"`
	CompletedAt      *time.Time `gorm:"column:fecha_completada"                       json:"completed_at,omitempty"`
	Timestamps

	Form    *Form    `gorm:"foreignKey:FormID;references:FormID"             json:"form,omitempty"`
	Answers []Answer `gorm:"foreignKey:EvaluationID;references:EvaluationID" json:"answers,omitempty"`
}

// TableName local table name
func (Evaluation) TableName() string { return "evaluaciones" }

// Completed reports whether answers were already submitted
func (e *Evaluation) Completed() bool { return e.Status == EvaluationCompleted }

// Answer response to a single question; local table respuestas
type Answer struct {
	AnswerID     uint      `gorm:"column:id_respuesta;primaryKey;autoIncrement" json:"id"`
	EvaluationID uint      `gorm:"column:id_evaluacion;not null"                json:"evaluation_id"`
	QuestionID   uint      `gorm:"column:id_pregunta;not null"                  json:"question_id"`
	Value        *int      `gorm:"column:valor"                                 json:"value,omitempty"`
	Text         *string   `gorm:"column:texto"                                 json:"text,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"             json:"created_at"`
}

// TableName local table name
func (Answer) TableName() string { return "respuestas" }

// AuthorityEvaluation 0–100 grade given by an institutional authority; local table evaluaciones_autoridad
type AuthorityEvaluation struct {
	AuthorityEvaluationID uint    `gorm:"column:id_evaluacion_autoridad;primaryKey;autoIncrement" json:"id"`
	TeacherID             string  `gorm:"column:id_docente;size:20;not null"                      json:"teacher_id"`
	PeriodID              string  `gorm:"column:id_periodo;size:20;not null"                      json:"period_id"`
	AuthorityID           uint    `gorm:"column:id_autoridad;not null"                            json:"authority_id"`
	Grade                 float64 `gorm:"column:calificacion;not null"                            json:"grade"`
	Note                  *string `gorm:"column:observacion"                                      json:"note,omitempty"`
	Status                string  `gorm:"column:estado;size:15;not null"                          json:"status"`
	Timestamps
}

// TableName local table name
func (AuthorityEvaluation) TableName() string { return "evaluaciones_autoridad" }
