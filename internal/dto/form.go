package dto

// ── Form DTO ──

// FormListRequest list filters
type FormListRequest struct {
	PeriodID string `form:"period_id" binding:"omitempty,max=20"`
	Type     string `form:"type"      binding:"omitempty,oneof=autoevaluacion heteroevaluacion coevaluacion"`
}

// CreateFormRequest new questionnaire with optional initial questions
type CreateFormRequest struct {
	Name        string                  `json:"name"        binding:"required,min=3,max=200"`
	Description *string                 `json:"description" binding:"omitempty,max=2000"`
	Type        string                  `json:"type"        binding:"required,oneof=autoevaluacion heteroevaluacion coevaluacion"`
	PeriodID    string                  `json:"period_id"   binding:"required,max=20"`
	Questions   []CreateQuestionRequest `json:"questions"   binding:"omitempty,dive"`
}

// UpdateFormRequest partial update
type UpdateFormRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=3,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Active      *bool   `json:"active"`
}

// CreateQuestionRequest new question
type CreateQuestionRequest struct {
	Text  string `json:"text"  binding:"required,min=3,max=1000"`
	Type  string `json:"type"  binding:"required,oneof=escala abierta"`
	Order int    `json:"order" binding:"min=0"`
}

// UpdateQuestionRequest partial update
type UpdateQuestionRequest struct {
	Text  *string `json:"text"  binding:"omitempty,min=3,max=1000"`
	Type  *string `json:"type"  binding:"omitempty,oneof=escala abierta"`
	Order *int    `json:"order" binding:"omitempty,min=0"`
}

// FormResponse questionnaire
type FormResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type"`
	PeriodID    string             `json:"period_id"`
	Active      bool               `json:"active"`
	Questions   []QuestionResponse `json:"questions,omitempty"`
}

// QuestionResponse question
type QuestionResponse struct {
	ID     uint   `json:"id"`
	FormID uint   `json:"form_id"`
	Text   string `json:"text"`
	Type   string `json:"type"`
	Order  int    `json:"order"`
}
