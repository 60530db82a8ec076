package dto

// ── Evaluation DTO ──

// GenerateEvaluationsRequest bulk generation for a period
type GenerateEvaluationsRequest struct {
	PeriodID string `json:"period_id" binding:"required,max=20"`
}

// GenerateEvaluationsResponse generation summary
type GenerateEvaluationsResponse struct {
	Created       int `json:"created"`
	Existing      int `json:"existing"`
	SkippedNoUser int `json:"skipped_no_user"`
	SelfCreated   int `json:"self_created"`
	HeteroCreated int `json:"hetero_created"`
}

// CreateEvaluationRequest single evaluation, typically a co-evaluation
type CreateEvaluationRequest struct {
	FormID         uint   `json:"form_id"         binding:"required"`
	DistributivoID string `json:"distributivo_id" binding:"required,max=20"`
	EvaluatorID    uint   `json:"evaluator_id"    binding:"required"`
}

// PendingListRequest list filters
type PendingListRequest struct {
	PeriodID string `form:"period_id" binding:"omitempty,max=20"`
}

// AnswerRequest one answer; scale questions use Value, open questions use Text
type AnswerRequest struct {
	QuestionID uint    `json:"question_id" binding:"required"`
	Value      *int    `json:"value"       binding:"omitempty,min=0,max=5"`
	Text       *string `json:"text"        binding:"omitempty,max=4000"`
}

// SubmitEvaluationRequest complete answer set
type SubmitEvaluationRequest struct {
	Answers []AnswerRequest `json:"answers" binding:"required,min=1,dive"`
}

// AuthorityEvaluationRequest authority grade on a 0–100 scale
type AuthorityEvaluationRequest struct {
	TeacherID string   `json:"teacher_id" binding:"required,max=20"`
	PeriodID  string   `json:"period_id"  binding:"required,max=20"`
	Grade     *float64 `json:"grade"      binding:"required,min=0,max=100"`
	Note      *string  `json:"note"       binding:"omitempty,max=4000"`
}

// ProgressRequest period selector
type ProgressRequest struct {
	PeriodID string `form:"period_id" binding:"required,max=20"`
}

// EvaluationResponse evaluation summary
type EvaluationResponse struct {
	ID             uint   `json:"id"`
	FormID         uint   `json:"form_id"`
	FormName       string `json:"form_name,omitempty"`
	FormType       string `json:"form_type,omitempty"`
	PeriodID       string `json:"period_id"`
	DistributivoID string `json:"distributivo_id"`
	TeacherID      string `json:"teacher_id"`
	EvaluatorID    uint   `json:"evaluator_id"`
	Status         string `json:"status"`
	CompletedAt    string `json:"completed_at,omitempty"`
}

// EvaluationDetailResponse evaluation with its questions and any answers
type EvaluationDetailResponse struct {
	EvaluationResponse
	Questions []QuestionResponse `json:"questions"`
	Answers   []AnswerResponse   `json:"answers,omitempty"`
}

// AnswerResponse stored answer
type AnswerResponse struct {
	QuestionID uint    `json:"question_id"`
	Value      *int    `json:"value,omitempty"`
	Text       *string `json:"text,omitempty"`
}

// AuthorityEvaluationResponse stored authority grade
type AuthorityEvaluationResponse struct {
	ID          uint    `json:"id"`
	TeacherID   string  `json:"teacher_id"`
	PeriodID    string  `json:"period_id"`
	AuthorityID uint    `json:"authority_id"`
	Grade       float64 `json:"grade"`
	Note        string  `json:"note,omitempty"`
}

// ProgressResponse completion counts of a period
type ProgressResponse struct {
	PeriodID  string                   `json:"period_id"`
	ByType    []ProgressByTypeResponse `json:"by_type"`
	Pending   int64                    `json:"pending"`
	Completed int64                    `json:"completed"`
}

// ProgressByTypeResponse counts of one form type
type ProgressByTypeResponse struct {
	FormType  string  `json:"form_type"`
	Pending   int64   `json:"pending"`
	Completed int64   `json:"completed"`
	Percent   float64 `json:"percent"`
}
