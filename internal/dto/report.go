package dto

// ── Report DTO ──

// CareerReportRequest document download parameters
type CareerReportRequest struct {
	Start  int    `form:"start"  binding:"omitempty,min=1"`
	Format string `form:"format" binding:"omitempty,oneof=docx xlsx pdf"`
}

// TeacherResultsRequest own results
type TeacherResultsRequest struct {
	PeriodID string `form:"period_id" binding:"required,max=20"`
}

// ScoreResponse one aggregated teacher row, rounded to two decimals
type ScoreResponse struct {
	AssignmentID string   `json:"assignment_id"`
	TeacherID    string   `json:"teacher_id"`
	FullName     string   `json:"full_name"`
	Self         float64  `json:"self"`
	Hetero       float64  `json:"hetero"`
	Co           float64  `json:"co"`
	Authority    float64  `json:"authority"`
	Composite    float64  `json:"composite"`
	Status       string   `json:"status"`
	Missing      []string `json:"missing,omitempty"`
}

// CareerResultsResponse aggregated results of a career in a period
type CareerResultsResponse struct {
	CareerID   string          `json:"career_id"`
	CareerName string          `json:"career_name"`
	PeriodID   string          `json:"period_id"`
	Period     string          `json:"period"`
	Teachers   []ScoreResponse `json:"teachers"`
}

// TeacherResultsResponse a teacher's own results per assignment
type TeacherResultsResponse struct {
	TeacherID   string          `json:"teacher_id"`
	PeriodID    string          `json:"period_id"`
	Assignments []ScoreResponse `json:"assignments"`
}
