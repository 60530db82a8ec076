package dto

// ── Coordinator DTO ──

// AssignCoordinatorRequest assign a coordinator to a career for a period
type AssignCoordinatorRequest struct {
	UserID   uint   `json:"user_id"   binding:"required"`
	CareerID string `json:"career_id" binding:"required,max=20"`
	PeriodID string `json:"period_id" binding:"required,max=20"`
}

// CoordinatorListRequest list filters
type CoordinatorListRequest struct {
	PeriodID string `form:"period_id" binding:"required,max=20"`
}

// CoordinatorAssignmentResponse assignment
type CoordinatorAssignmentResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	CareerID  string `json:"career_id"`
	PeriodID  string `json:"period_id"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at,omitempty"`
}
