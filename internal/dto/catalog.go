package dto

// ── Catalog DTO ──

// PeriodResponse academic period
type PeriodResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Status    string `json:"status"`
}

// CareerResponse degree programme
type CareerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// CareerListRequest list filters
type CareerListRequest struct {
	ActiveOnly bool `form:"active"`
}

// RosterTeacherResponse one teacher of a career roster
type RosterTeacherResponse struct {
	AssignmentID string `json:"assignment_id"`
	TeacherID    string `json:"teacher_id"`
	FullName     string `json:"full_name"`
}
