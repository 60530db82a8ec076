package dto

// ── Auth responses ──

// TokenResponse token pair
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // access token lifetime in seconds
	User         UserResponse `json:"user"`
}

// ── User responses ──

// UserResponse account without secrets
type UserResponse struct {
	ID                 uint   `json:"id"`
	IDNumber           string `json:"cedula"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	TeacherID          string `json:"teacher_id,omitempty"`
	StudentID          string `json:"student_id,omitempty"`
	MustChangePassword bool   `json:"must_change_password"`
	Active             bool   `json:"active"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// ── Pagination ──

// PaginationRequest common paging parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage page number with default
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset row offset
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
