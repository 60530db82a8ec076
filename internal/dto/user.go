package dto

// ── User DTO ──

// UserListRequest list filters
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=admin coordinador autoridad docente estudiante"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateUserRequest new account; a temporary password is generated
type CreateUserRequest struct {
	IDNumber  string `json:"cedula"     binding:"required,min=10,max=13,numeric"`
	Name      string `json:"name"       binding:"required,min=3,max=150"`
	Email     string `json:"email"      binding:"required,email,max=150"`
	Role      string `json:"role"       binding:"required,oneof=admin coordinador autoridad docente estudiante"`
	TeacherID string `json:"teacher_id" binding:"omitempty,max=20"`
	StudentID string `json:"student_id" binding:"omitempty,max=20"`
}

// UpdateUserRequest partial update
type UpdateUserRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=3,max=150"`
	Email     *string `json:"email"      binding:"omitempty,email,max=150"`
	TeacherID *string `json:"teacher_id" binding:"omitempty,max=20"`
	StudentID *string `json:"student_id" binding:"omitempty,max=20"`
	Active    *bool   `json:"active"`
}

// AssignRoleRequest role change
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin coordinador autoridad docente estudiante"`
}

// CreateUserResponse created account with its one-time password
type CreateUserResponse struct {
	User         UserResponse `json:"user"`
	TempPassword string       `json:"temp_password"`
}

// ImportUserResponse bulk import summary
type ImportUserResponse struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Created []ImportedUser    `json:"created,omitempty"`
	Errors  []ImportUserError `json:"errors,omitempty"`
}

// ImportedUser one imported account and its temporary password
type ImportedUser struct {
	Row          int    `json:"row"`
	IDNumber     string `json:"cedula"`
	TempPassword string `json:"temp_password"`
}

// ImportUserError failure detail of one sheet row
type ImportUserError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
