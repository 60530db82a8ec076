package dto

// ── Auth DTO ──

// LoginRequest login by cédula or email
type LoginRequest struct {
	Login    string `json:"login"    binding:"required,max=150"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest refresh token exchange
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest password change by the account owner
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password"     binding:"required,min=8,max=64"`
}
